package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/oguzhankoral/fcrm/pkg/client"
)

var loginUsername string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate and store the session token",
	Long:  `Log in to the backend and persist the token, so the UI and other commands start authenticated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		return runLogin(ctx)
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username (prompted when omitted)")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(ctx context.Context) error {
	username := strings.TrimSpace(loginUsername)
	var password string

	var fields []huh.Field
	if username == "" {
		fields = append(fields, huh.NewInput().
			Title("Username").
			Value(&username).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("Username is required")
				}
				return nil
			}))
	}
	fields = append(fields, huh.NewInput().
		Title("Password").
		EchoMode(huh.EchoModePassword).
		Value(&password).
		Validate(func(s string) error {
			if s == "" {
				return fmt.Errorf("Password is required")
			}
			return nil
		}))

	if err := huh.NewForm(huh.NewGroup(fields...)).RunWithContext(ctx); err != nil {
		return err
	}

	s, err := newSession()
	if err != nil {
		return err
	}
	if err := s.Login(ctx, strings.TrimSpace(username), password); err != nil {
		fmt.Fprintln(os.Stderr, client.Detail(err, "Invalid credentials"))
		os.Exit(1)
	}
	fmt.Printf("Logged in as %s\n", s.Username())
	return nil
}
