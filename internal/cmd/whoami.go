package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oguzhankoral/fcrm/pkg/client"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user and verify the token",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		s, err := newSession()
		if err != nil {
			return err
		}
		if !s.Authenticated() {
			fmt.Println("Not logged in")
			os.Exit(1)
		}
		if err := s.Client().Verify(ctx); err != nil {
			fmt.Fprintln(os.Stderr, client.Detail(err, "Session is no longer valid; run fcrm login"))
			os.Exit(1)
		}
		fmt.Println(s.Username())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
