package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/oguzhankoral/fcrm/internal/notify"
	"github.com/oguzhankoral/fcrm/internal/session"
	"github.com/oguzhankoral/fcrm/internal/tui"
	"github.com/oguzhankoral/fcrm/pkg/client"
)

var apiURL string

const defaultAPIURL = "http://localhost:8000"

var rootCmd = &cobra.Command{
	Use:   "fcrm",
	Short: "Terminal admin client for the franchise CRM",
	Long: `fcrm is a terminal client for the franchise CRM backend: franchises,
branches, monthly budgets and expenses.

Running fcrm with no subcommand starts the interactive UI.

Environment Variables:
  FCRM_API_URL  Backend API URL (default: http://localhost:8000)
  FCRM_HOME     Directory for the session file (default: ~/.fcrm)
  FCRM_DEBUG    When set, write UI debug logs to fcrm.log`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUI()
	},
}

// Execute runs the root command.
func Execute() error {
	// A .env in the working directory is optional.
	_ = godotenv.Load()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides FCRM_API_URL)")
}

// GetAPIURL returns the API URL from flag, env, or default, in that order.
func GetAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	if envURL := os.Getenv("FCRM_API_URL"); envURL != "" {
		return envURL
	}
	return defaultAPIURL
}

// newSession builds the API client and a session backed by the
// on-disk credential store, with any persisted credentials restored.
func newSession() (*session.Session, error) {
	dir, err := session.DefaultDir()
	if err != nil {
		return nil, err
	}
	s := session.New(client.New(GetAPIURL(), ""), session.NewFileStore(dir))
	if err := s.Restore(); err != nil {
		return nil, err
	}
	return s, nil
}

func runUI() error {
	if os.Getenv("FCRM_DEBUG") != "" {
		f, err := tea.LogToFile("fcrm.log", "debug")
		if err != nil {
			return fmt.Errorf("debug log: %w", err)
		}
		defer f.Close()
	}

	s, err := newSession()
	if err != nil {
		return err
	}
	queue := notify.New()

	p := tea.NewProgram(tui.NewApp(s, queue), tea.WithAltScreen())
	// Expired toasts need a redraw even when no key is pressed.
	queue.SetOnExpire(func(id string) {
		p.Send(tui.ToastExpiredMsg{ID: id})
	})

	_, err = p.Run()
	return err
}
