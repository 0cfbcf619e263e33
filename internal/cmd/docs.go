package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oguzhankoral/fcrm/internal/browser"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Open the backend API docs in a browser",
	RunE: func(cmd *cobra.Command, args []string) error {
		url := GetAPIURL() + "/docs"
		if err := browser.Open(url); err != nil {
			return fmt.Errorf("open %s: %w", url, err)
		}
		fmt.Printf("Opened %s\n", url)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(docsCmd)
}
