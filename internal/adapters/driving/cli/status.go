package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the indexed document and service health",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return fmt.Errorf("session service %w", errNotConfigured)
	}
	ctx := cmd.Context()

	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			cmd.Printf("Service:  %s\n", settings.Service.BaseURL)
		}
	}
	if catalogService != nil {
		if err := catalogService.Health(ctx); err != nil {
			cmd.Printf("Health:   unreachable (%v)\n", err)
		} else {
			cmd.Println("Health:   ok")
		}
	}

	if authService != nil {
		auth := authService.Status(ctx)
		switch {
		case !auth.Configured && auth.Method == "none":
			cmd.Println("Auth:     not required")
		case auth.SignedIn:
			account := auth.Account
			if account == "" {
				account = auth.Method
			}
			cmd.Printf("Auth:     signed in (%s)\n", account)
		default:
			cmd.Println("Auth:     signed out")
		}
	}

	state := sessionService.Initialize(ctx)
	if !state.Indexed {
		cmd.Println("Document: none indexed")
		return nil
	}
	cmd.Printf("Document: %s\n", state.DocumentName)
	cmd.Printf("Chunks:   %d\n", state.TotalChunks)
	if !state.IndexedAt.IsZero() {
		cmd.Printf("Indexed:  %s\n", state.IndexedAt.Local().Format(time.DateTime))
	}
	return nil
}
