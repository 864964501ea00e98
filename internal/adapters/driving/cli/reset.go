package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the index and the conversation",
	Long: `Asks the retrieval service to drop the indexed document. The local
conversation is cleared only when the service confirms.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return fmt.Errorf("session service %w", errNotConfigured)
	}

	if !resetYes {
		cmd.Print("Clear the indexed document? [y/N]: ")
		answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			cmd.Println("Cancelled.")
			return nil
		}
	}

	if err := sessionService.Reset(cmd.Context()); err != nil {
		return friendly(err, "Reset failed. Please try again.")
	}
	cmd.Println("Index cleared.")
	return nil
}
