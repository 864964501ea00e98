package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
)

var uploadWatch bool

var uploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Upload and index a PDF document",
	Long: `Uploads a PDF to the retrieval service and waits until it is indexed.
Uploading replaces the current document and starts a new conversation.

With --watch the file is uploaded again every time it changes on disk,
until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().BoolVarP(&uploadWatch, "watch", "w", false, "re-upload the file whenever it changes")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if uploadService == nil {
		return fmt.Errorf("upload service %w", errNotConfigured)
	}
	path := args[0]
	out := cmd.OutOrStdout()

	if uploadWatch {
		return runUploadWatch(cmd, path)
	}

	state, err := uploadService.UploadAndActivate(cmd.Context(), path, progressPrinter(out))
	if err != nil {
		return friendly(err, domain.UploadFailedMessage)
	}
	printIndexed(out, state)
	return nil
}

func runUploadWatch(cmd *cobra.Command, path string) error {
	if watchService == nil {
		return fmt.Errorf("watch service %w", errNotConfigured)
	}
	out := cmd.OutOrStdout()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(out, "Watching %s for changes (Ctrl+C to stop)\n", path)
	return watchService.Watch(ctx, path, progressPrinter(out), func(state domain.IndexState, err error) {
		if err != nil {
			fmt.Fprintf(out, "Upload failed: %s\n", domain.UserMessage(err, domain.UploadFailedMessage))
			return
		}
		printIndexed(out, state)
	})
}

// progressPrinter prints one line per stage change.
func progressPrinter(out io.Writer) domain.ProgressListener {
	last := ""
	return func(p domain.UploadProgress) {
		if p.LastError != "" || p.Label == "" || p.Label == last {
			return
		}
		last = p.Label
		fmt.Fprintf(out, "[%3d%%] %s\n", p.Percent, p.Label)
	}
}

func printIndexed(out io.Writer, state domain.IndexState) {
	fmt.Fprintf(out, "Indexed %s (%d chunks)\n", state.DocumentName, state.TotalChunks)
	if len(state.SuggestedPrompts) > 0 {
		fmt.Fprintln(out, "Try asking:")
		for _, p := range state.SuggestedPrompts {
			fmt.Fprintf(out, "  - %s\n", strings.TrimSpace(p))
		}
	}
}
