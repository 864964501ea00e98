package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
)

var documentsCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"docs"},
	Short:   "Manage the document history",
	Long: `List and delete documents the retrieval service has indexed before.
The history is independent of the current conversation.`,
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List previously indexed documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentsList,
}

var documentsDeleteCmd = &cobra.Command{
	Use:   "delete [document-id]",
	Short: "Delete a document from the history",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsDelete,
}

var documentsHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show uploads made from this machine",
	Args:  cobra.NoArgs,
	RunE:  runDocumentsHistory,
}

var (
	documentsFilter string
	documentsJSON   bool
	historyLimit    int
)

func init() {
	documentsListCmd.Flags().StringVarP(&documentsFilter, "filter", "f", "", "only show names containing this text")
	documentsListCmd.Flags().BoolVar(&documentsJSON, "json", false, "output as JSON")
	documentsHistoryCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of uploads to show")

	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsDeleteCmd)
	documentsCmd.AddCommand(documentsHistoryCmd)
	rootCmd.AddCommand(documentsCmd)
}

// entryJSON is the --json shape of a catalog entry.
type entryJSON struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	UploadDate time.Time `json:"upload_date"`
	PageCount  *int      `json:"page_count,omitempty"`
	ChunkCount int       `json:"chunk_count"`
	Status     string    `json:"status"`
}

func runDocumentsList(cmd *cobra.Command, _ []string) error {
	if catalogService == nil {
		return fmt.Errorf("catalog service %w", errNotConfigured)
	}

	entries, err := catalogService.List(cmd.Context(), documentsFilter)
	if err != nil {
		return friendly(err, "Could not load documents.")
	}

	if documentsJSON {
		out := make([]entryJSON, len(entries))
		for i, e := range entries {
			out[i] = entryJSON{
				ID:         e.ID,
				Name:       e.Name,
				UploadDate: e.UploadDate,
				PageCount:  e.PageCount,
				ChunkCount: e.ChunkCount,
				Status:     string(e.Status),
			}
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal documents: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(entries) == 0 {
		cmd.Println("No documents yet.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tUPLOADED\tPAGES\tCHUNKS\tSTATUS")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			e.ID, e.Name, formatDate(e.UploadDate), formatPages(e.PageCount), e.ChunkCount, formatStatus(e))
	}
	return w.Flush()
}

func runDocumentsDelete(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return fmt.Errorf("catalog service %w", errNotConfigured)
	}

	id := args[0]
	if err := catalogService.Delete(cmd.Context(), id); err != nil {
		return friendly(err, "Could not delete the document.")
	}
	cmd.Printf("Deleted document %s\n", id)
	return nil
}

func runDocumentsHistory(cmd *cobra.Command, _ []string) error {
	if catalogService == nil {
		return fmt.Errorf("catalog service %w", errNotConfigured)
	}

	records, err := catalogService.History(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to load upload history: %w", err)
	}
	if len(records) == 0 {
		cmd.Println("No uploads recorded.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "UPLOADED\tNAME\tCHUNKS\tPATH")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
			r.UploadedAt.Local().Format(time.DateTime), r.DocumentName, r.ChunksCreated, r.LocalPath)
	}
	return w.Flush()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.DateOnly)
}

func formatPages(p *int) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *p)
}

func formatStatus(e domain.CatalogEntry) string {
	if e.IsActive() {
		return "● active"
	}
	return string(e.Status)
}
