package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the indexed document",
	Long: `Sends one question to the retrieval service and prints the answer.
Page citations are shown when the answer is grounded in the document.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

// answerJSON is the --json shape of an assistant reply.
type answerJSON struct {
	Answer     string       `json:"answer"`
	Grounded   bool         `json:"grounded"`
	Confidence *float64     `json:"confidence,omitempty"`
	Sources    []sourceJSON `json:"sources,omitempty"`
}

type sourceJSON struct {
	Page *int   `json:"page,omitempty"`
	Text string `json:"text"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	if exchangeService == nil {
		return fmt.Errorf("exchange service %w", errNotConfigured)
	}

	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return fmt.Errorf("question must not be empty")
	}

	reply, err := exchangeService.Ask(cmd.Context(), question)
	if err != nil {
		return friendly(err, domain.AskFailedMessage)
	}

	if askJSON {
		return outputAnswerJSON(cmd.OutOrStdout(), reply)
	}
	printAnswer(cmd.OutOrStdout(), reply)
	return nil
}

func outputAnswerJSON(out io.Writer, reply *domain.Message) error {
	payload := answerJSON{
		Answer:   reply.Content,
		Grounded: reply.HasGroundedAnswer,
	}
	if reply.ShowCitations() {
		payload.Confidence = reply.Confidence
		for _, src := range reply.Sources {
			payload.Sources = append(payload.Sources, sourceJSON{Page: src.Page, Text: src.Text})
		}
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}

// printAnswer writes the reply followed by its citations, if any.
func printAnswer(out io.Writer, reply *domain.Message) {
	fmt.Fprintln(out, reply.Content)
	if !reply.ShowCitations() {
		return
	}

	fmt.Fprintln(out)
	if reply.Confidence != nil {
		fmt.Fprintf(out, "Confidence: %.0f%%\n", *reply.Confidence*100)
	}
	fmt.Fprintln(out, "Sources:")
	for i, src := range reply.Sources {
		excerpt := src.Excerpt(domain.ExcerptLength)
		if src.Page != nil {
			fmt.Fprintf(out, "  [%d] p. %d: %s\n", i+1, *src.Page, excerpt)
		} else {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, excerpt)
		}
	}
}
