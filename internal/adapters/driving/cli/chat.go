package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation about the indexed document",
	Long: `Reads questions line by line and answers each one in turn.
Earlier questions and answers are sent along as conversation history.

Commands:
  /reset   clear the index and start over
  /quit    leave the conversation
  1-9      ask a suggested question (before the first question)`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

// errNoDocument is returned when chat is opened before anything is indexed.
var errNoDocument = errors.New("no document indexed yet; run `docgpt upload <file>` first")

func runChat(cmd *cobra.Command, _ []string) error {
	if sessionService == nil || exchangeService == nil || navigationGuard == nil {
		return fmt.Errorf("chat services %w", errNotConfigured)
	}
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	state := sessionService.Initialize(ctx)
	switch navigationGuard.Resolve(guardState(ctx, state), domain.LocationChat) {
	case domain.LocationChat:
	case domain.LocationUpload:
		return errNoDocument
	default:
		return friendly(domain.ErrAuthRequired, signedOutMessage)
	}

	prompts := state.SuggestedPrompts
	if len(prompts) == 0 {
		prompts = domain.DefaultSuggestedPrompts()
	}
	fmt.Fprintf(out, "Chatting with %s (%d chunks). Type /quit to exit.\n", state.DocumentName, state.TotalChunks)
	fmt.Fprintln(out, "Try one of these:")
	for i, p := range prompts {
		fmt.Fprintf(out, "  %d. %s\n", i+1, p)
	}

	in := cmd.InOrStdin()
	interactive := isTerminal(in)
	scanner := bufio.NewScanner(in)
	for {
		if interactive {
			fmt.Fprint(out, "\n> ")
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue
		case line == "/quit" || line == "/exit":
			return nil
		case line == "/reset":
			if err := sessionService.Reset(ctx); err != nil {
				fmt.Fprintf(out, "Reset failed: %s\n", friendly(err, "Please try again."))
				continue
			}
			fmt.Fprintln(out, "Index cleared. Upload a new document to continue.")
			return nil
		}

		if q, ok := suggestedPrompt(line, prompts, len(sessionService.Transcript())); ok {
			line = q
			fmt.Fprintf(out, "> %s\n", q)
		}
		chatTurn(ctx, out, line)
	}
}

// chatTurn asks one question and prints the reply. Failures are printed
// rather than returned so the conversation continues.
func chatTurn(ctx context.Context, out io.Writer, question string) {
	reply, err := exchangeService.Ask(ctx, question)
	switch {
	case reply != nil:
		fmt.Fprintln(out)
		printAnswer(out, reply)
	case err != nil:
		fmt.Fprintln(out, friendly(err, domain.AskFailedMessage))
	}
}

// suggestedPrompt maps "1".."9" onto a suggested question while the
// conversation is still empty.
func suggestedPrompt(line string, prompts []string, transcriptLen int) (string, bool) {
	if transcriptLen > 0 || len(line) != 1 {
		return "", false
	}
	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > len(prompts) {
		return "", false
	}
	return prompts[n-1], true
}

// guardState reports what the navigation guard needs to know.
func guardState(ctx context.Context, state domain.IndexState) domain.GuardState {
	signedIn := authService == nil || authService.SignedIn(ctx)
	return domain.GuardState{SignedIn: signedIn, Indexed: state.Indexed}
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
