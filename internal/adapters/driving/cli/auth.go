package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docgpt-cli/internal/adapters/driving/oauth"
	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
)

// signInTimeout bounds how long login waits for the browser redirect.
const signInTimeout = 5 * time.Minute

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Sign in to the retrieval service",
	Long: `Manage the identity used for requests to the retrieval service.

When an identity provider is configured (see 'docgpt settings'), every
command requires a signed-in user. Without one, a static access token may
still be stored and is sent with each request.

Examples:
  # Sign in through the browser
  docgpt auth login

  # Store an access token instead (read from the terminal, not echoed)
  docgpt auth login --token`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in",
	Args:  cobra.NoArgs,
	RunE:  runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove stored credentials",
	Args:  cobra.NoArgs,
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current sign-in state",
	Args:  cobra.NoArgs,
	RunE:  runAuthStatus,
}

var (
	authLoginToken     bool
	authLoginNoBrowser bool
)

func init() {
	authLoginCmd.Flags().BoolVar(&authLoginToken, "token", false, "read an access token from stdin instead of signing in")
	authLoginCmd.Flags().BoolVar(&authLoginNoBrowser, "no-browser", false, "print the sign-in URL without opening a browser")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return fmt.Errorf("auth service %w", errNotConfigured)
	}

	if authLoginToken {
		token, err := readSecret(cmd, "Access token: ")
		if err != nil {
			return err
		}
		if _, err := authService.SignInWithToken(cmd.Context(), token); err != nil {
			if errors.Is(err, domain.ErrInvalidInput) {
				return errors.New("access token must not be empty")
			}
			return fmt.Errorf("failed to store token: %w", err)
		}
		cmd.Println("Token saved.")
		return nil
	}

	return runBrowserSignIn(cmd)
}

//nolint:errcheck // best-effort server shutdown
func runBrowserSignIn(cmd *cobra.Command) error {
	ctx := cmd.Context()

	port := 0
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			port = settings.Identity.RedirectPort
		}
	}

	server := oauth.NewCallbackServer(port, "")
	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start callback server: %w", err)
	}
	defer server.Stop()

	flow, err := authService.StartSignIn(ctx, server.Port())
	if err != nil {
		if errors.Is(err, domain.ErrIdentityNotConfigured) {
			return errors.New("no identity provider configured; set identity.client_id, identity.auth_url " +
				"and identity.token_url with 'docgpt settings set', or use 'docgpt auth login --token'")
		}
		return fmt.Errorf("failed to start sign-in: %w", err)
	}
	server.Expect(flow.State)

	cmd.Println("Open this URL to sign in:")
	cmd.Println()
	cmd.Printf("  %s\n", flow.AuthURL)
	cmd.Println()
	if !authLoginNoBrowser {
		if err := oauth.OpenBrowser(flow.AuthURL); err != nil {
			cmd.Printf("Could not open a browser (%v); open the URL manually.\n", err)
		}
	}
	cmd.Println("Waiting for the redirect...")

	waitCtx, cancel := context.WithTimeout(ctx, signInTimeout)
	defer cancel()
	code, err := server.Wait(waitCtx)
	if err != nil {
		return fmt.Errorf("sign-in failed: %w", err)
	}

	creds, err := authService.CompleteSignIn(ctx, flow, code)
	if err != nil {
		return fmt.Errorf("sign-in failed: %w", err)
	}
	if creds.AccountIdentifier != "" {
		cmd.Printf("Signed in as %s.\n", creds.AccountIdentifier)
	} else {
		cmd.Println("Signed in.")
	}
	return nil
}

func runAuthLogout(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return fmt.Errorf("auth service %w", errNotConfigured)
	}
	if err := authService.SignOut(cmd.Context()); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}
	cmd.Println("Signed out.")
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return fmt.Errorf("auth service %w", errNotConfigured)
	}

	status := authService.Status(cmd.Context())
	if status.Configured {
		cmd.Println("Identity provider: configured")
	} else {
		cmd.Println("Identity provider: none (sign-in not required)")
	}
	if status.SignedIn && status.Method != "none" {
		cmd.Printf("Signed in:         yes (%s)\n", status.Method)
	} else if status.SignedIn {
		cmd.Println("Signed in:         yes")
	} else {
		cmd.Println("Signed in:         no")
	}
	if status.Account != "" {
		cmd.Printf("Account:           %s\n", status.Account)
	}
	return nil
}

// readSecret reads one line without echo when stdin is a terminal.
func readSecret(cmd *cobra.Command, prompt string) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		cmd.Print(prompt)
		b, err := term.ReadPassword(int(f.Fd()))
		cmd.Println()
		if err != nil {
			return "", fmt.Errorf("failed to read token: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return strings.TrimSpace(line), nil
}
