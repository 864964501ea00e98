package cli

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the retrieval service connection, upload pacing
and the identity provider.

Settings are stored in config.toml inside the configuration directory.
The service URL can also be set per run with --api-url or DOCGPT_API_URL.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Long: `Change one setting by key. Run 'docgpt settings show' to list keys.

Examples:
  docgpt settings set service.base_url https://docgpt.example.com
  docgpt settings set upload.stage_delay 300ms
  docgpt settings set identity.scopes "openid,email"`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Walk through every setting, keeping the current value on an empty answer.`,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return fmt.Errorf("settings service %w", errNotConfigured)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Service]")
	cmd.Printf("  Base URL: %s\n", settings.Service.BaseURL)
	cmd.Printf("  Timeout: %s\n", settings.Service.Timeout)
	cmd.Printf("  Requests per second: %s\n", formatRate(settings.Service.RequestsPerSecond))
	cmd.Println()

	cmd.Println("[Upload]")
	cmd.Printf("  Stage delay: %s\n", settings.Upload.StageDelay)
	cmd.Println()

	cmd.Println("[Identity]")
	if !settings.Identity.IsConfigured() {
		cmd.Println("  Status: not configured (sign-in not required)")
	} else {
		cmd.Printf("  Client ID: %s\n", maskAPIKey(settings.Identity.ClientID))
		cmd.Printf("  Auth URL: %s\n", settings.Identity.AuthURL)
		cmd.Printf("  Token URL: %s\n", settings.Identity.TokenURL)
		cmd.Printf("  Scopes: %s\n", strings.Join(settings.Identity.Scopes, " "))
		port := "any free port"
		if settings.Identity.RedirectPort > 0 {
			port = strconv.Itoa(settings.Identity.RedirectPort)
		}
		cmd.Printf("  Redirect port: %s\n", port)
	}
	cmd.Println()

	cmd.Println("Keys: " + strings.Join(settingsService.Keys(), ", "))
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return fmt.Errorf("settings service %w", errNotConfigured)
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	cmd.Printf("%s updated.\n", key)
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return fmt.Errorf("settings service %w", errNotConfigured)
	}

	settings, err := settingsService.Get()
	if err != nil {
		defaults := settingsService.GetDefaults()
		settings = &defaults
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	cmd.Println("DocGPT Setup")
	cmd.Println("Press enter to keep the value in brackets.")
	cmd.Println()

	changed := 0
	for _, key := range settingsService.Keys() {
		current := settingValue(settings, key)
		cmd.Printf("%s [%s]: ", key, current)
		answer := readLine(reader)
		if answer == "" || answer == current {
			continue
		}
		if err := settingsService.Set(key, answer); err != nil {
			cmd.Printf("  skipped: %s\n", domain.UserMessage(err, err.Error()))
			continue
		}
		changed++
	}

	cmd.Println()
	cmd.Printf("Saved %d change(s).\n", changed)
	return nil
}

// settingValue renders the current value of key the way Set accepts it.
func settingValue(s *domain.AppSettings, key string) string {
	switch key {
	case "service.base_url":
		return s.Service.BaseURL
	case "service.timeout":
		return s.Service.Timeout.String()
	case "service.requests_per_second":
		return strconv.FormatFloat(s.Service.RequestsPerSecond, 'f', -1, 64)
	case "upload.stage_delay":
		return s.Upload.StageDelay.String()
	case "identity.client_id":
		return s.Identity.ClientID
	case "identity.auth_url":
		return s.Identity.AuthURL
	case "identity.token_url":
		return s.Identity.TokenURL
	case "identity.scopes":
		return strings.Join(s.Identity.Scopes, ",")
	case "identity.redirect_port":
		return strconv.Itoa(s.Identity.RedirectPort)
	}
	return ""
}

func formatRate(rps float64) string {
	if rps <= 0 {
		return "unlimited"
	}
	return strconv.FormatFloat(rps, 'f', -1, 64)
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
