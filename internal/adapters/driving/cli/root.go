// Package cli provides the cobra command tree for docgpt.
// It is a driving adapter: every command forwards to a driving port.
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
	"github.com/custodia-labs/docgpt-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docgpt-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// skipServices marks commands that run without the service graph.
const skipServices = "skip-services"

const signedOutMessage = "You are signed out. Run `docgpt auth login` to continue."

// errNotConfigured is returned when a command's service was not wired.
var errNotConfigured = errors.New("not configured")

// Options holds the persistent flags handed to the Factory.
type Options struct {
	// Verbose enables debug logging on stderr.
	Verbose bool

	// APIURL overrides the configured service URL for this run.
	APIURL string

	// ConfigDir overrides ~/.docgpt.
	ConfigDir string
}

// Services holds the driving ports the commands call.
type Services struct {
	Session  driving.SessionService
	Upload   driving.UploadService
	Exchange driving.ExchangeService
	Guard    driving.NavigationGuard
	Catalog  driving.CatalogService
	Auth     driving.AuthService
	Settings driving.SettingsService
	Watch    driving.WatchService
}

// Factory builds the services once flags are parsed. The returned cleanup
// runs after the command finishes.
type Factory func(opts Options) (*Services, func(), error)

var (
	options Options
	factory Factory
	cleanup func()

	sessionService  driving.SessionService
	uploadService   driving.UploadService
	exchangeService driving.ExchangeService
	navigationGuard driving.NavigationGuard
	catalogService  driving.CatalogService
	authService     driving.AuthService
	settingsService driving.SettingsService
	watchService    driving.WatchService
)

var rootCmd = &cobra.Command{
	Use:   "docgpt",
	Short: "Chat with your PDF documents",
	Long: `docgpt uploads a PDF to a DocGPT retrieval service and answers questions
grounded in its content, with page citations.

Get started:
  docgpt upload report.pdf
  docgpt ask "What are the key takeaways?"
  docgpt chat`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if cleanup != nil {
			cleanup()
			cleanup = nil
		}
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&options.Verbose, "verbose", "v", false, "print debug logs to stderr")
	flags.StringVar(&options.APIURL, "api-url", "", "retrieval service URL (overrides config and DOCGPT_API_URL)")
	flags.StringVar(&options.ConfigDir, "config-dir", "", "configuration directory (default ~/.docgpt)")
}

// setup applies global flags and builds the services on first use.
func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(options.Verbose)
	if factory == nil || cmd.Annotations[skipServices] == "true" {
		return nil
	}

	svc, done, err := factory(options)
	if err != nil {
		return err
	}
	SetServices(svc)
	cleanup = done
	return nil
}

// userError prints the user-facing text for err while keeping it
// inspectable with errors.Is/As.
type userError struct {
	msg string
	err error
}

func (e *userError) Error() string { return e.msg }
func (e *userError) Unwrap() error { return e.err }

// friendly converts err into what the user should read.
func friendly(err error, fallback string) error {
	logger.Debug("%v", err)
	if errors.Is(err, domain.ErrAuthRequired) || errors.Is(err, domain.ErrAuthExpired) {
		return &userError{msg: signedOutMessage, err: err}
	}
	return &userError{msg: domain.UserMessage(err, fallback), err: err}
}

// SetFactory registers the constructor for the service graph.
func SetFactory(f Factory) {
	factory = f
}

// SetServices wires the driving ports directly, bypassing the Factory.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	sessionService = s.Session
	uploadService = s.Upload
	exchangeService = s.Exchange
	navigationGuard = s.Guard
	catalogService = s.Catalog
	authService = s.Auth
	settingsService = s.Settings
	watchService = s.Watch
}

// SetVersion sets the version reported by `docgpt version`.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
