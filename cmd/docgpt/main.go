// Command docgpt is a terminal client for a DocGPT retrieval service.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/docgpt-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docgpt-cli/internal/adapters/driven/docgpt"
	"github.com/custodia-labs/docgpt-cli/internal/adapters/driven/identity"
	"github.com/custodia-labs/docgpt-cli/internal/adapters/driven/inspect"
	"github.com/custodia-labs/docgpt-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docgpt-cli/internal/adapters/driven/watch"
	"github.com/custodia-labs/docgpt-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
	"github.com/custodia-labs/docgpt-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docgpt-cli/internal/core/services"
	"github.com/custodia-labs/docgpt-cli/internal/logger"
)

// Version info set via ldflags at build time.
var Version = "dev"

func main() {
	cli.SetVersion(Version)
	cli.SetFactory(buildServices)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildServices wires the driven adapters into the core services.
func buildServices(opts cli.Options) (*cli.Services, func(), error) {
	configDir := opts.ConfigDir
	if configDir == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return nil, nil, err
		}
		configDir = dir
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	if opts.APIURL != "" {
		settingsService.OverrideBaseURL(opts.APIURL)
	}

	settings, err := settingsService.Get()
	if err != nil {
		// Keep going with defaults so `settings set` can repair the file.
		logger.Warn("invalid settings, using defaults: %v", err)
		defaults := settingsService.GetDefaults()
		settings = &defaults
	}

	store, err := sqlite.NewStore(filepath.Join(configDir, "data"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open local store: %w", err)
	}

	authService := services.NewAuthService(identityProvider(settings.Identity), store.CredentialsStore())

	client := docgpt.NewClient(docgpt.Config{
		BaseURL:           settings.Service.BaseURL,
		Timeout:           settings.Service.Timeout,
		RequestsPerSecond: settings.Service.RequestsPerSecond,
	}, authService)

	history := store.HistoryStore()
	session := services.NewSession(client, authService)
	upload := services.NewUploadService(client, inspect.NewInspector(), session, history, settings.Upload.StageDelay)

	svc := &cli.Services{
		Session:  session,
		Upload:   upload,
		Exchange: services.NewExchangeService(session, client),
		Guard:    services.Guard{},
		Catalog:  services.NewCatalogService(client, history, client),
		Auth:     authService,
		Settings: settingsService,
		Watch:    services.NewWatchService(watch.NewWatcher(), upload),
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing local store: %v", err)
		}
	}
	return svc, cleanup, nil
}

// identityProvider returns nil (not a typed nil) when sign-in is off.
func identityProvider(settings domain.IdentitySettings) driven.IdentityProvider {
	p := identity.NewProvider(settings)
	if p == nil {
		return nil
	}
	return p
}
