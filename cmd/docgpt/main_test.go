package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docgpt-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
)

func TestBuildServices(t *testing.T) {
	dir := t.TempDir()

	svc, cleanup, err := buildServices(cli.Options{ConfigDir: dir, APIURL: "http://docgpt.test:9000"})
	require.NoError(t, err)
	require.NotNil(t, cleanup)
	defer cleanup()

	assert.NotNil(t, svc.Session)
	assert.NotNil(t, svc.Upload)
	assert.NotNil(t, svc.Exchange)
	assert.NotNil(t, svc.Guard)
	assert.NotNil(t, svc.Catalog)
	assert.NotNil(t, svc.Auth)
	assert.NotNil(t, svc.Watch)

	settings, err := svc.Settings.Get()
	require.NoError(t, err)
	assert.Equal(t, "http://docgpt.test:9000", settings.Service.BaseURL)

	_, err = os.Stat(filepath.Join(dir, "data", "state.db"))
	assert.NoError(t, err)
}

func TestBuildServices_NoIdentityMeansSignedIn(t *testing.T) {
	svc, cleanup, err := buildServices(cli.Options{ConfigDir: t.TempDir()})
	require.NoError(t, err)
	defer cleanup()

	assert.True(t, svc.Auth.SignedIn(t.Context()))
	assert.False(t, svc.Auth.Status(t.Context()).Configured)
}

func TestIdentityProvider(t *testing.T) {
	assert.Nil(t, identityProvider(domain.IdentitySettings{}))

	p := identityProvider(domain.IdentitySettings{
		ClientID: "docgpt-cli",
		AuthURL:  "https://id.example.com/authorize",
		TokenURL: "https://id.example.com/token",
	})
	assert.NotNil(t, p)
}
