package file

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_CreatesNestedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	_, err := NewConfigStore(dir)

	require.NoError(t, err)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestDefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot determine home directory")
	}

	dir, err := DefaultDir()

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".docgpt"), dir)
}

func TestConfigStore_WritesTables(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("service.base_url", "http://localhost:8000"))
	require.NoError(t, store.Set("service.timeout", "5m"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[service]")
	assert.Contains(t, string(data), "base_url =")
	assert.Contains(t, string(data), "http://localhost:8000")
}

func TestConfigStore_Persistence(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("service.base_url", "http://docs.internal"))
	require.NoError(t, store.Set("service.requests_per_second", 2.5))
	require.NoError(t, store.Set("identity.redirect_port", 18080))
	require.NoError(t, store.Set("identity.scopes", []string{"openid", "email"}))

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://docs.internal", reopened.GetString("service.base_url"))
	assert.InDelta(t, 2.5, reopened.GetFloat("service.requests_per_second"), 1e-9)
	assert.Equal(t, 18080, reopened.GetInt("identity.redirect_port"))
	assert.InDelta(t, 18080.0, reopened.GetFloat("identity.redirect_port"), 1e-9)
	assert.Equal(t, []string{"openid", "email"}, reopened.GetStringSlice("identity.scopes"))
}

func TestConfigStore_ReadsHandWrittenFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[service]
base_url = "https://docs.example.com"
requests_per_second = 3

[upload]
stage_delay = "0s"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o600))

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.Equal(t, "https://docs.example.com", store.GetString("service.base_url"))
	assert.InDelta(t, 3.0, store.GetFloat("service.requests_per_second"), 1e-9)
	assert.Equal(t, "0s", store.GetString("upload.stage_delay"))
}

func TestConfigStore_TypeMismatch(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("n", int64(4)))

	assert.Empty(t, store.GetString("n"))
	assert.Nil(t, store.GetStringSlice("n"))
	assert.Zero(t, store.GetInt("missing"))
	assert.Zero(t, store.GetFloat("missing"))
}

func TestConfigStore_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), nil, 0o600))

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	_, ok := store.Get("anything")
	assert.False(t, ok)
}

func TestNewConfigStore_CorruptedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[[[ not toml"), 0o600))

	_, err := NewConfigStore(dir)

	assert.Error(t, err)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permissions differ on windows")
	}
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("k", "v"))

	info, err := os.Stat(store.Path())

	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestConfigStore_SetRollsBackOnWriteFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permissions differ on windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, os.Chmod(dir, 0o500))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o700) })

	err = store.Set("k", "v")

	assert.Error(t, err)
	_, ok := store.Get("k")
	assert.False(t, ok)
}

func TestNestMap(t *testing.T) {
	nested := nestMap(map[string]any{
		"service.base_url": "u",
		"service.timeout":  "5m",
		"top":              1,
		"top.child":        2,
	})

	service, ok := nested["service"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "u", service["base_url"])
	assert.Equal(t, "5m", service["timeout"])
	assert.Equal(t, 1, nested["top"])
	assert.Equal(t, 2, nested["top.child"])
}

func TestFlattenMap(t *testing.T) {
	flat := flattenMap(map[string]any{
		"a": map[string]any{"b": map[string]any{"c": 1}},
		"d": "x",
	}, "")

	assert.Equal(t, map[string]any{"a.b.c": 1, "d": "x"}, flat)
}
