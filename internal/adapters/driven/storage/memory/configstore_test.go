package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("service.base_url", "http://localhost:8000"))

	val, ok := store.Get("service.base_url")
	assert.True(t, ok)
	assert.Equal(t, "http://localhost:8000", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_GetString_WrongType(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("port", 8080)

	assert.Empty(t, store.GetString("port"))
	assert.Empty(t, store.GetString("missing"))
}

func TestConfigStore_GetInt(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("a", 42)
	_ = store.Set("b", int64(7))
	_ = store.Set("c", 3.9)
	_ = store.Set("d", "12")

	assert.Equal(t, 42, store.GetInt("a"))
	assert.Equal(t, 7, store.GetInt("b"))
	assert.Equal(t, 3, store.GetInt("c"))
	assert.Zero(t, store.GetInt("d"))
}

func TestConfigStore_GetFloat(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("rate", 2.5)
	_ = store.Set("whole", 3)
	_ = store.Set("wide", int64(4))
	_ = store.Set("text", "1.5")

	assert.InDelta(t, 2.5, store.GetFloat("rate"), 1e-9)
	assert.InDelta(t, 3.0, store.GetFloat("whole"), 1e-9)
	assert.InDelta(t, 4.0, store.GetFloat("wide"), 1e-9)
	assert.Zero(t, store.GetFloat("text"))
	assert.Zero(t, store.GetFloat("missing"))
}

func TestConfigStore_GetStringSlice(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("scopes", []string{"openid", "email"})
	_ = store.Set("mixed", []any{"openid", 1, "profile"})

	assert.Equal(t, []string{"openid", "email"}, store.GetStringSlice("scopes"))
	assert.Equal(t, []string{"openid", "profile"}, store.GetStringSlice("mixed"))
	assert.Nil(t, store.GetStringSlice("missing"))
}

func TestConfigStore_GetStringSlice_ReturnsCopy(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("scopes", []string{"openid"})

	got := store.GetStringSlice("scopes")
	got[0] = "changed"

	assert.Equal(t, []string{"openid"}, store.GetStringSlice("scopes"))
}

func TestConfigStore_NoOps(t *testing.T) {
	store := NewConfigStore()

	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup

	for i := range 20 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := "key-" + string(rune('a'+id%5))
			_ = store.Set(key, id)
			_ = store.GetInt(key)
			_ = store.GetFloat(key)
		}(i)
	}
	wg.Wait()

	_, ok := store.Get("key-a")
	assert.True(t, ok)
}
