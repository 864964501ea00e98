package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
)

func TestHistoryStore_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewHistoryStore()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Record(ctx, domain.UploadRecord{ID: "1", UploadedAt: base}))
	require.NoError(t, store.Record(ctx, domain.UploadRecord{ID: "3", UploadedAt: base.Add(2 * time.Hour)}))
	require.NoError(t, store.Record(ctx, domain.UploadRecord{ID: "2", UploadedAt: base.Add(time.Hour)}))

	all, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "3", all[0].ID)
	assert.Equal(t, "2", all[1].ID)
	assert.Equal(t, "1", all[2].ID)

	limited, err := store.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestHistoryStore_Clear(t *testing.T) {
	ctx := context.Background()
	store := NewHistoryStore()
	require.NoError(t, store.Record(ctx, domain.UploadRecord{ID: "1"}))

	require.NoError(t, store.Clear(ctx))

	all, err := store.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, all)
}
