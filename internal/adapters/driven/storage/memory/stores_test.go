package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/radar/internal/core/domain"
)

func TestHistoryStore_LoadSave(t *testing.T) {
	ctx := context.Background()
	seed := []domain.StoredItem{{Title: "a"}, {Title: "b"}}
	store := NewHistoryStore(seed)

	h, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, h.Len())
	assert.True(t, h.Seen("a"))

	seed[0].Title = "mutated"
	assert.Equal(t, "a", store.Items()[0].Title, "seed is copied")

	require.NoError(t, store.Save(ctx, []domain.StoredItem{{Title: "c"}}))
	assert.Equal(t, []domain.StoredItem{{Title: "c"}}, store.Items())
	assert.Equal(t, 1, store.Saves())
}

func TestHistoryStore_InjectedErrors(t *testing.T) {
	ctx := context.Background()
	store := NewHistoryStore(nil)
	store.LoadErr = domain.ErrStoreCorrupt
	store.SaveErr = errors.New("disk full")

	h, err := store.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrStoreCorrupt)
	require.NotNil(t, h)
	assert.Equal(t, 0, h.Len())

	assert.Error(t, store.Save(ctx, nil))
	assert.Equal(t, 0, store.Saves())
}

func TestDigestStore(t *testing.T) {
	ctx := context.Background()
	store := NewDigestStore()

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.Save(ctx, domain.Digest{Date: "2024-05-01", Content: "first"}))
	require.NoError(t, store.Save(ctx, domain.Digest{Date: "2024-05-02", Content: "second"}))

	d, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", d.Content)
}

func TestRunLogStore(t *testing.T) {
	ctx := context.Background()
	store := NewRunLogStore()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(ctx, &domain.RunReport{
			ID:        fmt.Sprintf("run-%d", i),
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	reports, err := store.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "run-4", reports[0].ID)

	require.NoError(t, store.Prune(ctx, 3))
	reports, err = store.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, reports, 3)
	assert.Equal(t, "run-2", reports[2].ID)

	assert.ErrorIs(t, store.Record(ctx, &domain.RunReport{}), domain.ErrInvalidInput)
}
