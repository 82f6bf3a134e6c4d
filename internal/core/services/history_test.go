package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/radar/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/radar/internal/core/domain"
	"github.com/custodia-labs/radar/internal/core/ports/driving"
)

func TestHistoryService_Load(t *testing.T) {
	store := memory.NewHistoryStore([]domain.StoredItem{stored("A", "EN·Tech")})
	svc := NewHistoryService(store, nil)

	h, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, h.Seen("A"))
}

func TestHistoryService_Load_ReadErrorsAreUnreadable(t *testing.T) {
	store := memory.NewHistoryStore(nil)
	store.LoadErr = errors.New("permission denied")
	svc := NewHistoryService(store, nil)

	h, err := svc.Load(context.Background())
	require.NotNil(t, h)
	assert.Equal(t, 0, h.Len())
	assert.True(t, errors.Is(err, domain.ErrStoreUnreadable))
	assert.False(t, errors.Is(err, domain.ErrStoreCorrupt))
}

func TestHistoryService_Load_CorruptionPassesThrough(t *testing.T) {
	store := memory.NewHistoryStore(nil)
	store.LoadErr = domain.ErrStoreCorrupt
	svc := NewHistoryService(store, nil)

	h, err := svc.Load(context.Background())
	require.NotNil(t, h)
	assert.True(t, errors.Is(err, domain.ErrStoreCorrupt))
}

func TestHistoryService_Persist_TruncatesToCapacity(t *testing.T) {
	store := memory.NewHistoryStore(nil)
	svc := NewHistoryService(store, nil)
	h := domain.NewHistory([]domain.StoredItem{stored("A", "X"), stored("B", "X"), stored("C", "X")})

	require.NoError(t, svc.Persist(context.Background(), h, 2))

	assert.Equal(t, 2, h.Len())
	items := store.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].Title)
	assert.Equal(t, "B", items[1].Title)
}

func TestHistoryService_Persist_Failure(t *testing.T) {
	store := memory.NewHistoryStore(nil)
	store.SaveErr = errors.New("read-only file system")
	svc := NewHistoryService(store, nil)

	err := svc.Persist(context.Background(), domain.NewHistory(nil), 10)
	assert.True(t, errors.Is(err, domain.ErrPersist))

	err = svc.Persist(context.Background(), nil, 10)
	assert.True(t, errors.Is(err, domain.ErrPersist))
}

func TestHistoryService_List(t *testing.T) {
	store := memory.NewHistoryStore([]domain.StoredItem{
		stored("A", "EN·Tech"),
		stored("B", "CN·行业"),
		stored("C", "EN·Tech"),
		stored("D", "EN·Tech"),
	})
	svc := NewHistoryService(store, nil)

	all, err := svc.List(context.Background(), driving.HistoryQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	tech, err := svc.List(context.Background(), driving.HistoryQuery{Source: "EN·Tech", Limit: 2})
	require.NoError(t, err)
	require.Len(t, tech, 2)
	assert.Equal(t, "A", tech[0].Title)
	assert.Equal(t, "C", tech[1].Title)
}

func TestHistoryService_LatestDigest(t *testing.T) {
	svc := NewHistoryService(memory.NewHistoryStore(nil), nil)
	_, err := svc.LatestDigest(context.Background())
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	digests := memory.NewDigestStore()
	require.NoError(t, digests.Save(context.Background(), domain.Digest{Date: "2025-10-14", Content: "x"}))
	svc = NewHistoryService(memory.NewHistoryStore(nil), digests)

	got, err := svc.LatestDigest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "x", got.Content)
}
