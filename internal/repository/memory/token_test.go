package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/sessionkeeper/internal/model"
)

func TestTokenRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewTokenRepository()
	userID := uuid.New()
	now := time.Now()

	first := model.TokenRecord{ID: uuid.New(), UserID: userID, Type: model.TokenTypeSession, Value: "first", Active: true, CreatedAt: now.Add(-2 * time.Minute)}
	second := model.TokenRecord{ID: uuid.New(), UserID: userID, Type: model.TokenTypeSession, Value: "second", Active: true, CreatedAt: now.Add(-time.Minute)}
	refresh := model.TokenRecord{ID: uuid.New(), UserID: userID, Type: model.TokenTypeRefresh, Value: "refresh", Active: true, CreatedAt: now}

	require.NoError(t, repo.Upsert(ctx, second))
	require.NoError(t, repo.Upsert(ctx, first))
	require.NoError(t, repo.Upsert(ctx, refresh))

	active, err := repo.ListActive(ctx, userID, model.TokenTypeSession)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "first", active[0].Value)
	assert.Equal(t, "second", active[1].Value)

	got, err := repo.FindActive(ctx, userID, model.TokenTypeSession, "first")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	_, err = repo.FindActive(ctx, uuid.New(), model.TokenTypeSession, "first")
	require.ErrorIs(t, err, model.ErrNotFound)

	_, err = repo.FindRecyclable(ctx, userID, model.TokenTypeSession)
	require.ErrorIs(t, err, model.ErrNotFound)

	changed, err := repo.SetActive(ctx, first.ID, false)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.SetActive(ctx, first.ID, false)
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = repo.FindActive(ctx, userID, model.TokenTypeSession, "first")
	require.ErrorIs(t, err, model.ErrNotFound)

	byValue, err := repo.FindByValue(ctx, model.TokenTypeSession, "first")
	require.NoError(t, err)
	assert.False(t, byValue.Active)

	recyclable, err := repo.FindRecyclable(ctx, userID, model.TokenTypeSession)
	require.NoError(t, err)
	assert.Equal(t, first.ID, recyclable.ID)

	all, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	purged, err := repo.PurgeOlderThan(ctx, now.Add(-30*time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(2), purged)

	all, err = repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, model.TokenTypeRefresh, all[0].Type)
}

func TestTokenRepository_CompareAndSetActive(t *testing.T) {
	ctx := context.Background()
	repo := NewTokenRepository()
	rec := model.TokenRecord{ID: uuid.New(), UserID: uuid.New(), Type: model.TokenTypeRefresh, Value: "old", Active: true, CreatedAt: time.Now()}
	require.NoError(t, repo.Upsert(ctx, rec))

	changed, err := repo.CompareAndSetActive(ctx, rec.ID, "old", false)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.CompareAndSetActive(ctx, rec.ID, "old", false)
	require.NoError(t, err)
	assert.False(t, changed, "already inactive")

	// The row is recycled for a new value under the same id.
	rec.Value = "new"
	require.NoError(t, repo.Upsert(ctx, rec))

	changed, err = repo.CompareAndSetActive(ctx, rec.ID, "old", false)
	require.NoError(t, err)
	assert.False(t, changed, "stale value must not touch the recycled row")

	changed, err = repo.CompareAndSetActive(ctx, rec.ID, "old", true)
	require.NoError(t, err)
	assert.False(t, changed)

	got, err := repo.FindByValue(ctx, model.TokenTypeRefresh, "new")
	require.NoError(t, err)
	assert.True(t, got.Active)

	changed, err = repo.CompareAndSetActive(ctx, uuid.New(), "new", false)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestTokenRepository_FindByValue_PrefersActive(t *testing.T) {
	ctx := context.Background()
	repo := NewTokenRepository()
	userID := uuid.New()

	require.NoError(t, repo.Upsert(ctx, model.TokenRecord{ID: uuid.New(), UserID: userID, Type: model.TokenTypeSession, Value: "v", Active: false, CreatedAt: time.Now()}))
	require.NoError(t, repo.Upsert(ctx, model.TokenRecord{ID: uuid.New(), UserID: userID, Type: model.TokenTypeSession, Value: "v", Active: true, CreatedAt: time.Now()}))

	got, err := repo.FindByValue(ctx, model.TokenTypeSession, "v")
	require.NoError(t, err)
	assert.True(t, got.Active)

	_, err = repo.FindByValue(ctx, model.TokenTypeRefresh, "v")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestTokenRepository_Upsert_CopiesPayload(t *testing.T) {
	ctx := context.Background()
	repo := NewTokenRepository()
	payload := map[string]string{model.PayloadSession: "s"}
	rec := model.TokenRecord{UserID: uuid.New(), Type: model.TokenTypeRefresh, Value: "r", Active: true, Payload: payload}

	require.NoError(t, repo.Upsert(ctx, rec))
	payload[model.PayloadSession] = "changed"

	got, err := repo.FindByValue(ctx, model.TokenTypeRefresh, "r")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, "s", got.PairedSession())
}

func TestTokenRepository_Atomic(t *testing.T) {
	ctx := context.Background()
	repo := NewTokenRepository()
	userID := uuid.New()

	const workers = 16

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.Atomic(ctx, userID, model.TokenTypeSession, func(ctx context.Context, store model.TokenStore) error {
				active, err := store.ListActive(ctx, userID, model.TokenTypeSession)
				if err != nil {
					return err
				}
				for _, rec := range active {
					if _, err := store.SetActive(ctx, rec.ID, false); err != nil {
						return err
					}
				}
				return store.Upsert(ctx, model.TokenRecord{
					UserID:    userID,
					Type:      model.TokenTypeSession,
					Value:     uuid.NewString(),
					Active:    true,
					CreatedAt: time.Now(),
				})
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	active, err := repo.ListActive(ctx, userID, model.TokenTypeSession)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestTokenRepository_Atomic_Nested(t *testing.T) {
	ctx := context.Background()
	repo := NewTokenRepository()
	userID := uuid.New()

	called := false
	err := repo.Atomic(ctx, userID, model.TokenTypeSession, func(ctx context.Context, store model.TokenStore) error {
		return store.Atomic(ctx, userID, model.TokenTypeSession, func(context.Context, model.TokenStore) error {
			called = true
			return nil
		})
	})
	require.NoError(t, err)
	assert.True(t, called)
}
