//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/sessionkeeper/internal/model"
	"github.com/dtroode/sessionkeeper/internal/password"
	repo "github.com/dtroode/sessionkeeper/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "sessionkeeper_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/sessionkeeper_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestRepositories_CRUD(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ur := repo.NewUserRepository(conn, password.NewHasher(bcrypt.MinCost))
	tr := repo.NewTokenRepository(conn)

	user := ur.NewUser("user@example.com", "user")
	user, err = ur.SetPassword(user, "secret")
	require.NoError(t, err)

	t.Run("user_repository", func(t *testing.T) {
		saved, err := ur.Save(ctx, user)
		require.NoError(t, err)
		require.Equal(t, user.ID, saved.ID)

		byEmail, err := ur.FindByLogin(ctx, []model.LoginField{model.LoginFieldEmail}, "user@example.com")
		require.NoError(t, err)
		require.Equal(t, user.ID, byEmail.ID)
		require.True(t, ur.CheckPassword(byEmail, "secret"))

		byUsername, err := ur.FindByLogin(ctx, []model.LoginField{model.LoginFieldEmail, model.LoginFieldUsername}, "user")
		require.NoError(t, err)
		require.Equal(t, user.ID, byUsername.ID)

		byID, err := ur.FindByID(ctx, user.ID)
		require.NoError(t, err)
		require.Equal(t, "user@example.com", byID.Email)

		_, err = ur.Save(ctx, ur.NewUser("user@example.com", ""))
		require.ErrorIs(t, err, model.ErrEmailExists)

		_, err = ur.Save(ctx, ur.NewUser("other@example.com", "user"))
		require.ErrorIs(t, err, model.ErrUsernameExists)

		_, err = ur.FindByID(ctx, uuid.New())
		require.ErrorIs(t, err, model.ErrNotFound)

		// Another user's username equals this user's email.
		shadow, err := ur.Save(ctx, ur.NewUser("shadow@example.com", "user@example.com"))
		require.NoError(t, err)
		either := []model.LoginField{model.LoginFieldUsername, model.LoginFieldEmail}
		for range 5 {
			got, err := ur.FindByLogin(ctx, either, "user@example.com")
			require.NoError(t, err)
			require.Equal(t, user.ID, got.ID)
		}
		got, err := ur.FindByLogin(ctx, []model.LoginField{model.LoginFieldUsername}, "user@example.com")
		require.NoError(t, err)
		require.Equal(t, shadow.ID, got.ID)
	})

	t.Run("token_repository", func(t *testing.T) {
		rec := model.TokenRecord{
			ID:        uuid.New(),
			UserID:    user.ID,
			Type:      model.TokenTypeSession,
			Value:     "first",
			Active:    true,
			CreatedAt: time.Now().Add(-time.Minute),
		}
		require.NoError(t, tr.Upsert(ctx, rec))

		got, err := tr.FindActive(ctx, user.ID, model.TokenTypeSession, "first")
		require.NoError(t, err)
		require.Equal(t, rec.ID, got.ID)

		changed, err := tr.SetActive(ctx, rec.ID, false)
		require.NoError(t, err)
		require.True(t, changed)

		changed, err = tr.SetActive(ctx, rec.ID, false)
		require.NoError(t, err)
		require.False(t, changed)

		_, err = tr.FindActive(ctx, user.ID, model.TokenTypeSession, "first")
		require.ErrorIs(t, err, model.ErrNotFound)

		byValue, err := tr.FindByValue(ctx, model.TokenTypeSession, "first")
		require.NoError(t, err)
		require.False(t, byValue.Active)

		recyclable, err := tr.FindRecyclable(ctx, user.ID, model.TokenTypeSession)
		require.NoError(t, err)
		require.Equal(t, rec.ID, recyclable.ID)

		recyclable.Value = "second"
		recyclable.Active = true
		recyclable.CreatedAt = time.Now()
		require.NoError(t, tr.Upsert(ctx, recyclable))

		active, err := tr.ListActive(ctx, user.ID, model.TokenTypeSession)
		require.NoError(t, err)
		require.Len(t, active, 1)
		require.Equal(t, "second", active[0].Value)

		changed, err = tr.CompareAndSetActive(ctx, rec.ID, "first", false)
		require.NoError(t, err)
		require.False(t, changed, "a stale value must not disable the recycled row")

		changed, err = tr.CompareAndSetActive(ctx, rec.ID, "second", false)
		require.NoError(t, err)
		require.True(t, changed)

		changed, err = tr.CompareAndSetActive(ctx, rec.ID, "second", true)
		require.NoError(t, err)
		require.True(t, changed)

		all, err := tr.ListByUser(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, all, 1)

		purged, err := tr.PurgeOlderThan(ctx, time.Now().Add(time.Minute))
		require.NoError(t, err)
		require.Equal(t, int64(1), purged)
	})

	t.Run("atomic_serializes_per_user", func(t *testing.T) {
		const workers = 8

		var wg sync.WaitGroup
		errs := make(chan error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs <- tr.Atomic(ctx, user.ID, model.TokenTypeRefresh, func(ctx context.Context, store model.TokenStore) error {
					active, err := store.ListActive(ctx, user.ID, model.TokenTypeRefresh)
					if err != nil {
						return err
					}
					for _, r := range active {
						if _, err := store.SetActive(ctx, r.ID, false); err != nil {
							return err
						}
					}
					return store.Upsert(ctx, model.TokenRecord{
						UserID:    user.ID,
						Type:      model.TokenTypeRefresh,
						Value:     fmt.Sprintf("refresh-%d", i),
						Active:    true,
						CreatedAt: time.Now(),
					})
				})
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		active, err := tr.ListActive(ctx, user.ID, model.TokenTypeRefresh)
		require.NoError(t, err)
		require.Len(t, active, 1)
	})
}
