package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/sessionkeeper/internal/model"
	"github.com/dtroode/sessionkeeper/internal/password"
	"github.com/dtroode/sessionkeeper/internal/repository/memory"
	"github.com/dtroode/sessionkeeper/internal/service"
	"github.com/dtroode/sessionkeeper/internal/testutil"
	"github.com/dtroode/sessionkeeper/internal/token"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	clock     *fakeClock
	codec     *token.JWT
	tokens    *memory.TokenRepository
	users     *memory.UserRepository
	lifecycle *service.Lifecycle[model.User]
}

func defaultLifecycleConfig() service.LifecycleConfig {
	return service.LifecycleConfig{
		Persist:    true,
		SessionTTL: time.Hour,
		RefreshTTL: 7 * 24 * time.Hour,
	}
}

func newFixture(t *testing.T, cfg service.LifecycleConfig) *fixture {
	t.Helper()

	clock := newFakeClock()
	codec := token.NewJWT("test-secret", token.WithClock(clock.Now))
	tokens := memory.NewTokenRepository()
	users := memory.NewUserRepository(password.NewHasher(bcrypt.MinCost))

	return &fixture{
		clock:  clock,
		codec:  codec,
		tokens: tokens,
		users:  users,
		lifecycle: service.NewLifecycle[model.User](cfg, codec, tokens, users, testutil.MakeNoopLogger(),
			service.WithLifecycleClock(clock.Now)),
	}
}

func (f *fixture) addUser(t *testing.T, email, username, plaintext string) model.User {
	t.Helper()

	user, err := f.users.SetPassword(f.users.NewUser(email, username), plaintext)
	require.NoError(t, err)
	user, err = f.users.Save(context.Background(), user)
	require.NoError(t, err)
	return user
}

func (f *fixture) controller(t *testing.T, cfg service.SessionConfig) *service.SessionController[model.User] {
	t.Helper()

	c, err := service.NewSessionController[model.User](cfg, f.lifecycle, f.users, testutil.MakeNoopLogger())
	require.NoError(t, err)
	return c
}
