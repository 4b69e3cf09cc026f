package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/sessionkeeper/internal/logger"
	"github.com/dtroode/sessionkeeper/internal/model"
)

// LifecycleConfig controls token persistence, quotas and default lifetimes.
type LifecycleConfig struct {
	// Persist mirrors issued tokens in the token store.
	Persist bool
	// PerUserQuota caps active tokens per user and type. Zero means unbounded.
	PerUserQuota int
	SessionTTL   time.Duration
	RefreshTTL   time.Duration
	// SweepInterval spaces opportunistic purges run during validation.
	// Zero disables them.
	SweepInterval time.Duration
}

// LifecycleOption customizes a Lifecycle.
type LifecycleOption func(*lifecycleOptions)

type lifecycleOptions struct {
	now func() time.Time
}

// WithLifecycleClock overrides the time source used for record timestamps
// and sweeps.
func WithLifecycleClock(now func() time.Time) LifecycleOption {
	return func(o *lifecycleOptions) {
		o.now = now
	}
}

// Lifecycle issues, validates and disables tokens for identities of type U.
type Lifecycle[U Identity] struct {
	codec    model.TokenCodec
	users    UserFinder[U]
	strategy persistence
	cfg      LifecycleConfig
	now      func() time.Time
	logger   *logger.Logger

	lastSweep atomic.Int64
}

func NewLifecycle[U Identity](
	cfg LifecycleConfig,
	codec model.TokenCodec,
	store model.TokenStore,
	users UserFinder[U],
	logger *logger.Logger,
	opts ...LifecycleOption,
) *Lifecycle[U] {
	o := lifecycleOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	var strategy persistence = stateless{}
	if cfg.Persist {
		strategy = &persisted{store: store, quota: cfg.PerUserQuota, logger: logger}
	}

	return &Lifecycle[U]{
		codec:    codec,
		users:    users,
		strategy: strategy,
		cfg:      cfg,
		now:      o.now,
		logger:   logger,
	}
}

// Persisted reports whether tokens are mirrored in the token store.
func (l *Lifecycle[U]) Persisted() bool {
	return l.cfg.Persist
}

// Issue signs a new token of tokenType for user. A non-positive ttl selects the
// configured lifetime for the type. extra is merged into the payload.
func (l *Lifecycle[U]) Issue(ctx context.Context, user U, tokenType model.TokenType, ttl time.Duration, extra map[string]string) (model.TokenRecord, error) {
	if tokenType == "" {
		return model.TokenRecord{}, errors.New("token type is required")
	}
	if ttl <= 0 {
		ttl = l.ttlFor(tokenType)
	}

	payload := make(map[string]string, len(extra)+2)
	for k, v := range extra {
		payload[k] = v
	}
	payload[model.PayloadUserID] = user.GetID().String()
	payload[model.PayloadType] = string(tokenType)

	value, err := l.codec.Encode(payload, ttl)
	if err != nil {
		return model.TokenRecord{}, fmt.Errorf("failed to encode token: %w", err)
	}

	rec, err := l.strategy.materialize(ctx, model.TokenRecord{
		UserID:    user.GetID(),
		Type:      tokenType,
		Value:     value,
		Active:    true,
		CreatedAt: l.now(),
		Payload:   payload,
	})
	if err != nil {
		l.logger.Error("Token lifecycle: failed to store issued token",
			"user_id", user.GetID(),
			"type", tokenType,
			"error", err.Error())
		return model.TokenRecord{}, err
	}

	l.logger.Debug("Token lifecycle: token issued",
		"user_id", user.GetID(),
		"type", tokenType)

	return rec, nil
}

// Validate checks value as a token of tokenType and resolves its owner. When
// expected is set the owner must be that identity.
func (l *Lifecycle[U]) Validate(ctx context.Context, value string, tokenType model.TokenType, expected *U) (model.TokenRecord, U, error) {
	var zero U

	l.maybeSweep(ctx)

	if value == "" {
		return model.TokenRecord{}, zero, model.ErrTokenMissing
	}

	payload, err := l.codec.Decode(value)
	if err != nil {
		if errors.Is(err, model.ErrTokenMissing) {
			return model.TokenRecord{}, zero, model.ErrTokenMissing
		}
		if errors.Is(err, model.ErrTokenExpired) {
			l.strategy.expired(ctx, tokenType, value)
		}
		return model.TokenRecord{}, zero, model.ErrTokenExpired
	}

	userID, err := uuid.Parse(payload[model.PayloadUserID])
	if err != nil {
		return model.TokenRecord{}, zero, model.ErrTokenBadPayload
	}
	if payload[model.PayloadType] != string(tokenType) {
		return model.TokenRecord{}, zero, model.ErrTokenBadPayload
	}

	rec, err := l.strategy.verify(ctx, model.TokenRecord{
		UserID:  userID,
		Type:    tokenType,
		Value:   value,
		Active:  true,
		Payload: payload,
	})
	if err != nil {
		return model.TokenRecord{}, zero, err
	}

	user, err := l.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.TokenRecord{}, zero, model.ErrUserNotFound
		}
		return model.TokenRecord{}, zero, storeError(err)
	}
	if expected != nil && (*expected).GetID() != user.GetID() {
		return model.TokenRecord{}, zero, model.ErrUserMismatch
	}

	return rec, user, nil
}

// Disable deactivates rec. Disabling an inactive record is a no-op.
func (l *Lifecycle[U]) Disable(ctx context.Context, rec *model.TokenRecord) error {
	return l.strategy.disable(ctx, rec)
}

// Consume disables rec and fails with model.ErrTokenExpired when another
// caller disabled it first.
func (l *Lifecycle[U]) Consume(ctx context.Context, rec model.TokenRecord) error {
	return l.strategy.consume(ctx, rec)
}

// Reinstate reactivates a record disabled by Consume. It fails with
// model.ErrTokenExpired when the row already holds another token.
func (l *Lifecycle[U]) Reinstate(ctx context.Context, rec model.TokenRecord) error {
	return l.strategy.reinstate(ctx, rec)
}

// Revoke disables the stored token with the given value. A non-nil owner must
// match the token's user.
func (l *Lifecycle[U]) Revoke(ctx context.Context, tokenType model.TokenType, value string, owner uuid.UUID) (model.TokenRecord, error) {
	return l.strategy.revoke(ctx, tokenType, value, owner)
}

// Active lists a user's active tokens of tokenType, oldest first.
func (l *Lifecycle[U]) Active(ctx context.Context, userID uuid.UUID, tokenType model.TokenType) ([]model.TokenRecord, error) {
	return l.strategy.active(ctx, userID, tokenType)
}

// RevokeUser disables every active token of a user and returns how many
// were disabled.
func (l *Lifecycle[U]) RevokeUser(ctx context.Context, userID uuid.UUID) (int, error) {
	n, err := l.strategy.revokeUser(ctx, userID)
	if err != nil {
		return n, err
	}

	l.logger.Info("Token lifecycle: user tokens revoked",
		"user_id", userID,
		"count", n)

	return n, nil
}

// Sweep deletes stored tokens older than the refresh lifetime.
func (l *Lifecycle[U]) Sweep(ctx context.Context) (int64, error) {
	now := l.now()
	l.lastSweep.Store(now.UnixNano())

	n, err := l.strategy.purge(ctx, now.Add(-l.cfg.RefreshTTL))
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (l *Lifecycle[U]) maybeSweep(ctx context.Context) {
	if !l.cfg.Persist || l.cfg.SweepInterval <= 0 {
		return
	}

	now := l.now().UnixNano()
	last := l.lastSweep.Load()
	if last != 0 && now-last < int64(l.cfg.SweepInterval) {
		return
	}
	if !l.lastSweep.CompareAndSwap(last, now) {
		return
	}

	n, err := l.strategy.purge(ctx, l.now().Add(-l.cfg.RefreshTTL))
	if err != nil {
		l.logger.Warn("Token lifecycle: opportunistic sweep failed",
			"error", err.Error())
		return
	}
	if n > 0 {
		l.logger.Debug("Token lifecycle: purged stale tokens",
			"count", n)
	}
}

func (l *Lifecycle[U]) ttlFor(tokenType model.TokenType) time.Duration {
	if tokenType == model.TokenTypeRefresh {
		return l.cfg.RefreshTTL
	}
	return l.cfg.SessionTTL
}
