package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/sessionkeeper/internal/logger"
	"github.com/dtroode/sessionkeeper/internal/model"
)

// persistence holds everything that differs between stateless and persisted
// token handling. Lifecycle picks one implementation at construction.
type persistence interface {
	materialize(ctx context.Context, rec model.TokenRecord) (model.TokenRecord, error)
	verify(ctx context.Context, rec model.TokenRecord) (model.TokenRecord, error)
	disable(ctx context.Context, rec *model.TokenRecord) error
	consume(ctx context.Context, rec model.TokenRecord) error
	reinstate(ctx context.Context, rec model.TokenRecord) error
	revoke(ctx context.Context, tokenType model.TokenType, value string, owner uuid.UUID) (model.TokenRecord, error)
	active(ctx context.Context, userID uuid.UUID, tokenType model.TokenType) ([]model.TokenRecord, error)
	expired(ctx context.Context, tokenType model.TokenType, value string)
	purge(ctx context.Context, cutoff time.Time) (int64, error)
	revokeUser(ctx context.Context, userID uuid.UUID) (int, error)
}

// stateless trusts the signed token alone; nothing is stored.
type stateless struct{}

func (stateless) materialize(_ context.Context, rec model.TokenRecord) (model.TokenRecord, error) {
	return rec, nil
}

func (stateless) verify(_ context.Context, rec model.TokenRecord) (model.TokenRecord, error) {
	return rec, nil
}

func (stateless) disable(_ context.Context, rec *model.TokenRecord) error {
	rec.Active = false
	return nil
}

func (stateless) consume(context.Context, model.TokenRecord) error {
	return nil
}

func (stateless) reinstate(context.Context, model.TokenRecord) error {
	return nil
}

func (stateless) revoke(context.Context, model.TokenType, string, uuid.UUID) (model.TokenRecord, error) {
	return model.TokenRecord{}, nil
}

func (stateless) active(context.Context, uuid.UUID, model.TokenType) ([]model.TokenRecord, error) {
	return nil, nil
}

func (stateless) expired(context.Context, model.TokenType, string) {}

func (stateless) purge(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (stateless) revokeUser(context.Context, uuid.UUID) (int, error) {
	return 0, nil
}

// persisted mirrors every issued token in a TokenStore, enabling revocation
// and per-user quotas.
type persisted struct {
	store  model.TokenStore
	quota  int
	logger *logger.Logger
}

func storeError(err error) error {
	return fmt.Errorf("%w: %w", model.ErrStore, err)
}

func (p *persisted) materialize(ctx context.Context, rec model.TokenRecord) (model.TokenRecord, error) {
	err := p.store.Atomic(ctx, rec.UserID, rec.Type, func(ctx context.Context, store model.TokenStore) error {
		recycled, err := store.FindRecyclable(ctx, rec.UserID, rec.Type)
		switch {
		case err == nil:
			rec.ID = recycled.ID
		case errors.Is(err, model.ErrNotFound):
			rec.ID = uuid.New()
		default:
			return err
		}

		rec.Active = true
		if err := store.Upsert(ctx, rec); err != nil {
			return err
		}

		if p.quota <= 0 {
			return nil
		}

		active, err := store.ListActive(ctx, rec.UserID, rec.Type)
		if err != nil {
			return err
		}
		excess := len(active) - p.quota
		for _, old := range active {
			if excess <= 0 {
				break
			}
			if old.ID == rec.ID {
				continue
			}
			if _, err := store.SetActive(ctx, old.ID, false); err != nil {
				return err
			}
			excess--
		}
		return nil
	})
	if err != nil {
		return model.TokenRecord{}, storeError(err)
	}
	return rec, nil
}

func (p *persisted) verify(ctx context.Context, rec model.TokenRecord) (model.TokenRecord, error) {
	stored, err := p.store.FindActive(ctx, rec.UserID, rec.Type, rec.Value)
	if err == nil {
		stored.Payload = rec.Payload
		return stored, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.TokenRecord{}, storeError(err)
	}

	prior, err := p.store.FindByValue(ctx, rec.Type, rec.Value)
	switch {
	case err == nil && !prior.Active:
		return model.TokenRecord{}, model.ErrTokenExpired
	case err == nil, errors.Is(err, model.ErrNotFound):
		return model.TokenRecord{}, model.ErrTokenNotRegistered
	default:
		return model.TokenRecord{}, storeError(err)
	}
}

func (p *persisted) disable(ctx context.Context, rec *model.TokenRecord) error {
	if rec.ID == uuid.Nil {
		stored, err := p.store.FindByValue(ctx, rec.Type, rec.Value)
		if errors.Is(err, model.ErrNotFound) {
			rec.Active = false
			return nil
		}
		if err != nil {
			return storeError(err)
		}
		rec.ID = stored.ID
	}

	if _, err := p.store.CompareAndSetActive(ctx, rec.ID, rec.Value, false); err != nil {
		return storeError(err)
	}
	rec.Active = false
	return nil
}

func (p *persisted) consume(ctx context.Context, rec model.TokenRecord) error {
	changed, err := p.store.CompareAndSetActive(ctx, rec.ID, rec.Value, false)
	if err != nil {
		return storeError(err)
	}
	if !changed {
		return model.ErrTokenExpired
	}
	return nil
}

// reinstate reactivates a consumed row unless it was recycled meanwhile.
func (p *persisted) reinstate(ctx context.Context, rec model.TokenRecord) error {
	changed, err := p.store.CompareAndSetActive(ctx, rec.ID, rec.Value, true)
	if err != nil {
		return storeError(err)
	}
	if !changed {
		return model.ErrTokenExpired
	}
	return nil
}

func (p *persisted) revoke(ctx context.Context, tokenType model.TokenType, value string, owner uuid.UUID) (model.TokenRecord, error) {
	rec, err := p.store.FindByValue(ctx, tokenType, value)
	if errors.Is(err, model.ErrNotFound) {
		return model.TokenRecord{}, model.ErrTokenNotRegistered
	}
	if err != nil {
		return model.TokenRecord{}, storeError(err)
	}
	if owner != uuid.Nil && rec.UserID != owner {
		return model.TokenRecord{}, model.ErrUserMismatch
	}

	if rec.Active {
		if _, err := p.store.CompareAndSetActive(ctx, rec.ID, rec.Value, false); err != nil {
			return model.TokenRecord{}, storeError(err)
		}
		rec.Active = false
	}
	return rec, nil
}

func (p *persisted) active(ctx context.Context, userID uuid.UUID, tokenType model.TokenType) ([]model.TokenRecord, error) {
	records, err := p.store.ListActive(ctx, userID, tokenType)
	if err != nil {
		return nil, storeError(err)
	}
	return records, nil
}

// expired disables the row of a token whose signature has lapsed.
func (p *persisted) expired(ctx context.Context, tokenType model.TokenType, value string) {
	rec, err := p.store.FindByValue(ctx, tokenType, value)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			p.logger.Warn("Token lifecycle: failed to look up expired token",
				"type", tokenType,
				"error", err.Error())
		}
		return
	}
	if !rec.Active {
		return
	}
	if _, err := p.store.CompareAndSetActive(ctx, rec.ID, rec.Value, false); err != nil {
		p.logger.Warn("Token lifecycle: failed to disable expired token",
			"token_id", rec.ID,
			"error", err.Error())
	}
}

func (p *persisted) purge(ctx context.Context, cutoff time.Time) (int64, error) {
	n, err := p.store.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return 0, storeError(err)
	}
	return n, nil
}

func (p *persisted) revokeUser(ctx context.Context, userID uuid.UUID) (int, error) {
	records, err := p.store.ListByUser(ctx, userID)
	if err != nil {
		return 0, storeError(err)
	}

	var n int
	for _, rec := range records {
		if !rec.Active {
			continue
		}
		changed, err := p.store.CompareAndSetActive(ctx, rec.ID, rec.Value, false)
		if err != nil {
			return n, storeError(err)
		}
		if changed {
			n++
		}
	}
	return n, nil
}
