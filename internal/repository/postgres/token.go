package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/sessionkeeper/internal/model"
)

var _ model.TokenStore = (*TokenRepository)(nil)

const tokenColumns = `id, user_id, type, value, active, created_at`

// TokenRepository stores issued tokens in the user_tokens table.
type TokenRepository struct {
	db   dbtx
	pool txStarter
}

func NewTokenRepository(db *Connection) *TokenRepository {
	return newTokenRepository(db.querier())
}

func newTokenRepository(p txStarter) *TokenRepository {
	return &TokenRepository{db: p, pool: p}
}

func (r *TokenRepository) FindActive(ctx context.Context, userID uuid.UUID, tokenType model.TokenType, value string) (model.TokenRecord, error) {
	const query = `
        SELECT ` + tokenColumns + `
        FROM user_tokens
        WHERE user_id = $1 AND type = $2 AND value = $3 AND active = TRUE
        LIMIT 1
    `
	rec, err := scanToken(r.db.QueryRow(ctx, query, userID, tokenType, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.TokenRecord{}, model.ErrNotFound
		}
		return model.TokenRecord{}, fmt.Errorf("failed to get active token: %w", err)
	}
	return rec, nil
}

func (r *TokenRepository) FindByValue(ctx context.Context, tokenType model.TokenType, value string) (model.TokenRecord, error) {
	const query = `
        SELECT ` + tokenColumns + `
        FROM user_tokens
        WHERE type = $1 AND value = $2
        ORDER BY active DESC
        LIMIT 1
    `
	rec, err := scanToken(r.db.QueryRow(ctx, query, tokenType, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.TokenRecord{}, model.ErrNotFound
		}
		return model.TokenRecord{}, fmt.Errorf("failed to get token by value: %w", err)
	}
	return rec, nil
}

func (r *TokenRepository) ListActive(ctx context.Context, userID uuid.UUID, tokenType model.TokenType) ([]model.TokenRecord, error) {
	const query = `
        SELECT ` + tokenColumns + `
        FROM user_tokens
        WHERE user_id = $1 AND type = $2 AND active = TRUE
        ORDER BY created_at ASC, id ASC
    `
	records, err := r.list(ctx, query, userID, tokenType)
	if err != nil {
		return nil, fmt.Errorf("failed to list active tokens: %w", err)
	}
	return records, nil
}

func (r *TokenRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.TokenRecord, error) {
	const query = `
        SELECT ` + tokenColumns + `
        FROM user_tokens
        WHERE user_id = $1
        ORDER BY created_at ASC, id ASC
    `
	records, err := r.list(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user tokens: %w", err)
	}
	return records, nil
}

func (r *TokenRepository) FindRecyclable(ctx context.Context, userID uuid.UUID, tokenType model.TokenType) (model.TokenRecord, error) {
	const query = `
        SELECT ` + tokenColumns + `
        FROM user_tokens
        WHERE user_id = $1 AND type = $2 AND active = FALSE
        ORDER BY created_at ASC
        LIMIT 1
    `
	rec, err := scanToken(r.db.QueryRow(ctx, query, userID, tokenType))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.TokenRecord{}, model.ErrNotFound
		}
		return model.TokenRecord{}, fmt.Errorf("failed to get recyclable token: %w", err)
	}
	return rec, nil
}

func (r *TokenRepository) Upsert(ctx context.Context, record model.TokenRecord) error {
	const query = `
        INSERT INTO user_tokens (id, user_id, type, value, active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW())
        ON CONFLICT (id) DO UPDATE SET
            value = EXCLUDED.value,
            active = EXCLUDED.active,
            created_at = EXCLUDED.created_at,
            updated_at = NOW()
    `
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx, query,
		record.ID, record.UserID, record.Type, record.Value, record.Active, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert token: %w", err)
	}
	return nil
}

func (r *TokenRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) (bool, error) {
	const query = `
        UPDATE user_tokens SET active = $2, updated_at = NOW()
        WHERE id = $1 AND active <> $2
    `
	tag, err := r.db.Exec(ctx, query, id, active)
	if err != nil {
		return false, fmt.Errorf("failed to set token state: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *TokenRepository) CompareAndSetActive(ctx context.Context, id uuid.UUID, value string, active bool) (bool, error) {
	const query = `
        UPDATE user_tokens SET active = $3, updated_at = NOW()
        WHERE id = $1 AND value = $2 AND active <> $3
    `
	tag, err := r.db.Exec(ctx, query, id, value, active)
	if err != nil {
		return false, fmt.Errorf("failed to set token state: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *TokenRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM user_tokens WHERE created_at < $1`

	tag, err := r.db.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Atomic runs fn in a transaction holding an advisory lock on (userID, tokenType).
// Calls made on an already transactional repository run fn directly.
func (r *TokenRepository) Atomic(ctx context.Context, userID uuid.UUID, tokenType model.TokenType, fn func(ctx context.Context, store model.TokenStore) error) error {
	if r.pool == nil {
		return fn(ctx, r)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	const lock = `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`
	if _, err := tx.Exec(ctx, lock, lockKey(userID, tokenType)); err != nil {
		return fmt.Errorf("failed to acquire token lock: %w", err)
	}
	if err := fn(ctx, &TokenRepository{db: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *TokenRepository) list(ctx context.Context, query string, args ...any) ([]model.TokenRecord, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.TokenRecord
	for rows.Next() {
		rec, err := scanToken(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanToken(row scanner) (model.TokenRecord, error) {
	var rec model.TokenRecord
	err := row.Scan(&rec.ID, &rec.UserID, &rec.Type, &rec.Value, &rec.Active, &rec.CreatedAt)
	return rec, err
}

func lockKey(userID uuid.UUID, tokenType model.TokenType) string {
	return "user_tokens:" + userID.String() + ":" + string(tokenType)
}
