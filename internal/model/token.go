package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenType names a family of tokens. Quotas and recycling are applied per
// user and type.
type TokenType string

const (
	// TokenTypeSession is a short-lived token presented on every request.
	TokenTypeSession TokenType = "session"
	// TokenTypeRefresh is a long-lived token used to rotate an expired session.
	TokenTypeRefresh TokenType = "refresh"
)

// Payload keys embedded into every signed token.
const (
	PayloadUserID  = "userId"
	PayloadType    = "type"
	PayloadSession = "session"
)

// TokenRecord is one issued token. ID and Active only carry meaning when
// tokens are persisted.
type TokenRecord struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Type      TokenType
	Value     string
	Active    bool
	CreatedAt time.Time
	Payload   map[string]string
}

// PairedSession returns the session value a refresh token was issued with.
func (r TokenRecord) PairedSession() string {
	return r.Payload[PayloadSession]
}

// TokenCodec signs payloads into self-describing token values. Decode fails
// with ErrTokenMissing for an empty value and with an error matching
// ErrTokenExpired, together with the verified payload, for expired tokens.
type TokenCodec interface {
	Encode(payload map[string]string, ttl time.Duration) (string, error)
	Decode(value string) (map[string]string, error)
}

// TokenStore persists issued tokens.
type TokenStore interface {
	FindActive(ctx context.Context, userID uuid.UUID, tokenType TokenType, value string) (TokenRecord, error)
	FindByValue(ctx context.Context, tokenType TokenType, value string) (TokenRecord, error)
	ListActive(ctx context.Context, userID uuid.UUID, tokenType TokenType) ([]TokenRecord, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]TokenRecord, error)
	FindRecyclable(ctx context.Context, userID uuid.UUID, tokenType TokenType) (TokenRecord, error)
	Upsert(ctx context.Context, record TokenRecord) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) (bool, error)
	// CompareAndSetActive changes the row only while it still holds value.
	// Recycled rows keep their id, so callers holding a record read earlier
	// must use it instead of SetActive.
	CompareAndSetActive(ctx context.Context, id uuid.UUID, value string, active bool) (bool, error)
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	// Atomic runs fn with a store whose operations are serialized against every
	// other Atomic call for the same user and token type.
	Atomic(ctx context.Context, userID uuid.UUID, tokenType TokenType, fn func(ctx context.Context, store TokenStore) error) error
}
