package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/sessionkeeper/internal/model"
)

var (
	// ErrExpired is returned for correctly signed tokens past their expiry.
	// It matches model.ErrTokenExpired.
	ErrExpired = fmt.Errorf("%w: signature valid", model.ErrTokenExpired)
	// ErrInvalid is returned for tokens that fail parsing or signature checks.
	ErrInvalid = errors.New("token is invalid")
)

// Claims represents JWT claims carrying an arbitrary string payload.
type Claims struct {
	jwt.RegisteredClaims
	Data map[string]string `json:"data"`
}

var _ model.TokenCodec = (*JWT)(nil)

// JWT implements TokenCodec backed by symmetric HMAC.
type JWT struct {
	secretKey []byte
	now       func() time.Time
}

// Option configures a JWT codec.
type Option func(*JWT)

// WithClock overrides the time source used for signing and verification.
func WithClock(now func() time.Time) Option {
	return func(j *JWT) {
		j.now = now
	}
}

// NewJWT creates a new JWT codec with the provided secret key.
func NewJWT(secretKey string, opts ...Option) *JWT {
	j := &JWT{secretKey: []byte(secretKey), now: time.Now}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Encode signs payload into a token that expires ttl from now.
func (j *JWT) Encode(payload map[string]string, ttl time.Duration) (string, error) {
	now := j.now()
	data := make(map[string]string, len(payload))
	for k, v := range payload {
		data[k] = v
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Data: data,
	})

	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Decode verifies value and returns its payload. Expired tokens yield
// ErrExpired together with the payload, since their signature was verified.
func (j *JWT) Decode(value string) (map[string]string, error) {
	if value == "" {
		return nil, model.ErrTokenMissing
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(value, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return j.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.now),
		jwt.WithExpirationRequired(),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return claims.Data, fmt.Errorf("%w: %w", ErrExpired, err)
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if claims.Data == nil {
		return map[string]string{}, nil
	}
	return claims.Data, nil
}
