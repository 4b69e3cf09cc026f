package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/dtroode/sessionkeeper/internal/model"
)

// Identity is the minimal capability the token machinery needs from a user.
type Identity interface {
	GetID() uuid.UUID
}

// UserFinder resolves identities by ID.
type UserFinder[U Identity] interface {
	FindByID(ctx context.Context, id uuid.UUID) (U, error)
}

// IdentityStore is the full set of identity operations used by SessionController.
// Lookups report absence with model.ErrNotFound.
type IdentityStore[U Identity] interface {
	UserFinder[U]
	FindByLogin(ctx context.Context, fields []model.LoginField, value string) (U, error)
	Save(ctx context.Context, user U) (U, error)
	CheckPassword(user U, plaintext string) bool
	SetPassword(user U, plaintext string) (U, error)
	NewUser(email, username string) U
}

var _ IdentityStore[model.User] = model.UserStore(nil)
