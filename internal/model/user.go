package model

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LoginField is a user column that can identify an account at login.
type LoginField string

const (
	LoginFieldEmail    LoginField = "email"
	LoginFieldUsername LoginField = "username"
)

// ParseLoginFields parses a "|" separated list of login fields, such as
// "email|username".
func ParseLoginFields(loginWith string) ([]LoginField, error) {
	var fields []LoginField
	seen := make(map[LoginField]bool)
	for _, part := range strings.Split(loginWith, "|") {
		f := LoginField(strings.TrimSpace(part))
		switch f {
		case LoginFieldEmail, LoginFieldUsername:
		default:
			return nil, fmt.Errorf("unknown login field %q", part)
		}
		if !seen[f] {
			seen[f] = true
			fields = append(fields, f)
		}
	}
	return fields, nil
}

// User represents a stored account.
type User struct {
	ID           uuid.UUID
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// GetID returns the user ID.
func (u User) GetID() uuid.UUID {
	return u.ID
}

// UserStore defines persistence and credential operations for users.
type UserStore interface {
	FindByLogin(ctx context.Context, fields []LoginField, value string) (User, error)
	FindByID(ctx context.Context, id uuid.UUID) (User, error)
	Save(ctx context.Context, user User) (User, error)
	CheckPassword(user User, plaintext string) bool
	SetPassword(user User, plaintext string) (User, error)
	NewUser(email, username string) User
}
