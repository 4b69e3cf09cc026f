package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/dtroode/sessionkeeper/internal/model"
	"github.com/dtroode/sessionkeeper/internal/password"
)

var _ model.UserStore = (*UserRepository)(nil)

const (
	userColumns        = `id, email, username, password, created_at, updated_at`
	uniqueViolationErr = "23505"
	usernameConstraint = "users_username_key"
)

type UserRepository struct {
	db     dbtx
	hasher *password.Hasher
}

func NewUserRepository(db *Connection, hasher *password.Hasher) *UserRepository {
	return newUserRepository(db.querier(), hasher)
}

func newUserRepository(db dbtx, hasher *password.Hasher) *UserRepository {
	return &UserRepository{
		db:     db,
		hasher: hasher,
	}
}

// FindByLogin returns the user whose value matches any of fields. An email
// match wins over a username match.
func (r *UserRepository) FindByLogin(ctx context.Context, fields []model.LoginField, value string) (model.User, error) {
	var predicates []string
	for _, f := range fields {
		switch f {
		case model.LoginFieldEmail:
			predicates = append(predicates, "email = $1")
		case model.LoginFieldUsername:
			predicates = append(predicates, "username = $1")
		}
	}
	if len(predicates) == 0 {
		return model.User{}, fmt.Errorf("no login fields configured")
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE ` + strings.Join(predicates, " OR ") +
		` ORDER BY (email = $1) DESC LIMIT 1`

	user, err := scanUser(r.db.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by login: %w", err)
	}

	return user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// Save inserts user or updates the stored row with the same ID.
func (r *UserRepository) Save(ctx context.Context, user model.User) (model.User, error) {
	query := `INSERT INTO users (id, email, username, password, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  ON CONFLICT (id) DO UPDATE SET
			      email = EXCLUDED.email,
			      username = EXCLUDED.username,
			      password = EXCLUDED.password,
			      updated_at = EXCLUDED.updated_at
			  RETURNING ` + userColumns

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	saved, err := scanUser(r.db.QueryRow(ctx, query,
		user.ID, user.Email, nullIfEmpty(user.Username), user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationErr {
			if pgErr.ConstraintName == usernameConstraint {
				return model.User{}, model.ErrUsernameExists
			}
			return model.User{}, model.ErrEmailExists
		}
		return model.User{}, fmt.Errorf("failed to save user: %w", err)
	}

	return saved, nil
}

func (r *UserRepository) CheckPassword(user model.User, plaintext string) bool {
	return r.hasher.Check(user.PasswordHash, plaintext)
}

func (r *UserRepository) SetPassword(user model.User, plaintext string) (model.User, error) {
	hash, err := r.hasher.Hash(plaintext)
	if err != nil {
		return model.User{}, err
	}
	user.PasswordHash = hash
	return user, nil
}

func (r *UserRepository) NewUser(email, username string) model.User {
	return model.User{
		ID:       uuid.New(),
		Email:    email,
		Username: username,
	}
}

func scanUser(row scanner) (model.User, error) {
	var (
		user     model.User
		username pgtype.Text
	)
	err := row.Scan(&user.ID, &user.Email, &username, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	user.Username = username.String
	return user, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
