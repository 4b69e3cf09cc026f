package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/sessionkeeper/internal/model"
	"github.com/dtroode/sessionkeeper/internal/password"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	users  map[uuid.UUID]model.User
	lock   sync.RWMutex
	hasher *password.Hasher
}

func NewUserRepository(hasher *password.Hasher) *UserRepository {
	return &UserRepository{
		users:  make(map[uuid.UUID]model.User),
		hasher: hasher,
	}
}

func (r *UserRepository) FindByLogin(_ context.Context, fields []model.LoginField, value string) (model.User, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	// An email match wins over a username match.
	var (
		byUsername model.User
		found      bool
	)
	for _, u := range r.users {
		for _, f := range fields {
			switch {
			case f == model.LoginFieldEmail && u.Email == value:
				return u, nil
			case f == model.LoginFieldUsername && u.Username != "" && u.Username == value:
				byUsername, found = u, true
			}
		}
	}
	if found {
		return byUsername, nil
	}
	return model.User{}, model.ErrNotFound
}

func (r *UserRepository) FindByID(_ context.Context, id uuid.UUID) (model.User, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return u, nil
}

func (r *UserRepository) Save(_ context.Context, user model.User) (model.User, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	for id, u := range r.users {
		if id == user.ID {
			continue
		}
		if u.Email == user.Email {
			return model.User{}, model.ErrEmailExists
		}
		if user.Username != "" && u.Username == user.Username {
			return model.User{}, model.ErrUsernameExists
		}
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	if existing, ok := r.users[user.ID]; ok {
		user.CreatedAt = existing.CreatedAt
	} else if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	r.users[user.ID] = user
	return user, nil
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
