package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/sessionkeeper/internal/logger"
	"github.com/dtroode/sessionkeeper/internal/model"
)

// Session is the outcome of a login or validation. Refresh is only set when
// a new pair was issued.
type Session[U Identity] struct {
	Token   *model.TokenRecord
	Refresh *model.TokenRecord
	User    U
}

// Registration holds the fields accepted when creating an account.
type Registration struct {
	Email    string
	Password string
	Username string
}

// SessionConfig selects which account fields identify a user.
type SessionConfig struct {
	// Username enables usernames. When off, only email identifies a user.
	Username bool
	// LoginWith lists the fields accepted at login, e.g. "email|username".
	LoginWith string
}

// SessionController implements login, registration and session validation
// with refresh rotation on top of a Lifecycle.
type SessionController[U Identity] struct {
	lifecycle   *Lifecycle[U]
	users       IdentityStore[U]
	username    bool
	loginFields []model.LoginField
	logger      *logger.Logger
}

func NewSessionController[U Identity](
	cfg SessionConfig,
	lifecycle *Lifecycle[U],
	users IdentityStore[U],
	logger *logger.Logger,
) (*SessionController[U], error) {
	fields := []model.LoginField{model.LoginFieldEmail}
	if cfg.Username {
		var err error
		fields, err = model.ParseLoginFields(cfg.LoginWith)
		if err != nil {
			return nil, fmt.Errorf("invalid login fields: %w", err)
		}
	}

	return &SessionController[U]{
		lifecycle:   lifecycle,
		users:       users,
		username:    cfg.Username,
		loginFields: fields,
		logger:      logger,
	}, nil
}

// Login authenticates identifier and password and issues a session/refresh pair.
func (c *SessionController[U]) Login(ctx context.Context, identifier, password string) (Session[U], error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return Session[U]{}, model.ErrUserNotFound
	}

	user, err := c.users.FindByLogin(ctx, c.loginFields, identifier)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			c.logger.Info("Session controller: login for unknown user")
			return Session[U]{}, model.ErrUserNotFound
		}
		c.logger.Error("Session controller: failed to find user",
			"error", err.Error())
		return Session[U]{}, storeError(err)
	}

	if !c.users.CheckPassword(user, password) {
		c.logger.Info("Session controller: incorrect password",
			"user_id", user.GetID())
		return Session[U]{}, model.ErrIncorrectPassword
	}

	session, err := c.issuePair(ctx, user)
	if err != nil {
		return Session[U]{}, err
	}

	c.logger.Info("Session controller: user logged in",
		"user_id", user.GetID())

	return session, nil
}

// Register creates an account. It does not issue tokens.
func (c *SessionController[U]) Register(ctx context.Context, r Registration) (U, error) {
	var zero U

	email := strings.TrimSpace(r.Email)
	username := strings.TrimSpace(r.Username)
	if email == "" {
		return zero, model.ErrMissingEmail
	}
	if r.Password == "" {
		return zero, model.ErrMissingPassword
	}
	if !c.username {
		username = ""
	} else if username == "" {
		return zero, model.ErrMissingUsername
	}

	if err := c.ensureFree(ctx, model.LoginFieldEmail, email, model.ErrEmailExists); err != nil {
		return zero, err
	}
	if username != "" {
		if err := c.ensureFree(ctx, model.LoginFieldUsername, username, model.ErrUsernameExists); err != nil {
			return zero, err
		}
	}

	user, err := c.users.SetPassword(c.users.NewUser(email, username), r.Password)
	if err != nil {
		return zero, fmt.Errorf("failed to set password: %w", err)
	}

	saved, err := c.users.Save(ctx, user)
	if err != nil {
		if errors.Is(err, model.ErrEmailExists) || errors.Is(err, model.ErrUsernameExists) {
			return zero, err
		}
		c.logger.Error("Session controller: failed to save user",
			"error", err.Error())
		return zero, storeError(err)
	}

	c.logger.Info("Session controller: user registered",
		"user_id", saved.GetID())

	return saved, nil
}

// StartSession issues a session/refresh pair for an already authenticated user.
func (c *SessionController[U]) StartSession(ctx context.Context, user U) (Session[U], error) {
	return c.issuePair(ctx, user)
}

// Validate checks sessionValue. When it is not valid and refreshValue is
// given, the refresh token is validated, consumed and a new pair is issued.
func (c *SessionController[U]) Validate(ctx context.Context, sessionValue, refreshValue string) (Session[U], error) {
	rec, user, err := c.lifecycle.Validate(ctx, sessionValue, model.TokenTypeSession, nil)
	if err == nil {
		return Session[U]{Token: &rec, User: user}, nil
	}
	if refreshValue == "" || errors.Is(err, model.ErrStore) {
		return Session[U]{}, err
	}

	refresh, user, err := c.lifecycle.Validate(ctx, refreshValue, model.TokenTypeRefresh, nil)
	if err != nil {
		return Session[U]{}, err
	}

	if sessionValue != "" && refresh.PairedSession() != sessionValue {
		c.logger.Warn("Session controller: refresh token presented with foreign session",
			"user_id", user.GetID())
		return Session[U]{}, model.ErrPairingMismatch
	}

	if err := c.lifecycle.Consume(ctx, refresh); err != nil {
		return Session[U]{}, err
	}

	session, err := c.issuePair(ctx, user)
	if err != nil {
		c.logger.Error("Session controller: failed to issue rotated pair",
			"user_id", user.GetID(),
			"error", err.Error())
		if rerr := c.lifecycle.Reinstate(ctx, refresh); rerr != nil {
			c.logger.Error("Session controller: failed to reinstate consumed refresh token",
				"user_id", user.GetID(),
				"error", rerr.Error())
		}
		return Session[U]{}, err
	}

	c.logger.Info("Session controller: session rotated",
		"user_id", user.GetID())

	return session, nil
}

// Logout disables the session token and its refresh token. Without an
// explicit refreshValue the user's only active refresh token is disabled.
func (c *SessionController[U]) Logout(ctx context.Context, sessionValue, refreshValue string) error {
	if !c.lifecycle.Persisted() {
		return nil
	}
	if sessionValue == "" {
		return model.ErrTokenMissing
	}

	session, err := c.lifecycle.Revoke(ctx, model.TokenTypeSession, sessionValue, uuid.Nil)
	if err != nil {
		return err
	}

	if refreshValue != "" {
		_, err := c.lifecycle.Revoke(ctx, model.TokenTypeRefresh, refreshValue, session.UserID)
		if err != nil && !errors.Is(err, model.ErrTokenNotRegistered) {
			return err
		}
	} else {
		active, err := c.lifecycle.Active(ctx, session.UserID, model.TokenTypeRefresh)
		if err != nil {
			return err
		}
		if len(active) == 1 {
			if err := c.lifecycle.Disable(ctx, &active[0]); err != nil {
				return err
			}
		}
	}

	c.logger.Info("Session controller: user logged out",
		"user_id", session.UserID)

	return nil
}

// CurrentUser returns the identity with the given ID.
func (c *SessionController[U]) CurrentUser(ctx context.Context, userID uuid.UUID) (U, error) {
	var zero U

	user, err := c.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return zero, model.ErrUserNotFound
		}
		return zero, storeError(err)
	}
	return user, nil
}

// GetUserID validates a session token without rotation and returns its owner.
func (c *SessionController[U]) GetUserID(ctx context.Context, sessionValue string) (uuid.UUID, error) {
	_, user, err := c.lifecycle.Validate(ctx, sessionValue, model.TokenTypeSession, nil)
	if err != nil {
		return uuid.Nil, err
	}
	return user.GetID(), nil
}

func (c *SessionController[U]) issuePair(ctx context.Context, user U) (Session[U], error) {
	session, err := c.lifecycle.Issue(ctx, user, model.TokenTypeSession, 0, nil)
	if err != nil {
		return Session[U]{}, err
	}

	refresh, err := c.lifecycle.Issue(ctx, user, model.TokenTypeRefresh, 0, map[string]string{
		model.PayloadSession: session.Value,
	})
	if err != nil {
		if derr := c.lifecycle.Disable(ctx, &session); derr != nil {
			c.logger.Warn("Session controller: failed to disable unpaired session token",
				"user_id", user.GetID(),
				"error", derr.Error())
		}
		return Session[U]{}, err
	}

	return Session[U]{Token: &session, Refresh: &refresh, User: user}, nil
}

func (c *SessionController[U]) ensureFree(ctx context.Context, field model.LoginField, value string, taken error) error {
	_, err := c.users.FindByLogin(ctx, []model.LoginField{field}, value)
	switch {
	case err == nil:
		return taken
	case errors.Is(err, model.ErrNotFound):
		return nil
	default:
		return storeError(err)
	}
}
