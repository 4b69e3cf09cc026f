package middleware

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	grpcctx "github.com/dtroode/sessionkeeper/internal/api/grpc/context"
	"github.com/dtroode/sessionkeeper/internal/logger"
	"github.com/dtroode/sessionkeeper/internal/model"
)

// TokenService resolves user ID from bearer tokens.
type TokenService interface {
	GetUserID(ctx context.Context, token string) (uuid.UUID, error)
}

// Authenticate validates bearer tokens and injects user ID into context.
type Authenticate struct {
	tokenService   TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenService TokenService, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenService: tokenService, contextManager: contextManager, logger: logger}
}

// AuthFunc reads the bearer token, validates it and returns a context with user ID.
func (m *Authenticate) AuthFunc(ctx context.Context) (context.Context, error) {
	token := grpcctx.BearerToken(ctx)
	if token == "" {
		return nil, status.Error(codes.Unauthenticated, "missing authorization token")
	}

	userID, err := m.tokenService.GetUserID(ctx, token)
	if err != nil {
		if errors.Is(err, model.ErrStore) {
			m.logger.Error("Authenticate middleware: token store failure",
				"error", err.Error())
			return nil, status.Error(codes.Internal, "internal server error")
		}
		m.logger.Debug("Authenticate middleware: token rejected",
			"error", err.Error())
		return nil, status.Error(codes.Unauthenticated, "invalid authorization token")
	}

	if userID == uuid.Nil {
		return nil, status.Error(codes.Unauthenticated, "invalid authorization token")
	}

	return m.contextManager.SetUserIDToContext(ctx, userID), nil
}
