package handler

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dtroode/sessionkeeper/internal/api/grpc/authapi"
	grpcctx "github.com/dtroode/sessionkeeper/internal/api/grpc/context"
	"github.com/dtroode/sessionkeeper/internal/logger"
	"github.com/dtroode/sessionkeeper/internal/model"
	"github.com/dtroode/sessionkeeper/internal/service"
)

// SessionService defines account and session operations.
type SessionService interface {
	Login(ctx context.Context, identifier, password string) (service.Session[model.User], error)
	Register(ctx context.Context, r service.Registration) (model.User, error)
	Validate(ctx context.Context, sessionValue, refreshValue string) (service.Session[model.User], error)
	StartSession(ctx context.Context, user model.User) (service.Session[model.User], error)
	Logout(ctx context.Context, sessionValue, refreshValue string) error
	CurrentUser(ctx context.Context, userID uuid.UUID) (model.User, error)
}

// Request and response field names.
const (
	fieldIdentifier   = "identifier"
	fieldEmail        = "email"
	fieldUsername     = "username"
	fieldPassword     = "password"
	fieldLogin        = "login"
	fieldToken        = "token"
	fieldRefreshToken = "refreshToken"
	fieldUser         = "user"
	fieldID           = "id"
)

// Auth handles gRPC endpoints for authentication.
type Auth struct {
	authapi.UnimplementedAuthServer
	sessions       SessionService
	contextManager model.ContextManager
	logger         *logger.Logger
}

var _ authapi.AuthServer = (*Auth)(nil)

// NewAuth creates a new Auth handler.
func NewAuth(sessions SessionService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		sessions:       sessions,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Login authenticates by email or username and returns a token pair.
func (h *Auth) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	identifier := loginIdentifier(req)
	h.logger.Debug("Auth handler: processing login request")

	session, err := h.sessions.Login(ctx, identifier, stringField(req, fieldPassword))
	if err != nil {
		h.logger.Info("Auth handler: login failed",
			"error", err.Error())
		return nil, handleError(err)
	}

	return sessionResponse(session)
}

// Register creates an account. With login set it also returns a token pair.
func (h *Auth) Register(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	h.logger.Debug("Auth handler: processing registration request")

	user, err := h.sessions.Register(ctx, service.Registration{
		Email:    stringField(req, fieldEmail),
		Password: stringField(req, fieldPassword),
		Username: stringField(req, fieldUsername),
	})
	if err != nil {
		h.logger.Info("Auth handler: registration failed",
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Auth handler: registration completed",
		"user_id", user.ID)

	if !boolField(req, fieldLogin) {
		return structpb.NewStruct(map[string]any{fieldUser: userFields(user)})
	}

	session, err := h.sessions.StartSession(ctx, user)
	if err != nil {
		h.logger.Error("Auth handler: failed to start session after registration",
			"user_id", user.ID,
			"error", err.Error())
		return nil, handleError(err)
	}

	return sessionResponse(session)
}

// Validate checks the bearer session token without rotating it.
func (h *Auth) Validate(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	session, err := h.sessions.Validate(ctx, grpcctx.BearerToken(ctx), "")
	if err != nil {
		return nil, handleError(err)
	}

	return sessionResponse(session)
}

// Refresh validates the bearer session token and rotates the pair with the
// supplied refresh token when the session is no longer valid.
func (h *Auth) Refresh(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	refresh := stringField(req, fieldRefreshToken)
	if refresh == "" {
		return nil, status.Error(codes.InvalidArgument, "refresh token is required")
	}

	session, err := h.sessions.Validate(ctx, grpcctx.BearerToken(ctx), refresh)
	if err != nil {
		h.logger.Info("Auth handler: refresh failed",
			"error", err.Error())
		return nil, handleError(err)
	}

	return sessionResponse(session)
}

// Logout disables the bearer session token and its refresh token.
func (h *Auth) Logout(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	err := h.sessions.Logout(ctx, grpcctx.BearerToken(ctx), stringField(req, fieldRefreshToken))
	if err != nil {
		h.logger.Info("Auth handler: logout failed",
			"error", err.Error())
		return nil, handleError(err)
	}

	return &structpb.Struct{}, nil
}

// CurrentUser returns the authenticated user.
func (h *Auth) CurrentUser(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	userID, ok := h.contextManager.GetUserIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthenticated")
	}

	user, err := h.sessions.CurrentUser(ctx, userID)
	if err != nil {
		h.logger.Error("Auth handler: failed to get current user",
			"user_id", userID,
			"error", err.Error())
		return nil, handleError(err)
	}

	return structpb.NewStruct(userFields(user))
}

func loginIdentifier(req *structpb.Struct) string {
	for _, name := range []string{fieldIdentifier, fieldEmail, fieldUsername} {
		if v := stringField(req, name); v != "" {
			return v
		}
	}
	return ""
}

func stringField(req *structpb.Struct, name string) string {
	v, ok := req.GetFields()[name]
	if !ok {
		return ""
	}
	return v.GetStringValue()
}

func boolField(req *structpb.Struct, name string) bool {
	v, ok := req.GetFields()[name]
	if !ok {
		return false
	}
	return v.GetBoolValue()
}

func userFields(user model.User) map[string]any {
	fields := map[string]any{
		fieldID:    user.ID.String(),
		fieldEmail: user.Email,
	}
	if user.Username != "" {
		fields[fieldUsername] = user.Username
	}
	return fields
}

func sessionResponse(session service.Session[model.User]) (*structpb.Struct, error) {
	fields := map[string]any{
		fieldUser: userFields(session.User),
	}
	if session.Token != nil {
		fields[fieldToken] = session.Token.Value
	}
	if session.Refresh != nil {
		fields[fieldRefreshToken] = session.Refresh.Value
	}

	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal server error")
	}
	return out, nil
}
