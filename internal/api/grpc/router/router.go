package router

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"

	"github.com/dtroode/sessionkeeper/internal/api/grpc/authapi"
	"github.com/dtroode/sessionkeeper/internal/api/grpc/handler"
	"github.com/dtroode/sessionkeeper/internal/api/grpc/middleware"
	"github.com/dtroode/sessionkeeper/internal/logger"
	"github.com/dtroode/sessionkeeper/internal/model"
)

// Router represents a gRPC router for session operations.
// It manages gRPC service registration and middleware configuration.
type Router struct {
	sessions       handler.SessionService
	tokens         middleware.TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// New creates new gRPC Router instance.
//
// Parameters:
//   - sessions: The session controller serving the Auth endpoints
//   - tokens: Resolves bearer tokens for authenticated endpoints
//   - contextManager: Stores the authenticated user ID in request contexts
//   - logger: The logger for request logging
func New(
	sessions handler.SessionService,
	tokens middleware.TokenService,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		sessions:       sessions,
		tokens:         tokens,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Login, Register, Validate, Refresh and Logout read their tokens themselves.
func requiresAuth(_ context.Context, c interceptors.CallMeta) bool {
	return c.FullMethod() == authapi.Auth_CurrentUser_FullMethodName
}

// Register registers all gRPC services and middleware.
//
// Returns the configured gRPC server instance.
func (r *Router) Register(opts ...grpc.ServerOption) *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	recovery := middleware.NewRecovery(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokens, r.contextManager, r.logger)

	opts = append(opts,
		grpc.ChainUnaryInterceptor(
			logging.HandleGRPC,
			recovery.UnaryServerInterceptor(),
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(requiresAuth),
			),
		),
	)

	s := grpc.NewServer(opts...)
	r.registerAuthRoutes(s)

	return s
}

func (r *Router) registerAuthRoutes(server *grpc.Server) {
	authHandler := handler.NewAuth(r.sessions, r.contextManager, r.logger)
	authapi.RegisterAuthServer(server, authHandler)
}
