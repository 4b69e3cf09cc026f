package middleware

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/sessionkeeper/internal/logger"
)

// Logging is a unary interceptor that logs gRPC requests and results.
type Logging struct {
	logger *logger.Logger
	now    func() time.Time
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger, now: time.Now}
}

// HandleGRPC logs method name, duration and status for each unary request.
// Rejected credentials are logged at info level, server faults at error level.
func (l *Logging) HandleGRPC(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := l.now()
	log := l.logger.With("method", info.FullMethod)

	log.Debug("gRPC request started")

	resp, err := handler(ctx, req)

	code := statusCode(err)
	attrs := []any{
		"duration_ms", l.now().Sub(start).Milliseconds(),
		"status", code.String(),
	}

	switch code {
	case codes.OK:
		log.Info("gRPC request completed", attrs...)
	case codes.Internal, codes.Unknown, codes.Unavailable, codes.DataLoss:
		log.Error("gRPC request failed", append(attrs, "error", err.Error())...)
	default:
		log.Info("gRPC request rejected", append(attrs, "error", err.Error())...)
	}

	return resp, err
}

func statusCode(err error) codes.Code {
	if err == nil {
		return codes.OK
	}
	if st, ok := status.FromError(err); ok {
		return st.Code()
	}
	return codes.Internal
}
