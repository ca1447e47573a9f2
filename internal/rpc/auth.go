package rpc

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/RowanDark/cribdrag/internal/logging"
)

const authorizationKey = "authorization"

const bearerPrefix = "Bearer "

// UnaryAuthInterceptor requires "authorization: Bearer <token>" metadata on
// every call and records each call in the audit trail. An empty token
// disables the check.
func UnaryAuthInterceptor(token string, audit *logging.AuditLogger, logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if token != "" {
			if err := authorize(ctx, token); err != nil {
				logger.Warn("rpc authentication failed", "method", info.FullMethod, "error", err)
				_ = audit.Emit(logging.AuditEvent{
					EventType: logging.EventRPCDenied,
					Decision:  logging.DecisionDeny,
					Reason:    status.Convert(err).Message(),
					Metadata:  map[string]any{"method": info.FullMethod},
				})
				return nil, err
			}
		}

		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)
		_ = audit.Emit(logging.AuditEvent{
			EventType: logging.EventRPCCall,
			Decision:  logging.DecisionAllow,
			Metadata: map[string]any{
				"method":      info.FullMethod,
				"code":        code.String(),
				"duration_ms": time.Since(start).Milliseconds(),
			},
		})
		return resp, err
	}
}

func authorize(ctx context.Context, token string) error {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return status.Error(codes.Unauthenticated, "missing metadata")
	}
	values := md.Get(authorizationKey)
	if len(values) == 0 {
		return status.Error(codes.Unauthenticated, "missing authorization header")
	}
	got, found := strings.CutPrefix(values[0], bearerPrefix)
	if !found {
		return status.Error(codes.Unauthenticated, "authorization must be a bearer token")
	}
	if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
		return status.Error(codes.Unauthenticated, "invalid auth token")
	}
	return nil
}
