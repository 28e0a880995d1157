package interceptor

import (
	"context"
	"runtime/debug"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"docs-approval-backend/internal/logger"
)

// Unary logs every unary RPC and converts handler panics into codes.Internal.
func Unary() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		start := time.Now()
		defer func() {
			if p := recover(); p != nil {
				logger.Error("Panic recovered in gRPC handler",
					"method", info.FullMethod,
					"panic", p,
					"stack", string(debug.Stack()),
				)
				resp, err = nil, status.Error(codes.Internal, "internal error")
			}

			code := status.Code(err)
			args := []any{"method", info.FullMethod, "code", code.String(), "latency_ms", time.Since(start).Milliseconds()}
			if code == codes.OK {
				logger.Debug("RPC completed", args...)
			} else {
				logger.Warn("RPC failed", append(args, "error", err)...)
			}
		}()
		return handler(ctx, req)
	}
}
