package interceptor

import (
	"context"
	"time"

	"biliran-rental-backend/internal/logger"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// Unary returns a server interceptor that logs each unary RPC with its
// status code and duration
func Unary() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Debug("gRPC request",
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"duration_ms", time.Since(start).Milliseconds())
		return resp, err
	}
}
