package interceptor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"rentalshop-backend/internal/logger"
)

// UnaryLogging attaches a request-scoped logger and logs each call with its status code
func UnaryLogging() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		l := logger.Get().With("request_id", uuid.NewString(), "method", info.FullMethod)

		resp, err := handler(logger.NewContext(ctx, l), req)

		code := status.Code(err)
		if err != nil {
			l.Warn("gRPC call failed", "code", code.String(), "duration_ms", time.Since(start).Milliseconds(), "error", err)
		} else {
			l.Debug("gRPC call", "code", code.String(), "duration_ms", time.Since(start).Milliseconds())
		}
		return resp, err
	}
}
