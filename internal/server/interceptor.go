package server

import (
	"context"
	"time"

	"github.com/emrgen/okr/internal/module"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func UnaryGrpcRequestTimeInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		reqTime := time.Since(start)

		entry := logrus.WithField("method", info.FullMethod)
		if actor, err := module.ActorFromContext(ctx); err == nil {
			entry = entry.WithField("actor_id", actor)
		}
		entry.Infof("request time: %v", reqTime)

		return resp, err
	}
}

// recoverPanic turns a handler panic into an Internal error.
func recoverPanic(p interface{}) error {
	logrus.Errorf("grpc handler panic: %v", p)
	return status.Error(codes.Internal, "internal error")
}
