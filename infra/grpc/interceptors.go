package grpc

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc"
)

func loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	resp, err := handler(ctx, req)
	if err != nil {
		zap.L().Warn("grpc request failed",
			zap.String("method", info.FullMethod),
			zap.Error(err))
	}
	return resp, err
}

func recoveryInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("recovered from panic in grpc handler",
				zap.String("method", info.FullMethod),
				zap.Any("panic", r))
		}
	}()
	return handler(ctx, req)
}
