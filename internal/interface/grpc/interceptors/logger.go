package interceptors

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func unaryLogger(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	log.Debugf("gRPC method: %s", info.FullMethod)
	return handler(ctx, req)
}

func streamLogger(
	srv interface{},
	stream grpc.ServerStream,
	info *grpc.StreamServerInfo,
	handler grpc.StreamHandler,
) error {
	log.Debugf("gRPC method: %s", info.FullMethod)
	return handler(srv, stream)
}

func unaryPanicRecovery(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (resp interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("panic in gRPC method %s: %v", info.FullMethod, r)
			err = status.Error(codes.Internal, fmt.Sprintf("%v", r))
		}
	}()
	return handler(ctx, req)
}

func streamPanicRecovery(
	srv interface{},
	stream grpc.ServerStream,
	info *grpc.StreamServerInfo,
	handler grpc.StreamHandler,
) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("panic in gRPC method %s: %v", info.FullMethod, r)
			err = status.Error(codes.Internal, fmt.Sprintf("%v", r))
		}
	}()
	return handler(srv, stream)
}
