package server

import (
	fsrpc "filestore/pkg/api/fsrpc/v1"
	"filestore/pkg/app"
	"filestore/pkg/service"

	"google.golang.org/grpc"
)

// New 组装 gRPC Server 并注册 FileService
// Logging 在最外层，能看到 Recovery 把 panic 转换后的状态码
func New(application *app.App, opts ...grpc.ServerOption) *grpc.Server {
	base := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			UnaryLoggingInterceptor,
			UnaryRecoveryInterceptor,
		),
		grpc.MaxRecvMsgSize(fsrpc.MaxMessageSize),
		grpc.MaxSendMsgSize(fsrpc.MaxMessageSize),
	}

	s := grpc.NewServer(append(base, opts...)...)
	fsrpc.RegisterFileServiceServer(s, service.NewFileService(application))
	return s
}
