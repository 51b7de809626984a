package fsrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	FileService_ServiceName                = "filestore.v1.FileService"
	FileService_UploadFiles_FullMethodName = "/filestore.v1.FileService/UploadFiles"
	FileService_GetFiles_FullMethodName    = "/filestore.v1.FileService/GetFiles"
	FileService_StoreType_FullMethodName   = "/filestore.v1.FileService/StoreType"
)

// FileServiceClient is the client API for FileService.
type FileServiceClient interface {
	UploadFiles(ctx context.Context, in *UploadFilesRequest, opts ...grpc.CallOption) (*UploadFilesResponse, error)
	GetFiles(ctx context.Context, in *GetFilesRequest, opts ...grpc.CallOption) (*GetFilesResponse, error)
	StoreType(ctx context.Context, in *StoreTypeRequest, opts ...grpc.CallOption) (*StoreTypeResponse, error)
}

type fileServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewFileServiceClient(cc grpc.ClientConnInterface) FileServiceClient {
	return &fileServiceClient{cc}
}

// withCodec 保证每个调用都使用 CBOR
func withCodec(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}

func (c *fileServiceClient) UploadFiles(ctx context.Context, in *UploadFilesRequest, opts ...grpc.CallOption) (*UploadFilesResponse, error) {
	out := new(UploadFilesResponse)
	if err := c.cc.Invoke(ctx, FileService_UploadFiles_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *fileServiceClient) GetFiles(ctx context.Context, in *GetFilesRequest, opts ...grpc.CallOption) (*GetFilesResponse, error) {
	out := new(GetFilesResponse)
	if err := c.cc.Invoke(ctx, FileService_GetFiles_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *fileServiceClient) StoreType(ctx context.Context, in *StoreTypeRequest, opts ...grpc.CallOption) (*StoreTypeResponse, error) {
	out := new(StoreTypeResponse)
	if err := c.cc.Invoke(ctx, FileService_StoreType_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

// FileServiceServer is the server API for FileService.
type FileServiceServer interface {
	UploadFiles(context.Context, *UploadFilesRequest) (*UploadFilesResponse, error)
	GetFiles(context.Context, *GetFilesRequest) (*GetFilesResponse, error)
	StoreType(context.Context, *StoreTypeRequest) (*StoreTypeResponse, error)
}

// UnimplementedFileServiceServer 嵌入后可以只实现部分方法
type UnimplementedFileServiceServer struct{}

func (UnimplementedFileServiceServer) UploadFiles(context.Context, *UploadFilesRequest) (*UploadFilesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UploadFiles not implemented")
}

func (UnimplementedFileServiceServer) GetFiles(context.Context, *GetFilesRequest) (*GetFilesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetFiles not implemented")
}

func (UnimplementedFileServiceServer) StoreType(context.Context, *StoreTypeRequest) (*StoreTypeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method StoreType not implemented")
}

func RegisterFileServiceServer(s grpc.ServiceRegistrar, srv FileServiceServer) {
	s.RegisterService(&FileService_ServiceDesc, srv)
}

func _FileService_UploadFiles_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(UploadFilesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FileServiceServer).UploadFiles(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: FileService_UploadFiles_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(FileServiceServer).UploadFiles(ctx, req.(*UploadFilesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _FileService_GetFiles_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetFilesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FileServiceServer).GetFiles(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: FileService_GetFiles_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(FileServiceServer).GetFiles(ctx, req.(*GetFilesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _FileService_StoreType_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(StoreTypeRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FileServiceServer).StoreType(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: FileService_StoreType_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(FileServiceServer).StoreType(ctx, req.(*StoreTypeRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// FileService_ServiceDesc 手写的服务描述，消息使用 CBOR 而不是 protobuf
var FileService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: FileService_ServiceName,
	HandlerType: (*FileServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "UploadFiles", Handler: _FileService_UploadFiles_Handler},
		{MethodName: "GetFiles", Handler: _FileService_GetFiles_Handler},
		{MethodName: "StoreType", Handler: _FileService_StoreType_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "filestore/v1/file_service",
}
