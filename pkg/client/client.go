package client

import (
	"context"
	"fmt"
	"time"

	fsrpc "filestore/pkg/api/fsrpc/v1"
	"filestore/pkg/storage"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/status"
)

// FSClient 封装了与 fs-server 的连接，方法签名与 storage.Store 一致
type FSClient struct {
	conn *grpc.ClientConn

	Files fsrpc.FileServiceClient
}

// NewFSClient 创建并初始化客户端
// 它会立即返回，连接在后台进行
func NewFSClient(addr string, extra ...grpc.DialOption) (*FSClient, error) {
	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(
			grpc.MaxCallRecvMsgSize(fsrpc.MaxMessageSize),
			grpc.MaxCallSendMsgSize(fsrpc.MaxMessageSize),
		),
		// 保持连接活跃
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                10 * time.Second,
			Timeout:             20 * time.Second,
			PermitWithoutStream: true,
		}),
	}

	conn, err := grpc.NewClient(addr, append(opts, extra...)...)
	if err != nil {
		// 这里的 err 通常只是配置错误（如地址格式不对），网络不通不会在这里报错
		return nil, fmt.Errorf("failed to create grpc client for %s: %w", addr, err)
	}

	return &FSClient{
		conn:  conn,
		Files: fsrpc.NewFileServiceClient(conn),
	}, nil
}

// UploadFiles 元数据在本地先转换为 string，不可转换的值在发送前丢弃
func (c *FSClient) UploadFiles(ctx context.Context, opts storage.UploadFilesOptions) ([]storage.UploadedFile, error) {
	req := &fsrpc.UploadFilesRequest{Files: make([]fsrpc.File, len(opts.Files))}
	for i, f := range opts.Files {
		req.Files[i] = fsrpc.File{
			Buffer:          f.Buffer,
			FileName:        f.FileName,
			ContentType:     f.ContentType,
			ContentLength:   f.ContentLength,
			ContentEncoding: f.ContentEncoding,
			Metadata:        storage.CoerceMetadata(f.Data),
			Path:            f.Path,
			GenerateUUID:    f.GenerateUUID,
		}
	}

	resp, err := c.Files.UploadFiles(ctx, req)
	if err != nil {
		return nil, storage.NewUploadError(remoteMessage("upload", err), err)
	}

	out := make([]storage.UploadedFile, len(resp.Files))
	for i, u := range resp.Files {
		out[i] = storage.UploadedFile{
			FullFilePath: u.FullFilePath,
			URL:          u.URL,
			ETag:         u.ETag,
		}
	}
	return out, nil
}

func (c *FSClient) GetFiles(ctx context.Context, opts storage.GetFilesOptions) ([]storage.RetrievedFile, error) {
	resp, err := c.Files.GetFiles(ctx, &fsrpc.GetFilesRequest{Keys: opts.FileKeys})
	if err != nil {
		return nil, storage.NewFetchError(remoteMessage("get", err), err)
	}

	out := make([]storage.RetrievedFile, len(resp.Files))
	for i, f := range resp.Files {
		out[i] = storage.RetrievedFile{
			Buffer:          f.Buffer,
			FileName:        f.FileName,
			Path:            f.Path,
			ContentType:     f.ContentType,
			ContentLength:   f.ContentLength,
			ContentEncoding: f.ContentEncoding,
			ETag:            f.ETag,
			Metadata:        f.Metadata,
		}
	}
	return out, nil
}

// Backend 返回服务端使用的后端类型 (LOCAL / S3)
func (c *FSClient) Backend(ctx context.Context) (string, error) {
	resp, err := c.Files.StoreType(ctx, &fsrpc.StoreTypeRequest{})
	if err != nil {
		return "", fmt.Errorf("failed to query remote backend: %w", err)
	}
	return resp.Type, nil
}

// Close 关闭底层连接
func (c *FSClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// remoteMessage 只带上状态码，服务端的原始描述保留在 Err 里
func remoteMessage(op string, err error) string {
	return fmt.Sprintf("remote %s failed (%s)", op, status.Code(err))
}
