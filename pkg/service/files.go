package service

import (
	"context"
	"errors"
	"io/fs"

	fsrpc "filestore/pkg/api/fsrpc/v1"
	"filestore/pkg/app"
	"filestore/pkg/storage"

	"github.com/aws/smithy-go"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FileService 把 storage.Store 暴露为 gRPC 服务
type FileService struct {
	fsrpc.UnimplementedFileServiceServer
	app *app.App
}

func NewFileService(application *app.App) *FileService {
	return &FileService{app: application}
}

// UploadFiles 处理批量上传
func (s *FileService) UploadFiles(ctx context.Context, req *fsrpc.UploadFilesRequest) (*fsrpc.UploadFilesResponse, error) {
	// 1. 校验：没有文件名又不生成 UUID，Key 会以 "/" 结尾
	files := make([]storage.FileInfo, len(req.Files))
	for i, f := range req.Files {
		if f.FileName == "" && !f.GenerateUUID {
			return nil, status.Errorf(codes.InvalidArgument, "files[%d]: file_name is required unless generate_uuid is set", i)
		}
		files[i] = fromWireFile(f)
	}

	// 2. 调用后端
	uploaded, err := s.app.Store.UploadFiles(ctx, storage.UploadFilesOptions{Files: files})
	if err != nil {
		return nil, toStatus(err)
	}

	// 3. Domain -> DTO
	resp := &fsrpc.UploadFilesResponse{Files: make([]fsrpc.UploadedFile, len(uploaded))}
	for i, u := range uploaded {
		resp.Files[i] = fsrpc.UploadedFile{
			FullFilePath: u.FullFilePath,
			URL:          u.URL,
			ETag:         u.ETag,
		}
	}
	return resp, nil
}

// GetFiles 处理批量下载
func (s *FileService) GetFiles(ctx context.Context, req *fsrpc.GetFilesRequest) (*fsrpc.GetFilesResponse, error) {
	for i, k := range req.Keys {
		if k == "" {
			return nil, status.Errorf(codes.InvalidArgument, "keys[%d]: key must not be empty", i)
		}
	}

	got, err := s.app.Store.GetFiles(ctx, storage.GetFilesOptions{FileKeys: req.Keys})
	if err != nil {
		return nil, toStatus(err)
	}

	resp := &fsrpc.GetFilesResponse{Files: make([]fsrpc.RetrievedFile, len(got))}
	for i, f := range got {
		resp.Files[i] = fsrpc.RetrievedFile{
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
	return resp, nil
}

func (s *FileService) StoreType(ctx context.Context, _ *fsrpc.StoreTypeRequest) (*fsrpc.StoreTypeResponse, error) {
	return &fsrpc.StoreTypeResponse{Type: s.app.Store.StoreType()}, nil
}

func fromWireFile(f fsrpc.File) storage.FileInfo {
	var data map[string]any
	if len(f.Metadata) > 0 {
		data = make(map[string]any, len(f.Metadata))
		for k, v := range f.Metadata {
			data[k] = v
		}
	}
	return storage.FileInfo{
		Buffer:          f.Buffer,
		FileName:        f.FileName,
		ContentType:     f.ContentType,
		ContentLength:   f.ContentLength,
		ContentEncoding: f.ContentEncoding,
		Data:            data,
		Path:            f.Path,
		GenerateUUID:    f.GenerateUUID,
	}
}

// toStatus 把 StoreError 映射为 gRPC 状态码
func toStatus(err error) error {
	var se *storage.StoreError
	if !errors.As(err, &se) {
		return status.Errorf(codes.Internal, "store failure: %v", err)
	}
	if se.GetFileFailed() && isMissing(err) {
		return status.Error(codes.NotFound, se.Error())
	}
	return status.Error(codes.Internal, se.Error())
}

// isMissing 本地文件不存在，或 S3 对象不存在
func isMissing(err error) bool {
	if errors.Is(err, fs.ErrNotExist) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}

var _ fsrpc.FileServiceServer = (*FileService)(nil)
