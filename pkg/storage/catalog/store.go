package catalog

import (
	"context"
	"log/slog"

	"filestore/pkg/storage"
)

// Recorder 持久化上传结果，*meta.Repository 天然满足
type Recorder interface {
	RecordUploads(ctx context.Context, backend string, files []storage.FileInfo, results []storage.UploadedFile) error
}

// Store 是一个装饰器：上传成功后把结果写入目录 (Catalog)
// 目录写入失败只记录日志，不影响上传本身的结果
type Store struct {
	inner storage.Store
	rec   Recorder
}

func New(inner storage.Store, rec Recorder) *Store {
	return &Store{inner: inner, rec: rec}
}

func (s *Store) StoreType() string { return s.inner.StoreType() }

// Unwrap 返回被装饰的后端
func (s *Store) Unwrap() storage.Store { return s.inner }

func (s *Store) UploadFiles(ctx context.Context, opts storage.UploadFilesOptions) ([]storage.UploadedFile, error) {
	res, err := s.inner.UploadFiles(ctx, opts)
	if err != nil {
		return nil, err
	}

	if err := s.rec.RecordUploads(ctx, s.inner.StoreType(), opts.Files, res); err != nil {
		slog.WarnContext(ctx, "failed to record uploads in catalog",
			slog.String("backend", s.inner.StoreType()),
			slog.Int("files", len(res)),
			slog.Any("error", err),
		)
	}
	return res, nil
}

func (s *Store) GetFiles(ctx context.Context, opts storage.GetFilesOptions) ([]storage.RetrievedFile, error) {
	return s.inner.GetFiles(ctx, opts)
}

var _ storage.Store = (*Store)(nil)
