package local

import (
	"context"
	"fmt"
	"path/filepath"

	"filestore/pkg/storage"

	"github.com/spf13/afero"
)

const (
	uploadErrMsg = "unable to store the files, please check that the base path exists and is writable"
	getErrMsg    = "unable to get files, please check that provided file paths exist and are readable"
)

// Adapter 实现了 storage.Store 接口，把文件写到本地目录下
type Adapter struct {
	basePath string // 构造时解析成绝对路径, 比如: /data
	fs       afero.Fs
	limit    int
}

// StorageInfo 是本地后端返回的 UploadedFile.StorageInfo
type StorageInfo struct {
	BaseFullPath string
	FullFilePath string
	FileName     string
}

type Option func(*Adapter)

// WithFs 替换底层文件系统 (测试时可以传 afero.NewMemMapFs())
func WithFs(fs afero.Fs) Option {
	return func(a *Adapter) {
		a.fs = fs
	}
}

// WithConcurrency 限制单个批次内的并发数，<= 0 表示不限制
func WithConcurrency(n int) Option {
	return func(a *Adapter) {
		a.limit = n
	}
}

// NewAdapter 创建一个新的本地存储适配器
// 这里不检查目录是否存在，不存在或不可写的问题会在第一次写入时暴露
func NewAdapter(basePath string, opts ...Option) *Adapter {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		// 只有 Getwd 失败才会走到这里
		abs = filepath.Clean(basePath)
	}

	a := &Adapter{
		basePath: abs,
		fs:       afero.NewOsFs(),
	}
	for _, apply := range opts {
		apply(a)
	}
	return a
}

func (a *Adapter) StoreType() string { return storage.TypeLocal }

// BasePath 返回解析后的绝对根目录
func (a *Adapter) BasePath() string { return a.basePath }

// layout 返回 Key 对应的物理路径
// Example: base "/data", key "docs/a.txt" -> /data/docs/a.txt
func (a *Adapter) layout(key string) string {
	return filepath.Join(a.basePath, filepath.FromSlash(key))
}

func (a *Adapter) UploadFiles(ctx context.Context, opts storage.UploadFilesOptions) ([]storage.UploadedFile, error) {
	res, err := storage.RunBatch(ctx, len(opts.Files), a.limit, func(ctx context.Context, i int) (storage.UploadedFile, error) {
		return a.put(opts.Files[i])
	})
	if err != nil {
		return nil, storage.NewUploadError(uploadErrMsg, err)
	}
	return res, nil
}

func (a *Adapter) put(file storage.FileInfo) (storage.UploadedFile, error) {
	fullPath := a.layout(storage.ResolveKey(file))

	// 父目录必须已经存在，这里不做 MkdirAll
	if err := afero.WriteFile(a.fs, fullPath, file.Buffer, 0o644); err != nil {
		return storage.UploadedFile{}, fmt.Errorf("write %q: %w", fullPath, err)
	}

	return storage.UploadedFile{
		FullFilePath: fullPath,
		URL:          fullPath,
		StorageInfo: StorageInfo{
			BaseFullPath: a.basePath,
			FullFilePath: fullPath,
			FileName:     file.FileName,
		},
	}, nil
}

// GetFiles 读取文件
// 注意：这里的 Key 就是完整路径 (UploadFiles 返回的 FullFilePath)，不会再拼接 basePath
func (a *Adapter) GetFiles(ctx context.Context, opts storage.GetFilesOptions) ([]storage.RetrievedFile, error) {
	res, err := storage.RunBatch(ctx, len(opts.FileKeys), a.limit, func(ctx context.Context, i int) (storage.RetrievedFile, error) {
		return a.get(opts.FileKeys[i])
	})
	if err != nil {
		return nil, storage.NewFetchError(getErrMsg, err)
	}
	return res, nil
}

func (a *Adapter) get(key string) (storage.RetrievedFile, error) {
	data, err := afero.ReadFile(a.fs, key)
	if err != nil {
		return storage.RetrievedFile{}, fmt.Errorf("read %q: %w", key, err)
	}

	return storage.RetrievedFile{
		Buffer:        data,
		FileName:      filepath.Base(key),
		Path:          filepath.Dir(key),
		ContentLength: int64(len(data)),
	}, nil
}

var _ storage.Store = (*Adapter)(nil)
