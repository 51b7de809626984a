package storage

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// 后端类型标识，供外部注册表 (pkg/app) 根据配置选择实现
const (
	TypeLocal = "LOCAL"
	TypeS3    = "S3"
)

// AvailableTypes 返回所有内置后端的类型标识
func AvailableTypes() []string {
	return []string{TypeLocal, TypeS3}
}

// Store defines the interface for a file storage backend.
// Implementations can be local disk or an S3 compatible object store.
type Store interface {
	// UploadFiles 批量上传，返回结果与输入一一对应 (顺序、数量一致)
	// 任意一个文件失败，整个调用返回 *StoreError (KindUpload)，不返回部分结果
	UploadFiles(ctx context.Context, opts UploadFilesOptions) ([]UploadedFile, error)

	// GetFiles 批量读取，语义同上 (KindFetch)
	GetFiles(ctx context.Context, opts GetFilesOptions) ([]RetrievedFile, error)

	// StoreType 返回后端类型标识 (TypeLocal / TypeS3)
	StoreType() string
}

// FileInfo 描述一个待上传的文件
type FileInfo struct {
	Buffer          []byte
	FileName        string
	ContentType     string
	ContentLength   int64 // 0 表示未知
	ContentEncoding string

	// Data 是任意的附加元数据，S3 后端会把它转换成 string 写入对象元数据
	Data map[string]any

	// Path 是逻辑目录，可以为空
	Path string

	// GenerateUUID 为 true 时用随机 UUID 替代 FileName 作为存储名
	GenerateUUID bool
}

// UploadedFile 是单个文件的上传结果
type UploadedFile struct {
	FullFilePath string
	URL          string
	ETag         string

	// StorageInfo 是后端特定的原始返回值
	StorageInfo any
}

// RetrievedFile 是读取到的文件
type RetrievedFile struct {
	Buffer          []byte
	FileName        string
	Path            string
	ContentType     string
	ContentLength   int64
	ContentEncoding string
	ETag            string
	Metadata        map[string]string
}

type UploadFilesOptions struct {
	Files []FileInfo
}

type GetFilesOptions struct {
	FileKeys []string
}

// ResolveKey 计算文件的存储 Key: "<path>/<name>"
// name 为随机 UUID (v4) 或原始文件名。所有后端必须使用同一个算法。
// 不做任何清洗与冲突检测，调用方负责提供安全的名字。
func ResolveKey(f FileInfo) string {
	name := f.FileName
	if f.GenerateUUID {
		name = uuid.NewString()
	}
	var b strings.Builder
	b.Grow(len(f.Path) + 1 + len(name))
	b.WriteString(f.Path)
	b.WriteByte('/')
	b.WriteString(name)
	return b.String()
}
