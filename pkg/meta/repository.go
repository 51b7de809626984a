package meta

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"filestore/pkg/storage"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrRecordNotFound = errors.New("file record not found")

// Repository 封装所有对 SQL 数据库的操作
type Repository struct {
	db *DB
}

func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// RecordUploads 把一个批次的上传结果写入数据库
// files 与 results 必须一一对应 (Store.UploadFiles 的保证)
// 同一个 Key 重复上传时覆盖旧记录
func (r *Repository) RecordUploads(ctx context.Context, backend string, files []storage.FileInfo, results []storage.UploadedFile) error {
	if len(files) != len(results) {
		return fmt.Errorf("mismatched upload batch: %d files, %d results", len(files), len(results))
	}
	if len(results) == 0 {
		return nil
	}

	records := make([]FileRecord, 0, len(results))
	for i, res := range results {
		f := files[i]

		var metaJSON datatypes.JSON
		if md := storage.CoerceMetadata(f.Data); len(md) > 0 {
			raw, err := json.Marshal(md)
			if err != nil {
				return fmt.Errorf("failed to marshal metadata: %w", err)
			}
			metaJSON = datatypes.JSON(raw)
		}

		records = append(records, FileRecord{
			Backend:         backend,
			Key:             res.FullFilePath,
			FileName:        f.FileName,
			URL:             res.URL,
			ETag:            res.ETag,
			ContentType:     f.ContentType,
			ContentEncoding: f.ContentEncoding,
			SizeBytes:       int64(len(f.Buffer)),
			Metadata:        metaJSON,
		})
	}

	err := r.db.GetConn().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "backend"}, {Name: "object_key"}},
			UpdateAll: true,
		}).
		Create(&records).Error
	if err != nil {
		return fmt.Errorf("failed to record uploads: %w", err)
	}
	return nil
}

// GetRecord 按 (Backend, Key) 查询
func (r *Repository) GetRecord(ctx context.Context, backend, key string) (*FileRecord, error) {
	var rec FileRecord
	err := r.db.GetConn().WithContext(ctx).
		Where("backend = ? AND object_key = ?", backend, key).
		First(&rec).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
