package meta

import (
	"time"

	"gorm.io/datatypes"
)

// FileRecord 记录一次成功上传的结果
// 同一个 Key 在不同后端里是不同的文件，所以主键是 (Backend, Key)
type FileRecord struct {
	Backend string `gorm:"primaryKey;type:varchar(32)"`
	Key     string `gorm:"primaryKey;column:object_key;type:varchar(1024)"`

	FileName        string `gorm:"type:varchar(255)"`
	URL             string `gorm:"type:text"`
	ETag            string `gorm:"type:varchar(128)"`
	ContentType     string `gorm:"type:varchar(255)"`
	ContentEncoding string `gorm:"type:varchar(64)"`
	SizeBytes       int64

	// Metadata 是上传时附带的元数据 (已经转换成 string)
	Metadata datatypes.JSON

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (FileRecord) TableName() string {
	return "file_records"
}
