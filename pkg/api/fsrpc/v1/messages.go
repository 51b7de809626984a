package fsrpc

// File 是上传请求中的单个文件
// Metadata 在客户端已经转换为 string，服务端不会再丢弃任何值
type File struct {
	Buffer          []byte            `cbor:"buffer"`
	FileName        string            `cbor:"file_name"`
	ContentType     string            `cbor:"content_type,omitempty"`
	ContentLength   int64             `cbor:"content_length,omitempty"`
	ContentEncoding string            `cbor:"content_encoding,omitempty"`
	Metadata        map[string]string `cbor:"metadata,omitempty"`
	Path            string            `cbor:"path"`
	GenerateUUID    bool              `cbor:"generate_uuid,omitempty"`
}

type UploadFilesRequest struct {
	Files []File `cbor:"files"`
}

// UploadedFile 不携带后端相关的 StorageInfo
type UploadedFile struct {
	FullFilePath string `cbor:"full_file_path"`
	URL          string `cbor:"url"`
	ETag         string `cbor:"etag,omitempty"`
}

type UploadFilesResponse struct {
	Files []UploadedFile `cbor:"files"`
}

type GetFilesRequest struct {
	Keys []string `cbor:"keys"`
}

type RetrievedFile struct {
	Buffer          []byte            `cbor:"buffer"`
	FileName        string            `cbor:"file_name"`
	Path            string            `cbor:"path"`
	ContentType     string            `cbor:"content_type,omitempty"`
	ContentLength   int64             `cbor:"content_length,omitempty"`
	ContentEncoding string            `cbor:"content_encoding,omitempty"`
	ETag            string            `cbor:"etag,omitempty"`
	Metadata        map[string]string `cbor:"metadata,omitempty"`
}

type GetFilesResponse struct {
	Files []RetrievedFile `cbor:"files"`
}

type StoreTypeRequest struct{}

type StoreTypeResponse struct {
	Type string `cbor:"type"`
}
