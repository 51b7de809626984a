package storage

import (
	"errors"
	"fmt"
)

// Kind 区分失败的操作类别
type Kind int

const (
	// KindUpload - UploadFiles 失败
	KindUpload Kind = iota + 1
	// KindFetch - GetFiles 失败
	KindFetch
	// KindProvision - 构造阶段 (例如 Bucket 检查/创建) 失败
	KindProvision
)

func (k Kind) String() string {
	switch k {
	case KindUpload:
		return "upload"
	case KindFetch:
		return "fetch"
	case KindProvision:
		return "provision"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// StoreError 是唯一跨越 Store 边界的错误类型
// Message 给出修复建议，Err 保留原始错误供诊断
type StoreError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// UploadFailed 与 GetFileFailed 对应旧的布尔标记，构造期错误两者皆为 false
func (e *StoreError) UploadFailed() bool { return e.Kind == KindUpload }

func (e *StoreError) GetFileFailed() bool { return e.Kind == KindFetch }

func NewUploadError(msg string, err error) *StoreError {
	return &StoreError{Kind: KindUpload, Message: msg, Err: err}
}

func NewFetchError(msg string, err error) *StoreError {
	return &StoreError{Kind: KindFetch, Message: msg, Err: err}
}

func NewProvisionError(msg string, err error) *StoreError {
	return &StoreError{Kind: KindProvision, Message: msg, Err: err}
}

func IsUploadFailed(err error) bool { return hasKind(err, KindUpload) }

func IsFetchFailed(err error) bool { return hasKind(err, KindFetch) }

func IsProvisionFailed(err error) bool { return hasKind(err, KindProvision) }

func hasKind(err error, kind Kind) bool {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Kind == kind
	}
	return false
}
