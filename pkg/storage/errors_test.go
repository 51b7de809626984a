package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreError_Flags(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name       string
		err        *StoreError
		wantUpload bool
		wantFetch  bool
	}{
		{"Upload", NewUploadError("upload failed", cause), true, false},
		{"Fetch", NewFetchError("fetch failed", cause), false, true},
		{"Provision", NewProvisionError("provision failed", cause), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantUpload, tt.err.UploadFailed())
			assert.Equal(t, tt.wantFetch, tt.err.GetFileFailed())
			assert.ErrorIs(t, tt.err, cause, "原始错误必须保留")
		})
	}
}

func TestStoreError_Message(t *testing.T) {
	err := NewUploadError("unable to upload", fs.ErrPermission)
	assert.Equal(t, "unable to upload: permission denied", err.Error())

	bare := &StoreError{Kind: KindFetch, Message: "unable to get"}
	assert.Equal(t, "unable to get", bare.Error())
	assert.Nil(t, bare.Unwrap())
}

func TestStoreError_Helpers(t *testing.T) {
	// 被其他错误再包一层后依然可以识别
	wrapped := fmt.Errorf("cli: %w", NewFetchError("unable to get", fs.ErrNotExist))

	assert.True(t, IsFetchFailed(wrapped))
	assert.False(t, IsUploadFailed(wrapped))
	assert.False(t, IsProvisionFailed(wrapped))
	assert.ErrorIs(t, wrapped, fs.ErrNotExist)

	var se *StoreError
	require.ErrorAs(t, wrapped, &se)
	assert.Equal(t, KindFetch, se.Kind)

	assert.False(t, IsUploadFailed(errors.New("plain")))
	assert.False(t, IsUploadFailed(nil))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "upload", KindUpload.String())
	assert.Equal(t, "fetch", KindFetch.String())
	assert.Equal(t, "provision", KindProvision.String())
	assert.Equal(t, "kind(0)", Kind(0).String())
}
