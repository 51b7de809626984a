package storage

import (
	"path"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveKey_FileName(t *testing.T) {
	tests := []struct {
		name string
		file FileInfo
		want string
	}{
		{"With path", FileInfo{FileName: "a.txt", Path: "docs"}, "docs/a.txt"},
		{"Nested path", FileInfo{FileName: "a.txt", Path: "docs/2024"}, "docs/2024/a.txt"},
		{"Empty path", FileInfo{FileName: "a.txt"}, "/a.txt"},
		{"No sanitisation", FileInfo{FileName: "../b.txt", Path: "docs/"}, "docs//../b.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveKey(tt.file)
			assert.Equal(t, tt.want, got)
			// 确定性：重复解析结果一致
			assert.Equal(t, got, ResolveKey(tt.file))
		})
	}
}

func TestResolveKey_GenerateUUID(t *testing.T) {
	f := FileInfo{FileName: "a.txt", Path: "docs", GenerateUUID: true}

	k1 := ResolveKey(f)
	k2 := ResolveKey(f)
	assert.NotEqual(t, k1, k2, "每次解析都应该生成新的 UUID")

	for _, k := range []string{k1, k2} {
		assert.Equal(t, "docs", path.Dir(k))

		id, err := uuid.Parse(path.Base(k))
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(4), id.Version())
	}
}

func TestAvailableTypes(t *testing.T) {
	assert.ElementsMatch(t, []string{"LOCAL", "S3"}, AvailableTypes())
}
