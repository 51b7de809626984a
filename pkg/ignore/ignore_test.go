package ignore

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcher_Defaults(t *testing.T) {
	// 1. 空目录 (没有 .fsignore)
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/work", 0o755))

	matcher, err := NewMatcher(fsys, "/work")
	require.NoError(t, err)

	// 2. 验证默认规则
	tests := []struct {
		path     string
		shouldIg bool
	}{
		{".fs", true},
		{".fs/files/aa", true}, // 子路径也应该被忽略
		{".git", true},
		{".fsignore", true},
		{"config.yaml", true},
		{".DS_Store", true},
		{"main.go", false},
		{"data/model.bin", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.shouldIg, matcher.Matches(tt.path), "Path: %s", tt.path)
		})
	}
}

func TestMatcher_WithUserFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	ignoreContent := `
# 这是注释
*.log
temp
!important.log
`
	require.NoError(t, afero.WriteFile(fsys, "/work/.fsignore", []byte(ignoreContent), 0o644))

	matcher, err := NewMatcher(fsys, "/work")
	require.NoError(t, err)

	tests := []struct {
		path     string
		shouldIg bool
	}{
		// --- 默认规则依然要生效 ---
		{".fs", true},
		{"config.yaml", true},

		// --- 用户规则生效 ---
		{"app.log", true},
		{"logs/error.log", true},
		{"temp", true},
		{"temp/file", true},

		{"main.go", false},

		// --- 负向规则 ---
		{"important.log", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.shouldIg, matcher.Matches(tt.path), "Path: %s", tt.path)
		})
	}
}

func TestMatcher_Nil(t *testing.T) {
	var m *Matcher
	assert.False(t, m.Matches("anything"))
}

func TestCollect(t *testing.T) {
	fsys := afero.NewMemMapFs()
	root := "/work"
	for _, p := range []string{
		"b.txt",
		"a/one.bin",
		"a/debug.log",
		".fs/files/x",
		"temp/skip.txt",
		"config.yaml",
	} {
		require.NoError(t, afero.WriteFile(fsys, filepath.Join(root, p), []byte(p), 0o644))
	}
	require.NoError(t, afero.WriteFile(fsys, filepath.Join(root, FileName), []byte("*.log\ntemp\n"), 0o644))

	m, err := NewMatcher(fsys, root)
	require.NoError(t, err)

	files, err := Collect(fsys, root, m)
	require.NoError(t, err)
	assert.Equal(t, []string{"a/one.bin", "b.txt"}, files)
}

func TestCollect_MissingRoot(t *testing.T) {
	_, err := Collect(afero.NewMemMapFs(), "/nope", nil)
	assert.Error(t, err)
}
