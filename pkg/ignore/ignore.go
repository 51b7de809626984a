package ignore

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
	"github.com/spf13/afero"
)

// FileName 是用户自定义忽略规则所在的文件
const FileName = ".fsignore"

// defaultRules 强制生效，防止误上传
var defaultRules = []string{
	// --- 工具自身 ---
	".fs", // 默认的本地存储目录和 catalog.db
	FileName,
	".git",

	// --- 安全与配置 ---
	"config.yaml", // 防止 S3 Secret Key 泄露
	".env",

	// --- 常见垃圾文件 ---
	".DS_Store",
	"Thumbs.db",
}

// Matcher 判断一个文件在目录上传时是否应该被跳过
type Matcher struct {
	ignorer *gitignore.GitIgnore
}

// NewMatcher 合并默认规则和 rootPath/.fsignore (如果存在)
func NewMatcher(fsys afero.Fs, rootPath string) (*Matcher, error) {
	lines := append([]string(nil), defaultRules...)

	data, err := afero.ReadFile(fsys, filepath.Join(rootPath, FileName))
	switch {
	case err == nil:
		lines = append(lines, strings.Split(string(data), "\n")...)
	case errors.Is(err, fs.ErrNotExist):
		// 没有 .fsignore，仅使用默认规则
	default:
		return nil, err
	}

	return &Matcher{ignorer: gitignore.CompileIgnoreLines(lines...)}, nil
}

// Matches 检查给定的路径是否匹配忽略规则
// path: 相对于上传根目录的路径 (例如 "data/model.bin")
func (m *Matcher) Matches(path string) bool {
	if m == nil || m.ignorer == nil {
		return false
	}
	return m.ignorer.MatchesPath(filepath.ToSlash(path))
}

// Collect 遍历 root，返回所有未被忽略的普通文件 (相对路径, 斜杠分隔, 字典序)
// 被忽略的目录整体跳过
func Collect(fsys afero.Fs, root string, m *Matcher) ([]string, error) {
	var files []string
	err := afero.Walk(fsys, root, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		if m.Matches(rel) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.Mode().IsRegular() {
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
