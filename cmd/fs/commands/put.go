package commands

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"path/filepath"
	"strings"

	"filestore/pkg/ignore"
	"filestore/pkg/storage"
	"filestore/pkg/storage/local"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type putOptions struct {
	path            string
	uuid            bool
	contentType     string
	contentEncoding string
	meta            []string
}

var putOpts putOptions

var putCmd = &cobra.Command{
	Use:   "put <file|dir>...",
	Short: "Upload files (directories are walked, honouring .fsignore)",
	Long: `Uploads all given files in one batch. The batch is all-or-nothing:
if any file fails, no results are reported.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPut(cmd.Context(), activeStore(), args, putOpts, cmd.OutOrStdout())
	},
}

func runPut(ctx context.Context, store fileStore, args []string, o putOptions, out io.Writer) error {
	// 1. 解析 --meta
	data, err := parseMeta(o.meta)
	if err != nil {
		return err
	}

	// 2. 收集文件
	files, err := collectFiles(args, o, data)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(out, "Nothing to upload (everything is ignored).")
		return nil
	}

	// 3. 本地后端不会创建目录，CLI 代为创建
	if err := prepareLocalDirs(store, files); err != nil {
		return err
	}

	fmt.Fprintf(out, "📦 Uploading %d files...\n", len(files))
	res, err := store.UploadFiles(ctx, storage.UploadFilesOptions{Files: files})
	if err != nil {
		return err
	}

	for i, r := range res {
		fmt.Fprintf(out, "✅ %s -> %s\n", files[i].FileName, r.FullFilePath)
		if r.URL != "" && r.URL != r.FullFilePath {
			fmt.Fprintf(out, "   %s\n", r.URL)
		}
	}
	return nil
}

// collectFiles 把参数展开为 FileInfo，目录按相对路径拼接到 --path 下
func collectFiles(args []string, o putOptions, data map[string]any) ([]storage.FileInfo, error) {
	var files []storage.FileInfo
	for _, arg := range args {
		info, err := osFs.Stat(arg)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			f, err := readFileInfo(arg, o.path, o, data)
			if err != nil {
				return nil, err
			}
			files = append(files, f)
			continue
		}

		m, err := ignore.NewMatcher(osFs, arg)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", ignore.FileName, err)
		}
		rels, err := ignore.Collect(osFs, arg, m)
		if err != nil {
			return nil, err
		}
		for _, rel := range rels {
			dir := path.Dir(rel)
			if dir == "." {
				dir = ""
			}
			f, err := readFileInfo(filepath.Join(arg, filepath.FromSlash(rel)), joinKeyPath(o.path, dir), o, data)
			if err != nil {
				return nil, err
			}
			files = append(files, f)
		}
	}
	return files, nil
}

func readFileInfo(src, keyPath string, o putOptions, data map[string]any) (storage.FileInfo, error) {
	buf, err := afero.ReadFile(osFs, src)
	if err != nil {
		return storage.FileInfo{}, err
	}

	contentType := o.contentType
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(src))
	}

	return storage.FileInfo{
		Buffer:          buf,
		FileName:        filepath.Base(src),
		ContentType:     contentType,
		ContentLength:   int64(len(buf)),
		ContentEncoding: o.contentEncoding,
		Data:            data,
		Path:            keyPath,
		GenerateUUID:    o.uuid,
	}, nil
}

func joinKeyPath(base, rel string) string {
	switch {
	case rel == "":
		return base
	case base == "":
		return rel
	default:
		return path.Join(base, rel)
	}
}

// parseMeta 解析 k=v
func parseMeta(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	data := make(map[string]any, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --meta %q, expected key=value", p)
		}
		data[k] = v
	}
	return data, nil
}

// prepareLocalDirs 仅对直连的本地后端生效
func prepareLocalDirs(store fileStore, files []storage.FileInfo) error {
	adapter, ok := unwrapLocal(store)
	if !ok {
		return nil
	}
	for _, f := range files {
		dir := filepath.Join(adapter.BasePath(), filepath.FromSlash(f.Path))
		if err := osFs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

func unwrapLocal(store fileStore) (*local.Adapter, bool) {
	for {
		switch s := store.(type) {
		case *local.Adapter:
			return s, true
		case interface{ Unwrap() storage.Store }:
			store = s.Unwrap()
		default:
			return nil, false
		}
	}
}

func init() {
	f := putCmd.Flags()
	f.StringVar(&putOpts.path, "path", "", "key prefix (directory) for the uploaded files")
	f.BoolVar(&putOpts.uuid, "uuid", false, "use a random UUID instead of the file name as the key")
	f.StringVar(&putOpts.contentType, "content-type", "", "content type (default: guessed from the extension)")
	f.StringVar(&putOpts.contentEncoding, "content-encoding", "", "content encoding")
	f.StringArrayVar(&putOpts.meta, "meta", nil, "metadata key=value (repeatable)")
	rootCmd.AddCommand(putCmd)
}
