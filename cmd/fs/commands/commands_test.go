package commands

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"filestore/pkg/meta"
	"filestore/pkg/storage"
	"filestore/pkg/storage/catalog"
	"filestore/pkg/storage/local"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupEnv 用内存文件系统替换 osFs，并返回一个基于它的本地后端
func setupEnv(t *testing.T) (afero.Fs, *local.Adapter) {
	t.Helper()
	mem := afero.NewMemMapFs()
	prev := osFs
	osFs = mem
	t.Cleanup(func() { osFs = prev })

	return mem, local.NewAdapter("/store", local.WithFs(mem))
}

func mustWrite(t *testing.T, fs afero.Fs, name, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
}

func TestPut_SingleFileAndGet(t *testing.T) {
	mem, store := setupEnv(t)
	mustWrite(t, mem, "/src/report.json", `{"ok":true}`)
	ctx := context.Background()

	var out bytes.Buffer
	err := runPut(ctx, store, []string{"/src/report.json"}, putOptions{
		path: "reports",
		meta: []string{"owner=alice"},
	}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "/store/reports/report.json")

	exists, err := afero.Exists(mem, "/store/reports/report.json")
	require.NoError(t, err)
	assert.True(t, exists)

	out.Reset()
	require.NoError(t, runGet(ctx, store, []string{"/store/reports/report.json"}, "/out", &out))
	got, err := afero.ReadFile(mem, "/out/report.json")
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(got))
}

func TestPut_DirectoryHonoursIgnore(t *testing.T) {
	mem, store := setupEnv(t)
	mustWrite(t, mem, "/src/a.txt", "a")
	mustWrite(t, mem, "/src/sub/b.txt", "b")
	mustWrite(t, mem, "/src/sub/debug.log", "noise")
	mustWrite(t, mem, "/src/config.yaml", "secret")
	mustWrite(t, mem, "/src/.fsignore", "*.log\n")

	var out bytes.Buffer
	require.NoError(t, runPut(context.Background(), store, []string{"/src"}, putOptions{path: "bk"}, &out))

	for _, p := range []string{"/store/bk/a.txt", "/store/bk/sub/b.txt"} {
		ok, _ := afero.Exists(mem, p)
		assert.True(t, ok, p)
	}
	for _, p := range []string{"/store/bk/sub/debug.log", "/store/bk/config.yaml"} {
		ok, _ := afero.Exists(mem, p)
		assert.False(t, ok, p)
	}
}

func TestPut_InvalidMeta(t *testing.T) {
	mem, store := setupEnv(t)
	mustWrite(t, mem, "/src/a.txt", "a")

	err := runPut(context.Background(), store, []string{"/src/a.txt"}, putOptions{meta: []string{"novalue"}}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "expected key=value")
}

func TestPut_MissingSource(t *testing.T) {
	_, store := setupEnv(t)
	err := runPut(context.Background(), store, []string{"/nope"}, putOptions{}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestGet_MissingKeyIsFetchError(t *testing.T) {
	_, store := setupEnv(t)
	err := runGet(context.Background(), store, []string{"/store/none"}, "/out", &bytes.Buffer{})
	assert.True(t, storage.IsFetchFailed(err))
}

func TestReadFileInfo_GuessesContentType(t *testing.T) {
	mem, _ := setupEnv(t)
	mustWrite(t, mem, "/src/page.html", "<html/>")

	f, err := readFileInfo("/src/page.html", "web", putOptions{}, nil)
	require.NoError(t, err)
	assert.Contains(t, f.ContentType, "text/html")
	assert.Equal(t, int64(7), f.ContentLength)

	f, err = readFileInfo("/src/page.html", "web", putOptions{contentType: "application/x-custom"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "application/x-custom", f.ContentType)
}

func TestJoinKeyPath(t *testing.T) {
	assert.Equal(t, "", joinKeyPath("", ""))
	assert.Equal(t, "a", joinKeyPath("a", ""))
	assert.Equal(t, "b", joinKeyPath("", "b"))
	assert.Equal(t, "a/b/c", joinKeyPath("a", "b/c"))
}

func TestUnwrapLocal(t *testing.T) {
	_, store := setupEnv(t)

	got, ok := unwrapLocal(store)
	assert.True(t, ok)
	assert.Same(t, store, got)

	got, ok = unwrapLocal(catalog.New(store, nil))
	assert.True(t, ok)
	assert.Same(t, store, got)
}

func TestStat(t *testing.T) {
	mem, store := setupEnv(t)
	mustWrite(t, mem, "/src/a.txt", "hello")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	metaDB := meta.NewWithConn(db)
	require.NoError(t, metaDB.AutoMigrate(&meta.FileRecord{}))
	repo := meta.NewRepository(metaDB)

	ctx := context.Background()
	require.NoError(t, runPut(ctx, catalog.New(store, repo), []string{"/src/a.txt"}, putOptions{meta: []string{"k=v"}}, &bytes.Buffer{}))

	var out bytes.Buffer
	require.NoError(t, runStat(ctx, repo, storage.TypeLocal, "/store/a.txt", &out))
	assert.Contains(t, out.String(), "Size:     5 bytes")
	assert.Contains(t, out.String(), "k = v")

	err = runStat(ctx, repo, storage.TypeLocal, "/store/missing", &out)
	assert.ErrorContains(t, err, "no catalog record")
}

func TestBackends(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runBackends(storage.TypeS3, &out))
	assert.Equal(t, "  LOCAL\n* S3\n", out.String())
}
