package client

import (
	"context"
	"net"
	"testing"

	"filestore/pkg/app"
	"filestore/pkg/server"
	"filestore/pkg/storage"
	"filestore/pkg/storage/local"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type panicStringer struct{}

func (panicStringer) String() string { panic("boom") }

// startServer 在内存管道上启动完整的 gRPC Server (含拦截器)
func startServer(t *testing.T, store storage.Store) *FSClient {
	t.Helper()
	lis := bufconn.Listen(1024 * 1024)

	srv := server.New(&app.App{Store: store})
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	c, err := NewFSClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestFSClient_RoundTrip(t *testing.T) {
	c := startServer(t, local.NewAdapter("/data", local.WithFs(afero.NewMemMapFs())))
	ctx := context.Background()

	up, err := c.UploadFiles(ctx, storage.UploadFilesOptions{
		Files: []storage.FileInfo{
			{
				Buffer:      []byte("hello"),
				FileName:    "a.txt",
				ContentType: "text/plain",
				Path:        "docs",
				Data:        map[string]any{"n": 1, "broken": panicStringer{}},
			},
			{Buffer: []byte{}, FileName: "empty.bin", Path: "docs"},
		},
	})
	require.NoError(t, err)
	require.Len(t, up, 2)
	assert.Equal(t, "/data/docs/a.txt", up[0].FullFilePath)
	assert.Equal(t, "/data/docs/a.txt", up[0].URL)

	got, err := c.GetFiles(ctx, storage.GetFilesOptions{FileKeys: []string{up[1].FullFilePath, up[0].FullFilePath}})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Empty(t, got[0].Buffer)
	assert.Equal(t, "empty.bin", got[0].FileName)
	assert.Equal(t, []byte("hello"), got[1].Buffer)
	assert.Equal(t, "/data/docs", got[1].Path)

	backend, err := c.Backend(ctx)
	require.NoError(t, err)
	assert.Equal(t, storage.TypeLocal, backend)
}

func TestFSClient_ErrorsAreStoreErrors(t *testing.T) {
	c := startServer(t, local.NewAdapter("/data", local.WithFs(afero.NewReadOnlyFs(afero.NewMemMapFs()))))
	ctx := context.Background()

	_, err := c.UploadFiles(ctx, storage.UploadFilesOptions{
		Files: []storage.FileInfo{{Buffer: []byte("x"), FileName: "a.txt"}},
	})
	var se *storage.StoreError
	require.ErrorAs(t, err, &se)
	assert.True(t, se.UploadFailed())
	assert.Equal(t, codes.Internal, status.Code(se.Err))

	_, err = c.GetFiles(ctx, storage.GetFilesOptions{FileKeys: []string{"/data/missing"}})
	require.ErrorAs(t, err, &se)
	assert.True(t, se.GetFileFailed())
	assert.Equal(t, codes.NotFound, status.Code(se.Err))
}
