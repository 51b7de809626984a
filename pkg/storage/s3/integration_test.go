//go:build integration

package s3

import (
	"context"
	"testing"

	"filestore/pkg/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/localstack"
)

// TestS3Adapter_LocalStack 使用 Testcontainers 启动 LocalStack
// 需要 Docker: go test -tags integration ./pkg/storage/s3/...
func TestS3Adapter_LocalStack(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	// 1. 启动 LocalStack
	container, err := localstack.Run(ctx, "localstack/localstack:3.0")
	require.NoError(t, err, "Failed to start LocalStack")
	defer func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Errorf("failed to terminate container: %v", err)
		}
	}()

	endpoint, err := container.PortEndpoint(ctx, "4566/tcp", "http")
	require.NoError(t, err)

	cfg := Config{
		Endpoint:        endpoint,
		Region:          "us-east-1",
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		Bucket:          BucketSpec{Name: "filestore-it"},
	}

	// 2. 第一次构造：Bucket 不存在，应当被创建并加固
	store, err := NewAdapter(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, "filestore-it", store.Bucket())

	client, err := NewClient(ctx, cfg)
	require.NoError(t, err)

	enc, err := client.GetBucketEncryption(ctx, &s3.GetBucketEncryptionInput{Bucket: aws.String("filestore-it")})
	require.NoError(t, err)
	require.NotEmpty(t, enc.ServerSideEncryptionConfiguration.Rules)
	assert.Equal(t, s3types.ServerSideEncryptionAes256,
		enc.ServerSideEncryptionConfiguration.Rules[0].ApplyServerSideEncryptionByDefault.SSEAlgorithm)

	ver, err := client.GetBucketVersioning(ctx, &s3.GetBucketVersioningInput{Bucket: aws.String("filestore-it")})
	require.NoError(t, err)
	assert.Equal(t, s3types.BucketVersioningStatusEnabled, ver.Status)

	// 3. 第二次构造：Bucket 已存在，幂等
	again, err := NewAdapter(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, "filestore-it", again.Bucket())

	// 4. Round Trip
	payload := []byte("Hello S3 World from filestore")
	uploaded, err := store.UploadFiles(ctx, storage.UploadFilesOptions{
		Files: []storage.FileInfo{{
			Buffer:      payload,
			FileName:    "hello.txt",
			ContentType: "text/plain",
			Path:        "it",
			Data:        map[string]any{"run": 1},
		}},
	})
	require.NoError(t, err)
	require.Len(t, uploaded, 1)
	assert.Equal(t, "it/hello.txt", uploaded[0].FullFilePath)
	assert.NotEmpty(t, uploaded[0].ETag)

	got, err := again.GetFiles(ctx, storage.GetFilesOptions{FileKeys: []string{uploaded[0].FullFilePath}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, payload, got[0].Buffer)
	assert.Equal(t, "text/plain", got[0].ContentType)
	assert.Equal(t, "1", got[0].Metadata["run"])

	// 5. 不存在的 Key
	_, err = store.GetFiles(ctx, storage.GetFilesOptions{FileKeys: []string{"it/missing.txt"}})
	assert.True(t, storage.IsFetchFailed(err))
}
