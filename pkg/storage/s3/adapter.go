package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"filestore/pkg/storage"
	"filestore/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// DefaultRegion 未配置 Region 时使用
const DefaultRegion = "ap-southeast-2"

// API 是 Adapter 用到的 S3 操作子集，*s3.Client 天然满足
// 测试时可以注入一个假的实现
type API interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	PutBucketEncryption(ctx context.Context, params *s3.PutBucketEncryptionInput, optFns ...func(*s3.Options)) (*s3.PutBucketEncryptionOutput, error)
	PutBucketVersioning(ctx context.Context, params *s3.PutBucketVersioningInput, optFns ...func(*s3.Options)) (*s3.PutBucketVersioningOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Locker 用于跨进程串行化 Bucket 的创建 (见 pkg/storage/lock)
type Locker interface {
	Lock(ctx context.Context, name string) (unlock func(), err error)
}

// BucketSpec 描述要使用 (或创建) 的 Bucket
type BucketSpec struct {
	Name string
	ACL  types.ACL // 默认 private
}

// Config 用于初始化 Adapter
type Config struct {
	Endpoint        string // 可选，S3 兼容存储 (MinIO / LocalStack)
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool // 配置了 Endpoint 时强制开启
	Bucket          BucketSpec
}

func (c Config) region() string {
	if c.Region == "" {
		return DefaultRegion
	}
	return c.Region
}

func (c Config) pathStyle() bool {
	return c.UsePathStyle || c.Endpoint != ""
}

// Adapter 实现了 storage.Store 接口
// client 在构造后只读，bucket 只在 SetBucket 中写入一次
type Adapter struct {
	client    API
	region    string
	endpoint  string
	pathStyle bool
	bucket    string
	locker    Locker
	limit     int
}

type Option func(*Adapter)

// WithLocker 在创建 Bucket 前获取分布式锁
func WithLocker(l Locker) Option {
	return func(a *Adapter) {
		a.locker = l
	}
}

// WithConcurrency 限制单个批次内的并发数，<= 0 表示不限制
func WithConcurrency(n int) Option {
	return func(a *Adapter) {
		a.limit = n
	}
}

// NewClient 初始化 S3 客户端 (构造的第一阶段，不发请求)
func NewClient(ctx context.Context, cfg Config) (*s3.Client, error) {
	// 1. 加载基础配置 (仅包含 Region 和 Credentials)
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.region()),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretAccessKey, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	// 2. 创建 S3 客户端时，注入特定于 S3 的配置
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		// MinIO / LocalStack 需要 Path Style: http://host:9000/bucket/key
		o.UsePathStyle = cfg.pathStyle()
	})
	return client, nil
}

// New 用已有的客户端组装 Adapter，此时还没有绑定 Bucket
func New(client API, cfg Config, opts ...Option) *Adapter {
	a := &Adapter{
		client:    client,
		region:    cfg.region(),
		endpoint:  strings.TrimRight(cfg.Endpoint, "/"),
		pathStyle: cfg.pathStyle(),
	}
	for _, apply := range opts {
		apply(a)
	}
	return a
}

// NewAdapter 两阶段构造：创建客户端，然后检查/创建 Bucket
func NewAdapter(ctx context.Context, cfg Config, opts ...Option) (*Adapter, error) {
	client, err := NewClient(ctx, cfg)
	if err != nil {
		return nil, storage.NewProvisionError("unable to create S3 client - please check your AWS configuration", err)
	}

	a := New(client, cfg, opts...)
	if err := a.SetBucket(ctx, cfg.Bucket); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Adapter) StoreType() string { return storage.TypeS3 }

// Bucket 返回已绑定的 Bucket 名
func (a *Adapter) Bucket() string { return a.bucket }

func (a *Adapter) Region() string { return a.region }

// SetBucket 幂等地准备 Bucket：存在则直接使用，不存在则创建并加固
func (a *Adapter) SetBucket(ctx context.Context, spec BucketSpec) error {
	if spec.Name == "" {
		return storage.NewProvisionError("unable to check S3 bucket - bucket name is required", nil)
	}

	exists, err := a.bucketExists(ctx, spec.Name)
	if err != nil {
		return storage.NewProvisionError(checkErrMsg(spec.Name), err)
	}

	if !exists && a.locker != nil {
		unlock, err := a.locker.Lock(ctx, "bucket:"+spec.Name)
		if err != nil {
			return storage.NewProvisionError(
				fmt.Sprintf("unable to lock provisioning of S3 bucket %s", spec.Name), err)
		}
		defer unlock()

		// 拿到锁之后再确认一次，可能别的进程已经创建好了
		exists, err = a.bucketExists(ctx, spec.Name)
		if err != nil {
			return storage.NewProvisionError(checkErrMsg(spec.Name), err)
		}
	}

	if !exists {
		if err := a.createBucket(ctx, spec); err != nil {
			return err
		}
	}

	a.bucket = spec.Name
	return nil
}

// bucketExists 通过 HeadBucket 探测
// 只有 "not found" 返回 (false, nil)，其他错误 (权限不足等) 原样返回
func (a *Adapter) bucketExists(ctx context.Context, name string) (bool, error) {
	_, err := a.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(name)})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, err
}

// createBucket 创建 Bucket，然后强制开启 AES256 默认加密和版本控制 (MFA Delete 关闭)
func (a *Adapter) createBucket(ctx context.Context, spec BucketSpec) error {
	input := &s3.CreateBucketInput{
		Bucket: aws.String(spec.Name),
		ACL:    s3types.BucketCannedACL(spec.ACL.OrDefault()),
	}
	// us-east-1 不接受 LocationConstraint
	if a.region != "us-east-1" {
		input.CreateBucketConfiguration = &s3types.CreateBucketConfiguration{
			LocationConstraint: s3types.BucketLocationConstraint(a.region),
		}
	}

	if _, err := a.client.CreateBucket(ctx, input); err != nil {
		var owned *s3types.BucketAlreadyOwnedByYou
		if !errors.As(err, &owned) {
			return storage.NewProvisionError(createErrMsg(spec.Name), err)
		}
		// 并发创建：我们自己的另一个进程抢先了，加固操作是幂等的，继续执行
		slog.Warn("bucket was created concurrently, applying hardening anyway",
			slog.String("bucket", spec.Name))
	} else {
		slog.Info("created bucket",
			slog.String("bucket", spec.Name),
			slog.String("acl", spec.ACL.OrDefault().String()),
			slog.String("region", a.region),
		)
	}

	_, err := a.client.PutBucketEncryption(ctx, &s3.PutBucketEncryptionInput{
		Bucket: aws.String(spec.Name),
		ServerSideEncryptionConfiguration: &s3types.ServerSideEncryptionConfiguration{
			Rules: []s3types.ServerSideEncryptionRule{{
				ApplyServerSideEncryptionByDefault: &s3types.ServerSideEncryptionByDefault{
					SSEAlgorithm: s3types.ServerSideEncryptionAes256,
				},
			}},
		},
	})
	if err != nil {
		return storage.NewProvisionError(createErrMsg(spec.Name), err)
	}

	_, err = a.client.PutBucketVersioning(ctx, &s3.PutBucketVersioningInput{
		Bucket: aws.String(spec.Name),
		VersioningConfiguration: &s3types.VersioningConfiguration{
			Status:    s3types.BucketVersioningStatusEnabled,
			MFADelete: s3types.MFADeleteDisabled,
		},
	})
	if err != nil {
		return storage.NewProvisionError(createErrMsg(spec.Name), err)
	}
	return nil
}

// UploadFiles 并发上传，全部成功才返回结果
func (a *Adapter) UploadFiles(ctx context.Context, opts storage.UploadFilesOptions) ([]storage.UploadedFile, error) {
	res, err := storage.RunBatch(ctx, len(opts.Files), a.limit, func(ctx context.Context, i int) (storage.UploadedFile, error) {
		return a.put(ctx, opts.Files[i])
	})
	if err != nil {
		return nil, storage.NewUploadError(
			fmt.Sprintf("unable to upload files to S3 bucket %s, please check AWS credentials and bucket permissions", a.bucket), err)
	}
	return res, nil
}

func (a *Adapter) put(ctx context.Context, file storage.FileInfo) (storage.UploadedFile, error) {
	key := storage.ResolveKey(file)

	input := &s3.PutObjectInput{
		Bucket:               aws.String(a.bucket),
		Key:                  aws.String(key),
		Body:                 bytes.NewReader(file.Buffer),
		ServerSideEncryption: s3types.ServerSideEncryptionAes256,
		Metadata:             storage.CoerceMetadata(file.Data),
	}
	if file.ContentType != "" {
		input.ContentType = aws.String(file.ContentType)
	}
	if file.ContentEncoding != "" {
		input.ContentEncoding = aws.String(file.ContentEncoding)
	}

	out, err := a.client.PutObject(ctx, input)
	if err != nil {
		return storage.UploadedFile{}, fmt.Errorf("s3 put %q failed: %w", key, err)
	}

	return storage.UploadedFile{
		FullFilePath: key,
		URL:          a.location(key),
		ETag:         aws.ToString(out.ETag),
		StorageInfo:  out,
	}, nil
}

// GetFiles 从已绑定的 Bucket 并发下载
func (a *Adapter) GetFiles(ctx context.Context, opts storage.GetFilesOptions) ([]storage.RetrievedFile, error) {
	res, err := storage.RunBatch(ctx, len(opts.FileKeys), a.limit, func(ctx context.Context, i int) (storage.RetrievedFile, error) {
		return a.get(ctx, opts.FileKeys[i])
	})
	if err != nil {
		return nil, storage.NewFetchError(
			fmt.Sprintf("unable to download files from S3 bucket %s, please check AWS credentials, bucket permissions and whether all the files exist", a.bucket), err)
	}
	return res, nil
}

func (a *Adapter) get(ctx context.Context, key string) (storage.RetrievedFile, error) {
	resp, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return storage.RetrievedFile{}, fmt.Errorf("s3 get %q failed: %w", key, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return storage.RetrievedFile{}, fmt.Errorf("s3 read body %q failed: %w", key, err)
	}

	k := types.Key(key)
	return storage.RetrievedFile{
		Buffer:          data,
		FileName:        k.Base(),
		Path:            k.Dir(),
		ContentType:     aws.ToString(resp.ContentType),
		ContentLength:   aws.ToInt64(resp.ContentLength),
		ContentEncoding: aws.ToString(resp.ContentEncoding),
		ETag:            aws.ToString(resp.ETag),
		Metadata:        resp.Metadata,
	}, nil
}

// location 拼出对象的访问地址
// Virtual Hosted: https://bucket.s3.region.amazonaws.com/key
// Path Style:     <endpoint>/bucket/key
func (a *Adapter) location(key string) string {
	escaped := escapeKey(key)
	if !a.pathStyle {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", a.bucket, a.region, escaped)
	}
	base := a.endpoint
	if base == "" {
		base = fmt.Sprintf("https://s3.%s.amazonaws.com", a.region)
	}
	return base + "/" + a.bucket + "/" + escaped
}

func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// isNotFound 判断 HeadBucket 的 404
func isNotFound(err error) bool {
	var notFound *s3types.NotFound
	var noBucket *s3types.NoSuchBucket
	if errors.As(err, &notFound) || errors.As(err, &noBucket) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchBucket":
			return true
		}
	}

	// 兼容性：某些 S3 实现只返回一个裸的 404
	var httpErr interface{ HTTPStatusCode() int }
	if errors.As(err, &httpErr) && httpErr.HTTPStatusCode() == 404 {
		return true
	}
	return false
}

func checkErrMsg(bucket string) string {
	return fmt.Sprintf("unable to check S3 bucket %s - please check your AWS credentials and permissions", bucket)
}

func createErrMsg(bucket string) string {
	return fmt.Sprintf("unable to create S3 bucket %s - please check your AWS credentials and permissions", bucket)
}

var _ storage.Store = (*Adapter)(nil)
