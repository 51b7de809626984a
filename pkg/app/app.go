// pkg/app/app.go
package app

import (
	"context"
	"fmt"
	"strings"

	"filestore/pkg/meta"
	"filestore/pkg/storage"
	"filestore/pkg/storage/catalog"
	"filestore/pkg/storage/local"
	"filestore/pkg/storage/lock"
	"filestore/pkg/storage/s3"
	"filestore/pkg/types"

	"github.com/spf13/viper"
)

// App 是整个应用程序的依赖容器 (Dependency Container)
// 它持有所有"单例"服务
type App struct {
	Store storage.Store

	// Catalog 在 catalog.enabled = false 时为 nil
	Catalog *meta.Repository

	db *meta.DB
}

// NewApp 是工厂函数，负责组装这一台机器
// 它遵循 Viper 的配置，但不知道具体的 CLI 命令
func NewApp(ctx context.Context) (*App, error) {
	// 1. 初始化存储后端
	store, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	a := &App{Store: store}

	// 2. 可选：上传目录
	if viper.GetBool("catalog.enabled") {
		db, err := initCatalog(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to init catalog: %w", err)
		}
		a.db = db
		a.Catalog = meta.NewRepository(db)
		a.Store = catalog.New(store, a.Catalog)
	}

	return a, nil
}

// Close 释放数据库连接
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// initStore 根据 storage.type 选择后端
func initStore(ctx context.Context) (storage.Store, error) {
	limit := viper.GetInt("storage.max_concurrency")

	switch strings.ToUpper(viper.GetString("storage.type")) {
	case storage.TypeLocal:
		basePath := viper.GetString("storage.local.base_path")
		if basePath == "" {
			return nil, fmt.Errorf("storage.local.base_path is required")
		}
		return local.NewAdapter(basePath, local.WithConcurrency(limit)), nil

	case storage.TypeS3:
		return initS3(ctx, limit)

	default:
		return nil, fmt.Errorf("unsupported storage type: %q (available: %s)",
			viper.GetString("storage.type"), strings.Join(storage.AvailableTypes(), ", "))
	}
}

func initS3(ctx context.Context, limit int) (storage.Store, error) {
	bucket := viper.GetString("storage.s3.bucket")
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required (storage.s3.bucket)")
	}
	acl, err := types.ParseACL(viper.GetString("storage.s3.acl"))
	if err != nil {
		return nil, err
	}

	cfg := s3.Config{
		Endpoint:        viper.GetString("storage.s3.endpoint"),
		Region:          viper.GetString("storage.s3.region"),
		AccessKeyID:     viper.GetString("storage.s3.access_key_id"),
		SecretAccessKey: viper.GetString("storage.s3.secret_access_key"),
		UsePathStyle:    viper.GetBool("storage.s3.use_path_style"),
		Bucket:          s3.BucketSpec{Name: bucket, ACL: acl},
	}
	opts := []s3.Option{s3.WithConcurrency(limit)}

	// 锁只在构造阶段使用，构造完成后立即释放连接
	if url := viper.GetString("lock.redis_url"); url != "" {
		locker, err := lock.NewRedisLocker(lock.Config{
			RedisURL: url,
			TTL:      viper.GetDuration("lock.ttl"),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to init provisioning lock: %w", err)
		}
		defer locker.Close()
		opts = append(opts, s3.WithLocker(locker))
	}

	adapter, err := s3.NewAdapter(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return adapter, nil
}

func initCatalog(ctx context.Context) (*meta.DB, error) {
	cfg := meta.Config{
		Driver:   viper.GetString("catalog.driver"),
		DSN:      viper.GetString("catalog.dsn"),
		Host:     viper.GetString("database.host"),
		Port:     viper.GetInt("database.port"),
		User:     viper.GetString("database.user"),
		Password: viper.GetString("database.password"),
		DBName:   viper.GetString("database.dbname"),
		SSLMode:  viper.GetString("database.sslmode"),
	}
	return meta.NewDB(ctx, cfg)
}
