package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load 初始化 Viper 配置
// cfgFile: 可选，用户显式指定的配置文件路径
func Load(cfgFile string) error {
	// 1. 设置默认值 (Defaults)
	setDefaults()

	// 2. 配置搜索路径
	if cfgFile != "" {
		// 如果用户指定了文件，直接使用
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}

		// 搜索顺序：当前目录 -> ./.fs -> ~/.fs
		viper.AddConfigPath(".")
		viper.AddConfigPath(".fs")
		viper.AddConfigPath(filepath.Join(home, ".fs"))

		viper.SetConfigType("yaml")
		viper.SetConfigName("config") // 找 config.yaml
	}

	// 3. 读取环境变量 (FS_STORAGE_S3_BUCKET 等)
	viper.SetEnvPrefix("FS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 4. 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		// 没找到配置文件不算错，可能全部来自环境变量
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Fprintln(os.Stderr, "⚠️  No config file found, using defaults/env vars")
		} else {
			return fmt.Errorf("fatal error config file: %w", err)
		}
	} else {
		fmt.Fprintln(os.Stderr, "🔧 Using config file:", viper.ConfigFileUsed())
	}

	return nil
}

func setDefaults() {
	// 存储默认值
	wd, _ := os.Getwd()
	viper.SetDefault("storage.type", "local")
	viper.SetDefault("storage.max_concurrency", 0)
	viper.SetDefault("storage.local.base_path", filepath.Join(wd, ".fs", "files"))
	viper.SetDefault("storage.s3.region", "ap-southeast-2")
	viper.SetDefault("storage.s3.acl", "private")

	// 分布式锁 (可选)
	viper.SetDefault("lock.redis_url", "")
	viper.SetDefault("lock.ttl", "30s")

	// 上传目录 (可选)
	viper.SetDefault("catalog.enabled", false)
	viper.SetDefault("catalog.driver", "sqlite")
	viper.SetDefault("catalog.dsn", filepath.Join(wd, ".fs", "catalog.db"))

	// 数据库默认值 (catalog.driver = postgres 时使用)
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.sslmode", "disable")

	viper.SetDefault("server.addr", ":8080")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
}
