package commands

import (
	"context"
	"fmt"
	"os"

	"filestore/pkg/app"
	"filestore/pkg/client"
	"filestore/pkg/config"
	"filestore/pkg/storage"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// fileStore 是命令需要的最小接口，本地 Store 和远程 FSClient 都满足
type fileStore interface {
	UploadFiles(ctx context.Context, opts storage.UploadFilesOptions) ([]storage.UploadedFile, error)
	GetFiles(ctx context.Context, opts storage.GetFilesOptions) ([]storage.RetrievedFile, error)
}

var (
	cfgFile    string
	remoteAddr string

	// 全局应用实例，供子命令使用 (--remote 时为 nil)
	FS *app.App
	// remote 在 --remote 时初始化
	remote *client.FSClient

	// osFs 读写用户的本地文件，测试时替换为内存文件系统
	osFs afero.Fs = afero.NewOsFs()
)

var rootCmd = &cobra.Command{
	Use:          "fs",
	Short:        "fs: upload and fetch files on local disk or S3",
	SilenceUsage: true,
	// PersistentPreRunE 会在所有子命令执行前运行
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.SetupLogger()

		// backends 只读取配置，不需要初始化后端
		if cmd.Name() == "backends" && remoteAddr == "" {
			return nil
		}

		if remoteAddr != "" {
			c, err := client.NewFSClient(remoteAddr)
			if err != nil {
				return err
			}
			remote = c
			return nil
		}

		var err error
		FS, err = app.NewApp(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if remote != nil {
			return remote.Close()
		}
		if FS != nil {
			return FS.Close()
		}
		return nil
	},
}

// Execute 是入口
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

// activeStore 返回当前命令使用的后端
func activeStore() fileStore {
	if remote != nil {
		return remote
	}
	return FS.Store
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.fs/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&remoteAddr, "remote", "", "fs-server address; when set, files go through the server")

	// 允许用 flag 覆盖配置文件里的后端
	rootCmd.PersistentFlags().String("storage-type", "", "storage backend (local | s3)")
	rootCmd.PersistentFlags().String("base-path", "", "base directory for the local backend")
	rootCmd.PersistentFlags().String("bucket", "", "bucket name for the s3 backend")
	bindings := map[string]string{
		"storage.type":            "storage-type",
		"storage.local.base_path": "base-path",
		"storage.s3.bucket":       "bucket",
	}
	for key, flag := range bindings {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			fmt.Println("Failed to bind flag:", err)
			os.Exit(1)
		}
	}
}

// initConfig 读取配置文件和环境变量
func initConfig() {
	if err := config.Load(cfgFile); err != nil {
		fmt.Println("Config error:", err)
		os.Exit(1)
	}
}
