package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"filestore/pkg/storage"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var getOutDir string

var getCmd = &cobra.Command{
	Use:   "get <key>...",
	Short: "Download files by key into a local directory",
	Long:  `Keys are the FullFilePath values printed by 'fs put'. For the local backend that is the full path on disk.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGet(cmd.Context(), activeStore(), args, getOutDir, cmd.OutOrStdout())
	},
}

func runGet(ctx context.Context, store fileStore, keys []string, outDir string, out io.Writer) error {
	files, err := store.GetFiles(ctx, storage.GetFilesOptions{FileKeys: keys})
	if err != nil {
		return err
	}

	if err := osFs.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	for i, f := range files {
		dst := filepath.Join(outDir, f.FileName)
		if err := afero.WriteFile(osFs, dst, f.Buffer, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", dst, err)
		}
		fmt.Fprintf(out, "⬇️  %s -> %s (%d bytes)\n", keys[i], dst, len(f.Buffer))
	}
	return nil
}

func init() {
	getCmd.Flags().StringVarP(&getOutDir, "out", "o", ".", "output directory")
	rootCmd.AddCommand(getCmd)
}
