package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"filestore/pkg/meta"

	"github.com/spf13/cobra"
)

var statBackend string

var statCmd = &cobra.Command{
	Use:   "stat <key>",
	Short: "Show what the upload catalog knows about a key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if FS == nil || FS.Catalog == nil {
			return errors.New("catalog is disabled (set catalog.enabled: true)")
		}
		backend := statBackend
		if backend == "" {
			backend = FS.Store.StoreType()
		}
		return runStat(cmd.Context(), FS.Catalog, backend, args[0], cmd.OutOrStdout())
	},
}

func runStat(ctx context.Context, repo *meta.Repository, backend, key string, out io.Writer) error {
	rec, err := repo.GetRecord(ctx, backend, key)
	if errors.Is(err, meta.ErrRecordNotFound) {
		return fmt.Errorf("no catalog record for %s key %q", backend, key)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Key:      %s\n", rec.Key)
	fmt.Fprintf(out, "Backend:  %s\n", rec.Backend)
	fmt.Fprintf(out, "Name:     %s\n", rec.FileName)
	fmt.Fprintf(out, "Size:     %d bytes\n", rec.SizeBytes)
	if rec.ContentType != "" {
		fmt.Fprintf(out, "Type:     %s\n", rec.ContentType)
	}
	if rec.ContentEncoding != "" {
		fmt.Fprintf(out, "Encoding: %s\n", rec.ContentEncoding)
	}
	if rec.ETag != "" {
		fmt.Fprintf(out, "ETag:     %s\n", rec.ETag)
	}
	fmt.Fprintf(out, "URL:      %s\n", rec.URL)
	fmt.Fprintf(out, "Uploaded: %s\n", rec.UpdatedAt.Format("2006-01-02 15:04:05"))

	if len(rec.Metadata) > 0 {
		var md map[string]string
		if err := json.Unmarshal(rec.Metadata, &md); err == nil {
			fmt.Fprintln(out, "Metadata:")
			for k, v := range md {
				fmt.Fprintf(out, "  %s = %s\n", k, v)
			}
		}
	}
	return nil
}

func init() {
	statCmd.Flags().StringVar(&statBackend, "backend", "", "backend the key belongs to (default: the configured one)")
	rootCmd.AddCommand(statCmd)
}
