package commands

import (
	"fmt"
	"io"
	"strings"

	"filestore/pkg/storage"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var backendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "List the storage backends and mark the active one",
	RunE: func(cmd *cobra.Command, args []string) error {
		active := strings.ToUpper(viper.GetString("storage.type"))
		if remote != nil {
			var err error
			active, err = remote.Backend(cmd.Context())
			if err != nil {
				return err
			}
		}
		return runBackends(active, cmd.OutOrStdout())
	},
}

func runBackends(active string, out io.Writer) error {
	for _, t := range storage.AvailableTypes() {
		marker := " "
		if t == active {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %s\n", marker, t)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(backendsCmd)
}
