package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/envvault/envvault/pkg/envvault"
)

func newPullCommand(settings *Settings) *cobra.Command {
	var key string
	var output string
	var print bool

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Download a dotenv file from object storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newStorageClient(settings)
			if err != nil {
				return err
			}
			if key == "" {
				key = storageKey(settings)
			}
			dotenv, err := envvault.LoadDotenvFromStorage(cmd.Context(), client, key)
			if err != nil {
				return err
			}

			if print {
				fmt.Fprint(cmd.OutOrStdout(), dotenv.String())
				return nil
			}
			if output == "" {
				output = settings.File
			}
			if err := envvault.DumpDotenv(dotenv, output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pulled %s (%d variables) to %s\n", key, dotenv.Len(), output)
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "object key (default derived from app/stage/file)")
	cmd.Flags().StringVar(&output, "output", "", "destination path (default the configured filename)")
	cmd.Flags().BoolVar(&print, "print", false, "write variables to stdout instead of a file")
	return cmd
}
