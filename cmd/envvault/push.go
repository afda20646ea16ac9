package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/envvault/envvault/pkg/envvault"
)

func newPushCommand(settings *Settings) *cobra.Command {
	var keepHistory bool
	var key string

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Upload the local dotenv file to object storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := envvault.FindDotenv(settings.File)
			if err != nil {
				return err
			}
			dotenv, err := envvault.LoadDotenv(path)
			if err != nil {
				return err
			}

			client, err := newStorageClient(settings)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if key == "" {
				key = storageKey(settings)
			}
			if err := envvault.DumpDotenvToStorage(ctx, client, key, dotenv); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pushed %s (%d variables) to %s\n", path, dotenv.Len(), key)

			if keepHistory {
				hkey := historyKey(settings)
				if err := envvault.DumpDotenvToStorage(ctx, client, hkey, dotenv); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "snapshot kept at %s\n", hkey)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&keepHistory, "history", false, "also keep a unique history snapshot")
	cmd.Flags().StringVar(&key, "key", "", "object key (default derived from app/stage/file)")
	return cmd
}
