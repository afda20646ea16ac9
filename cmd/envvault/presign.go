package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
)

func newPresignCommand(settings *Settings) *cobra.Command {
	var method string
	var expires int
	var key string

	cmd := &cobra.Command{
		Use:   "presign",
		Short: "Print a presigned URL for an object",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newStorageClient(settings)
			if err != nil {
				return err
			}
			if key == "" {
				key = storageKey(settings)
			}
			presigned, err := client.Presign(strings.ToUpper(method), key, expires, nil)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), presigned.URL)
			return nil
		},
	}
	cmd.Flags().StringVar(&method, "method", http.MethodGet, "HTTP method (GET, HEAD, PUT, DELETE)")
	cmd.Flags().IntVar(&expires, "expires", 3600, "URL lifetime in seconds")
	cmd.Flags().StringVar(&key, "key", "", "object key (default derived from app/stage/file)")
	return cmd
}
