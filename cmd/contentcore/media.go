package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"contentcore/internal/media"
)

func newMediaCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "media",
		Short: "Manage uploaded assets (images, covers, scans)",
	}

	var contentType string
	upload := &cobra.Command{
		Use:   "upload <key> <file>",
		Short: "Store a file under a key and print its metadata",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.mediaStore(cmd.Context())
			if err != nil {
				return err
			}
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()
			info, err := store.Put(cmd.Context(), args[0], f, media.PutOptions{ContentType: contentType})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), info)
		},
	}
	upload.Flags().StringVar(&contentType, "content-type", "", "explicit MIME type (inferred from the key extension when empty)")

	list := &cobra.Command{
		Use:   "list [prefix]",
		Short: "List stored assets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.mediaStore(cmd.Context())
			if err != nil {
				return err
			}
			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}
			infos, err := store.List(cmd.Context(), prefix)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), infos)
		},
	}

	rm := &cobra.Command{
		Use:   "rm <key>",
		Short: "Delete an asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.mediaStore(cmd.Context())
			if err != nil {
				return err
			}
			existed, err := store.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !existed {
				return fmt.Errorf("asset %q not found", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}

	urlCmd := &cobra.Command{
		Use:   "url <key>",
		Short: "Print a presigned (or local) URL for an asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.mediaStore(cmd.Context())
			if err != nil {
				return err
			}
			url, err := store.PresignURL(cmd.Context(), args[0], media.SignedURLOptions{})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}

	cmd.AddCommand(upload, list, rm, urlCmd)
	return cmd
}
