package main

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Manage search indexes",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "ensure",
		Short: "Create the post search index if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := connect()
			if err != nil {
				return err
			}
			defer c.shutdown()

			if err := c.posts.EnsureSearchIndex(context.Background()); err != nil {
				return err
			}

			color.Green("Post search index is in place.")
			return nil
		},
	})
	return cmd
}
