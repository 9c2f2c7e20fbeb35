package main

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newTagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage tags",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all known tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := connect()
			if err != nil {
				return err
			}
			defer c.shutdown()

			tags, err := c.tags.All(context.Background())
			if err != nil {
				return err
			}
			if len(tags) == 0 {
				color.Yellow("No tags found.")
				return nil
			}

			for _, tag := range tags {
				color.Magenta(tag)
			}
			color.HiBlack("%d tag(s)", len(tags))
			return nil
		},
	})
	return cmd
}
