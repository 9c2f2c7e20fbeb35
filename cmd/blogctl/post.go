package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"blog-backend/internal/domains/post/model"
)

func newPostCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Manage blog posts",
	}
	cmd.AddCommand(newPostListCmd(), newPostCreateCmd(), newPostDeleteCmd(), newPostSearchCmd())
	return cmd
}

func newPostListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := connect()
			if err != nil {
				return err
			}
			defer c.shutdown()

			posts, err := c.posts.GetLatest(context.Background(), limit)
			if err != nil {
				return err
			}
			if len(posts) == 0 {
				color.Yellow("No posts found.")
				return nil
			}

			for _, p := range posts {
				printPostLine(p)
			}
			color.HiBlack("%d post(s)", len(posts))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 1000, "maximum number of posts to list")
	return cmd
}

func newPostCreateCmd() *cobra.Command {
	var (
		title    string
		content  string
		excerpt  string
		image    string
		author   string
		tagsFlag string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new post",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := connect()
			if err != nil {
				return err
			}
			defer c.shutdown()

			var tags []string
			if tagsFlag != "" {
				tags = strings.Split(tagsFlag, ",")
			}

			post, err := c.posts.CreatePost(context.Background(), model.CreatePostRequest{
				Title:         title,
				Content:       content,
				Excerpt:       excerpt,
				FeaturedImage: image,
				Author:        author,
				Tags:          tags,
				CreatedAt:     time.Now().UnixMilli(),
			})
			if err != nil {
				return err
			}

			color.Green("Post %q created.", post.Title)
			fmt.Printf("  id:   %s\n  slug: %s\n", post.ID, post.Slug)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "post title (required)")
	cmd.Flags().StringVar(&content, "content", "", "post content (required)")
	cmd.Flags().StringVar(&excerpt, "excerpt", "", "post excerpt (defaults to leading content)")
	cmd.Flags().StringVar(&image, "image", "", "featured image URL")
	cmd.Flags().StringVar(&author, "author", "", "author name")
	cmd.Flags().StringVar(&tagsFlag, "tags", "", "comma-separated tags")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}

func newPostDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <slug>",
		Short: "Delete a post by slug",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := connect()
			if err != nil {
				return err
			}
			defer c.shutdown()

			result, err := c.posts.Delete(context.Background(), args[0])
			if err != nil {
				return err
			}
			if !result.Deleted {
				color.Yellow("Nothing to delete for slug %q.", args[0])
				return nil
			}

			color.Green("Post %q deleted (id %s).", args[0], result.PostID)
			return nil
		},
	}
}

func newPostSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search over posts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := connect()
			if err != nil {
				return err
			}
			defer c.shutdown()

			result, err := c.posts.SearchPosts(context.Background(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if result.Total == 0 {
				color.Yellow("No matches.")
				return nil
			}

			for _, p := range result.Posts {
				printPostLine(p)
			}
			color.HiBlack("%d match(es)", result.Total)
			return nil
		},
	}
}

func printPostLine(p model.Post) {
	created := time.UnixMilli(p.CreatedAt).Format("2006-01-02")
	fmt.Printf("%s  %s  %s", color.CyanString(created), color.New(color.Bold).Sprint(p.Title), color.HiBlackString("(%s)", p.Slug))
	if len(p.Tags) > 0 {
		fmt.Printf("  %s", color.MagentaString("[%s]", strings.Join(p.Tags, ", ")))
	}
	fmt.Println()
}
