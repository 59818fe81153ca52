package cli

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dalemusser/yatube/internal/app/store"
	"github.com/dalemusser/yatube/internal/app/system/paging"
	"github.com/dalemusser/yatube/internal/domain/models"
	"github.com/spf13/cobra"
)

func newPostCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "post",
		Aliases: []string{"posts"},
		Short:   "Inspect posts",
	}

	var groupSlug, author string
	var page, perPage int
	list := &cobra.Command{
		Use:   "list",
		Short: "List posts newest first, one page at a time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.ctx(cmd, "post list")
			defer cancel()

			var f store.PostFilter
			if groupSlug != "" {
				g, err := a.store.Groups().GetBySlug(ctx, groupSlug)
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("no group with slug %q", groupSlug)
				}
				if err != nil {
					return err
				}
				f.GroupID = &g.ID
			}
			if author != "" {
				u, err := a.store.Users().GetByUsername(ctx, author)
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("no user named %q", author)
				}
				if err != nil {
					return err
				}
				f.AuthorID = &u.ID
			}

			n, err := a.store.Posts().Count(ctx, f)
			if err != nil {
				return err
			}
			if perPage < 1 {
				perPage = paging.PostsPerPage
			}
			p := paging.Paginate(int(n), perPage, strconv.Itoa(page))
			ps, err := a.store.Posts().List(ctx, f, p.Offset, p.Limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, post := range ps {
				fmt.Fprintf(out, "%d\t%s\t%s\t%s\t%s\n",
					post.ID, post.PubDate.Format(time.DateTime), authorName(post), groupSlugOf(post), post.String())
			}
			fmt.Fprintf(out, "page %d of %d (%d posts)\n", p.Number, p.NumPages, p.Count)
			return nil
		},
	}
	list.Flags().StringVar(&groupSlug, "group", "", "only posts in this group (slug)")
	list.Flags().StringVar(&author, "author", "", "only posts by this username")
	list.Flags().IntVar(&page, "page", 1, "page number")
	list.Flags().IntVar(&perPage, "per-page", paging.PostsPerPage, "posts per page")

	cmd.AddCommand(list)
	return cmd
}

func authorName(p models.Post) string {
	if p.Author != nil {
		return p.Author.Username
	}
	return strconv.FormatInt(p.AuthorID, 10)
}

func groupSlugOf(p models.Post) string {
	if p.Group != nil {
		return p.Group.Slug
	}
	return "-"
}
