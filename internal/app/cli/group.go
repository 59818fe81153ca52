package cli

import (
	"errors"
	"fmt"

	"github.com/dalemusser/yatube/internal/app/store"
	"github.com/dalemusser/yatube/internal/app/system/inputval"
	"github.com/dalemusser/yatube/internal/app/system/normalize"
	"github.com/dalemusser/yatube/internal/domain/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type groupInput struct {
	Title string `validate:"required,max=200" label:"Title"`
	Slug  string `validate:"required,max=50,slug" label:"Slug"`
}

func newGroupCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "group",
		Aliases: []string{"groups"},
		Short:   "Manage groups",
	}

	var title, description string
	create := &cobra.Command{
		Use:   "create <slug>",
		Short: "Create a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := groupInput{Title: normalize.Name(title), Slug: normalize.Slug(args[0])}
			if res := inputval.Validate(in); res.HasErrors() {
				return errors.New(res.First())
			}

			ctx, cancel := a.ctx(cmd, "group create")
			defer cancel()

			g, err := a.store.Groups().Create(ctx, models.Group{
				Title:       in.Title,
				Slug:        in.Slug,
				Description: normalize.Text(description),
			})
			if errors.Is(err, store.ErrDuplicate) {
				return fmt.Errorf("a group with slug %q already exists", in.Slug)
			}
			if err != nil {
				return err
			}
			a.log.Info("group created", zap.Int64("group_id", g.ID), zap.String("slug", g.Slug))
			fmt.Fprintf(cmd.OutOrStdout(), "CREATED group %d %s\n", g.ID, g.Slug)
			return nil
		},
	}
	create.Flags().StringVar(&title, "title", "", "group title (required)")
	create.Flags().StringVar(&description, "description", "", "group description; HTML is sanitized when shown")
	_ = create.MarkFlagRequired("title")

	list := &cobra.Command{
		Use:   "list",
		Short: "List groups by title",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.ctx(cmd, "group list")
			defer cancel()

			groups, err := a.store.Groups().List(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, g := range groups {
				n, err := a.store.Posts().Count(ctx, store.ByGroup(g.ID))
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%d\t%s\t%s\t%d posts\n", g.ID, g.Slug, g.Title, n)
			}
			if len(groups) == 0 {
				fmt.Fprintln(out, "no groups")
			}
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <slug>",
		Short: "Delete a group; its posts stay, without a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.ctx(cmd, "group delete")
			defer cancel()

			slug := normalize.Slug(args[0])
			g, err := a.store.Groups().GetBySlug(ctx, slug)
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("no group with slug %q", slug)
			}
			if err != nil {
				return err
			}
			if _, err := a.store.Groups().Delete(ctx, g.ID); err != nil {
				return err
			}
			a.log.Info("group deleted", zap.Int64("group_id", g.ID), zap.String("slug", g.Slug))
			fmt.Fprintf(cmd.OutOrStdout(), "DELETED group %d %s\n", g.ID, g.Slug)
			return nil
		},
	}

	cmd.AddCommand(create, list, del)
	return cmd
}
