package cli

import (
	"errors"
	"fmt"

	"github.com/dalemusser/yatube/internal/app/store"
	"github.com/dalemusser/yatube/internal/app/system/inputval"
	"github.com/dalemusser/yatube/internal/app/system/normalize"
	"github.com/dalemusser/yatube/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type userInput struct {
	Username string `validate:"required,max=150,username" label:"Username"`
	FullName string `validate:"max=150" label:"Full name"`
	Password string `validate:"required,min=8,bcryptlen" label:"Password"`
}

func newUserCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "user",
		Aliases: []string{"users"},
		Short:   "Manage user accounts",
	}

	var fullName, password string
	var cost int
	create := &cobra.Command{
		Use:   "create <username>",
		Short: "Create a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := userInput{
				Username: normalize.Username(args[0]),
				FullName: normalize.Name(fullName),
				Password: password,
			}
			if res := inputval.Validate(in); res.HasErrors() {
				return errors.New(res.First())
			}

			ctx, cancel := a.ctx(cmd, "user create")
			defer cancel()

			if _, err := a.store.Users().GetByUsernameCI(ctx, text.Fold(in.Username)); err == nil {
				return fmt.Errorf("a user named %q already exists", in.Username)
			} else if !errors.Is(err, store.ErrNotFound) {
				return err
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), cost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			u, err := a.store.Users().Create(ctx, models.User{
				Username:     in.Username,
				FullName:     in.FullName,
				PasswordHash: string(hash),
			})
			if errors.Is(err, store.ErrDuplicate) {
				return fmt.Errorf("a user named %q already exists", in.Username)
			}
			if err != nil {
				return err
			}
			a.log.Info("user created", zap.Int64("user_id", u.ID), zap.String("username", u.Username))
			fmt.Fprintf(cmd.OutOrStdout(), "CREATED user %d %s\n", u.ID, u.Username)
			return nil
		},
	}
	create.Flags().StringVar(&fullName, "name", "", "full name")
	create.Flags().StringVar(&password, "password", "", "initial password (required)")
	create.Flags().IntVar(&cost, "bcrypt-cost", bcrypt.DefaultCost, "bcrypt cost")
	_ = create.MarkFlagRequired("password")

	del := &cobra.Command{
		Use:   "delete <username>",
		Short: "Delete a user and every post they wrote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.ctx(cmd, "user delete")
			defer cancel()

			username := normalize.Username(args[0])
			u, err := a.store.Users().GetByUsername(ctx, username)
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("no user named %q", username)
			}
			if err != nil {
				return err
			}
			posts, err := a.store.Posts().Count(ctx, store.ByAuthor(u.ID))
			if err != nil {
				return err
			}
			if _, err := a.store.Users().Delete(ctx, u.ID); err != nil {
				return err
			}
			a.log.Info("user deleted", zap.Int64("user_id", u.ID), zap.Int64("posts", posts))
			fmt.Fprintf(cmd.OutOrStdout(), "DELETED user %d %s (%d posts)\n", u.ID, u.Username, posts)
			return nil
		},
	}

	cmd.AddCommand(create, del)
	return cmd
}
