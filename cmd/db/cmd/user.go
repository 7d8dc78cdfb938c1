package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/templui/microblog/internal/config"
	"github.com/templui/microblog/internal/repository"
	"github.com/templui/microblog/internal/service"
)

func UserCmd(cfg *config.Config) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Create or delete users",
	}

	var nickname, email string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user without federated login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openMigrated(cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			users := service.NewUserService(repository.NewUserRepository(database))
			user, err := users.Create(cmd.Context(), nickname, email)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %d (%s)\n", user.ID, user.Nickname)
			return nil
		},
	}
	createCmd.Flags().StringVar(&nickname, "nickname", "", "nickname of the new user")
	createCmd.Flags().StringVar(&email, "email", "", "email address of the new user")
	_ = createCmd.MarkFlagRequired("nickname")
	_ = createCmd.MarkFlagRequired("email")

	deleteCmd := &cobra.Command{
		Use:   "delete <nickname>",
		Short: "Delete a user that has no posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openMigrated(cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			users := service.NewUserService(repository.NewUserRepository(database))
			if err := users.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted user %s\n", args[0])
			return nil
		},
	}

	userCmd.AddCommand(createCmd, deleteCmd)
	return userCmd
}
