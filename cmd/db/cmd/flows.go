package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/templui/microblog/internal/config"
	"github.com/templui/microblog/internal/repository"
)

func FlowsCmd(cfg *config.Config) *cobra.Command {
	flowsCmd := &cobra.Command{
		Use:   "flows",
		Short: "Maintain pending federated logins",
	}

	var olderThan time.Duration
	cleanupCmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove consumed and expired login flows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openMigrated(cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			flows := repository.NewLoginFlowRepository(database)
			removed, err := flows.CleanupExpired(cmd.Context(), olderThan)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d login flows\n", removed)
			return nil
		},
	}
	cleanupCmd.Flags().DurationVar(&olderThan, "older-than", time.Hour, "keep flows touched more recently than this")

	flowsCmd.AddCommand(cleanupCmd)
	return flowsCmd
}
