package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/templui/microblog/cmd/db/cmd"
	"github.com/templui/microblog/internal/config"
	"github.com/templui/microblog/internal/logger"
)

func main() {
	cfg := config.LoadDatabase()
	logger.Init(true, "", cfg.AppEnv)

	rootCmd := &cobra.Command{
		Use:           "db",
		Short:         "Database maintenance for " + cfg.AppName,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.MigrateCmd(cfg))
	rootCmd.AddCommand(cmd.UserCmd(cfg))
	rootCmd.AddCommand(cmd.FlowsCmd(cfg))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
