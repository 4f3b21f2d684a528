package main

import (
	"context"
	"fmt"
	"os"

	"notedash-server/internal/config"
	"notedash-server/internal/repository"

	"github.com/spf13/cobra"
)

var (
	driver string
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "notesctl",
	Short: "Maintenance commands for the notedash note store",
	Long: `notesctl talks to the same store as the notedash server.
Configuration is read from the environment and .env, like the server.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		if driver != "" {
			loaded.Database.Driver = driver
		}
		cfg = loaded
		return nil
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func openStores(ctx context.Context) *repository.Stores {
	stores, err := repository.OpenStores(ctx, cfg.Database)
	if err != nil {
		fatal("Error opening store", err)
	}
	return stores
}

func init() {
	rootCmd.PersistentFlags().StringVar(&driver, "driver", "", "Override DB_DRIVER (couch or memory)")
}
