package main

import (
	"context"
	"fmt"

	"notedash-server/internal/service"

	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Permanently delete notes whose trash retention has lapsed",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		stores := openStores(ctx)
		defer stores.Close()

		notes := service.NewNoteService(stores.Notes, cfg.Trash.Retention)
		purged, err := service.NewRetentionSweeper(notes, cfg.Trash.SweepInterval).SweepOnce(ctx)
		if err != nil {
			fatal("Error sweeping trash", err)
		}

		for _, id := range purged {
			fmt.Println(id)
		}
		fmt.Printf("Purged %d expired notes (retention %s)\n", len(purged), cfg.Trash.Retention)
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}
