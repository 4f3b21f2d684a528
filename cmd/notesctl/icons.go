package main

import (
	"os"

	"notedash-server/internal/analysis"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var iconsCmd = &cobra.Command{
	Use:   "icons",
	Short: "Print the selectable note icons as YAML",
	Args:  cobra.NoArgs,
	// no store access
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		encoder := yaml.NewEncoder(os.Stdout)
		encoder.SetIndent(2)
		defer encoder.Close()

		if err := encoder.Encode(analysis.AllIcons()); err != nil {
			fatal("Error encoding YAML", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(iconsCmd)
}
