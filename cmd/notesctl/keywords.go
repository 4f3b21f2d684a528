package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"notedash-server/internal/analysis"
	"notedash-server/internal/domain"

	"github.com/spf13/cobra"
)

var (
	keywordsOwner string
	keywordsJSON  bool
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Show the top keywords across an owner's active notes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		stores := openStores(ctx)
		defer stores.Close()

		notes, err := stores.Notes.ListByOwner(ctx, keywordsOwner)
		if err != nil {
			fatal("Error listing notes", err)
		}

		keywords := activeKeywords(notes)

		if keywordsJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(keywords); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		if len(keywords) == 0 {
			fmt.Println("No keywords")
			return
		}
		for _, kw := range keywords {
			fmt.Printf("%-20s %d\n", kw.Word, kw.Count)
		}
	},
}

// activeKeywords ranks keywords over notes that are not in the trash. It
// never touches the store.
func activeKeywords(notes []*domain.Note) []analysis.KeywordCount {
	sources := make([]analysis.Source, 0, len(notes))
	for _, note := range notes {
		if !note.IsDeleted {
			sources = append(sources, analysis.Source{Title: note.Title, Description: note.Description})
		}
	}
	return analysis.ExtractKeywords(sources)
}

func init() {
	rootCmd.AddCommand(keywordsCmd)
	keywordsCmd.Flags().StringVar(&keywordsOwner, "owner", "", "Owner (user id) whose notes are analysed")
	keywordsCmd.MarkFlagRequired("owner")
	keywordsCmd.Flags().BoolVar(&keywordsJSON, "json", false, "Output in JSON format")
}
