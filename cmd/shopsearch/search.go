package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/miracleworks/shopsearch-go/pkg/core"
)

var (
	searchStore string
	searchLimit int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run a one-shot semantic query",
	Long: `Embed the query and rank catalog products by cosine similarity.

Examples:
  shopsearch search "gold hoop earrings"
  shopsearch search "summer dress under knee" --store sydneystreet --limit 5`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchStore, "store", "s", "", "restrict results to a single store")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 0, "maximum number of results (default from config)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	client, err := core.NewClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	results, err := client.Search(context.Background(), args[0], searchStore, searchLimit)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("No matches.")
		return nil
	}

	for i, r := range results {
		fmt.Printf("%2d. %s  (%.3f)\n", i+1, r.Name, r.Similarity)
		if r.Brand != "" || r.Category != "" {
			fmt.Printf("    %s %s\n", r.Brand, r.Category)
		}
		fmt.Printf("    %.2f %s  %s\n", r.Price, r.Currency, r.ProductURL)
	}
	return nil
}
