package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/miracleworks/shopsearch-go/pkg/core"
)

var importStore string

var importCmd = &cobra.Command{
	Use:   "import <catalog.json>",
	Short: "Ingest a product catalog file",
	Long: `Ingest a JSON catalog file into the product store. The file holds an
array of product objects; every record is embedded and upserted. A record
that fails is counted and skipped, never aborting the batch.

Examples:
  shopsearch import catalog.json --store zamels
  shopsearch import drops/spring.json -s sydneystreet`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importStore, "store", "s", "", "store name the catalog belongs to (required)")
	_ = importCmd.MarkFlagRequired("store")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}

	var products []*core.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return fmt.Errorf("failed to parse catalog: %w", err)
	}

	client, err := core.NewClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	fmt.Printf("Importing %d products into %q...\n", len(products), importStore)

	bar := progressbar.NewOptions(len(products),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Importing"),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)

	report, err := client.Ingest(context.Background(), products, importStore,
		core.WithProgress(func(done, total int) {
			_ = bar.Set(done)
		}))
	if err != nil {
		return err
	}

	fmt.Printf("\nImport complete:\n")
	fmt.Printf("  Imported: %d\n", report.Imported)
	fmt.Printf("  Failed:   %d\n", report.Failed)
	return nil
}
