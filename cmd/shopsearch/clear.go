package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/miracleworks/shopsearch-go/pkg/core"
)

var clearStore string

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete product rows",
	Long: `Delete all product rows, or only those belonging to one store when
--store is given. The delete is permanent; re-ingest to restore.`,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().StringVarP(&clearStore, "store", "s", "", "restrict the delete to a single store")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
	client, err := core.NewClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	count, err := client.Clear(context.Background(), clearStore)
	if err != nil {
		return err
	}

	if clearStore != "" {
		fmt.Printf("Deleted %d products from %q.\n", count, clearStore)
	} else {
		fmt.Printf("Deleted %d products.\n", count)
	}
	return nil
}
