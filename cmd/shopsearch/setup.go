package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/miracleworks/shopsearch-go/pkg/core"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create or verify the product store schema",
	Long: `Create the product table, its indexes and the server-side similarity
search operation in the configured store. Safe to run repeatedly.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	client, err := core.NewClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Setup(context.Background()); err != nil {
		return err
	}

	fmt.Println("Schema is ready.")
	return nil
}
