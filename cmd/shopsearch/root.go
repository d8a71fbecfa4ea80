package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/miracleworks/shopsearch-go/pkg/core"
)

var (
	cfgFile string
	cfg     *core.Config
)

var rootCmd = &cobra.Command{
	Use:   "shopsearch",
	Short: "Semantic product search over multi-store catalogs",
	Long: `shopsearch ingests product catalogs, embeds them with an OpenAI
embedding model and answers natural-language queries by vector similarity.

Example usage:
  shopsearch setup                         # Create the store schema
  shopsearch import catalog.json -s zamels # Ingest a catalog file
  shopsearch search "gold hoop earrings"   # Run a one-shot query
  shopsearch serve                         # Start the search HTTP API`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfgFile != "" {
			cfg, err = core.LoadConfigFromJSON(cfgFile)
		} else {
			cfg, err = core.LoadConfigFromEnv()
		}
		return err
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "JSON config file (default is environment / .env)")
}
