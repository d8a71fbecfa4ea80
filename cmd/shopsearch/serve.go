package main

import (
	"github.com/spf13/cobra"

	"github.com/miracleworks/shopsearch-go/pkg/core"
	"github.com/miracleworks/shopsearch-go/pkg/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the search HTTP API",
	Long: `Start the HTTP boundary serving POST /search. The endpoint accepts
a JSON body with "query" plus optional "store" and "limit" fields.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	client, err := core.NewClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	addr := serveAddr
	if addr == "" {
		addr = cfg.HTTPAddr
	}

	return server.New(client).ListenAndServe(addr)
}
