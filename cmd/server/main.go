// Package main implements the patient education server: it loads the
// section and disease catalog from the content origin, serves it over HTTP
// and exports disease pages as Word documents.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// configFile is an optional config.yaml path.
	configFile string

	version = "dev"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "server",
		Short: "Patient education content server",
		Long: `server loads the patient education catalog (sections, diseases, attachments
and banners) from a static content origin and serves it to the browser UI.

Configuration comes from config.yaml and PATIENTEDU_* environment variables.`,
		Version:       version,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./config.yaml)")

	root.AddCommand(newServeCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newJournalCmd())
	root.AddCommand(newHashPasswordCmd())
	return root
}
