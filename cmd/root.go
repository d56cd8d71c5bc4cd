// Package cmd defines and implements the CLI commands for the dealsite executable.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// newRootCmd creates the root command. Running it without a subcommand serves the site.
func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "dealsite",
		Short: "Server-side renderer for the deals and coupons site.",
		Long: `dealsite answers every page request with a complete HTML document: it
resolves the route, reads the page's data from the store, derives SEO metadata
and structured data, and embeds the hydration payload for the client bundle.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cfgFile)
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML, TOML or JSON)")

	cmd.AddCommand(newServeCmd(&cfgFile))
	cmd.AddCommand(newRoutesCmd())
	cmd.AddCommand(newResolveCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
