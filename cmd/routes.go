package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JakeFAU/dealsite-ssr/internal/route"
)

// newRoutesCmd prints the dispatch table in match order.
func newRoutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Prints the route dispatch table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PATTERN\tNAME\tFETCH\tRENDER")
			for _, e := range route.Table() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Matcher.Pattern(), e.Name, e.Fetch, e.Render)
			}
			return tw.Flush()
		},
	}
}

// newResolveCmd prints the route a path resolves to.
func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <path>",
		Short: "Resolves a request path against the dispatch table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := route.Resolve(args[0])
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "path:   %s\n", r.Path)
			fmt.Fprintf(out, "name:   %s\n", r.Name)
			fmt.Fprintf(out, "fetch:  %s\n", r.Fetch)
			fmt.Fprintf(out, "render: %s\n", r.Render)
			if r.Slug != "" {
				fmt.Fprintf(out, "slug:   %s\n", r.Slug)
			}
			return nil
		},
	}
}
