package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/qclog/pkg/config"
	"github.com/ccollicutt/qclog/pkg/discovery"
	"github.com/ccollicutt/qclog/pkg/modules/all"
)

// NewModulesCommand creates the modules command.
func NewModulesCommand() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "modules",
		Short: "List the supported QC tools",
		Long: `List every module in the order "qclog run" executes them, with its anchor,
name and search keys. With --verbose the default search patterns are shown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModules(cmd, verbose)
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show links and search patterns")
	return cmd
}

func runModules(cmd *cobra.Command, verbose bool) error {
	patterns := discovery.DefaultPatterns()

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ANCHOR\tNAME\tSEARCH KEYS")
	for _, m := range all.Registry().All() {
		info := m.Info()
		fmt.Fprintf(tw, "%s\t%s\t%s\n", info.Anchor, info.Name, strings.Join(m.SearchKeys(), ", "))
		if !verbose {
			continue
		}
		if info.Href != "" {
			fmt.Fprintf(tw, "\t  %s\t\n", info.Href)
		}
		for _, key := range m.SearchKeys() {
			for _, p := range patterns[key] {
				fmt.Fprintf(tw, "\t  %s:\t%s\n", key, describePattern(p))
			}
		}
	}
	return tw.Flush()
}

func describePattern(p config.SearchPattern) string {
	var parts []string
	if p.Fn != "" {
		parts = append(parts, "fn="+p.Fn)
	}
	if p.FnRe != "" {
		parts = append(parts, "fn_re="+p.FnRe)
	}
	if p.Contents != "" {
		parts = append(parts, fmt.Sprintf("contents=%q", p.Contents))
	}
	if p.ContentsRe != "" {
		parts = append(parts, "contents_re="+p.ContentsRe)
	}
	if p.NumLines > 0 {
		parts = append(parts, fmt.Sprintf("num_lines=%d", p.NumLines))
	}
	return strings.Join(parts, " ")
}
