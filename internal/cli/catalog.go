package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/pkg/fieldtypes"
)

// NewCatalogCommand creates the catalog command.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Print the field type catalog",
		Long: `Print every supported field type with its label, input mask and the
validation rules it accepts.

Example:
  formbuilder catalog
  formbuilder catalog --format yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			types := fieldtypes.Types()
			if rootOpts.Format != "text" {
				return formatter.Structured(types)
			}

			tw := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TYPE\tLABEL\tMASK\tRULES")
			for _, def := range types {
				names := make([]string, 0, len(def.Rules))
				for _, rule := range def.Rules {
					names = append(names, rule.Name)
				}
				mask := def.Mask
				if mask == "" {
					mask = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", def.Type, def.Label, mask, strings.Join(names, ","))
			}
			return tw.Flush()
		},
	}
}
