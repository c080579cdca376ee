// Package cli holds the formbuilder cobra commands.
package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "text" | "json" | "yaml"
	// ConfigPath points at an optional YAML config file.
	ConfigPath string
	// Addr and DSN override the config file and environment.
	Addr string
	DSN  string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the root command for the formbuilder CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "formbuilder",
		Short: "Multi-tenant form builder",
		Long: `Build forms per company, fill them in the browser or the terminal and
review the submissions.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.Addr, "addr", "", "listen address (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.DSN, "db", "", "database DSN (overrides config)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewFillCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewCatalogCommand(opts))
	cmd.AddCommand(NewOpenAPICommand(opts))

	return cmd
}
