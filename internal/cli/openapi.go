package cli

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/pkg/openapi"
)

// OpenAPIOptions holds flags for the openapi command.
type OpenAPIOptions struct {
	*RootOptions
	SchemaPath string
	ServerURL  string
}

// NewOpenAPICommand creates the openapi command.
func NewOpenAPICommand(rootOpts *RootOptions) *cobra.Command {
	opts := &OpenAPIOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Print the OpenAPI document of a form's submission payload",
		Long: `Describe the submission endpoint of a form schema as an OpenAPI 3
document. Text output is JSON.

Example:
  formbuilder openapi --schema form.json --format yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := readSchema(opts.SchemaPath)
			if err != nil {
				return err
			}
			doc, err := openapi.Export(form, openapi.Options{ServerURL: opts.ServerURL})
			if err != nil {
				return WrapExitError(ExitCommandError, "export", err)
			}
			format := ""
			if opts.Format == "yaml" {
				format = "yaml"
			}
			data, err := openapi.Marshal(doc, format)
			if err != nil {
				return WrapExitError(ExitCommandError, "encode", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&opts.SchemaPath, "schema", "", "form schema JSON file (required)")
	cmd.Flags().StringVar(&opts.ServerURL, "server", "", "server URL written to the document")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}
