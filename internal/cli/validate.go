package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/pkg/submission"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// ValidationResult is the validate command output.
type ValidationResult struct {
	CanSubmit bool                    `json:"canSubmit" yaml:"canSubmit"`
	Errors    []submission.FieldError `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	SchemaPath  string
	AnswersPath string
	Locale      string
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check an answer set against a form schema",
		Long: `Run the submission gate offline: every field of the schema is validated
against the answers file and the failures are printed.

The answers file maps field ids either to stored answers ({"value": ...})
or directly to values.

Example:
  formbuilder validate --schema form.json --answers answers.json
  formbuilder validate --schema form.json --answers answers.json --format json --locale en`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.SchemaPath, "schema", "", "form schema JSON file (required)")
	cmd.Flags().StringVar(&opts.AnswersPath, "answers", "", "answers JSON file (required)")
	cmd.Flags().StringVar(&opts.Locale, "locale", validation.LocalePtBR, "message locale (pt-BR|en)")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("answers")

	return cmd
}

func runValidate(opts *ValidateOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	form, err := readSchema(opts.SchemaPath)
	if err != nil {
		return err
	}
	answers, err := readAnswers(opts.AnswersPath, form)
	if err != nil {
		return err
	}
	formatter.VerboseLog("Loaded %d field(s) and %d answer(s)", len(form.Fields), len(answers))

	gate := submission.NewGate(submission.WithEngine(validation.New(validation.WithLocale(opts.Locale))))
	result := ValidationResult{Errors: gate.CollectErrors(form, answers)}
	result.CanSubmit = len(result.Errors) == 0

	if opts.Format == "text" {
		w := formatter.Writer
		if result.CanSubmit {
			fmt.Fprintf(w, "ok: %d field(s) valid\n", len(form.Fields))
		}
		for _, fe := range result.Errors {
			fmt.Fprintf(w, "%s (%s): %s [%s]\n", fe.FieldID, fe.Label, fe.Message, fe.Kind)
		}
	} else if err := formatter.Structured(result); err != nil {
		return err
	}

	if !result.CanSubmit {
		return &ExitError{Code: ExitFailure, Message: fmt.Sprintf("%d field(s) failed validation", len(result.Errors))}
	}
	return nil
}
