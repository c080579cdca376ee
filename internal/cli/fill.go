package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/internal/service"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/tui"
)

// FillOptions holds flags for the fill command.
type FillOptions struct {
	*RootOptions
	FormID string
	UserID string
	Review bool

	// Driver overrides the survey prompt driver (for testing).
	Driver tui.PromptDriver
}

// NewFillCommand creates the fill command.
func NewFillCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FillOptions{RootOptions: rootOpts}
	return newFillCommand(opts)
}

func newFillCommand(opts *FillOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill a stored form in the terminal",
		Long: `Prompt for every field of a stored form, validate each answer as it is
typed and submit the answers as the given user.

Example:
  formbuilder fill --form 6f1c... --user 2b9e...
  formbuilder fill --form 6f1c... --user 2b9e... --format json --review`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runFill(ctx, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.FormID, "form", "", "form id (required)")
	cmd.Flags().StringVar(&opts.UserID, "user", "", "id of the user answering (required)")
	cmd.Flags().BoolVar(&opts.Review, "review", false, "offer to review the answers before submitting")
	_ = cmd.MarkFlagRequired("form")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runFill(ctx context.Context, opts *FillOptions, cmd *cobra.Command) error {
	a, err := openApp(ctx, opts.RootOptions, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()
	svc := a.newService()

	actor, err := svc.Authenticate(ctx, opts.UserID)
	if err != nil {
		return WrapExitError(ExitCommandError, "unknown user "+opts.UserID, err)
	}
	form, err := svc.FormToFill(ctx, actor, opts.FormID)
	switch {
	case errors.Is(err, service.ErrAlreadySubmitted):
		return WrapExitError(ExitFailure, render.Translate(render.RenderOptions{Locale: a.cfg.Locale}, "form.already"), err)
	case err != nil:
		return WrapExitError(ExitCommandError, "load form "+opts.FormID, err)
	}

	driver := opts.Driver
	if driver == nil {
		driver = tui.NewSurveyDriver(cmd.ErrOrStderr())
	}
	format := tui.OutputFormatPrettyText
	if opts.Format != "text" {
		format = tui.OutputFormatJSON
	}
	renderer, err := tui.New(
		tui.WithPromptDriver(driver),
		tui.WithGate(a.gate),
		tui.WithPersist(svc.Persist(actor, form.ID)),
		tui.WithOutputFormat(format),
		tui.WithReview(opts.Review),
		tui.WithTheme(tui.Theme{ErrorPrefix: "✗ "}),
	)
	if err != nil {
		return WrapExitError(ExitCommandError, "terminal renderer", err)
	}

	out, err := renderer.Render(ctx, form, render.RenderOptions{Mode: render.ModeFill, Locale: a.cfg.Locale})
	switch {
	case errors.Is(err, tui.ErrAborted):
		return WrapExitError(ExitFailure, render.Translate(render.RenderOptions{Locale: a.cfg.Locale}, "tui.aborted"), err)
	case errors.Is(err, service.ErrAlreadySubmitted):
		return WrapExitError(ExitFailure, render.Translate(render.RenderOptions{Locale: a.cfg.Locale}, "form.already"), err)
	case err != nil:
		return WrapExitError(ExitCommandError, "fill", err)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
