package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/internal/api"
	"github.com/goliatone/go-formbuilder/internal/live"
	"github.com/goliatone/go-formbuilder/internal/service"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/html"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the form builder HTTP API: companies, users, forms, submissions,
rendered form pages and the admin submission feed.

Example:
  formbuilder serve --addr :8080 --db "file:forms.db?_pragma=foreign_keys(1)"
  FORMBUILDER_DB_DRIVER=postgres FORMBUILDER_DB_DSN=postgres://... formbuilder serve`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, rootOpts, cmd)
		},
	}
	return cmd
}

func runServe(ctx context.Context, opts *RootOptions, cmd *cobra.Command) error {
	a, err := openApp(ctx, opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()
	hub := live.NewHub(0, a.logger)
	svc := a.newService(service.WithPublisher(hub))

	renderer, err := html.New()
	if err != nil {
		return WrapExitError(ExitCommandError, "html renderer", err)
	}
	renderers, err := render.NewRegistry(renderer)
	if err != nil {
		return WrapExitError(ExitCommandError, "renderer registry", err)
	}

	router := api.NewRouter(api.Deps{
		Service:        svc,
		Renderers:      renderers,
		Hub:            hub,
		Assets:         html.AssetsFS(),
		AssetPrefix:    a.cfg.Server.AssetPrefix,
		AllowedOrigins: a.cfg.Server.AllowedOrigins,
		Logger:         a.logger,
	})

	err = api.Run(ctx, api.ServerConfig{
		Addr:         a.cfg.Server.Addr,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}, router, a.logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "serve", err)
	}
	return nil
}
