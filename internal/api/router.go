// Package api exposes the form builder over HTTP.
package api

import (
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-formbuilder/internal/live"
	"github.com/goliatone/go-formbuilder/internal/service"
	"github.com/goliatone/go-formbuilder/pkg/render"
)

// Deps are the collaborators the router serves.
type Deps struct {
	Service   *service.Service
	Renderers *render.Registry
	// Hub backs the admin submission stream. Nil disables the route.
	Hub *live.Hub
	// Assets is served under AssetPrefix when both are set.
	Assets         fs.FS
	AssetPrefix    string
	AllowedOrigins []string
	// UploadLimit caps uploaded files; zero uses the answers default.
	UploadLimit int64
	Logger      *slog.Logger
}

// Handler holds the HTTP handlers.
type Handler struct {
	svc         *service.Service
	renderers   *render.Registry
	uploadLimit int64
	logger      *slog.Logger
}

// NewRouter wires every route behind the recovery and access log
// middleware.
func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		svc:         deps.Service,
		renderers:   deps.Renderers,
		uploadLimit: deps.UploadLimit,
		logger:      logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(Recovery(logger))
	r.Use(Logging(logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if deps.Assets != nil && deps.AssetPrefix != "" {
		prefix := "/" + strings.Trim(deps.AssetPrefix, "/")
		r.Handle(prefix+"/*", http.StripPrefix(prefix+"/", http.FileServer(http.FS(deps.Assets))))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Use(Identity(deps.Service, logger))

		r.Get("/field-types", h.FieldTypes)
		r.Post("/uploads", h.Upload)

		r.Get("/companies", h.ListCompanies)
		r.Get("/companies/{id}/forms", h.ListCompanyForms)
		r.Group(func(r chi.Router) {
			r.Use(AdminOnly(logger))
			r.Post("/companies", h.CreateCompany)
			r.Put("/companies/{id}", h.UpdateCompany)
			r.Delete("/companies/{id}", h.DeleteCompany)
			r.Post("/users", h.CreateUser)
			r.Get("/companies/{id}/users", h.ListCompanyUsers)
			r.Post("/companies/{companyId}/users/{userId}", h.AddCompanyUser)
			r.Delete("/companies/{companyId}/users/{userId}", h.RemoveCompanyUser)
		})

		r.Get("/forms", h.ListForms)
		r.Post("/forms", h.CreateForm)
		r.Get("/me/forms", h.MyForms)
		r.Route("/forms/{id}", func(r chi.Router) {
			r.Get("/", h.GetForm)
			r.Put("/", h.UpdateForm)
			r.Delete("/", h.DeleteForm)
			r.Post("/validate", h.ValidateAnswers)
			r.Get("/render", h.RenderForm)
			r.Post("/render", h.SubmitRenderedForm)
			r.Get("/editor", h.RenderEditor)
			r.Get("/openapi", h.OpenAPI)
			r.Get("/submissions", h.FormSubmissions)
		})

		r.Post("/submissions", h.Submit)
		r.Get("/submissions", h.MySubmissions)
		r.Get("/submissions/all", h.AllSubmissions)
		r.Patch("/submissions/{id}/status", h.SetSubmissionStatus)
		if deps.Hub != nil {
			r.With(AdminOnly(logger)).Get("/submissions/stream", live.NewHandler(deps.Hub, deps.AllowedOrigins, logger).ServeHTTP)
		}
	})
	return r
}
