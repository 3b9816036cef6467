package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/fundbridge-kh/fundbridge/internal/audit"
	"github.com/fundbridge-kh/fundbridge/internal/auth"
	"github.com/fundbridge-kh/fundbridge/internal/authz"
	"github.com/fundbridge-kh/fundbridge/internal/deals"
	"github.com/fundbridge-kh/fundbridge/internal/masking"
	"github.com/fundbridge-kh/fundbridge/internal/observability"
	"github.com/fundbridge-kh/fundbridge/internal/shared"
	"github.com/fundbridge-kh/fundbridge/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	SessionManager     *shared.SessionManager
	AuthHandler        *auth.Handler
	DealsHandler       *deals.Handler
	AuditHandler       *audit.Handler
	PermissionsHandler *authz.PermissionsHandler
	JobHandler         *jobs.Handler
	ResponseMasker     masking.ResponseMasker
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with FundBridge defaults. Routes that
// return records with sensitive fields sit behind the response masker.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", func(r chi.Router) {
		r.Use(params.ResponseMasker.Middleware)
		params.AuthHandler.MountRoutes(r)
	})
	if params.DealsHandler != nil {
		r.Route("/deals", func(r chi.Router) {
			r.Use(params.ResponseMasker.ForKind(masking.KindDeal).Middleware)
			params.DealsHandler.MountRoutes(r)
		})
	}
	if params.AuditHandler != nil {
		r.Route("/audit", func(r chi.Router) {
			params.AuditHandler.MountRoutes(r)
		})
	}
	if params.PermissionsHandler != nil {
		r.Route("/permissions", params.PermissionsHandler.MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
