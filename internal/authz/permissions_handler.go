package authz

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fundbridge-kh/fundbridge/internal/platform/httpx"
)

// PermissionsHandler exposes role permission listings. The listing is
// advisory, for rendering role-scoped affordances; it is never consulted for
// enforcement.
type PermissionsHandler struct {
	logger *slog.Logger
	engine *Engine
	mw     Middleware
}

// NewPermissionsHandler builds PermissionsHandler instance.
func NewPermissionsHandler(logger *slog.Logger, engine *Engine, mw Middleware) *PermissionsHandler {
	return &PermissionsHandler{logger: logger, engine: engine, mw: mw}
}

// MountRoutes registers permission routes.
func (h *PermissionsHandler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.mw.Require(ResourceUser, ActionRead))
		r.Get("/{role}", h.listForRole)
	})
}

func (h *PermissionsHandler) listForRole(w http.ResponseWriter, r *http.Request) {
	role, err := ParseRole(chi.URLParam(r, "role"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unknown role")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"role":        role,
		"permissions": h.engine.PermissionsForRole(role),
	})
}
