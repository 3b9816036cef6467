package authz

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundbridge-kh/fundbridge/internal/shared"
)

func newPermissionsRouter(t *testing.T) chi.Router {
	t.Helper()
	engine := testEngine(t)
	mw := Middleware{Engine: engine, Logger: slog.Default()}
	handler := NewPermissionsHandler(slog.Default(), engine, mw)

	r := chi.NewRouter()
	r.Route("/permissions", handler.MountRoutes)
	return r
}

func TestListPermissionsForRole(t *testing.T) {
	router := newPermissionsRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/permissions/ADMIN", nil)
	req = req.WithContext(shared.ContextWithActor(req.Context(), shared.Actor{ID: "adm-1", Role: "ADMIN"}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Role        string   `json:"role"`
		Permissions []string `json:"permissions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ADMIN", body.Role)
	assert.Contains(t, body.Permissions, "billing.read")
	// Inherited grants are part of a role's effective surface.
	assert.Contains(t, body.Permissions, "advisory_service.create")
}

func TestListPermissionsUnknownRole(t *testing.T) {
	router := newPermissionsRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/permissions/ROOT", nil)
	req = req.WithContext(shared.ContextWithActor(req.Context(), shared.Actor{ID: "adm-1", Role: "ADMIN"}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListPermissionsGated(t *testing.T) {
	router := newPermissionsRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/permissions/ADMIN", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// INVESTOR holds no user.read grant for foreign resources.
	req = httptest.NewRequest(http.MethodGet, "/permissions/ADMIN", nil)
	req = req.WithContext(shared.ContextWithActor(req.Context(), shared.Actor{ID: "inv-1", Role: "INVESTOR"}))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
