package authz

import (
	"log/slog"
	"net/http"

	"github.com/fundbridge-kh/fundbridge/internal/platform/httpx"
	"github.com/fundbridge-kh/fundbridge/internal/shared"
)

// Observer receives decision outcomes for metrics.
type Observer interface {
	ObserveDecision(permission, reason string, allowed bool)
}

// OwnerFunc resolves the owner ID of the resource addressed by a request.
type OwnerFunc func(r *http.Request) (string, error)

// Middleware wires authorization gates for HTTP handlers. Every gated route
// resolves a fresh Decision before the handler runs.
type Middleware struct {
	Engine   *Engine
	Logger   *slog.Logger
	Recorder DecisionSink
	Observer Observer
}

// DecisionSink receives resolved decisions for audit. Recording must never
// block or fail the request path.
type DecisionSink interface {
	RecordDecision(actorID string, decision Decision)
}

// Require gates a route on a role-only permission check. Anonymous requests
// are rejected outright; a denied Decision maps to a generic forbidden
// response that does not reveal whether the permission key exists.
func (m Middleware) Require(resource Resource, action Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := shared.ActorFromContext(r.Context())
			if !ok {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
				return
			}
			decision := m.resolve(actor, r, Key{Resource: resource, Action: action}, "")
			if !decision.Allowed {
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireOwned gates a route on a permission that may carry owner-qualified
// grants. The owner function loads the owner ID of the addressed resource so
// the resolver can compare it against the actor.
func (m Middleware) RequireOwned(resource Resource, action Action, owner OwnerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := shared.ActorFromContext(r.Context())
			if !ok {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
				return
			}
			ownerID, err := owner(r)
			if err != nil {
				httpx.RespondError(w, err)
				return
			}
			decision := m.resolve(actor, r, Key{Resource: resource, Action: action}, ownerID)
			if !decision.Allowed {
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m Middleware) resolve(actor shared.Actor, r *http.Request, key Key, ownerID string) Decision {
	role, err := ParseRole(actor.Role)
	if err != nil {
		// An unrecognized role token can only come from a stale or tampered
		// session; no grant list contains it, so this always denies.
		if m.Logger != nil {
			m.Logger.Warn("unrecognized role token", slog.String("role", actor.Role))
		}
	}
	decision := m.Engine.Resolve(Context{
		ActorID:         actor.ID,
		ActorRole:       role,
		ResourceOwnerID: ownerID,
	}, key)
	if m.Observer != nil {
		m.Observer.ObserveDecision(decision.Permission, string(decision.Reason), decision.Allowed)
	}
	if m.Recorder != nil {
		m.Recorder.RecordDecision(actor.ID, decision)
	}
	return decision
}
