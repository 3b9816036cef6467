package authz

import (
	"log/slog"
	"sort"
	"time"
)

// Engine resolves authorization decisions against the static tables. It is
// immutable after construction and safe for concurrent use.
type Engine struct {
	cfg      *Config
	closures map[Role]map[Role]struct{}
	logger   *slog.Logger
}

// NewEngine constructs an Engine over a validated Config. The inheritance
// closure of every role is precomputed here since the hierarchy never
// changes after start-up.
func NewEngine(cfg *Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	closures := make(map[Role]map[Role]struct{}, len(AllRoles()))
	for _, role := range AllRoles() {
		closures[role] = closureOf(cfg, role)
	}
	return &Engine{cfg: cfg, closures: closures, logger: logger}
}

// closureOf collects every role reachable from the starting role by
// following inheritance edges. The visited set guards traversal, so the walk
// terminates even on a malformed graph; NewConfig rejects cycles before an
// Engine is ever built.
func closureOf(cfg *Config, role Role) map[Role]struct{} {
	visited := make(map[Role]struct{})
	queue := append([]Role(nil), cfg.Inherits(role)...)
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if _, seen := visited[next]; seen {
			continue
		}
		visited[next] = struct{}{}
		queue = append(queue, cfg.Inherits(next)...)
	}
	return visited
}

// Resolve decides whether the actor described by pctx may perform the keyed
// operation. The checks run in strict order: unknown key, direct grant,
// inherited grant, owner-qualified grant, deny. Ownership is only ever
// matched against the actor's own role token; owner grants do not propagate
// through inheritance.
func (e *Engine) Resolve(pctx Context, key Key) Decision {
	decision := Decision{
		Permission:  key.String(),
		Reason:      ReasonDenied,
		EvaluatedAt: time.Now().UTC(),
	}

	grants, known := e.cfg.GrantList(key)
	if !known {
		// A missing table entry must never fail open. It usually means a
		// typo or a permission referenced before being declared.
		e.logger.Warn("unknown permission key",
			slog.String("permission", key.String()),
			slog.String("role", string(pctx.ActorRole)))
		return decision
	}

	for _, grant := range grants {
		if !grant.OwnerOnly && grant.Role == pctx.ActorRole {
			decision.Allowed = true
			decision.Reason = ReasonDirect
			return decision
		}
	}

	closure := e.closures[pctx.ActorRole]
	for _, grant := range grants {
		if grant.OwnerOnly {
			continue
		}
		if _, ok := closure[grant.Role]; ok {
			decision.Allowed = true
			decision.Reason = ReasonInherited
			return decision
		}
	}

	if pctx.ResourceOwnerID != "" && pctx.ResourceOwnerID == pctx.ActorID {
		for _, grant := range grants {
			if grant.OwnerOnly && grant.Role == pctx.ActorRole {
				decision.Allowed = true
				decision.Reason = ReasonOwner
				return decision
			}
		}
	}

	return decision
}

// CanPerform is the boolean convenience form of Resolve for callers that do
// not need the reason, such as conditional UI affordances.
func (e *Engine) CanPerform(role Role, resource Resource, action Action, isOwner bool, actorID string) bool {
	pctx := Context{ActorID: actorID, ActorRole: role}
	if isOwner {
		pctx.ResourceOwnerID = actorID
	}
	return e.Resolve(pctx, Key{Resource: resource, Action: action}).Allowed
}

// PermissionsForRole enumerates every permission the role would be granted,
// annotating owner-qualified ones. The result is advisory, for rendering
// role-scoped affordances; enforcement is always a fresh Resolve at the
// point of action.
func (e *Engine) PermissionsForRole(role Role) []string {
	closure := e.closures[role]
	var out []string
	for _, key := range e.cfg.Keys() {
		grants, _ := e.cfg.GrantList(key)
		bare := false
		ownerOnly := false
		for _, grant := range grants {
			if grant.OwnerOnly {
				if grant.Role == role {
					ownerOnly = true
				}
				continue
			}
			if grant.Role == role {
				bare = true
				break
			}
			if _, ok := closure[grant.Role]; ok {
				bare = true
				break
			}
		}
		switch {
		case bare:
			out = append(out, key.String())
		case ownerOnly:
			out = append(out, key.String()+" (owner only)")
		}
	}
	sort.Strings(out)
	return out
}
