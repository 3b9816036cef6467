package authz

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	cfg, err := DefaultConfig()
	require.NoError(t, err)
	return NewEngine(cfg, slog.Default())
}

func fixtureEngine(t *testing.T, grants map[string][]string, hierarchy map[Role][]Role) *Engine {
	t.Helper()
	cfg, err := NewConfig(grants, hierarchy)
	require.NoError(t, err)
	return NewEngine(cfg, slog.Default())
}

func TestResolveUnknownKeyDenies(t *testing.T) {
	engine := testEngine(t)
	for _, role := range AllRoles() {
		decision := engine.Resolve(Context{ActorID: "u1", ActorRole: role},
			Key{Resource: ResourceBilling, Action: ActionDelete})
		assert.False(t, decision.Allowed, "role %s", role)
		assert.Equal(t, ReasonDenied, decision.Reason, "role %s", role)
	}
}

func TestResolveDirectGrant(t *testing.T) {
	engine := testEngine(t)

	decision := engine.Resolve(Context{ActorID: "u1", ActorRole: RoleAdmin},
		Key{Resource: ResourceBilling, Action: ActionRead})
	require.True(t, decision.Allowed)
	assert.Equal(t, ReasonDirect, decision.Reason)
	assert.Equal(t, "billing.read", decision.Permission)

	denied := engine.Resolve(Context{ActorID: "u2", ActorRole: RoleInvestor},
		Key{Resource: ResourceBilling, Action: ActionRead})
	assert.False(t, denied.Allowed)
	assert.Equal(t, ReasonDenied, denied.Reason)
}

func TestResolveInheritedGrant(t *testing.T) {
	engine := testEngine(t)

	// ADMIN inherits ADVISOR, which holds advisory_service.create directly.
	decision := engine.Resolve(Context{ActorID: "u1", ActorRole: RoleAdmin},
		Key{Resource: ResourceAdvisoryService, Action: ActionCreate})
	require.True(t, decision.Allowed)
	assert.Equal(t, ReasonInherited, decision.Reason)

	// SUPER_ADMIN reaches it through two hops.
	decision = engine.Resolve(Context{ActorID: "u1", ActorRole: RoleSuperAdmin},
		Key{Resource: ResourceAdvisoryService, Action: ActionCreate})
	require.True(t, decision.Allowed)
	assert.Equal(t, ReasonInherited, decision.Reason)
}

func TestResolveOwnerGrant(t *testing.T) {
	engine := testEngine(t)
	key := Key{Resource: ResourceSME, Action: ActionRead}

	decision := engine.Resolve(Context{ActorID: "u1", ActorRole: RoleSME, ResourceOwnerID: "u1"}, key)
	require.True(t, decision.Allowed)
	assert.Equal(t, ReasonOwner, decision.Reason)

	// Different owner flips to denied.
	decision = engine.Resolve(Context{ActorID: "u1", ActorRole: RoleSME, ResourceOwnerID: "u2"}, key)
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonDenied, decision.Reason)

	// Missing owner id also denies.
	decision = engine.Resolve(Context{ActorID: "u1", ActorRole: RoleSME}, key)
	assert.False(t, decision.Allowed)
}

func TestOwnerGrantsDoNotPropagateThroughInheritance(t *testing.T) {
	engine := fixtureEngine(t,
		map[string][]string{"deal.update": {"SME:owner"}},
		map[Role][]Role{RoleAdmin: {RoleSME}},
	)

	// ADMIN inherits SME, but the owner-qualified grant only matches the
	// actor's own role token.
	decision := engine.Resolve(Context{ActorID: "u1", ActorRole: RoleAdmin, ResourceOwnerID: "u1"},
		Key{Resource: ResourceDeal, Action: ActionUpdate})
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonDenied, decision.Reason)

	decision = engine.Resolve(Context{ActorID: "u1", ActorRole: RoleSME, ResourceOwnerID: "u1"},
		Key{Resource: ResourceDeal, Action: ActionUpdate})
	assert.True(t, decision.Allowed)
	assert.Equal(t, ReasonOwner, decision.Reason)
}

func TestInheritanceIsTransitive(t *testing.T) {
	engine := fixtureEngine(t,
		map[string][]string{"report.generate": {"SUPPORT"}},
		map[Role][]Role{
			RoleSuperAdmin: {RoleAdmin},
			RoleAdmin:      {RoleSupport},
		},
	)
	decision := engine.Resolve(Context{ActorID: "u1", ActorRole: RoleSuperAdmin},
		Key{Resource: ResourceReport, Action: ActionGenerate})
	require.True(t, decision.Allowed)
	assert.Equal(t, ReasonInherited, decision.Reason)
}

func TestCanPerform(t *testing.T) {
	engine := testEngine(t)

	assert.True(t, engine.CanPerform(RoleAdmin, ResourceDeal, ActionApprove, false, "u1"))
	assert.False(t, engine.CanPerform(RoleInvestor, ResourceDeal, ActionApprove, false, "u1"))
	assert.True(t, engine.CanPerform(RoleSME, ResourceSME, ActionRead, true, "u1"))
	assert.False(t, engine.CanPerform(RoleSME, ResourceSME, ActionRead, false, "u1"))
}

func TestPermissionsForRoleConsistentWithResolve(t *testing.T) {
	engine := testEngine(t)

	for _, role := range AllRoles() {
		for _, entry := range engine.PermissionsForRole(role) {
			if strings.HasSuffix(entry, "(owner only)") {
				continue
			}
			key, err := ParseKey(entry)
			require.NoError(t, err)
			decision := engine.Resolve(Context{ActorID: "u1", ActorRole: role}, key)
			assert.True(t, decision.Allowed, "role %s key %s", role, entry)
		}
	}
}

func TestPermissionsForRoleAnnotatesOwnerOnly(t *testing.T) {
	engine := testEngine(t)
	perms := engine.PermissionsForRole(RoleSME)
	assert.Contains(t, perms, "sme.read (owner only)")
	assert.Contains(t, perms, "deal.create")
	assert.NotContains(t, perms, "billing.read")
}

func TestResolveIsDeterministic(t *testing.T) {
	engine := testEngine(t)
	pctx := Context{ActorID: "u1", ActorRole: RoleAdmin}
	key := Key{Resource: ResourceBilling, Action: ActionRead}
	first := engine.Resolve(pctx, key)
	second := engine.Resolve(pctx, key)
	assert.Equal(t, first.Allowed, second.Allowed)
	assert.Equal(t, first.Reason, second.Reason)
	assert.Equal(t, first.Permission, second.Permission)
}
