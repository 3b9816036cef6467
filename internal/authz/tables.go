package authz

// The platform permission table and role hierarchy. These are reviewable
// static artifacts: changing who may do what on the platform means editing
// this file and shipping a release, never mutating state at runtime.

// defaultGrants maps each permission key to its allowed grant tokens. A bare
// role token admits any actor holding that role; a "<ROLE>:owner" token
// additionally requires the actor to own the resource.
var defaultGrants = map[string][]string{
	"user.read":   {"ADMIN", "SUPPORT", "SME:owner", "INVESTOR:owner"},
	"user.update": {"ADMIN", "SME:owner", "INVESTOR:owner"},
	"user.delete": {"ADMIN"},

	"sme.read":   {"ADMIN", "ADVISOR", "SUPPORT", "INVESTOR", "SME:owner"},
	"sme.create": {"ADMIN", "SME"},
	"sme.update": {"ADMIN", "ADVISOR", "SME:owner"},
	"sme.verify": {"ADMIN"},

	"investor.read":   {"ADMIN", "ADVISOR", "SUPPORT", "INVESTOR:owner"},
	"investor.update": {"ADMIN", "INVESTOR:owner"},

	"deal.read":             {"ADMIN", "ADVISOR", "SUPPORT", "INVESTOR", "SME:owner"},
	"deal.create":           {"ADVISOR", "SME"},
	"deal.update":           {"ADVISOR", "SME:owner"},
	"deal.approve":          {"ADMIN"},
	"deal.close":            {"ADMIN", "ADVISOR"},
	"deal.express_interest": {"INVESTOR"},

	"advisory_service.create": {"ADVISOR"},
	"advisory_service.read":   {"ADVISOR", "SUPPORT", "SME", "INVESTOR"},
	"advisory_service.update": {"ADVISOR"},

	"billing.read":   {"ADMIN"},
	"billing.update": {"ADMIN"},

	"document.read":   {"ADMIN", "ADVISOR", "SUPPORT", "SME:owner", "INVESTOR:owner"},
	"document.upload": {"ADVISOR", "SME", "INVESTOR"},
	"document.delete": {"ADMIN", "SME:owner"},

	"support_ticket.read":    {"SUPPORT", "SME:owner", "INVESTOR:owner"},
	"support_ticket.create":  {"SME", "INVESTOR"},
	"support_ticket.resolve": {"SUPPORT"},

	"report.generate": {"ADMIN", "ADVISOR"},

	"audit.read": {"ADMIN"},
}

// defaultHierarchy lists direct role inheritance. The left role gains every
// bare grant of the roles on the right, transitively. Owner-qualified grants
// never travel through these edges.
var defaultHierarchy = map[Role][]Role{
	RoleSuperAdmin: {RoleAdmin},
	RoleAdmin:      {RoleAdvisor, RoleSupport},
}

// DefaultConfig builds and validates the platform tables.
func DefaultConfig() (*Config, error) {
	return NewConfig(defaultGrants, defaultHierarchy)
}
