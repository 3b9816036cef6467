package authz

import (
	"fmt"
	"strings"
	"time"
)

// Resource is a closed enumeration of controllable resource types.
type Resource string

const (
	ResourceUser            Resource = "user"
	ResourceSME             Resource = "sme"
	ResourceInvestor        Resource = "investor"
	ResourceDeal            Resource = "deal"
	ResourceAdvisoryService Resource = "advisory_service"
	ResourceBilling         Resource = "billing"
	ResourceDocument        Resource = "document"
	ResourceSupportTicket   Resource = "support_ticket"
	ResourceReport          Resource = "report"
	ResourceAudit           Resource = "audit"
)

// Action is a closed enumeration of operations on resources.
type Action string

const (
	ActionRead            Action = "read"
	ActionCreate          Action = "create"
	ActionUpdate          Action = "update"
	ActionDelete          Action = "delete"
	ActionApprove         Action = "approve"
	ActionClose           Action = "close"
	ActionVerify          Action = "verify"
	ActionExpressInterest Action = "express_interest"
	ActionUpload          Action = "upload"
	ActionResolve         Action = "resolve"
	ActionGenerate        Action = "generate"
)

func allResources() []Resource {
	return []Resource{
		ResourceUser, ResourceSME, ResourceInvestor, ResourceDeal,
		ResourceAdvisoryService, ResourceBilling, ResourceDocument,
		ResourceSupportTicket, ResourceReport, ResourceAudit,
	}
}

func allActions() []Action {
	return []Action{
		ActionRead, ActionCreate, ActionUpdate, ActionDelete,
		ActionApprove, ActionClose, ActionVerify, ActionExpressInterest,
		ActionUpload, ActionResolve, ActionGenerate,
	}
}

// Key identifies a single controllable operation as a (resource, action) pair.
type Key struct {
	Resource Resource
	Action   Action
}

// String renders the key in its canonical "resource.action" form.
func (k Key) String() string {
	return string(k.Resource) + "." + string(k.Action)
}

// ParseKey parses a "resource.action" string and validates both halves
// against their enumerations.
func ParseKey(raw string) (Key, error) {
	parts := strings.SplitN(raw, ".", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Key{}, fmt.Errorf("authz: malformed permission key %q", raw)
	}
	resource := Resource(parts[0])
	action := Action(parts[1])
	if !resourceValid(resource) {
		return Key{}, fmt.Errorf("authz: unknown resource %q in key %q", parts[0], raw)
	}
	if !actionValid(action) {
		return Key{}, fmt.Errorf("authz: unknown action %q in key %q", parts[1], raw)
	}
	return Key{Resource: resource, Action: action}, nil
}

func resourceValid(r Resource) bool {
	for _, known := range allResources() {
		if known == r {
			return true
		}
	}
	return false
}

func actionValid(a Action) bool {
	for _, known := range allActions() {
		if known == a {
			return true
		}
	}
	return false
}

// ownerSuffix marks a grant token as owner-qualified, e.g. "SME:owner".
const ownerSuffix = ":owner"

// Grant is a single entry in a permission's allowed-role list. A bare grant
// admits any actor holding the role; an owner-qualified grant additionally
// requires the actor to own the resource under evaluation.
type Grant struct {
	Role      Role
	OwnerOnly bool
}

// String renders the grant in its token form.
func (g Grant) String() string {
	if g.OwnerOnly {
		return string(g.Role) + ownerSuffix
	}
	return string(g.Role)
}

// ParseGrant parses a grant token ("ADMIN" or "SME:owner") and validates the
// role against the enumeration.
func ParseGrant(token string) (Grant, error) {
	ownerOnly := strings.HasSuffix(token, ownerSuffix)
	rawRole := strings.TrimSuffix(token, ownerSuffix)
	role, err := ParseRole(rawRole)
	if err != nil {
		return Grant{}, fmt.Errorf("authz: invalid grant token %q: %w", token, err)
	}
	return Grant{Role: role, OwnerOnly: ownerOnly}, nil
}

// Context carries the per-request facts a resolution needs. It is built from
// the authenticated session plus the resource being accessed, and is never
// persisted.
type Context struct {
	ActorID         string
	ActorRole       Role
	TenantID        string
	ResourceOwnerID string
	ResourceID      string
}

// Reason classifies how a Decision was reached.
type Reason string

const (
	// ReasonDirect means the actor's own role is granted outright.
	ReasonDirect Reason = "direct"
	// ReasonInherited means a role in the actor's inheritance closure is granted.
	ReasonInherited Reason = "inherited"
	// ReasonOwner means an owner-qualified grant matched the actor's ownership.
	ReasonOwner Reason = "owner"
	// ReasonDenied means no grant matched.
	ReasonDenied Reason = "denied"
)

// Decision is the structured outcome of a single authorization check.
// Callers may log it for audit; the engine itself stores nothing.
type Decision struct {
	Allowed     bool      `json:"allowed"`
	Permission  string    `json:"permission"`
	Reason      Reason    `json:"reason"`
	EvaluatedAt time.Time `json:"evaluatedAt"`
}
