package masking

import "github.com/fundbridge-kh/fundbridge/internal/authz"

// Flags are the five masking switches computed from a role and an ownership
// fact. Each switch governs one semantic field category.
type Flags struct {
	Email     bool
	Phone     bool
	Financial bool
	Personal  bool
	Documents bool
}

// Any reports whether at least one category is masked.
func (f Flags) Any() bool {
	return f.Email || f.Phone || f.Financial || f.Personal || f.Documents
}

func maskAll() Flags {
	return Flags{Email: true, Phone: true, Financial: true, Personal: true, Documents: true}
}

// PolicyFor returns the masking switches for a role viewing a record it does
// or does not own. The table is deliberately explicit so it can be audited
// line by line. Back-office roles keep financial visibility for advisory
// work, SUPPORT is read-only operational and sees nothing in clear,
// and SME/INVESTOR actors see their own records unmasked. Anything
// unrecognized masks everything.
func PolicyFor(role authz.Role, isOwner bool) Flags {
	switch role {
	case authz.RoleSuperAdmin:
		return Flags{}
	case authz.RoleAdmin, authz.RoleAdvisor:
		return Flags{Personal: true}
	case authz.RoleSupport:
		return maskAll()
	case authz.RoleSME, authz.RoleInvestor:
		if isOwner {
			return Flags{}
		}
		return maskAll()
	default:
		return maskAll()
	}
}
