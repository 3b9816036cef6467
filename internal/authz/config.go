package authz

import "fmt"

// Config holds the static authorization tables. It is built once at process
// start, validated, and then shared read-only by every request.
type Config struct {
	grants    map[Key][]Grant
	hierarchy map[Role][]Role
}

// NewConfig parses and validates a permission table (keys and grant tokens in
// their string artifact form) together with a role hierarchy. Every key and
// token is checked against the closed enumerations and the hierarchy is
// rejected outright if it contains a cycle, so the runtime never sees a
// malformed table.
func NewConfig(grants map[string][]string, hierarchy map[Role][]Role) (*Config, error) {
	parsed := make(map[Key][]Grant, len(grants))
	for rawKey, tokens := range grants {
		key, err := ParseKey(rawKey)
		if err != nil {
			return nil, err
		}
		list := make([]Grant, 0, len(tokens))
		seen := make(map[string]struct{}, len(tokens))
		for _, token := range tokens {
			grant, err := ParseGrant(token)
			if err != nil {
				return nil, fmt.Errorf("authz: permission %q: %w", rawKey, err)
			}
			if _, dup := seen[grant.String()]; dup {
				return nil, fmt.Errorf("authz: permission %q: duplicate grant %q", rawKey, token)
			}
			seen[grant.String()] = struct{}{}
			list = append(list, grant)
		}
		parsed[key] = list
	}

	edges := make(map[Role][]Role, len(hierarchy))
	for role, inherits := range hierarchy {
		if !role.Valid() {
			return nil, fmt.Errorf("authz: hierarchy references unknown role %q", role)
		}
		for _, parent := range inherits {
			if !parent.Valid() {
				return nil, fmt.Errorf("authz: role %q inherits unknown role %q", role, parent)
			}
			if parent == role {
				return nil, fmt.Errorf("authz: role %q inherits itself", role)
			}
		}
		edges[role] = append([]Role(nil), inherits...)
	}
	if cycle := findCycle(edges); cycle != "" {
		return nil, fmt.Errorf("authz: role hierarchy contains a cycle through %q", cycle)
	}

	return &Config{grants: parsed, hierarchy: edges}, nil
}

// findCycle runs a three-color depth-first search over the hierarchy and
// returns a role on a cycle, or "" when the graph is acyclic.
func findCycle(edges map[Role][]Role) Role {
	const (
		white = 0
		grey  = 1
		black = 2
	)
	color := make(map[Role]int, len(edges))
	var visit func(Role) Role
	visit = func(role Role) Role {
		color[role] = grey
		for _, next := range edges[role] {
			switch color[next] {
			case grey:
				return next
			case white:
				if hit := visit(next); hit != "" {
					return hit
				}
			}
		}
		color[role] = black
		return ""
	}
	for role := range edges {
		if color[role] == white {
			if hit := visit(role); hit != "" {
				return hit
			}
		}
	}
	return ""
}

// GrantList returns the grants for a key and whether the key is known.
func (c *Config) GrantList(key Key) ([]Grant, bool) {
	grants, ok := c.grants[key]
	return grants, ok
}

// Inherits returns the roles a role directly inherits from.
func (c *Config) Inherits(role Role) []Role {
	return c.hierarchy[role]
}

// Keys returns every permission key in the table.
func (c *Config) Keys() []Key {
	keys := make([]Key, 0, len(c.grants))
	for key := range c.grants {
		keys = append(keys, key)
	}
	return keys
}
