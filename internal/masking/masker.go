package masking

import (
	"log/slog"

	"github.com/fundbridge-kh/fundbridge/internal/authz"
)

// Masker applies the sensitive-field catalog to outbound records. It is
// immutable after construction and safe for concurrent use.
type Masker struct {
	catalog   Catalog
	overrides map[Kind]Catalog
	logger    *slog.Logger
}

// NewMasker builds a Masker over the default catalog.
func NewMasker(logger *slog.Logger) *Masker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Masker{catalog: DefaultCatalog(), overrides: defaultOverrides(), logger: logger}
}

// Apply masks the catalogued fields of a record according to flags. The
// record itself is not mutated; a shallow copy carries the masked values.
func (m *Masker) Apply(record map[string]any, flags Flags) map[string]any {
	return m.ApplyKind(record, flags, KindGeneric)
}

// ApplyKind is Apply with a record kind selecting per-kind catalog
// overrides. The walk is flat: nested objects pass through unchanged except
// for the investor preference bounds, which the platform's clients read off
// the profile payload directly.
func (m *Masker) ApplyKind(record map[string]any, flags Flags, kind Kind) map[string]any {
	if record == nil || !flags.Any() {
		return record
	}
	overrides := m.overrides[kind]
	out := make(map[string]any, len(record))
	for name, value := range record {
		rule, ok := overrides[name]
		if !ok {
			rule, ok = m.catalog[name]
		}
		if !ok || !flags.masks(rule.Category) {
			out[name] = value
			continue
		}
		out[name] = m.mask(rule.Transform, value)
	}
	if flags.Financial {
		if prefs, ok := out["preferences"].(map[string]any); ok {
			masked := make(map[string]any, len(prefs))
			for k, v := range prefs {
				if k == "investmentMin" || k == "investmentMax" {
					masked[k] = MaskFinancial(v)
					continue
				}
				masked[k] = v
			}
			out["preferences"] = masked
		}
	}
	return out
}

func (m *Masker) mask(transform Transform, value any) any {
	switch transform {
	case TransformEmail:
		return MaskEmail(asString(value))
	case TransformPhone:
		return MaskPhone(asString(value))
	case TransformCurrency:
		return MaskFinancial(value)
	case TransformPercentage:
		return MaskPercentage(value)
	case TransformPercentageRounded:
		return MaskPercentageRounded(value)
	case TransformPersonalID:
		return MaskPersonalID(asString(value))
	case TransformBankAccount:
		return MaskBankAccount(asString(value))
	case TransformDocumentID:
		return MaskDocumentID(asString(value))
	case TransformRedact:
		return sentinelRedacted
	default:
		return MaskGeneric(asString(value), 4)
	}
}

// MaskResponse masks an outbound payload of any supported shape: a single
// record, an array of records, or a paginated envelope with a "data" array.
// Ownership is computed per record. SUPER_ADMIN payloads and anonymous
// requests pass through unchanged; public endpoints pre-filter their own
// fields instead of relying on this adapter.
func (m *Masker) MaskResponse(payload any, role authz.Role, actorID string) any {
	return m.MaskResponseKind(payload, role, actorID, KindGeneric)
}

// MaskResponseKind is MaskResponse with a record kind selecting per-kind
// catalog overrides. Route groups serving a single record shape pass their
// kind so exceptions like deal equity rounding apply at the edge.
func (m *Masker) MaskResponseKind(payload any, role authz.Role, actorID string, kind Kind) any {
	if role == authz.RoleSuperAdmin || actorID == "" {
		return payload
	}
	switch body := payload.(type) {
	case map[string]any:
		if data, ok := body["data"].([]any); ok {
			out := make(map[string]any, len(body))
			for k, v := range body {
				out[k] = v
			}
			out["data"] = m.maskList(data, role, actorID, kind)
			return out
		}
		return m.maskRecord(body, role, actorID, kind)
	case []any:
		return m.maskList(body, role, actorID, kind)
	case []map[string]any:
		out := make([]map[string]any, len(body))
		for i, record := range body {
			out[i] = m.maskRecord(record, role, actorID, kind)
		}
		return out
	default:
		return payload
	}
}

func (m *Masker) maskList(records []any, role authz.Role, actorID string, kind Kind) []any {
	out := make([]any, len(records))
	for i, entry := range records {
		if record, ok := entry.(map[string]any); ok {
			out[i] = m.maskRecord(record, role, actorID, kind)
			continue
		}
		out[i] = entry
	}
	return out
}

func (m *Masker) maskRecord(record map[string]any, role authz.Role, actorID string, kind Kind) map[string]any {
	isOwner := asString(record["userId"]) == actorID || asString(record["id"]) == actorID
	return m.ApplyKind(record, PolicyFor(role, isOwner), kind)
}

func asString(value any) string {
	s, _ := value.(string)
	return s
}
