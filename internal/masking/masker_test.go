package masking

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundbridge-kh/fundbridge/internal/authz"
)

func smeRecord() map[string]any {
	return map[string]any{
		"id":            "sme-1",
		"userId":        "u1",
		"businessName":  "Angkor Coffee Ltd",
		"email":         "owner@angkorcoffee.kh",
		"phone":         "+855-12-345-678",
		"annualRevenue": 480000.0,
		"nationalId":    "N123456789",
	}
}

func TestApplyMasksCataloguedFields(t *testing.T) {
	m := NewMasker(slog.Default())
	out := m.Apply(smeRecord(), maskAll())

	assert.Equal(t, "o***@angkorcoffee.kh", out["email"])
	assert.Equal(t, "+855*****678", out["phone"])
	assert.Equal(t, "4XX,XXX", out["annualRevenue"])
	assert.Equal(t, "******6789", out["nationalId"])
	// Fields outside the catalog pass through untouched.
	assert.Equal(t, "Angkor Coffee Ltd", out["businessName"])
	assert.Equal(t, "sme-1", out["id"])
}

func TestApplyHonorsFlags(t *testing.T) {
	m := NewMasker(slog.Default())
	out := m.Apply(smeRecord(), Flags{Personal: true})

	assert.Equal(t, "owner@angkorcoffee.kh", out["email"])
	assert.Equal(t, 480000.0, out["annualRevenue"])
	assert.Equal(t, "******6789", out["nationalId"])
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	m := NewMasker(slog.Default())
	record := smeRecord()
	_ = m.Apply(record, maskAll())

	assert.Equal(t, "owner@angkorcoffee.kh", record["email"])
	assert.Equal(t, 480000.0, record["annualRevenue"])
}

func TestApplyNoFlagsReturnsRecordUnchanged(t *testing.T) {
	m := NewMasker(slog.Default())
	record := smeRecord()
	assert.Equal(t, record, m.Apply(record, Flags{}))
}

func TestApplyKindSMERedactsRevenue(t *testing.T) {
	m := NewMasker(slog.Default())
	out := m.ApplyKind(smeRecord(), maskAll(), KindSME)

	assert.Equal(t, "***", out["annualRevenue"])
	// Non-overridden fields still follow the base catalog.
	assert.Equal(t, "o***@angkorcoffee.kh", out["email"])
}

func TestApplyKindDealRoundsEquity(t *testing.T) {
	m := NewMasker(slog.Default())
	record := map[string]any{
		"id":               "deal-1",
		"fundingRequired":  250000.0,
		"equityPercentage": 12.5,
	}
	out := m.ApplyKind(record, maskAll(), KindDeal)

	assert.Equal(t, "~15%", out["equityPercentage"])
	assert.Equal(t, "2XX,XXX", out["fundingRequired"])
}

func TestApplyMasksInvestorPreferenceBounds(t *testing.T) {
	m := NewMasker(slog.Default())
	record := map[string]any{
		"id": "inv-1",
		"preferences": map[string]any{
			"investmentMin": 10000.0,
			"investmentMax": 500000.0,
			"sectors":       []any{"agritech"},
		},
	}
	out := m.Apply(record, maskAll())

	prefs, ok := out["preferences"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "1X,XXX", prefs["investmentMin"])
	assert.Equal(t, "5XX,XXX", prefs["investmentMax"])
	assert.Equal(t, []any{"agritech"}, prefs["sectors"])
}

func TestPreferenceBoundsUntouchedWithoutFinancialFlag(t *testing.T) {
	m := NewMasker(slog.Default())
	record := map[string]any{
		"nationalId":  "N123456789",
		"preferences": map[string]any{"investmentMin": 10000.0},
	}
	out := m.Apply(record, Flags{Personal: true})

	prefs := out["preferences"].(map[string]any)
	assert.Equal(t, 10000.0, prefs["investmentMin"])
}

func TestMaskResponseSuperAdminBypass(t *testing.T) {
	m := NewMasker(slog.Default())
	record := smeRecord()
	out := m.MaskResponse(record, authz.RoleSuperAdmin, "sa-1")

	assert.Equal(t, any(record), out)
}

func TestMaskResponseAnonymousBypass(t *testing.T) {
	m := NewMasker(slog.Default())
	record := smeRecord()
	assert.Equal(t, any(record), m.MaskResponse(record, authz.RoleInvestor, ""))
}

func TestMaskResponseOwnership(t *testing.T) {
	m := NewMasker(slog.Default())

	// The actor owns the record through userId; nothing masks.
	own := m.MaskResponse(smeRecord(), authz.RoleSME, "u1").(map[string]any)
	assert.Equal(t, "owner@angkorcoffee.kh", own["email"])

	// A different SME viewing the same record gets the full mask.
	foreign := m.MaskResponse(smeRecord(), authz.RoleSME, "u2").(map[string]any)
	assert.Equal(t, "o***@angkorcoffee.kh", foreign["email"])
	assert.Equal(t, "4XX,XXX", foreign["annualRevenue"])
}

func TestMaskResponseIDMatchCountsAsOwnership(t *testing.T) {
	m := NewMasker(slog.Default())
	record := map[string]any{"id": "u7", "email": "me@fundbridge.kh"}

	out := m.MaskResponse(record, authz.RoleInvestor, "u7").(map[string]any)
	assert.Equal(t, "me@fundbridge.kh", out["email"])
}

func TestMaskResponseKindAppliesOverrides(t *testing.T) {
	m := NewMasker(slog.Default())
	deal := map[string]any{
		"id":               "deal-1",
		"userId":           "u1",
		"fundingRequired":  250000.0,
		"equityPercentage": 12.5,
	}

	out := m.MaskResponseKind(deal, authz.RoleInvestor, "other", KindDeal).(map[string]any)
	assert.Equal(t, "~15%", out["equityPercentage"])
	assert.Equal(t, "2XX,XXX", out["fundingRequired"])

	sme := map[string]any{"userId": "u1", "annualRevenue": 480000.0}
	outSME := m.MaskResponseKind(sme, authz.RoleInvestor, "other", KindSME).(map[string]any)
	assert.Equal(t, "***", outSME["annualRevenue"])
}

func TestMaskResponseKindEnvelope(t *testing.T) {
	m := NewMasker(slog.Default())
	payload := map[string]any{
		"data": []any{
			map[string]any{"userId": "u1", "equityPercentage": 12.5},
		},
	}

	out := m.MaskResponseKind(payload, authz.RoleSupport, "u9", KindDeal).(map[string]any)
	first := out["data"].([]any)[0].(map[string]any)
	assert.Equal(t, "~15%", first["equityPercentage"])
}

func TestMaskResponseKindOwnerBypassesOverrides(t *testing.T) {
	m := NewMasker(slog.Default())
	deal := map[string]any{"userId": "u1", "equityPercentage": 12.5}

	out := m.MaskResponseKind(deal, authz.RoleSME, "u1", KindDeal).(map[string]any)
	assert.Equal(t, 12.5, out["equityPercentage"])
}

func TestMaskResponseEnvelope(t *testing.T) {
	m := NewMasker(slog.Default())
	payload := map[string]any{
		"data": []any{
			map[string]any{"userId": "u1", "email": "a@x.kh"},
			map[string]any{"userId": "u2", "email": "b@x.kh"},
		},
		"page":  1.0,
		"total": 2.0,
	}

	out := m.MaskResponse(payload, authz.RoleSME, "u1").(map[string]any)
	data := out["data"].([]any)

	first := data[0].(map[string]any)
	second := data[1].(map[string]any)
	assert.Equal(t, "a@x.kh", first["email"])
	assert.Equal(t, "b***@x.kh", second["email"])
	// Envelope metadata survives untouched.
	assert.Equal(t, 1.0, out["page"])
	assert.Equal(t, 2.0, out["total"])
}

func TestMaskResponseArrayShapes(t *testing.T) {
	m := NewMasker(slog.Default())

	list := []any{map[string]any{"userId": "u2", "email": "b@x.kh"}, "opaque"}
	out := m.MaskResponse(list, authz.RoleSupport, "u9").([]any)
	assert.Equal(t, "b***@x.kh", out[0].(map[string]any)["email"])
	assert.Equal(t, "opaque", out[1])

	typed := []map[string]any{{"userId": "u2", "phone": "012345678"}}
	outTyped := m.MaskResponse(typed, authz.RoleSupport, "u9").([]map[string]any)
	assert.Equal(t, "012***678", outTyped[0]["phone"])
}

func TestMaskResponseUnsupportedShapePassesThrough(t *testing.T) {
	m := NewMasker(slog.Default())
	assert.Equal(t, any("plain"), m.MaskResponse("plain", authz.RoleSupport, "u1"))
	assert.Equal(t, any(42), m.MaskResponse(42, authz.RoleSupport, "u1"))
}

func TestMaskResponseIsDeterministic(t *testing.T) {
	m := NewMasker(slog.Default())
	first := m.MaskResponse(smeRecord(), authz.RoleSupport, "u9")
	second := m.MaskResponse(smeRecord(), authz.RoleSupport, "u9")
	assert.Equal(t, first, second)
}
