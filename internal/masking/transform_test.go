package masking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "j***@example.com", MaskEmail("john.doe@example.com"))
	assert.Equal(t, "s***@fundbridge.kh", MaskEmail("sokha@fundbridge.kh"))
	assert.Equal(t, "a***@b.co", MaskEmail("a@b.co"))
}

func TestMaskEmailMalformed(t *testing.T) {
	for _, raw := range []string{"", "no-at-sign", "@example.com", "john@"} {
		assert.Equal(t, "***@***", MaskEmail(raw), "input %q", raw)
	}
}

func TestMaskPhone(t *testing.T) {
	// Formatting characters are stripped; the leading plus survives.
	assert.Equal(t, "+855*****678", MaskPhone("+855-12-345-678"))
	assert.Equal(t, "+855*****678", MaskPhone("+855 12 345 678"))
	assert.Equal(t, "012***678", MaskPhone("012345678"))
}

func TestMaskPhoneCapsMiddleRun(t *testing.T) {
	// Very long numbers never reveal their length: the middle run is capped
	// at six asterisks.
	assert.Equal(t, "123******890", MaskPhone("1234567890123456890"))
}

func TestMaskPhoneShortNumbers(t *testing.T) {
	assert.Equal(t, "***", MaskPhone("123"))
	assert.Equal(t, "***", MaskPhone(""))
	assert.Equal(t, "***", MaskPhone("ext."))
	assert.Equal(t, "*456", MaskPhone("3456"))
	assert.Equal(t, "***456", MaskPhone("123456"))
}

func TestMaskFinancial(t *testing.T) {
	assert.Equal(t, "1,XXX,XXX", MaskFinancial(1234567))
	assert.Equal(t, "5,XXX", MaskFinancial(5000.75))
	assert.Equal(t, "9XX", MaskFinancial(950))
	assert.Equal(t, "0", MaskFinancial(0))
	assert.Equal(t, "-2,XXX", MaskFinancial(-2500))
}

func TestMaskFinancialStringInput(t *testing.T) {
	assert.Equal(t, "1,XXX,XXX", MaskFinancial("1234567"))
	assert.Equal(t, "1,XXX,XXX", MaskFinancial("1,234,567"))
}

func TestMaskFinancialNonNumeric(t *testing.T) {
	assert.Equal(t, "XXX", MaskFinancial("confidential"))
	assert.Equal(t, "XXX", MaskFinancial(nil))
	assert.Equal(t, "XXX", MaskFinancial(map[string]any{}))
}

func TestMaskPercentage(t *testing.T) {
	assert.Equal(t, "1XXX%", MaskPercentage(12.5))
	assert.Equal(t, "8%", MaskPercentage(8))
	assert.Equal(t, "2X%", MaskPercentage("25%"))
	assert.Equal(t, "X%", MaskPercentage(nil))
}

func TestMaskPercentageRounded(t *testing.T) {
	assert.Equal(t, "~15%", MaskPercentageRounded(12.5))
	assert.Equal(t, "~10%", MaskPercentageRounded(12.4))
	assert.Equal(t, "~20%", MaskPercentageRounded(18))
	assert.Equal(t, "~0%", MaskPercentageRounded(2))
	assert.Equal(t, "X%", MaskPercentageRounded("n/a"))
}

func TestMaskPersonalID(t *testing.T) {
	assert.Equal(t, "*****6789", MaskPersonalID("123456789"))
	assert.Equal(t, "****", MaskPersonalID("123"))
	assert.Equal(t, "****", MaskPersonalID(""))
}

func TestMaskBankAccount(t *testing.T) {
	assert.Equal(t, "************3456", MaskBankAccount("KH12ABCD00123456"))
	assert.Equal(t, "****", MaskBankAccount("12"))
}

func TestMaskDocumentID(t *testing.T) {
	// First segment stays readable, interior segments are starred, the last
	// segment keeps its final four characters.
	assert.Equal(t, "DOC-****-**6789", MaskDocumentID("DOC-2024-126789"))
	assert.Equal(t, "REG-0042", MaskDocumentID("REG-0042"))
	assert.Equal(t, "KH-********-*****-2026", MaskDocumentID("KH-REGISTRY-00012-2026"))
}

func TestMaskDocumentIDWithoutSegments(t *testing.T) {
	assert.Equal(t, "AB****3456", MaskDocumentID("AB12123456"))
	assert.Equal(t, "****5678", MaskDocumentID("12345678"))
	assert.Equal(t, "****", MaskDocumentID("ab"))
}

func TestMaskGeneric(t *testing.T) {
	assert.Equal(t, "******1-01", MaskGeneric("1990-01-01", 4))
	assert.Equal(t, "****", MaskGeneric("xy", 4))
	assert.Equal(t, "********e", MaskGeneric("sensitive", 1))
}
