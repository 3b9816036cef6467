package masking

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Fixed sentinels returned for malformed input. A transform never fails: a
// masking failure must neither crash a response nor leak a clear value.
const (
	sentinelEmail    = "***@***"
	sentinelPhone    = "***"
	sentinelNumber   = "XXX"
	sentinelShort    = "****"
	sentinelRedacted = "***"
)

var groupedPrinter = message.NewPrinter(language.English)

// MaskEmail keeps the first character of the local part and the full domain:
// "john.doe@example.com" becomes "j***@example.com".
func MaskEmail(addr string) string {
	at := strings.LastIndex(addr, "@")
	if at <= 0 || at == len(addr)-1 {
		return sentinelEmail
	}
	return addr[:1] + "***@" + addr[at+1:]
}

// MaskPhone strips formatting and keeps the first three and last three
// digits, collapsing the middle into at most six asterisks. Numbers too
// short to split are masked down to their last three digits.
func MaskPhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) < 4 {
		return sentinelPhone
	}
	prefix := ""
	if strings.HasPrefix(strings.TrimSpace(raw), "+") {
		prefix = "+"
	}
	if len(digits) < 7 {
		return prefix + strings.Repeat("*", len(digits)-3) + digits[len(digits)-3:]
	}
	middle := len(digits) - 6
	if middle > 6 {
		middle = 6
	}
	return prefix + digits[:3] + strings.Repeat("*", middle) + digits[len(digits)-3:]
}

// MaskFinancial preserves the order of magnitude of an amount and nothing
// else: the integer part is formatted with grouping separators and every
// digit after the first is replaced with X, so 1234567 masks to "1,XXX,XXX".
// Non-numeric input yields a fixed sentinel.
func MaskFinancial(value any) string {
	f, ok := asFloat(value)
	if !ok {
		return sentinelNumber
	}
	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}
	grouped := groupedPrinter.Sprintf("%d", int64(math.Floor(f)))
	return sign + maskDigitsAfterFirst(grouped)
}

// MaskPercentage keeps the first character of the rendered value and masks
// the rest, always appending a percent sign.
func MaskPercentage(value any) string {
	rendered := renderNumber(value)
	rendered = strings.TrimSuffix(strings.TrimSpace(rendered), "%")
	if rendered == "" {
		return "X%"
	}
	return rendered[:1] + strings.Repeat("X", len(rendered)-1) + "%"
}

// MaskPercentageRounded rounds a percentage to the nearest five points
// instead of hiding digits, used where a coarse bracket is more useful than
// a blind mask (deal equity splits).
func MaskPercentageRounded(value any) string {
	f, ok := asFloat(value)
	if !ok {
		return "X%"
	}
	return "~" + strconv.FormatFloat(math.Round(f/5)*5, 'f', -1, 64) + "%"
}

// MaskPersonalID reveals only the last four characters.
func MaskPersonalID(id string) string {
	return maskKeepingSuffix(id, 4)
}

// MaskBankAccount reveals only the last four characters.
func MaskBankAccount(acct string) string {
	return maskKeepingSuffix(acct, 4)
}

// MaskDocumentID keeps the first hyphen-delimited segment, masks interior
// segments entirely, and reveals the last four characters of the final
// segment. IDs without hyphens fall back to a prefix/suffix-preserving mask.
func MaskDocumentID(id string) string {
	segments := strings.Split(id, "-")
	if len(segments) >= 2 {
		out := make([]string, len(segments))
		out[0] = segments[0]
		for i := 1; i < len(segments)-1; i++ {
			out[i] = strings.Repeat("*", len(segments[i]))
		}
		last := segments[len(segments)-1]
		if len(last) > 4 {
			last = strings.Repeat("*", len(last)-4) + last[len(last)-4:]
		}
		out[len(segments)-1] = last
		return strings.Join(out, "-")
	}
	if len(id) > 8 {
		return id[:2] + strings.Repeat("*", len(id)-6) + id[len(id)-4:]
	}
	return MaskGeneric(id, 4)
}

// MaskGeneric keeps the last visible characters and masks the rest.
func MaskGeneric(value string, visible int) string {
	if visible <= 0 {
		visible = 4
	}
	return maskKeepingSuffix(value, visible)
}

func maskKeepingSuffix(value string, visible int) string {
	if len(value) <= visible {
		return sentinelShort
	}
	return strings.Repeat("*", len(value)-visible) + value[len(value)-visible:]
}

func maskDigitsAfterFirst(s string) string {
	out := []byte(s)
	seen := false
	for i, c := range out {
		if c < '0' || c > '9' {
			continue
		}
		if seen {
			out[i] = 'X'
		}
		seen = true
	}
	return string(out)
}

func renderNumber(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	if f, ok := asFloat(value); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return ""
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(v), ",", ""), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
