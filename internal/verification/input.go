package verification

import "strings"

const CodeLength = 6

// SanitizePhone keeps a leading '+' and the digits of a free-text phone
// number. Country codes are not checked here; the provider does that.
func SanitizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	var b strings.Builder
	for i, r := range raw {
		switch {
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "+" {
		return ""
	}
	return out
}

// NormalizeCode strips spaces and dashes and requires exactly CodeLength digits.
func NormalizeCode(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r == ' ' || r == '-' || r == '\t':
			continue
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			return "", ErrCodeNotNumeric
		}
	}
	code := b.String()
	if code == "" {
		return "", ErrCodeRequired
	}
	if len(code) != CodeLength {
		return "", ErrCodeLength
	}
	return code, nil
}
