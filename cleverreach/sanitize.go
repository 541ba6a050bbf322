package cleverreach

import "strings"

// reservedAttributeNames always exist on the remote side and must never be
// provisioned as custom attributes.
var reservedAttributeNames = map[string]struct{}{
	"email":       {},
	"activated":   {},
	"registered":  {},
	"deactivated": {},
	"bounced":     {},
	"source":      {},
}

// IsReservedAttribute reports whether name collides (case-insensitively) with
// a built-in recipient attribute.
func IsReservedAttribute(name string) bool {
	_, reserved := reservedAttributeNames[strings.ToLower(name)]
	return reserved
}

// SanitizeDescription reduces a description to the alphanumeric form the
// remote API accepts: everything except ASCII letters, digits and whitespace
// is stripped, whitespace is collapsed and replaced with underscores. An
// empty result falls back to "Field".
func SanitizeDescription(description string) string {
	var b strings.Builder
	for _, r := range description {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			b.WriteRune(' ')
		}
	}

	words := strings.Fields(b.String())
	if len(words) == 0 {
		return "Field"
	}
	return strings.Join(words, "_")
}
