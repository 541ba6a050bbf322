package email

import "strings"

// FirstNonEmpty evaluates providers in priority order and returns the first
// non-blank value. Override chains for subject, sender and body are expressed
// as explicit ordered lists instead of nested conditionals.
func FirstNonEmpty(providers ...func() string) string {
	for _, provider := range providers {
		if provider == nil {
			continue
		}
		if value := strings.TrimSpace(provider()); value != "" {
			return value
		}
	}
	return ""
}

// Static adapts a fixed string into a provider for FirstNonEmpty chains.
func Static(value string) func() string {
	return func() string { return value }
}
