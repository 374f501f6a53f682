package textutil

import "strings"

// Slug converts a display name to a lowercase filesystem- and URL-safe token:
// letters and digits are kept, every other run of characters becomes a single
// dash, and leading/trailing dashes are trimmed. Returns "unknown" for input
// with no usable characters.
func Slug(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return "unknown"
	}
	var b strings.Builder
	b.Grow(len(value))
	pendingDash := false
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		default:
			pendingDash = true
		}
	}
	out := b.String()
	if out == "" {
		return "unknown"
	}
	return out
}
