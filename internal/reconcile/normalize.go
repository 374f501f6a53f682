package reconcile

import (
	"regexp"
	"strings"
)

var (
	apostropheVariants = regexp.MustCompile("[’'`]")
	punctuationRuns    = regexp.MustCompile(`[:!?.,&/()\-]+`)
	whitespaceRuns     = regexp.MustCompile(`\s+`)
)

// Normalize canonicalizes a free-text title into a comparison key: lowercase,
// apostrophe glyph variants folded to a straight quote, runs of a fixed
// punctuation set replaced by a single space, whitespace collapsed and
// trimmed. Idempotent.
//
// Accents are not folded and leading articles are not removed; titles that
// differ only by an article will not normalize identically.
func Normalize(title string) string {
	t := strings.ToLower(strings.TrimSpace(title))
	t = apostropheVariants.ReplaceAllString(t, "'")
	t = punctuationRuns.ReplaceAllString(t, " ")
	t = whitespaceRuns.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}
