package digest

import (
	"strings"
	"time"
)

// WithinWindow reports whether the listing was published inside the
// reporting window. A listing whose timestamp failed to parse (zero time) is
// outside the window, never an error.
func WithinWindow(l Listing, cutoff time.Time) bool {
	return !l.PublishedAt.IsZero() && !l.PublishedAt.Before(cutoff)
}

// BreedExcluded reports whether any exclusion term is a case-insensitive
// substring of the listing's breed text. Substring semantics are deliberate:
// "Hound" must suppress "Afghan Hound". Absent breed data never matches.
func BreedExcluded(l Listing, exclusions []string) bool {
	var names []string
	for _, name := range []string{l.PrimaryBreed, l.SecondaryBreed} {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	if len(names) == 0 {
		return false
	}

	text := strings.ToLower(strings.Join(names, " "))
	for _, term := range exclusions {
		if term == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(term)) {
			return true
		}
	}
	return false
}
