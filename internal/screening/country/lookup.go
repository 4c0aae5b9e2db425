package country

import (
	"strings"

	"github.com/biter777/countries"
)

// Lookup maps free-text country names to ISO 3166-1 alpha-2 codes. A name the
// lookup cannot resolve is returned unchanged, never blanked out.
type Lookup interface {
	Code(name string) string
}

// CachedLookup resolves names through the countries dataset and memoizes
// results. It is scoped to a single ingestion call and not safe for
// concurrent use; callers create one per batch.
type CachedLookup struct {
	cache map[string]string
}

func NewCachedLookup() *CachedLookup {
	return &CachedLookup{cache: make(map[string]string)}
}

// Code returns the alpha-2 code for name, or name itself if unresolvable.
func (l *CachedLookup) Code(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return name
	}
	if code, ok := l.cache[trimmed]; ok {
		return code
	}

	resolved := trimmed
	if c := countries.ByName(trimmed); c != countries.Unknown {
		resolved = c.Alpha2()
	}
	l.cache[trimmed] = resolved
	return resolved
}
