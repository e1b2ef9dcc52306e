package lang

import (
	"sort"
	"strings"
)

// Resolver maps language/locale codes to display names and back. The two
// tables are read-only after construction; a language switch requires building
// a new resolver. All lookups are total: an unknown input comes back unchanged.
type Resolver struct {
	languages map[string]string // base subtags, e.g. "en" -> "English"
	locales   map[string]string // region-qualified tags, e.g. "en-US" -> "English (United States)"

	// key order for inverse lookups, so "first match wins" is deterministic
	languageCodes []string
	localeCodes   []string
}

// NewResolver builds a resolver over the given tables. Nil maps are allowed
// and behave as empty, degrading every lookup to identity.
func NewResolver(languages, locales map[string]string) *Resolver {
	if languages == nil {
		languages = map[string]string{}
	}
	if locales == nil {
		locales = map[string]string{}
	}
	return &Resolver{
		languages:     languages,
		locales:       locales,
		languageCodes: sortedKeys(languages),
		localeCodes:   sortedKeys(locales),
	}
}

// NewDefaultResolver builds a resolver over the embedded code tables.
func NewDefaultResolver() *Resolver {
	return NewResolver(loadTable(languageTableJSON), loadTable(localeTableJSON))
}

// DisplayName returns the display name for a language or locale code.
// Lookup order: language table, locale table, then the base subtag of a
// region-qualified code against the language table, finally the code itself.
func (r *Resolver) DisplayName(code string) string {
	if name, ok := r.languages[code]; ok {
		return name
	}
	if name, ok := r.locales[code]; ok {
		return name
	}
	if base := baseSubtag(code); base != code {
		if name, ok := r.languages[base]; ok {
			return name
		}
	}
	return code
}

// CodeFor returns the code whose display name is displayName, searching the
// language table first and the locale table second. An unknown display name
// comes back unchanged, so a raw code passed through here round-trips.
func (r *Resolver) CodeFor(displayName string) string {
	for _, code := range r.languageCodes {
		if r.languages[code] == displayName {
			return code
		}
	}
	for _, code := range r.localeCodes {
		if r.locales[code] == displayName {
			return code
		}
	}
	return displayName
}

// baseSubtag strips the region qualifier from a locale code. Both "-" and "_"
// separators occur in the wild.
func baseSubtag(code string) string {
	if idx := strings.IndexAny(code, "-_"); idx > 0 {
		return code[:idx]
	}
	return code
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
