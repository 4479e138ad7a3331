// Package query is the hotel query engine shared by the API and the client
// coordinator: predicates, ordering, aggregation and pagination.
package query

import (
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// combining diacritical marks block
var stripMarks = runes.Remove(runes.Predicate(func(r rune) bool {
	return r >= 0x0300 && r <= 0x036f
}))

// Normalize decomposes s (NFD), drops diacritics and lower-cases it, so
// "São Paulo" and "sao paulo" compare equal.
func Normalize(s string) string {
	// transform.Chain keeps state; build it per call.
	out, _, err := transform.String(transform.Chain(norm.NFD, stripMarks), s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}
