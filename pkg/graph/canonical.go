package graph

import (
	"regexp"
	"strings"
)

var reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Canonicalize normalizes an entity or relation argument name into the
// stable identifier used as a join key across sources: lower-cased, every
// maximal run of non-alphanumeric characters collapsed to a single
// underscore, leading and trailing underscores stripped.
//
// All-symbol input yields an empty string; callers fall back to the raw
// name so empty-name entities do not collapse into one node. The function
// is idempotent and never fails.
func Canonicalize(text string) string {
	id := strings.ToLower(strings.TrimSpace(text))
	id = reNonAlnum.ReplaceAllString(id, "_")
	return strings.Trim(id, "_")
}
