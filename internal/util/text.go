package util

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

var (
	reUnicodeEscape  = regexp.MustCompile(`\\u([0-9a-fA-F]{4})`)
	reTrailingSpaces = regexp.MustCompile(`[ \t]+\n`)
	reBlankRuns      = regexp.MustCompile(`\n{3,}`)
	reSlugSpaces     = regexp.MustCompile(`\s+`)
	reSlugInvalid    = regexp.MustCompile(`[^A-Za-z0-9_-]+`)
)

// NormalizeText decodes literal \uXXXX escapes and HTML entities, normalizes
// line endings, strips trailing spaces and collapses runs of blank lines.
// Article text goes through this once, right after download.
func NormalizeText(text string) string {
	normalized := reUnicodeEscape.ReplaceAllStringFunc(text, func(m string) string {
		code, err := strconv.ParseUint(m[2:], 16, 32)
		if err != nil {
			return m
		}
		return string(rune(code))
	})
	normalized = html.UnescapeString(normalized)
	normalized = strings.ReplaceAll(normalized, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	normalized = reTrailingSpaces.ReplaceAllString(normalized, "\n")
	normalized = reBlankRuns.ReplaceAllString(normalized, "\n\n")
	return strings.TrimSpace(normalized)
}

// Slugify derives a filesystem-friendly topic slug from a name.
// Returns an error for names that contain no usable characters.
func Slugify(name string) (string, error) {
	slug := reSlugSpaces.ReplaceAllString(strings.TrimSpace(name), "_")
	slug = reSlugInvalid.ReplaceAllString(slug, "")
	if slug == "" {
		return "", fmt.Errorf("cannot derive a slug from %q", name)
	}
	return slug, nil
}

// TruncateTokens cuts text down to at most maxTokens tokens under the given
// tiktoken encoding. Text at or under the budget is returned unchanged.
func TruncateTokens(text string, encoding string, maxTokens int) (string, error) {
	if maxTokens <= 0 {
		return text, nil
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return "", fmt.Errorf("failed to load token encoding %q: %w", encoding, err)
	}
	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= maxTokens {
		return text, nil
	}
	return enc.Decode(tokens[:maxTokens]), nil
}
