package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"pairlens/internal/util"
)

// ErrPageNotFound reports a Wikipedia title with no extractable article.
var ErrPageNotFound = errors.New("wikipedia page not found or empty")

// ParseWikipediaTitle accepts either a page title or a full article URL and
// returns the human-readable title, with underscores restored to spaces.
func ParseWikipediaTitle(raw string) (string, error) {
	title := raw
	if strings.HasPrefix(raw, "http") {
		parsed, err := url.Parse(raw)
		if err != nil {
			return "", fmt.Errorf("failed to parse wikipedia url: %w", err)
		}
		parts := strings.Split(parsed.Path, "/")
		title = parts[len(parts)-1]
		if unescaped, err := url.PathUnescape(title); err == nil {
			title = unescaped
		}
	}
	title = strings.TrimSpace(strings.ReplaceAll(title, "_", " "))
	if title == "" {
		return "", errors.New("wikipedia title cannot be empty")
	}
	return title, nil
}

// WikipediaPageURL returns the canonical article URL for a title.
func WikipediaPageURL(title string, lang string) string {
	return fmt.Sprintf("https://%s.wikipedia.org/wiki/%s", lang, strings.ReplaceAll(title, " ", "_"))
}

// FetchWikipedia downloads the plaintext extract of an article through the
// MediaWiki query API, following redirects server-side.
func FetchWikipedia(ctx context.Context, client *Client, title string, lang string) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "extracts")
	params.Set("format", "json")
	params.Set("formatversion", "2")
	params.Set("explaintext", "1")
	params.Set("redirects", "1")
	params.Set("titles", title)
	apiURL := fmt.Sprintf("https://%s.wikipedia.org/w/api.php?%s", lang, params.Encode())

	body, err := client.Get(ctx, apiURL)
	if err != nil {
		return "", err
	}

	var res struct {
		Query struct {
			Pages []struct {
				Extract string `json:"extract"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return "", fmt.Errorf("failed to decode wikipedia response: %w", err)
	}
	if len(res.Query.Pages) == 0 {
		return "", errors.New("unexpected wikipedia api response shape")
	}
	extract := res.Query.Pages[0].Extract
	if extract == "" {
		return "", fmt.Errorf("%w: %s", ErrPageNotFound, title)
	}
	return util.NormalizeText(extract), nil
}
