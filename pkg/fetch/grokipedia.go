package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"pairlens/internal/util"
	"pairlens/pkg/logger"

	"codeberg.org/readeck/go-readability/v2"
	"golang.org/x/net/html"
)

// Grokipedia pages are Next.js server component streams: the article
// markdown arrives inside self.__next_f.push() script chunks, escaped as a
// JS string literal. The chunk holding the article starts with its title
// heading.
var (
	reRSCChunk     = regexp.MustCompile(`(?s)^\s*self\.__next_f\.push\(\[1,"(.+)"\]\)\s*$`)
	reImageLink    = regexp.MustCompile(`!\[[^\]]*\]\([^)]*(?:\\\)[^)]*)*\)`)
	reEmptyLink    = regexp.MustCompile(`\[\]\([^)]+\)`)
	reStrayParens  = regexp.MustCompile(`(?m)^\s*\)*\s*$`)
	reInternalLink = regexp.MustCompile(`\[([^\]]+)\]\(https://grokipedia\.com/[^)]*\)`)
	reExternalLink = regexp.MustCompile(`\[([^\]]+)\]\(https?://[^)]+\)`)
	reBlankLines   = regexp.MustCompile(`\n{3,}`)

	reHeading   = regexp.MustCompile(`(?m)^#{1,6}\s+(.+)$`)
	reBold      = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	reItalic    = regexp.MustCompile(`\*([^*]+)\*`)
	reBoldUnder = regexp.MustCompile(`__([^_]+)__`)
	reUnder     = regexp.MustCompile(`_([^_]+)_`)
	reAnyLink   = regexp.MustCompile(`\[([^\]]*)\]\([^)]+\)`)
)

// ErrNoArticleContent reports a Grokipedia page with no extractable article.
var ErrNoArticleContent = errors.New("could not extract grokipedia article content")

// FetchGrokipedia downloads a Grokipedia page and returns the article text
// plus the file extension it should be stored under ("md" or "txt"). The
// primary path reads the server component payload; when that yields nothing
// the page is run through readability as a fallback, which always produces
// plaintext.
func FetchGrokipedia(ctx context.Context, client *Client, pageURL string, keepMarkdown bool) (string, string, error) {
	body, err := client.Get(ctx, pageURL)
	if err != nil {
		return "", "", err
	}

	markdown := ExtractArticleMarkdown(string(body))
	if markdown == "" {
		logger.Warn("no server component payload, falling back to readability", "url", pageURL)
		text, err := readableText(body, pageURL)
		if err != nil {
			return "", "", fmt.Errorf("%w: %s", ErrNoArticleContent, pageURL)
		}
		return util.NormalizeText(text), "txt", nil
	}

	if keepMarkdown {
		return util.NormalizeText(markdown), "md", nil
	}
	return util.NormalizeText(MarkdownToPlaintext(markdown)), "txt", nil
}

// ExtractArticleMarkdown pulls the article markdown out of a Grokipedia
// page's server component payload. Returns the empty string when no chunk
// looks like an article.
func ExtractArticleMarkdown(page string) string {
	var markdown string
	for _, chunk := range rscChunks(page) {
		head := chunk
		if len(head) > 100 {
			head = head[:100]
		}
		if strings.HasPrefix(chunk, "# ") || strings.Contains(head, `\n# `) {
			markdown = chunk
			break
		}
	}
	if markdown == "" {
		return ""
	}

	// Unescape the JS string literal. Order matters: the escaped backslash
	// pair goes last so it cannot re-introduce other escapes.
	markdown = strings.ReplaceAll(markdown, `\n`, "\n")
	markdown = strings.ReplaceAll(markdown, `\t`, "\t")
	markdown = strings.ReplaceAll(markdown, `\"`, `"`)
	markdown = strings.ReplaceAll(markdown, `\'`, "'")
	markdown = strings.ReplaceAll(markdown, `\\`, `\`)

	markdown = reImageLink.ReplaceAllString(markdown, "")
	markdown = reEmptyLink.ReplaceAllString(markdown, "")
	markdown = reStrayParens.ReplaceAllString(markdown, "")
	markdown = reInternalLink.ReplaceAllString(markdown, "$1")
	markdown = reExternalLink.ReplaceAllString(markdown, "$1")
	markdown = reBlankLines.ReplaceAllString(markdown, "\n\n")

	return strings.TrimSpace(markdown)
}

// rscChunks walks the parsed document and returns the payload of every
// server component push script, in document order. Parsing the tree instead
// of regexing the raw page keeps attribute and whitespace variants from
// hiding the payload.
func rscChunks(page string) []string {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil
	}

	var chunks []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "script" {
			if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				if match := reRSCChunk.FindStringSubmatch(n.FirstChild.Data); match != nil {
					chunks = append(chunks, match[1])
				}
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return chunks
}

// MarkdownToPlaintext strips markdown syntax while keeping the text layout:
// headings lose their markers, emphasis loses its markers and links keep
// only their label.
func MarkdownToPlaintext(markdown string) string {
	text := reHeading.ReplaceAllString(markdown, "$1")
	text = reBold.ReplaceAllString(text, "$1")
	text = reItalic.ReplaceAllString(text, "$1")
	text = reBoldUnder.ReplaceAllString(text, "$1")
	text = reUnder.ReplaceAllString(text, "$1")
	text = reAnyLink.ReplaceAllString(text, "$1")
	text = strings.ReplaceAll(text, "[]", "")
	return strings.TrimSpace(text)
}

func readableText(body []byte, pageURL string) (string, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}
	article, err := readability.FromReader(bytes.NewReader(body), parsed)
	if err != nil {
		return "", err
	}
	var builder strings.Builder
	if err := article.RenderText(&builder); err != nil {
		return "", err
	}
	if strings.TrimSpace(builder.String()) == "" {
		return "", errors.New("empty readability output")
	}
	return builder.String(), nil
}
