package fetch

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"pairlens/internal/artifact"
	"pairlens/internal/util"
	"pairlens/pkg/logger"
)

// Metadata records where a topic's raw articles came from. Written next to
// the article files as metadata.json.
type Metadata struct {
	Topic     string            `json:"topic"`
	GrokURL   string            `json:"grok_url"`
	WikiTitle string            `json:"wiki_title"`
	WikiURL   string            `json:"wiki_url"`
	Lang      string            `json:"lang"`
	Files     map[string]string `json:"files"`
}

// Downloader fetches article pairs and persists them through the store.
type Downloader struct {
	client *Client
	store  *artifact.Store
}

// NewDownloaderParams holds the dependencies for NewDownloader.
type NewDownloaderParams struct {
	Client *Client
	Store  *artifact.Store
}

func NewDownloader(params NewDownloaderParams) *Downloader {
	return &Downloader{
		client: params.Client,
		store:  params.Store,
	}
}

// PairRequest describes one article pair to download. Wiki accepts a title
// or a full article URL. Topic overrides the slug derived from the
// Grokipedia path; Lang defaults to "en".
type PairRequest struct {
	GrokURL      string
	Wiki         string
	Topic        string
	Lang         string
	KeepMarkdown bool
}

// DownloadPair fetches both articles, writes them under the topic's raw
// directory and records the metadata. Nothing is written until both
// downloads succeed.
func (d *Downloader) DownloadPair(ctx context.Context, req PairRequest) (Metadata, error) {
	if req.Lang == "" {
		req.Lang = "en"
	}

	wikiTitle, err := ParseWikipediaTitle(req.Wiki)
	if err != nil {
		return Metadata{}, err
	}
	topic, err := inferTopicSlug(req.GrokURL, wikiTitle, req.Topic)
	if err != nil {
		return Metadata{}, err
	}

	logger.Info("fetching grokipedia article", "topic", topic, "url", req.GrokURL)
	grokContent, grokExt, err := FetchGrokipedia(ctx, d.client, req.GrokURL, req.KeepMarkdown)
	if err != nil {
		return Metadata{}, fmt.Errorf("grokipedia download failed: %w", err)
	}

	wikiURL := req.Wiki
	if !strings.HasPrefix(wikiURL, "http") {
		wikiURL = WikipediaPageURL(wikiTitle, req.Lang)
	}
	logger.Info("fetching wikipedia article", "topic", topic, "url", wikiURL)
	wikiContent, err := FetchWikipedia(ctx, d.client, wikiTitle, req.Lang)
	if err != nil {
		return Metadata{}, fmt.Errorf("wikipedia download failed: %w", err)
	}

	grokName := "grokipedia." + grokExt
	if err := d.store.WriteRawText(topic, grokName, grokContent); err != nil {
		return Metadata{}, err
	}
	if err := d.store.WriteRawText(topic, "wikipedia.txt", wikiContent); err != nil {
		return Metadata{}, err
	}

	meta := Metadata{
		Topic:     topic,
		GrokURL:   req.GrokURL,
		WikiTitle: wikiTitle,
		WikiURL:   wikiURL,
		Lang:      req.Lang,
		Files: map[string]string{
			"grokipedia": grokName,
			"wikipedia":  "wikipedia.txt",
		},
	}
	if err := d.store.WriteMetadata(topic, meta); err != nil {
		return Metadata{}, err
	}

	logger.Info("saved article pair", "topic", topic, "dir", d.store.RawDir(topic))
	return meta, nil
}

// inferTopicSlug derives the topic slug from the override, the last path
// segment of the Grokipedia URL, or the Wikipedia title, in that order.
func inferTopicSlug(grokURL string, wikiTitle string, override string) (string, error) {
	if override != "" {
		return util.Slugify(override)
	}
	if parsed, err := url.Parse(grokURL); err == nil {
		parts := strings.Split(parsed.Path, "/")
		if last := parts[len(parts)-1]; last != "" {
			return util.Slugify(last)
		}
	}
	return util.Slugify(wikiTitle)
}
