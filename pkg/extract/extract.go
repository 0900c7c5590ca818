// Package extract runs the language model over a downloaded article pair
// and writes the extraction artifact: per-source entities, relations,
// claims and sentiment plus the cross-source metrics computed from them.
package extract

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"time"

	"pairlens/internal/artifact"
	"pairlens/internal/util"
	"pairlens/pkg/ai"
	"pairlens/pkg/analysis"
	"pairlens/pkg/graph"
	"pairlens/pkg/logger"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/sync/errgroup"
)

// tokenEncoding is the tiktoken encoding used for the article token budget.
const tokenEncoding = "o200k_base"

// extractTries bounds retries of one article's model call. The client
// already enforces per-request timeouts; this only smooths over transient
// backend failures.
const extractTries = 2

// Runner drives one extraction pass over a topic's downloaded articles.
type Runner struct {
	store     *artifact.Store
	client    ai.ExtractionAIClient
	model     string
	maxTokens int
}

// NewRunnerParams holds the dependencies and settings for NewRunner.
type NewRunnerParams struct {
	Store  *artifact.Store
	Client ai.ExtractionAIClient
	// Model is the extraction model identifier recorded in the artifact.
	Model string
	// MaxTokens caps each article's token count before prompting; zero or
	// negative disables truncation.
	MaxTokens int
}

func NewRunner(params NewRunnerParams) *Runner {
	return &Runner{
		store:     params.Store,
		client:    params.Client,
		model:     params.Model,
		maxTokens: params.MaxTokens,
	}
}

// Run extracts both articles of a topic, computes the cross-source metrics
// and writes analysis.json. Both model calls run concurrently; a failure on
// either side fails the whole run and nothing is written.
//
// Returns artifact.ErrNotFound when either raw article is missing.
func (r *Runner) Run(ctx context.Context, topic string) (*analysis.Analysis, error) {
	grokName := "grokipedia.txt"
	grokText, err := r.store.ReadRawText(topic, grokName)
	if errors.Is(err, artifact.ErrNotFound) {
		grokName = "grokipedia.md"
		grokText, err = r.store.ReadRawText(topic, grokName)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read grokipedia article: %w", err)
	}
	wikiText, err := r.store.ReadRawText(topic, "wikipedia.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to read wikipedia article: %w", err)
	}

	grokText, err = util.TruncateTokens(grokText, tokenEncoding, r.maxTokens)
	if err != nil {
		return nil, err
	}
	wikiText, err = util.TruncateTokens(wikiText, tokenEncoding, r.maxTokens)
	if err != nil {
		return nil, err
	}

	logger.Info("extracting article pair", "topic", topic, "model", r.model, "max_tokens", r.maxTokens)

	var grokArt, wikiArt analysis.ArticleExtraction
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.extractArticle(gCtx, "Grokipedia", grokText, &grokArt)
	})
	g.Go(func() error {
		return r.extractArticle(gCtx, "Wikipedia", wikiText, &wikiArt)
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("extraction failed for topic '%s': %w", topic, err)
	}

	analysis.SanitizeExtraction(&grokArt)
	analysis.SanitizeExtraction(&wikiArt)

	runID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate run id: %w", err)
	}

	a := &analysis.Analysis{
		Topic:       topic,
		RunID:       runID,
		Model:       r.model,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Inputs: analysis.Inputs{
			GrokipediaPath: filepath.Join(r.store.RawDir(topic), grokName),
			WikipediaPath:  filepath.Join(r.store.RawDir(topic), "wikipedia.txt"),
			MaxTokens:      r.maxTokens,
			EmbedModel:     r.client.EmbeddingModel(),
		},
		Articles: map[string]analysis.ArticleExtraction{
			analysis.SourceGrokipedia: grokArt,
			analysis.SourceWikipedia:  wikiArt,
		},
	}

	if err := r.computeMetrics(ctx, a); err != nil {
		return nil, err
	}

	if err := r.store.WriteJSON(topic, artifact.FileAnalysis, a); err != nil {
		return nil, fmt.Errorf("failed to write analysis: %w", err)
	}

	metrics := r.client.GetMetrics()
	logger.Info("extraction complete",
		"topic", topic,
		"run_id", runID,
		"grok_entities", len(grokArt.Entities),
		"wiki_entities", len(wikiArt.Entities),
		"total_tokens", metrics.TotalTokens,
	)
	return a, nil
}

// extractArticle prompts the model for one article and decodes the
// schema-constrained response, retrying once on transient failures.
func (r *Runner) extractArticle(ctx context.Context, sourceName string, text string, out *analysis.ArticleExtraction) error {
	_, err := util.RetryWithContext(ctx, extractTries, func(ctx context.Context) (struct{}, error) {
		err := r.client.GenerateCompletionWithFormat(
			ctx,
			"article_extraction",
			"Structured entities, relations, claims and sentiment extracted from one encyclopedia article",
			text,
			out,
			ai.WithModel(r.model),
			ai.WithSystemPrompts(fmt.Sprintf(ai.ExtractPrompt, sourceName)),
		)
		return struct{}{}, err
	})
	if err != nil {
		return fmt.Errorf("%s extraction: %w", sourceName, err)
	}
	return nil
}

// computeMetrics fills in the cross-source measurements: canonical name
// overlap, embedding similarity matches and claim counts.
func (r *Runner) computeMetrics(ctx context.Context, a *analysis.Analysis) error {
	grokArt := a.Article(analysis.SourceGrokipedia)
	wikiArt := a.Article(analysis.SourceWikipedia)

	a.Metrics.EntityOverlap = nameOverlap(grokArt.Entities, wikiArt.Entities)
	a.Metrics.ClaimsCount = map[string]int{
		analysis.SourceGrokipedia: len(grokArt.Claims),
		analysis.SourceWikipedia:  len(wikiArt.Claims),
	}

	grokGraph := graph.Build(grokArt, graph.Meta{Source: analysis.SourceGrokipedia})
	wikiGraph := graph.Build(wikiArt, graph.Meta{Source: analysis.SourceWikipedia})
	similarity, err := graph.EntitySimilarity(ctx, grokGraph, wikiGraph, r.client)
	if err != nil {
		return fmt.Errorf("failed to compute entity similarity: %w", err)
	}
	a.Metrics.EntitySimilarity = similarity
	return nil
}

// nameOverlap computes Jaccard overlap of canonicalized entity names. The
// counts are raw entity counts, not distinct name counts, so the ratio of
// intersection size to counts is not derivable from this struct alone.
func nameOverlap(grok, wiki []analysis.Entity) analysis.EntityOverlap {
	grokSet := canonicalNameSet(grok)
	wikiSet := canonicalNameSet(wiki)

	intersection := []string{}
	for name := range grokSet {
		if _, ok := wikiSet[name]; ok {
			intersection = append(intersection, name)
		}
	}
	sort.Strings(intersection)

	union := len(grokSet) + len(wikiSet) - len(intersection)
	jaccard := 0.0
	if union > 0 {
		jaccard = math.Round(float64(len(intersection))/float64(union)*10000) / 10000
	}

	return analysis.EntityOverlap{
		Jaccard:      jaccard,
		Intersection: intersection,
		GrokCount:    len(grok),
		WikiCount:    len(wiki),
	}
}

func canonicalNameSet(entities []analysis.Entity) map[string]struct{} {
	set := make(map[string]struct{}, len(entities))
	for _, ent := range entities {
		id := graph.Canonicalize(ent.Name)
		if id == "" {
			id = ent.Name
		}
		set[id] = struct{}{}
	}
	return set
}
