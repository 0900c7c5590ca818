package graph

import (
	"context"
	"fmt"

	"pairlens/internal/artifact"
	"pairlens/pkg/analysis"
	"pairlens/pkg/logger"
)

// Generator derives every graph-stage artifact of a topic from its
// extraction artifact.
type Generator struct {
	store    *artifact.Store
	embedder Embedder
}

// NewGeneratorParams holds the dependencies for NewGenerator.
type NewGeneratorParams struct {
	Store    *artifact.Store
	Embedder Embedder
}

func NewGenerator(params NewGeneratorParams) *Generator {
	return &Generator{
		store:    params.Store,
		embedder: params.Embedder,
	}
}

// Generate rebuilds both per-source graphs, the comparison and the 2D
// projection for a topic from its extraction artifact and writes each one
// as it is produced. Earlier artifacts stay on disk if a later stage fails,
// so a partial run is resumable by regenerating.
//
// Returns artifact.ErrNotFound when the topic has no extraction artifact.
func (g *Generator) Generate(ctx context.Context, topic string) error {
	var a analysis.Analysis
	if err := g.store.ReadJSON(topic, artifact.FileAnalysis, &a); err != nil {
		return fmt.Errorf("failed to read extraction for topic '%s': %w", topic, err)
	}

	grok := Build(a.Article(analysis.SourceGrokipedia), Meta{
		Topic:       a.Topic,
		Source:      analysis.SourceGrokipedia,
		Model:       a.Model,
		GeneratedAt: a.GeneratedAt,
	})
	wiki := Build(a.Article(analysis.SourceWikipedia), Meta{
		Topic:       a.Topic,
		Source:      analysis.SourceWikipedia,
		Model:       a.Model,
		GeneratedAt: a.GeneratedAt,
	})
	logger.Info("built graphs",
		"topic", topic,
		"grok_nodes", grok.Stats.NodeCount, "grok_edges", grok.Stats.EdgeCount,
		"wiki_nodes", wiki.Stats.NodeCount, "wiki_edges", wiki.Stats.EdgeCount,
	)

	if err := g.store.WriteJSON(topic, artifact.FileGrokGraph, grok); err != nil {
		return fmt.Errorf("failed to write grokipedia graph: %w", err)
	}
	if err := g.store.WriteJSON(topic, artifact.FileWikiGraph, wiki); err != nil {
		return fmt.Errorf("failed to write wikipedia graph: %w", err)
	}

	comparison := Compare(grok, wiki)
	if err := g.store.WriteJSON(topic, artifact.FileComparison, comparison); err != nil {
		return fmt.Errorf("failed to write comparison: %w", err)
	}
	logger.Info("compared graphs",
		"topic", topic,
		"entity_jaccard", comparison.EntityOverlap.Jaccard,
		"edge_jaccard", comparison.EdgeOverlap.Jaccard,
	)

	embeddings, err := Embeddings(ctx, []Graph{grok, wiki}, g.embedder)
	if err != nil {
		return fmt.Errorf("failed to compute embeddings for topic '%s': %w", topic, err)
	}
	if err := g.store.WriteJSON(topic, artifact.FileEmbeddings, embeddings); err != nil {
		return fmt.Errorf("failed to write embeddings: %w", err)
	}
	logger.Info("projected embeddings", "topic", topic, "points", len(embeddings.Points))

	return nil
}
