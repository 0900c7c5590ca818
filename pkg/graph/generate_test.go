package graph

import (
	"context"
	"errors"
	"testing"

	"pairlens/internal/artifact"
	"pairlens/pkg/analysis"
)

func TestGenerator_Generate(t *testing.T) {
	store := artifact.NewStore(t.TempDir())
	emb := &fakeEmbedder{vectors: map[string][]float32{
		"Elon Musk": {1, 0},
		"SpaceX":    {0.9, 0.1},
		"E. Musk":   {1, 0.05},
	}}

	a := analysis.Analysis{
		Topic:       "elon_musk",
		RunID:       "run1",
		Model:       "test-model",
		GeneratedAt: "2026-08-25T00:00:00Z",
		Articles: map[string]analysis.ArticleExtraction{
			analysis.SourceGrokipedia: {
				Entities: []analysis.Entity{
					{Name: "Elon Musk", Type: "person", Salience: 0.9, Sentiment: analysis.SentimentNeutral},
					{Name: "SpaceX", Type: "organization", Salience: 0.8, Sentiment: analysis.SentimentPositive},
				},
				Relations: []analysis.Relation{
					{Subject: "Elon Musk", Predicate: "founded", Object: "SpaceX"},
				},
			},
			analysis.SourceWikipedia: {
				Entities: []analysis.Entity{
					{Name: "E. Musk", Type: "person", Salience: 0.9, Sentiment: analysis.SentimentNeutral},
				},
			},
		},
	}
	if err := store.WriteJSON("elon_musk", artifact.FileAnalysis, a); err != nil {
		t.Fatalf("seed analysis: %v", err)
	}

	gen := NewGenerator(NewGeneratorParams{Store: store, Embedder: emb})
	if err := gen.Generate(context.Background(), "elon_musk"); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	var grok, wiki Graph
	if err := store.ReadJSON("elon_musk", artifact.FileGrokGraph, &grok); err != nil {
		t.Fatalf("read grok graph: %v", err)
	}
	if err := store.ReadJSON("elon_musk", artifact.FileWikiGraph, &wiki); err != nil {
		t.Fatalf("read wiki graph: %v", err)
	}
	if grok.Stats.NodeCount != 2 || grok.Stats.EdgeCount != 1 {
		t.Errorf("grok stats = %+v", grok.Stats)
	}
	if wiki.Meta.Source != analysis.SourceWikipedia || wiki.Meta.Model != "test-model" {
		t.Errorf("wiki meta = %+v", wiki.Meta)
	}

	var comparison Comparison
	if err := store.ReadJSON("elon_musk", artifact.FileComparison, &comparison); err != nil {
		t.Fatalf("read comparison: %v", err)
	}
	if comparison.EntityOverlap.Jaccard != 0.0 {
		t.Errorf("entity jaccard = %v, want 0.0 for disjoint ids", comparison.EntityOverlap.Jaccard)
	}

	var embeddings EmbeddingSet
	if err := store.ReadJSON("elon_musk", artifact.FileEmbeddings, &embeddings); err != nil {
		t.Fatalf("read embeddings: %v", err)
	}
	if len(embeddings.Points) != 3 {
		t.Errorf("points = %d, want one per node across both graphs", len(embeddings.Points))
	}
	if embeddings.Model != "fake-embed" {
		t.Errorf("embeddings model = %q", embeddings.Model)
	}
}

func TestGenerator_Generate_MissingAnalysis(t *testing.T) {
	store := artifact.NewStore(t.TempDir())
	gen := NewGenerator(NewGeneratorParams{Store: store, Embedder: &fakeEmbedder{}})

	err := gen.Generate(context.Background(), "nope")
	if !errors.Is(err, artifact.ErrNotFound) {
		t.Errorf("error = %v, want artifact.ErrNotFound", err)
	}
}

func TestGenerator_Generate_EmbedFailureKeepsEarlierArtifacts(t *testing.T) {
	store := artifact.NewStore(t.TempDir())
	emb := &fakeEmbedder{err: errors.New("backend down")}

	a := analysis.Analysis{
		Topic: "t",
		Articles: map[string]analysis.ArticleExtraction{
			analysis.SourceGrokipedia: {
				Entities: []analysis.Entity{{Name: "A"}},
			},
		},
	}
	if err := store.WriteJSON("t", artifact.FileAnalysis, a); err != nil {
		t.Fatalf("seed analysis: %v", err)
	}

	gen := NewGenerator(NewGeneratorParams{Store: store, Embedder: emb})
	if err := gen.Generate(context.Background(), "t"); err == nil {
		t.Fatal("Generate() expected error from embedder")
	}

	var comparison Comparison
	if err := store.ReadJSON("t", artifact.FileComparison, &comparison); err != nil {
		t.Errorf("comparison should survive embed failure: %v", err)
	}
	var embeddings EmbeddingSet
	if err := store.ReadJSON("t", artifact.FileEmbeddings, &embeddings); !errors.Is(err, artifact.ErrNotFound) {
		t.Errorf("embeddings error = %v, want artifact.ErrNotFound", err)
	}
}
