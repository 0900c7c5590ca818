package segment

import (
	"context"
	"errors"
	"strings"
	"testing"

	"pairlens/internal/artifact"
	"pairlens/pkg/analysis"
)

func seedAnalysis(t *testing.T, store *artifact.Store, topic string, grokEntities []analysis.Entity) {
	t.Helper()
	a := analysis.Analysis{
		Topic:       topic,
		Model:       "test-model",
		GeneratedAt: "2026-08-25T00:00:00Z",
		Articles: map[string]analysis.ArticleExtraction{
			analysis.SourceGrokipedia: {Entities: grokEntities},
			analysis.SourceWikipedia:  {},
		},
	}
	if err := store.WriteJSON(topic, artifact.FileAnalysis, a); err != nil {
		t.Fatalf("seed analysis: %v", err)
	}
}

func TestGenerator_Generate(t *testing.T) {
	store := artifact.NewStore(t.TempDir())
	text := "SpaceX builds rockets.\n\nThe company spacex was founded by Elon Musk.\n\nNothing here."
	if err := store.WriteRawText("t", "grokipedia.txt", text); err != nil {
		t.Fatalf("seed raw: %v", err)
	}
	if err := store.WriteRawText("t", "wikipedia.txt", "Wiki text without mentions."); err != nil {
		t.Fatalf("seed raw: %v", err)
	}
	seedAnalysis(t, store, "t", []analysis.Entity{
		{Name: "SpaceX", Type: "organization", Salience: 0.9, Sentiment: analysis.SentimentPositive},
		{Name: "Elon Musk", Type: "person", Salience: 0.8, Sentiment: analysis.SentimentNeutral},
	})

	set, err := NewGenerator(store).Generate(context.Background(), "t")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if set.Meta.Topic != "t" || set.Meta.Model != "test-model" {
		t.Errorf("meta = %+v", set.Meta)
	}

	grok := set.Segments[analysis.SourceGrokipedia]
	if len(grok) != 3 {
		t.Fatalf("grok segments = %d, want 3 paragraphs", len(grok))
	}
	if grok[0].ID != "grokipedia-0" || grok[0].Start != 0 {
		t.Errorf("first segment = %+v", grok[0])
	}

	// Case-insensitive matching finds both surface forms of SpaceX.
	second := grok[1]
	if second.Metrics.EntityMentions != 2 {
		t.Fatalf("second segment mentions = %d, want spacex and Elon Musk", second.Metrics.EntityMentions)
	}
	for _, span := range second.Entities {
		if got := text[span.Start:span.End]; !strings.EqualFold(got, span.Name) {
			t.Errorf("span %q does not cover its mention, text slice = %q", span.Name, got)
		}
	}

	if grok[2].Metrics.EntityMentions != 0 {
		t.Errorf("third segment mentions = %d, want 0", grok[2].Metrics.EntityMentions)
	}
	if grok[2].Entities == nil {
		t.Error("entity spans must be non-nil for JSON output")
	}

	// The artifact lands on disk.
	var stored SegmentSet
	if err := store.ReadJSON("t", artifact.FileSegments, &stored); err != nil {
		t.Fatalf("read segments: %v", err)
	}
	if len(stored.Segments[analysis.SourceWikipedia]) != 1 {
		t.Errorf("wiki segments = %d, want 1", len(stored.Segments[analysis.SourceWikipedia]))
	}
}

func TestGenerator_Generate_MissingRawText(t *testing.T) {
	store := artifact.NewStore(t.TempDir())
	seedAnalysis(t, store, "t", nil)

	set, err := NewGenerator(store).Generate(context.Background(), "t")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(set.Segments[analysis.SourceGrokipedia]) != 0 {
		t.Errorf("segments = %d, want 0 without raw text", len(set.Segments[analysis.SourceGrokipedia]))
	}
}

func TestGenerator_Generate_MissingAnalysis(t *testing.T) {
	store := artifact.NewStore(t.TempDir())

	_, err := NewGenerator(store).Generate(context.Background(), "nope")
	if !errors.Is(err, artifact.ErrNotFound) {
		t.Errorf("error = %v, want artifact.ErrNotFound", err)
	}
}
