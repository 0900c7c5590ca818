package graph

import (
	"context"
	"testing"

	"pairlens/pkg/analysis"
)

func TestEmbeddings(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float32{
		"a": {1, 0, 0},
		"b": {0.9, 0.1, 0},
		"c": {0, 1, 0},
		"d": {0, 0.9, 0.1},
	}}

	grok := graphWith(analysis.SourceGrokipedia, []string{"a", "b"}, nil)
	grok.Nodes[0].Attrs.Sentiment = analysis.SentimentPositive
	grok.Nodes[0].Attrs.Salience = 0.7
	wiki := graphWith(analysis.SourceWikipedia, []string{"c", "d"}, nil)

	got, err := Embeddings(context.Background(), []Graph{grok, wiki}, emb)
	if err != nil {
		t.Fatalf("Embeddings() error = %v", err)
	}

	if emb.calls != 1 {
		t.Errorf("embed calls = %d, want a single batched request", emb.calls)
	}
	if got.Model != "fake-embed" {
		t.Errorf("model = %q", got.Model)
	}
	if len(got.Points) != 4 {
		t.Fatalf("points = %d, want 4", len(got.Points))
	}

	// Graph order, then node order within each graph.
	wantOrder := []string{"a", "b", "c", "d"}
	for i, want := range wantOrder {
		if got.Points[i].ID != want {
			t.Errorf("point %d id = %q, want %q", i, got.Points[i].ID, want)
		}
	}
	if got.Points[0].Source != analysis.SourceGrokipedia || got.Points[2].Source != analysis.SourceWikipedia {
		t.Error("points must carry their source tag")
	}
	if got.Points[0].Sentiment != analysis.SentimentPositive || got.Points[0].Salience != 0.7 {
		t.Errorf("point attrs = %+v", got.Points[0])
	}

	// Similar vectors land closer together on the first axis than
	// dissimilar ones.
	gapSame := abs(got.Points[0].X - got.Points[1].X)
	gapCross := abs(got.Points[0].X - got.Points[2].X)
	if gapSame >= gapCross {
		t.Errorf("projection gaps: same-cluster %v, cross-cluster %v", gapSame, gapCross)
	}

	// Re-running the projection yields identical coordinates.
	again, err := Embeddings(context.Background(), []Graph{grok, wiki}, emb)
	if err != nil {
		t.Fatalf("Embeddings() second run error = %v", err)
	}
	for i := range got.Points {
		if got.Points[i] != again.Points[i] {
			t.Errorf("point %d not deterministic: %+v vs %+v", i, got.Points[i], again.Points[i])
		}
	}
}

func TestEmbeddings_NoNodes(t *testing.T) {
	emb := &fakeEmbedder{}

	got, err := Embeddings(context.Background(), []Graph{{}, {}}, emb)
	if err != nil {
		t.Fatalf("Embeddings() error = %v", err)
	}

	if emb.calls != 0 {
		t.Errorf("embed calls = %d, want 0 with no nodes", emb.calls)
	}
	if got.Points == nil || len(got.Points) != 0 {
		t.Errorf("points = %v, want empty non-nil list", got.Points)
	}
}

func TestEmbeddings_SingleNodeAtOrigin(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float32{"a": {1, 2, 3}}}
	g := graphWith(analysis.SourceGrokipedia, []string{"a"}, nil)

	got, err := Embeddings(context.Background(), []Graph{g, {}}, emb)
	if err != nil {
		t.Fatalf("Embeddings() error = %v", err)
	}
	if len(got.Points) != 1 {
		t.Fatalf("points = %d, want 1", len(got.Points))
	}
	if got.Points[0].X != 0 || got.Points[0].Y != 0 {
		t.Errorf("single point = (%v, %v), want origin", got.Points[0].X, got.Points[0].Y)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
