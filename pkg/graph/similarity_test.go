package graph

import (
	"context"
	"errors"
	"testing"

	"pairlens/pkg/analysis"
)

// fakeEmbedder returns canned vectors per input and counts requests.
type fakeEmbedder struct {
	vectors map[string][]float32
	calls   int
	err     error
}

func (f *fakeEmbedder) GenerateEmbeddings(_ context.Context, inputs []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(inputs))
	for i, in := range inputs {
		vec, ok := f.vectors[in]
		if !ok {
			vec = []float32{0, 0, 1}
		}
		out[i] = vec
	}
	return out, nil
}

func (f *fakeEmbedder) EmbeddingModel() string {
	return "fake-embed"
}

func TestEntitySimilarity(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float32{
		"Elon Musk": {1, 0, 0},
		"SpaceX":    {0, 1, 0},
		"E. Musk":   {1, 0.1, 0},
		"NASA":      {0, 0.9, 0.5},
	}}

	grok := graphWith(analysis.SourceGrokipedia, []string{"elon_musk", "spacex"}, nil)
	grok.Nodes[0].Label = "Elon Musk"
	grok.Nodes[1].Label = "SpaceX"
	wiki := graphWith(analysis.SourceWikipedia, []string{"e_musk", "nasa"}, nil)
	wiki.Nodes[0].Label = "E. Musk"
	wiki.Nodes[1].Label = "NASA"

	got, err := EntitySimilarity(context.Background(), grok, wiki, emb)
	if err != nil {
		t.Fatalf("EntitySimilarity() error = %v", err)
	}

	if emb.calls != 1 {
		t.Errorf("embed calls = %d, want a single batched request", emb.calls)
	}
	if got.Model != "fake-embed" {
		t.Errorf("model = %q, want fake-embed", got.Model)
	}
	if len(got.Matches) != 2 {
		t.Fatalf("matches = %d, want 2", len(got.Matches))
	}

	// Strongest match first.
	if got.Matches[0].GrokEntity != "Elon Musk" || got.Matches[0].WikiEntity != "E. Musk" {
		t.Errorf("top match = %+v", got.Matches[0])
	}
	if got.Matches[1].GrokEntity != "SpaceX" || got.Matches[1].WikiEntity != "NASA" {
		t.Errorf("second match = %+v", got.Matches[1])
	}
	if got.Matches[0].Score <= got.Matches[1].Score {
		t.Errorf("matches not sorted by score: %v <= %v", got.Matches[0].Score, got.Matches[1].Score)
	}
	for _, m := range got.Matches {
		if m.Score != round4(m.Score) {
			t.Errorf("score %v not rounded to 4 decimals", m.Score)
		}
	}
}

func TestEntitySimilarity_EmptySideSkipsModel(t *testing.T) {
	emb := &fakeEmbedder{}
	grok := graphWith(analysis.SourceGrokipedia, []string{"a"}, nil)

	got, err := EntitySimilarity(context.Background(), grok, Graph{}, emb)
	if err != nil {
		t.Fatalf("EntitySimilarity() error = %v", err)
	}

	if emb.calls != 0 {
		t.Errorf("embed calls = %d, want 0 when one side is empty", emb.calls)
	}
	if len(got.Matches) != 0 || got.Matches == nil {
		t.Errorf("matches = %v, want empty non-nil list", got.Matches)
	}
	if got.Model != "fake-embed" {
		t.Errorf("model = %q, want recorded even without matches", got.Model)
	}
}

func TestEntitySimilarity_SkipsUnnamedNodes(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float32{
		"SpaceX": {0, 1, 0},
		"NASA":   {0, 1, 0.1},
	}}

	grok := graphWith(analysis.SourceGrokipedia, []string{"blank", "spacex"}, nil)
	grok.Nodes[0].Label = "  "
	grok.Nodes[1].Label = "SpaceX"
	wiki := graphWith(analysis.SourceWikipedia, []string{"nasa"}, nil)
	wiki.Nodes[0].Label = "NASA"

	got, err := EntitySimilarity(context.Background(), grok, wiki, emb)
	if err != nil {
		t.Fatalf("EntitySimilarity() error = %v", err)
	}
	if len(got.Matches) != 1 {
		t.Fatalf("matches = %d, want the blank node skipped", len(got.Matches))
	}
	if got.Matches[0].GrokEntity != "SpaceX" {
		t.Errorf("match = %+v, want SpaceX", got.Matches[0])
	}

	// A side with only unnamed nodes behaves like an empty side.
	grok.Nodes[1].Label = ""
	emb.calls = 0
	got, err = EntitySimilarity(context.Background(), grok, wiki, emb)
	if err != nil {
		t.Fatalf("EntitySimilarity() error = %v", err)
	}
	if emb.calls != 0 || len(got.Matches) != 0 {
		t.Errorf("calls = %d, matches = %d, want no request and no matches", emb.calls, len(got.Matches))
	}
}

func TestEntitySimilarity_EmbedError(t *testing.T) {
	wantErr := errors.New("backend down")
	emb := &fakeEmbedder{err: wantErr}
	g := graphWith(analysis.SourceGrokipedia, []string{"a"}, nil)
	w := graphWith(analysis.SourceWikipedia, []string{"b"}, nil)

	_, err := EntitySimilarity(context.Background(), g, w, emb)
	if !errors.Is(err, wantErr) {
		t.Errorf("error = %v, want wrapped %v", err, wantErr)
	}
}

func TestEntitySimilarity_CapsAtTwenty(t *testing.T) {
	vectors := map[string][]float32{}
	grokIDs := make([]string, 25)
	for i := range grokIDs {
		grokIDs[i] = string(rune('a' + i))
		vectors[grokIDs[i]] = []float32{1, float32(i) * 0.01}
	}
	grok := graphWith(analysis.SourceGrokipedia, grokIDs, nil)
	wiki := graphWith(analysis.SourceWikipedia, []string{"z"}, nil)
	vectors["z"] = []float32{1, 0}

	got, err := EntitySimilarity(context.Background(), grok, wiki, &fakeEmbedder{vectors: vectors})
	if err != nil {
		t.Fatalf("EntitySimilarity() error = %v", err)
	}
	if len(got.Matches) != maxSimilarityMatches {
		t.Errorf("matches = %d, want capped at %d", len(got.Matches), maxSimilarityMatches)
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a    []float32
		b    []float32
		want float64
	}{
		{name: "identical", a: []float32{1, 2}, b: []float32{1, 2}, want: 1.0},
		{name: "orthogonal", a: []float32{1, 0}, b: []float32{0, 1}, want: 0.0},
		{name: "opposite", a: []float32{1, 0}, b: []float32{-1, 0}, want: -1.0},
		{name: "zero vector", a: []float32{0, 0}, b: []float32{1, 0}, want: 0.0},
		{name: "length mismatch", a: []float32{1}, b: []float32{1, 0}, want: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosine(tt.a, tt.b)
			if round4(got) != tt.want {
				t.Errorf("cosine(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
