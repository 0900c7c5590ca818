package graph

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"pairlens/pkg/analysis"
)

// maxSimilarityMatches caps how many cross-source matches the similarity
// artifact keeps.
const maxSimilarityMatches = 20

// Embedder is the vector side of the extraction client. Kept minimal so
// tests can count calls with a fake.
type Embedder interface {
	GenerateEmbeddings(ctx context.Context, inputs []string) ([][]float32, error)
	EmbeddingModel() string
}

// EntitySimilarity matches each Grokipedia entity to its most similar
// Wikipedia entity by embedding cosine similarity and keeps the strongest
// matches, strongest first.
//
// Both node lists are embedded in one batched request; nodes with a blank
// label are skipped, and when either side has nothing left no request is
// made at all and the match list is empty. Ties on the wiki side resolve to
// the lowest index, ties on score keep grok node order, and scores are
// rounded to 4 decimals after comparison.
func EntitySimilarity(ctx context.Context, grok Graph, wiki Graph, embedder Embedder) (analysis.EntitySimilarity, error) {
	sim := analysis.EntitySimilarity{
		Matches: []analysis.SimilarityMatch{},
		Model:   embedder.EmbeddingModel(),
	}
	grokLabels := namedLabels(grok.Nodes)
	wikiLabels := namedLabels(wiki.Nodes)
	if len(grokLabels) == 0 || len(wikiLabels) == 0 {
		return sim, nil
	}

	inputs := make([]string, 0, len(grokLabels)+len(wikiLabels))
	inputs = append(inputs, grokLabels...)
	inputs = append(inputs, wikiLabels...)

	vectors, err := embedder.GenerateEmbeddings(ctx, inputs)
	if err != nil {
		return analysis.EntitySimilarity{}, fmt.Errorf("failed to embed entity names: %w", err)
	}
	if len(vectors) != len(inputs) {
		return analysis.EntitySimilarity{}, fmt.Errorf("embedding count mismatch: got %d want %d", len(vectors), len(inputs))
	}
	grokVecs := vectors[:len(grokLabels)]
	wikiVecs := vectors[len(grokLabels):]

	matches := make([]analysis.SimilarityMatch, 0, len(grokLabels))
	for i, gv := range grokVecs {
		best := -1
		bestScore := math.Inf(-1)
		for j, wv := range wikiVecs {
			score := cosine(gv, wv)
			if score > bestScore {
				best = j
				bestScore = score
			}
		}
		matches = append(matches, analysis.SimilarityMatch{
			GrokEntity: grokLabels[i],
			WikiEntity: wikiLabels[best],
			Score:      bestScore,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > maxSimilarityMatches {
		matches = matches[:maxSimilarityMatches]
	}
	for i := range matches {
		matches[i].Score = round4(matches[i].Score)
	}

	sim.Matches = matches
	return sim, nil
}

// namedLabels returns the labels of nodes that have one, in node order.
func namedLabels(nodes []Node) []string {
	labels := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if strings.TrimSpace(n.Label) == "" {
			continue
		}
		labels = append(labels, n.Label)
	}
	return labels
}

// cosine returns the cosine similarity of two vectors, 0.0 when either has
// zero norm or the lengths differ.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0.0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
