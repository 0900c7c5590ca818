package graph

import (
	"context"
	"fmt"
)

// Point is one graph node placed in the shared 2D projection plane.
type Point struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	Source    string  `json:"source"`
	Type      string  `json:"type"`
	Sentiment string  `json:"sentiment"`
	Salience  float64 `json:"salience"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

// EmbeddingSet is the 2D projection artifact for one topic: every node of
// every supplied graph placed in one shared plane.
type EmbeddingSet struct {
	Model  string  `json:"model"`
	Points []Point `json:"points"`
}

// Embeddings embeds the node labels of all supplied graphs in one batched
// request, projects the vectors into a shared 2D plane and returns one
// point per node. Points keep the supplied graph order, then node order
// within each graph, so the artifact is stable across runs.
//
// No nodes at all yields an empty point list without calling the model.
func Embeddings(ctx context.Context, graphs []Graph, embedder Embedder) (EmbeddingSet, error) {
	set := EmbeddingSet{
		Model:  embedder.EmbeddingModel(),
		Points: []Point{},
	}

	var nodes []Node
	for _, g := range graphs {
		nodes = append(nodes, g.Nodes...)
	}
	if len(nodes) == 0 {
		return set, nil
	}

	inputs := make([]string, len(nodes))
	for i, n := range nodes {
		inputs[i] = n.Label
	}

	vectors, err := embedder.GenerateEmbeddings(ctx, inputs)
	if err != nil {
		return EmbeddingSet{}, fmt.Errorf("failed to embed node labels: %w", err)
	}
	if len(vectors) != len(nodes) {
		return EmbeddingSet{}, fmt.Errorf("embedding count mismatch: got %d want %d", len(vectors), len(nodes))
	}

	coords := projectTo2D(vectors)
	points := make([]Point, len(nodes))
	for i, n := range nodes {
		points[i] = Point{
			ID:        n.ID,
			Label:     n.Label,
			Source:    n.Source,
			Type:      n.Type,
			Sentiment: n.Attrs.Sentiment,
			Salience:  n.Attrs.Salience,
			X:         round4(coords[i][0]),
			Y:         round4(coords[i][1]),
		}
	}
	set.Points = points
	return set, nil
}
