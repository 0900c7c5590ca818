// Package graph derives per-source knowledge graphs from an extraction
// artifact and compares them: structural overlap, embedding-based entity
// similarity and a joint 2D projection for visualization. Every function
// here is a pure function of its inputs; regenerating artifacts is always
// safe.
package graph

import (
	"fmt"
	"sort"

	"pairlens/pkg/analysis"
)

// Node is one graph node, derived from an extracted entity.
type Node struct {
	ID     string    `json:"id"`
	Type   string    `json:"type"`
	Label  string    `json:"label"`
	Source string    `json:"source"`
	Attrs  NodeAttrs `json:"attrs"`
}

// NodeAttrs carries the entity metadata kept on each node.
type NodeAttrs struct {
	Sentiment string   `json:"sentiment"`
	Salience  float64  `json:"salience"`
	Aliases   []string `json:"aliases"`
}

// Edge is one directed labeled edge, derived from an extracted relation.
type Edge struct {
	ID     string    `json:"id"`
	Src    string    `json:"src"`
	Dst    string    `json:"dst"`
	Type   string    `json:"type"`
	Label  string    `json:"label"`
	Source string    `json:"source"`
	Attrs  EdgeAttrs `json:"attrs"`
}

// EdgeAttrs carries the relation metadata kept on each edge.
type EdgeAttrs struct {
	EvidenceSpan string `json:"evidence_span"`
}

// Meta identifies the topic, source and model a graph was derived from.
type Meta struct {
	Topic       string `json:"topic"`
	Source      string `json:"source"`
	Model       string `json:"model"`
	GeneratedAt string `json:"generated_at"`
}

// Stats holds exact emitted counts. Canonicalization collisions are not
// deduplicated at build time, so NodeCount may exceed the number of
// distinct node ids.
type Stats struct {
	NodeCount int `json:"node_count"`
	EdgeCount int `json:"edge_count"`
}

// Graph is the per-source knowledge graph artifact.
//
// NamesByID maps each node id to the sorted distinct surface names that
// produced it, so consumers can detect canonicalization collisions
// (two entity names mapping to one id) instead of silently losing them.
type Graph struct {
	Meta      Meta                `json:"meta"`
	Nodes     []Node              `json:"nodes"`
	Edges     []Edge              `json:"edges"`
	Stats     Stats               `json:"stats"`
	NamesByID map[string][]string `json:"names_by_id,omitempty"`
}

// unknownArgument replaces a missing relation subject or object before
// canonicalization. Relations with missing arguments intentionally collide
// at this id rather than being dropped.
const unknownArgument = "unknown"

// Build turns one article's extraction into a directed labeled graph.
// Nodes keep input entity order, edges keep input relation order, and no
// deduplication happens here: counts in Stats are exact emitted counts.
func Build(art analysis.ArticleExtraction, meta Meta) Graph {
	nodes := make([]Node, 0, len(art.Entities))
	namesByID := make(map[string][]string, len(art.Entities))
	for _, ent := range art.Entities {
		id := Canonicalize(ent.Name)
		if id == "" {
			id = ent.Name
		}
		aliases := ent.Aliases
		if aliases == nil {
			aliases = []string{}
		}
		nodes = append(nodes, Node{
			ID:     id,
			Type:   "entity",
			Label:  ent.Name,
			Source: meta.Source,
			Attrs: NodeAttrs{
				Sentiment: ent.Sentiment,
				Salience:  ent.Salience,
				Aliases:   aliases,
			},
		})
		namesByID[id] = appendName(namesByID[id], ent.Name)
	}

	edges := make([]Edge, 0, len(art.Relations))
	for _, rel := range art.Relations {
		subj := rel.Subject
		if subj == "" {
			subj = unknownArgument
		}
		obj := rel.Object
		if obj == "" {
			obj = unknownArgument
		}
		src := Canonicalize(subj)
		dst := Canonicalize(obj)
		edges = append(edges, Edge{
			ID:     fmt.Sprintf("%s__%s__%s", src, rel.Predicate, dst),
			Src:    src,
			Dst:    dst,
			Type:   "relation",
			Label:  rel.Predicate,
			Source: meta.Source,
			Attrs: EdgeAttrs{
				EvidenceSpan: rel.Evidence,
			},
		})
	}

	return Graph{
		Meta:  meta,
		Nodes: nodes,
		Edges: edges,
		Stats: Stats{
			NodeCount: len(nodes),
			EdgeCount: len(edges),
		},
		NamesByID: namesByID,
	}
}

// appendName inserts name into a sorted distinct name list.
func appendName(names []string, name string) []string {
	idx := sort.SearchStrings(names, name)
	if idx < len(names) && names[idx] == name {
		return names
	}
	names = append(names, "")
	copy(names[idx+1:], names[idx:])
	names[idx] = name
	return names
}
