package graph

import (
	"math"
	"sort"
)

// EdgeKey identifies an edge for overlap purposes as the (src, label, dst)
// triple. Two edges from different sources are the same edge iff this triple
// matches exactly; the predicate must match verbatim, not semantically.
// The triple is compared directly instead of through the formatted edge id
// string so id formatting can never influence overlap results.
type EdgeKey [3]string

// NodeOverlap holds the Jaccard similarity and set decomposition over the
// distinct node ids of two graphs.
type NodeOverlap struct {
	Jaccard      float64  `json:"jaccard"`
	Intersection []string `json:"intersection"`
	GrokUnique   []string `json:"grok_unique"`
	WikiUnique   []string `json:"wiki_unique"`
}

// EdgeOverlap holds the Jaccard similarity and set decomposition over the
// distinct edge keys of two graphs.
type EdgeOverlap struct {
	Jaccard      float64   `json:"jaccard"`
	Intersection []EdgeKey `json:"intersection"`
	GrokUnique   []EdgeKey `json:"grok_unique"`
	WikiUnique   []EdgeKey `json:"wiki_unique"`
}

// Comparison is the structural overlap artifact between the Grokipedia and
// Wikipedia graphs of one topic. Fully determined by the two graphs.
type Comparison struct {
	EntityOverlap NodeOverlap `json:"entity_overlap"`
	EdgeOverlap   EdgeOverlap `json:"edge_overlap"`
}

// Compare computes node and edge overlap between the two per-source graphs.
// Node identity is the node id value (builder-stage duplicates collapse
// here), edge identity is the (src, label, dst) triple. Jaccard is defined
// as exactly 0.0 when the union is empty, and all output sets are sorted
// for reproducible, diff-friendly artifacts.
func Compare(grok Graph, wiki Graph) Comparison {
	grokNodes := nodeIDSet(grok)
	wikiNodes := nodeIDSet(wiki)
	nodeInter, nodeGrok, nodeWiki := splitStringSets(grokNodes, wikiNodes)

	grokEdges := edgeKeySet(grok)
	wikiEdges := edgeKeySet(wiki)
	edgeInter, edgeGrok, edgeWiki := splitEdgeSets(grokEdges, wikiEdges)

	return Comparison{
		EntityOverlap: NodeOverlap{
			Jaccard:      round4(jaccard(len(nodeInter), len(grokNodes), len(wikiNodes))),
			Intersection: nodeInter,
			GrokUnique:   nodeGrok,
			WikiUnique:   nodeWiki,
		},
		EdgeOverlap: EdgeOverlap{
			Jaccard:      round4(jaccard(len(edgeInter), len(grokEdges), len(wikiEdges))),
			Intersection: edgeInter,
			GrokUnique:   edgeGrok,
			WikiUnique:   edgeWiki,
		},
	}
}

func nodeIDSet(g Graph) map[string]struct{} {
	set := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		set[n.ID] = struct{}{}
	}
	return set
}

func edgeKeySet(g Graph) map[EdgeKey]struct{} {
	set := make(map[EdgeKey]struct{}, len(g.Edges))
	for _, e := range g.Edges {
		set[EdgeKey{e.Src, e.Label, e.Dst}] = struct{}{}
	}
	return set
}

// jaccard computes |A ∩ B| / |A ∪ B| from the intersection size and the two
// set sizes, defined as 0.0 for an empty union.
func jaccard(intersection, sizeA, sizeB int) float64 {
	union := sizeA + sizeB - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func splitStringSets(a, b map[string]struct{}) (inter, onlyA, onlyB []string) {
	inter = []string{}
	onlyA = []string{}
	onlyB = []string{}
	for id := range a {
		if _, ok := b[id]; ok {
			inter = append(inter, id)
		} else {
			onlyA = append(onlyA, id)
		}
	}
	for id := range b {
		if _, ok := a[id]; !ok {
			onlyB = append(onlyB, id)
		}
	}
	sort.Strings(inter)
	sort.Strings(onlyA)
	sort.Strings(onlyB)
	return inter, onlyA, onlyB
}

func splitEdgeSets(a, b map[EdgeKey]struct{}) (inter, onlyA, onlyB []EdgeKey) {
	inter = []EdgeKey{}
	onlyA = []EdgeKey{}
	onlyB = []EdgeKey{}
	for key := range a {
		if _, ok := b[key]; ok {
			inter = append(inter, key)
		} else {
			onlyA = append(onlyA, key)
		}
	}
	for key := range b {
		if _, ok := a[key]; !ok {
			onlyB = append(onlyB, key)
		}
	}
	sortEdgeKeys(inter)
	sortEdgeKeys(onlyA)
	sortEdgeKeys(onlyB)
	return inter, onlyA, onlyB
}

func sortEdgeKeys(keys []EdgeKey) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		if keys[i][1] != keys[j][1] {
			return keys[i][1] < keys[j][1]
		}
		return keys[i][2] < keys[j][2]
	})
}
