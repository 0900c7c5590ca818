// Package segment slices raw article text into paragraph segments with
// naive entity span highlights, the reading-view companion to the graph
// artifacts. Matching is plain case-insensitive surface matching, no
// tokenization; offsets are byte offsets into the raw article text.
package segment

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"pairlens/internal/artifact"
	"pairlens/pkg/analysis"
	"pairlens/pkg/logger"
)

var reParagraphBreak = regexp.MustCompile(`\n\s*\n+`)

// EntitySpan is one located entity mention inside the article text.
type EntitySpan struct {
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Start     int     `json:"start"`
	End       int     `json:"end"`
	Salience  float64 `json:"salience"`
	Sentiment string  `json:"sentiment"`
}

// Segment is one paragraph of an article with its entity mentions.
type Segment struct {
	ID       string       `json:"id"`
	Source   string       `json:"source"`
	Text     string       `json:"text"`
	Start    int          `json:"start"`
	End      int          `json:"end"`
	Entities []EntitySpan `json:"entities"`
	Metrics  Metrics      `json:"metrics"`
}

// Metrics holds per-segment counts.
type Metrics struct {
	EntityMentions int `json:"entity_mentions"`
}

// Meta identifies the analysis run the segments were derived from.
type Meta struct {
	Topic     string `json:"topic"`
	Generated string `json:"generated"`
	Model     string `json:"model"`
}

// SegmentSet is the per-topic segments artifact, one segment list per source.
type SegmentSet struct {
	Meta     Meta                 `json:"meta"`
	Segments map[string][]Segment `json:"segments"`
}

// Generator derives the segments artifact from raw text and the extraction.
type Generator struct {
	store *artifact.Store
}

func NewGenerator(store *artifact.Store) *Generator {
	return &Generator{store: store}
}

// Generate splits both raw articles into paragraphs, locates each
// extracted entity's surface forms inside them and writes segments.json.
// A missing raw file yields an empty segment list for that source, not an
// error; a missing extraction artifact is an error.
func (g *Generator) Generate(_ context.Context, topic string) (*SegmentSet, error) {
	var a analysis.Analysis
	if err := g.store.ReadJSON(topic, artifact.FileAnalysis, &a); err != nil {
		return nil, fmt.Errorf("failed to read extraction for topic '%s': %w", topic, err)
	}

	grokText, err := g.store.ReadGrokipediaText(topic)
	if err != nil {
		grokText = ""
	}
	wikiText, err := g.store.ReadRawText(topic, "wikipedia.txt")
	if err != nil {
		wikiText = ""
	}

	set := &SegmentSet{
		Meta: Meta{
			Topic:     topic,
			Generated: a.GeneratedAt,
			Model:     a.Model,
		},
		Segments: map[string][]Segment{
			analysis.SourceGrokipedia: buildSegments(grokText, a.Article(analysis.SourceGrokipedia).Entities, analysis.SourceGrokipedia),
			analysis.SourceWikipedia:  buildSegments(wikiText, a.Article(analysis.SourceWikipedia).Entities, analysis.SourceWikipedia),
		},
	}

	if err := g.store.WriteJSON(topic, artifact.FileSegments, set); err != nil {
		return nil, fmt.Errorf("failed to write segments: %w", err)
	}
	logger.Info("generated segments",
		"topic", topic,
		"grok_segments", len(set.Segments[analysis.SourceGrokipedia]),
		"wiki_segments", len(set.Segments[analysis.SourceWikipedia]),
	)
	return set, nil
}

// buildSegments splits text on blank lines and attaches entity spans with
// offsets relative to the full text.
func buildSegments(text string, entities []analysis.Entity, source string) []Segment {
	segments := []Segment{}
	cursor := 0
	idx := 0
	for _, para := range reParagraphBreak.Split(text, -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		start := strings.Index(text[cursor:], para)
		if start >= 0 {
			start += cursor
		} else {
			start = cursor
		}
		end := start + len(para)
		cursor = end

		spans := matchEntities(para, entities, start)
		segments = append(segments, Segment{
			ID:       fmt.Sprintf("%s-%d", source, idx),
			Source:   source,
			Text:     para,
			Start:    start,
			End:      end,
			Entities: spans,
			Metrics:  Metrics{EntityMentions: len(spans)},
		})
		idx++
	}
	return segments
}

// matchEntities locates every case-insensitive occurrence of each entity
// name in the paragraph. Duplicate (start, end, name) spans collapse to one.
func matchEntities(text string, entities []analysis.Entity, offset int) []EntitySpan {
	type spanKey struct {
		start int
		end   int
		name  string
	}
	seen := make(map[spanKey]struct{})
	spans := []EntitySpan{}
	for _, ent := range entities {
		name := strings.TrimSpace(ent.Name)
		if name == "" {
			continue
		}
		re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(name))
		if err != nil {
			continue
		}
		for _, loc := range re.FindAllStringIndex(text, -1) {
			key := spanKey{start: offset + loc[0], end: offset + loc[1], name: strings.ToLower(name)}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			spans = append(spans, EntitySpan{
				Name:      name,
				Type:      ent.Type,
				Start:     offset + loc[0],
				End:       offset + loc[1],
				Salience:  ent.Salience,
				Sentiment: ent.Sentiment,
			})
		}
	}
	return spans
}
