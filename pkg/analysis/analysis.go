// Package analysis defines the extraction artifact shared by the pipeline:
// the structured data pulled out of one Grokipedia/Wikipedia article pair
// by the language model, plus the metrics computed over it.
package analysis

import "strings"

// Source tags identify which encyclopedia an extraction came from.
const (
	SourceGrokipedia = "grokipedia"
	SourceWikipedia  = "wikipedia"
)

// Sentiment labels used for entities and article-level sentiment.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Entity is one named entity extracted from an article.
type Entity struct {
	Name      string   `json:"name" jsonschema_description:"Name of the entity as it appears in the article"`
	Type      string   `json:"type" jsonschema_description:"Entity type, e.g. person, organization, location, concept"`
	Salience  float64  `json:"salience" jsonschema_description:"How central the entity is to the article, between 0 and 1"`
	Sentiment string   `json:"sentiment" jsonschema_description:"Sentiment toward the entity: positive, neutral or negative"`
	Aliases   []string `json:"aliases,omitempty" jsonschema_description:"Alternative surface forms for the entity"`
}

// Relation is a directed subject-predicate-object triple. Subject and object
// are free text and are not required to reference extracted entities.
type Relation struct {
	Subject   string `json:"subject" jsonschema_description:"Subject of the relation"`
	Predicate string `json:"predicate" jsonschema_description:"Predicate linking subject and object"`
	Object    string `json:"object" jsonschema_description:"Object of the relation"`
	Evidence  string `json:"evidence" jsonschema_description:"Short quote or clause from the article supporting the relation"`
}

// Claim is a notable assertion made by the article.
type Claim struct {
	Summary         string `json:"summary" jsonschema_description:"One-sentence summary of the claim"`
	Stance          string `json:"stance" jsonschema_description:"Stance of the article toward the claim: pro, neutral or con"`
	EvidenceSnippet string `json:"evidence_snippet" jsonschema_description:"Article wording backing the claim"`
}

// SentimentSummary is the article-level sentiment verdict.
type SentimentSummary struct {
	Overall string  `json:"overall" jsonschema_description:"Overall sentiment: positive, neutral or negative"`
	Score   float64 `json:"score" jsonschema_description:"Sentiment score between -1 and 1"`
	Notes   string  `json:"notes" jsonschema_description:"Short justification for the verdict"`
}

// ArticleExtraction is everything the model extracted from one article.
type ArticleExtraction struct {
	Entities  []Entity         `json:"entities" jsonschema_description:"Up to 20 entities identified in the article"`
	Relations []Relation       `json:"relations" jsonschema_description:"Up to 15 subject-predicate-object relations"`
	Claims    []Claim          `json:"claims" jsonschema_description:"Up to 12 notable claims"`
	Sentiment SentimentSummary `json:"sentiment" jsonschema_description:"Article-level sentiment"`
}

// EntityOverlap is the coarse name-level overlap between the two sources.
type EntityOverlap struct {
	Jaccard      float64  `json:"jaccard"`
	Intersection []string `json:"intersection"`
	GrokCount    int      `json:"grok_count"`
	WikiCount    int      `json:"wiki_count"`
}

// SimilarityMatch pairs a Grokipedia entity with its closest Wikipedia
// entity by embedding cosine similarity.
type SimilarityMatch struct {
	GrokEntity string  `json:"grok_entity"`
	WikiEntity string  `json:"wiki_entity"`
	Score      float64 `json:"score"`
}

// EntitySimilarity is the embedding-based cross-source match set.
type EntitySimilarity struct {
	Matches []SimilarityMatch `json:"matches"`
	Model   string            `json:"model"`
}

// Metrics aggregates the cross-source measurements stored alongside the
// per-article extractions.
type Metrics struct {
	EntityOverlap    EntityOverlap    `json:"entity_overlap"`
	EntitySimilarity EntitySimilarity `json:"entity_similarity"`
	ClaimsCount      map[string]int   `json:"claims_count"`
}

// Inputs records where the analyzed article text came from.
type Inputs struct {
	GrokipediaPath string `json:"grokipedia_path"`
	WikipediaPath  string `json:"wikipedia_path"`
	MaxTokens      int    `json:"max_tokens"`
	EmbedModel     string `json:"embed_model"`
}

// Analysis is the upstream artifact consumed by graph generation. It is
// written once per topic as analysis.json and never mutated afterwards.
type Analysis struct {
	Topic       string                       `json:"topic"`
	RunID       string                       `json:"run_id"`
	Model       string                       `json:"model"`
	GeneratedAt string                       `json:"generated_at"`
	Inputs      Inputs                       `json:"inputs"`
	Articles    map[string]ArticleExtraction `json:"articles"`
	Metrics     Metrics                      `json:"metrics"`
}

// Article returns the extraction for the given source tag. Missing sources
// yield a zero-valued extraction, which downstream stages treat as the
// designed empty case.
func (a *Analysis) Article(source string) ArticleExtraction {
	if a == nil || a.Articles == nil {
		return ArticleExtraction{}
	}
	return a.Articles[source]
}

// SanitizeExtraction normalizes model output in place. The model is an
// untrusted oracle: salience gets clamped to [0,1], unknown sentiment labels
// fall back to neutral, and entries with no usable content are dropped.
// Sanitization never fails; a fully degenerate extraction becomes empty.
func SanitizeExtraction(art *ArticleExtraction) {
	entities := art.Entities[:0]
	for _, ent := range art.Entities {
		ent.Name = strings.TrimSpace(ent.Name)
		if ent.Name == "" && len(ent.Aliases) == 0 {
			continue
		}
		if ent.Salience < 0 {
			ent.Salience = 0
		}
		if ent.Salience > 1 {
			ent.Salience = 1
		}
		ent.Sentiment = normalizeSentiment(ent.Sentiment)
		entities = append(entities, ent)
	}
	art.Entities = entities

	relations := art.Relations[:0]
	for _, rel := range art.Relations {
		rel.Subject = strings.TrimSpace(rel.Subject)
		rel.Predicate = strings.TrimSpace(rel.Predicate)
		rel.Object = strings.TrimSpace(rel.Object)
		if rel.Subject == "" && rel.Predicate == "" && rel.Object == "" {
			continue
		}
		relations = append(relations, rel)
	}
	art.Relations = relations

	claims := art.Claims[:0]
	for _, claim := range art.Claims {
		if strings.TrimSpace(claim.Summary) == "" {
			continue
		}
		claims = append(claims, claim)
	}
	art.Claims = claims

	art.Sentiment.Overall = normalizeSentiment(art.Sentiment.Overall)
	if art.Sentiment.Score < -1 {
		art.Sentiment.Score = -1
	}
	if art.Sentiment.Score > 1 {
		art.Sentiment.Score = 1
	}
}

func normalizeSentiment(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case SentimentPositive:
		return SentimentPositive
	case SentimentNegative:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}
