package ai

// ExtractPrompt is the system prompt for article extraction. The first
// verb is formatted with the source name ("Grokipedia" or "Wikipedia") so
// the model keeps the two articles apart.
const ExtractPrompt = `You are a careful analyst. Given one %s article, extract concise structured data.
Return strict JSON with keys: entities, relations, claims, sentiment.
- entities: up to 20 items {name, type, salience (0-1), sentiment in [positive, neutral, negative], aliases}.
- relations: up to 15 items {subject, predicate, object, evidence (short quote or clause)}.
- claims: up to 12 items {summary, stance (pro/neutral/con), evidence_snippet}.
- sentiment: {overall in [positive, neutral, negative], score between -1 and 1, notes}.
Keep text terse; do not invent facts beyond the article. Use the article wording for evidence snippets.`
