// Package aiclient builds the configured AI client from the environment.
// Both the server and the CLI go through FromEnv so they agree on the
// adapter selection and its settings.
package aiclient

import (
	"pairlens/internal/util"
	"pairlens/pkg/ai"
	oai "pairlens/pkg/ai/ollama"
	gai "pairlens/pkg/ai/openai"
)

// FromEnv constructs the AI client selected by AI_ADAPTER. The default is
// the OpenAI-compatible client; AI_ADAPTER=ollama selects the Ollama one.
func FromEnv() (ai.ExtractionAIClient, error) {
	adapter := util.GetEnv("AI_ADAPTER")

	switch adapter {
	case "ollama":
		return oai.NewExtractionOllamaClient(oai.NewExtractionOllamaClientParams{
			ExtractionModel: util.GetEnv("AI_EXTRACT_MODEL"),
			EmbeddingModel:  util.GetEnv("AI_EMBED_MODEL"),

			BaseURL: util.GetEnv("AI_CHAT_URL"),
			ApiKey:  util.GetEnv("AI_CHAT_KEY"),

			TimeoutMin:            int(util.GetEnvNumeric("AI_TIMEOUT_MIN", 5)),
			MaxConcurrentRequests: int64(util.GetEnvNumeric("AI_PARALLEL_REQ", 4)),
		})
	default:
		return gai.NewExtractionOpenAIClient(gai.NewExtractionOpenAIClientParams{
			ExtractionModel: util.GetEnv("AI_EXTRACT_MODEL"),
			EmbeddingModel:  util.GetEnv("AI_EMBED_MODEL"),

			ChatURL:      util.GetEnv("AI_CHAT_URL"),
			ChatKey:      util.GetEnv("AI_CHAT_KEY"),
			EmbeddingURL: util.GetEnv("AI_EMBED_URL"),
			EmbeddingKey: util.GetEnv("AI_EMBED_KEY"),

			TimeoutMin:            int(util.GetEnvNumeric("AI_TIMEOUT_MIN", 5)),
			MaxConcurrentRequests: int64(util.GetEnvNumeric("AI_PARALLEL_REQ", 4)),
		}), nil
	}
}
