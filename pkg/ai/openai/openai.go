// Package openai implements ai.ExtractionAIClient on top of the OpenAI API
// (or any OpenAI-compatible endpoint). Extraction and embeddings may talk to
// different endpoints with different credentials.
package openai

import (
	"sync"

	"pairlens/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"golang.org/x/sync/semaphore"
)

// ExtractionOpenAIClient is an OpenAI-backed AI client. It manages separate
// clients for chat extraction and embeddings, bounded by a shared request
// semaphore and a per-request timeout.
type ExtractionOpenAIClient struct {
	extractionModel string
	embeddingModel  string

	chatURL      string
	embeddingURL string

	timeoutMin int
	reqLock    *semaphore.Weighted

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	ChatClient      *openai.Client
	EmbeddingClient *openai.Client
}

// NewExtractionOpenAIClientParams configures a new ExtractionOpenAIClient.
//
// ExtractionModel and EmbeddingModel select the models to use. ChatURL/ChatKey
// and EmbeddingURL/EmbeddingKey configure the two endpoints; empty URLs fall
// back to the official API. TimeoutMin bounds each request in minutes and
// MaxConcurrentRequests bounds in-flight requests.
type NewExtractionOpenAIClientParams struct {
	ExtractionModel string
	EmbeddingModel  string

	ChatURL      string
	ChatKey      string
	EmbeddingURL string
	EmbeddingKey string

	TimeoutMin            int
	MaxConcurrentRequests int64
}

// NewExtractionOpenAIClient creates a client from the given parameters.
func NewExtractionOpenAIClient(params NewExtractionOpenAIClientParams) *ExtractionOpenAIClient {
	timeoutMin := params.TimeoutMin
	if timeoutMin <= 0 {
		timeoutMin = 5
	}
	maxReq := params.MaxConcurrentRequests
	if maxReq <= 0 {
		maxReq = 4
	}

	return &ExtractionOpenAIClient{
		extractionModel: params.ExtractionModel,
		embeddingModel:  params.EmbeddingModel,

		chatURL:      params.ChatURL,
		embeddingURL: params.EmbeddingURL,

		timeoutMin: timeoutMin,
		reqLock:    semaphore.NewWeighted(maxReq),

		ChatClient:      newOpenaiClient(params.ChatURL, params.ChatKey),
		EmbeddingClient: newOpenaiClient(params.EmbeddingURL, params.EmbeddingKey),
	}
}

func newOpenaiClient(baseURL string, apiKey string) *openai.Client {
	if apiKey == "" {
		return nil
	}
	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(options...)

	return &client
}
