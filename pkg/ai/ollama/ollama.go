// Package ollama implements ai.ExtractionAIClient against a locally-hosted
// Ollama server. Selected with AI_ADAPTER=ollama.
package ollama

import (
	"net/http"
	"net/url"
	"sync"

	"pairlens/pkg/ai"

	"github.com/ollama/ollama/api"
	"golang.org/x/sync/semaphore"
)

// ExtractionOllamaClient is an Ollama-backed AI client supporting
// schema-constrained extraction and embeddings.
type ExtractionOllamaClient struct {
	extractionModel string
	embeddingModel  string

	timeoutMin int
	reqLock    *semaphore.Weighted

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	baseURL *url.URL
	apiKey  string

	Client *api.Client
}

// NewExtractionOllamaClientParams configures a new ExtractionOllamaClient.
type NewExtractionOllamaClientParams struct {
	ExtractionModel string
	EmbeddingModel  string

	BaseURL string
	ApiKey  string

	TimeoutMin            int
	MaxConcurrentRequests int64
}

type headerTransport struct {
	headers map[string]string
	rt      http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone so original request isn't modified
	r := req.Clone(req.Context())
	for k, v := range t.headers {
		if r.Header.Get(k) == "" {
			r.Header.Set(k, v)
		}
	}
	return t.rt.RoundTrip(r)
}

// NewExtractionOllamaClient creates a client for the Ollama server at
// BaseURL (or the default local server if empty).
func NewExtractionOllamaClient(params NewExtractionOllamaClientParams) (*ExtractionOllamaClient, error) {
	var (
		u   *url.URL
		err error
	)
	if params.BaseURL != "" {
		u, err = url.Parse(params.BaseURL)
		if err != nil {
			return nil, err
		}
	}

	httpClient := &http.Client{
		Transport: &headerTransport{
			headers: map[string]string{
				"Authorization": "Bearer " + params.ApiKey,
			},
			rt: http.DefaultTransport,
		},
	}

	timeoutMin := params.TimeoutMin
	if timeoutMin <= 0 {
		timeoutMin = 5
	}
	maxReq := params.MaxConcurrentRequests
	if maxReq <= 0 {
		maxReq = 4
	}

	return &ExtractionOllamaClient{
		extractionModel: params.ExtractionModel,
		embeddingModel:  params.EmbeddingModel,

		timeoutMin: timeoutMin,
		reqLock:    semaphore.NewWeighted(maxReq),

		baseURL: u,
		apiKey:  params.ApiKey,

		Client: api.NewClient(u, httpClient),
	}, nil
}
