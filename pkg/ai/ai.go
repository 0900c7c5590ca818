package ai

import "context"

// GenerateOptions holds configuration for AI generation requests.
type GenerateOptions struct {
	Model         string   // Model identifier to use for generation
	SystemPrompts []string // System prompts prepended to the request
	Temperature   float64  // Sampling temperature (0.0-2.0)
}

// GenerateOption is a functional option for configuring AI generation requests.
type GenerateOption func(*GenerateOptions)

// WithModel returns a GenerateOption that sets the model to use for generation.
func WithModel(model string) GenerateOption {
	return func(o *GenerateOptions) {
		o.Model = model
	}
}

// WithSystemPrompts returns a GenerateOption that sets the system prompts
// to prepend to the generation request.
func WithSystemPrompts(prompts ...string) GenerateOption {
	return func(o *GenerateOptions) {
		o.SystemPrompts = prompts
	}
}

// WithTemperature returns a GenerateOption that sets the sampling temperature.
// Lower values (e.g., 0.2) make outputs more focused and deterministic.
func WithTemperature(temp float64) GenerateOption {
	return func(o *GenerateOptions) {
		o.Temperature = temp
	}
}

// ModelMetrics contains accumulated usage metrics from AI model operations.
type ModelMetrics struct {
	InputTokens  int   `json:"input_tokens"`
	OutputTokens int   `json:"output_tokens"`
	TotalTokens  int   `json:"total_tokens"`
	DurationMs   int64 `json:"duration_ms"`
}

// ExtractionAIClient defines the AI operations the pipeline depends on:
// schema-constrained extraction and text embeddings. Implementations must
// enforce their own request timeouts; callers do not retry on their behalf.
type ExtractionAIClient interface {
	// GenerateCompletionWithFormat sends a prompt to the extraction model and
	// unmarshals the structured response into out, using a JSON schema derived
	// from out's type to constrain the output.
	GenerateCompletionWithFormat(
		ctx context.Context,
		name string,
		description string,
		prompt string,
		out any,
		opts ...GenerateOption,
	) error

	// GenerateEmbeddings embeds each input string and returns one vector per
	// input, in input order.
	GenerateEmbeddings(ctx context.Context, inputs []string) ([][]float32, error)

	// EmbeddingModel reports the embedding model identifier, recorded in
	// artifacts so regenerated output is traceable to the model that made it.
	EmbeddingModel() string

	ResetMetrics()
	GetMetrics() ModelMetrics
}
