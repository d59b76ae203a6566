package driven

import "context"

// LLMService provides text generation for answer synthesis.
//
// Failure kinds are distinguishable through error wrapping:
// domain.ErrGenerationUnavailable for infrastructure failures (network,
// quota) and domain.ErrGenerationBlocked for content-safety refusals.
// The orchestrator presents different user-facing messages for each.
//
// A successful call may still return empty text (degenerate output);
// that is not an error.
type LLMService interface {
	// Generate produces text from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the generation model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64

	// MaxTokens is the maximum output length in tokens.
	MaxTokens int
}
