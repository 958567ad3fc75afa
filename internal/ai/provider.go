package ai

import "context"

// LLMProvider sends one analysis request to a remote model and returns the
// raw response text. Implementations make exactly one call, never retry, and
// report every failure as *model.ProviderError.
type LLMProvider interface {
	Name() string
	Generate(ctx context.Context, apiKey string, req *Request) (string, error)
}
