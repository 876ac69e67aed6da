package ai

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// CompletionRequest is a single system+user exchange with a text model.
type CompletionRequest struct {
	Model       string
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int64
}

// Completion is the text reply and the tokens it cost.
type Completion struct {
	Text  string
	Usage TokenUsage
}

// TextClient generates text using a text model.
type TextClient interface {
	Complete(ctx context.Context, req CompletionRequest) (Completion, error)
}

// SoundClient synthesizes sound effects / ambiance from a text prompt.
type SoundClient interface {
	GenerateSound(ctx context.Context, req SoundGenerationRequest, w io.Writer) error
}

// NewTextClient constructs the text client for the named provider ("openai" or "gemini").
func NewTextClient(ctx context.Context, provider, apiKey, baseURL string) (TextClient, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", "openai":
		return New(apiKey, baseURL)
	case "gemini":
		return NewGemini(ctx, apiKey, baseURL)
	default:
		return nil, fmt.Errorf("unsupported text provider: %s", provider)
	}
}

var (
	_ TextClient  = (*Client)(nil)
	_ TextClient  = (*GeminiClient)(nil)
	_ SoundClient = (*ElevenLabsClient)(nil)
)
