package ai

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// GeminiClient implements TextClient over the unified Google GenAI SDK.
type GeminiClient struct {
	sdk *genai.Client
}

// NewGemini constructs a Gemini text client. The apiKey is required.
// baseURL is optional and replaces the default Gemini API endpoint.
func NewGemini(ctx context.Context, apiKey, baseURL string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is required")
	}
	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	sdk, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiClient{sdk: sdk}, nil
}

// Complete sends the prompt with the system text as the system instruction.
func (c *GeminiClient) Complete(ctx context.Context, req CompletionRequest) (Completion, error) {
	gc := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
	}
	if req.Temperature > 0 {
		temp := float32(req.Temperature)
		gc.Temperature = &temp
	}
	if req.MaxTokens > 0 {
		gc.MaxOutputTokens = int32(req.MaxTokens)
	}
	res, err := c.sdk.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), gc)
	if err != nil {
		return Completion{}, err
	}
	text := res.Text()
	if text == "" {
		return Completion{}, errors.New("gemini returned no text")
	}
	return Completion{Text: text, Usage: usageFromGemini(res.UsageMetadata)}, nil
}
