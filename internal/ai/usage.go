package ai

import (
	openai "github.com/openai/openai-go/v3"
	"google.golang.org/genai"
)

// TokenUsage captures token usage returned by a text provider.
type TokenUsage struct {
	InputTokens     int64
	OutputTokens    int64
	TotalTokens     int64
	CachedTokens    int64
	ReasoningTokens int64
}

func usageFromChatCompletion(usage openai.CompletionUsage) TokenUsage {
	return TokenUsage{
		InputTokens:     usage.PromptTokens,
		OutputTokens:    usage.CompletionTokens,
		TotalTokens:     usage.TotalTokens,
		CachedTokens:    usage.PromptTokensDetails.CachedTokens,
		ReasoningTokens: usage.CompletionTokensDetails.ReasoningTokens,
	}
}

func usageFromGemini(usage *genai.GenerateContentResponseUsageMetadata) TokenUsage {
	if usage == nil {
		return TokenUsage{}
	}
	return TokenUsage{
		InputTokens:     int64(usage.PromptTokenCount),
		OutputTokens:    int64(usage.CandidatesTokenCount),
		TotalTokens:     int64(usage.TotalTokenCount),
		CachedTokens:    int64(usage.CachedContentTokenCount),
		ReasoningTokens: int64(usage.ThoughtsTokenCount),
	}
}
