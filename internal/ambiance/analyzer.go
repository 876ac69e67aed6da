package ambiance

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"slices"
	"strings"
	"unicode/utf8"

	"storia/internal/ai"
	"storia/internal/config"
)

// Analyzer extracts mood, setting, and an ambiance prompt from narrative text.
type Analyzer struct {
	client   ai.TextClient
	provider string
	model    string
	// unavailable is set when the analyzer cannot reach a provider (e.g. no credential).
	unavailable error
}

// NewAnalyzer builds an analyzer for cfg. client may be nil when cfg has no usable
// credential; Analyze then returns the neutral placeholder without any request.
func NewAnalyzer(cfg config.Config, client ai.TextClient) *Analyzer {
	a := &Analyzer{
		client:   client,
		provider: cfg.TextProvider,
		model:    cfg.ResolvedTextModel(),
	}
	if err := config.ValidateForAnalysis(cfg); err != nil {
		a.unavailable = err
	} else if client == nil {
		a.unavailable = errors.New("text client is not configured")
	}
	return a
}

// Analyze never fails: degenerate input, missing credentials, and service errors all
// produce the neutral placeholder, the latter two with Error set.
func (a *Analyzer) Analyze(ctx context.Context, text string) Result {
	slog.Info("analysis start", "length", utf8.RuneCountInString(text), "provider", a.provider, "model", a.model)
	if utf8.RuneCountInString(strings.TrimSpace(text)) < MinInputChars {
		slog.Warn("text too short for analysis")
		return Neutral()
	}
	text = Truncate(text, MaxInputChars)

	if a.unavailable != nil {
		reason := a.unavailable.Error()
		if errors.Is(a.unavailable, config.ErrMissingCredential) {
			reason = config.CredentialMessage(a.unavailable)
		}
		slog.Error("analysis unavailable", "err", reason)
		return Failed(reason)
	}

	completion, err := a.client.Complete(ctx, ai.CompletionRequest{
		Model:       a.model,
		System:      systemPrompt,
		Prompt:      text,
		Temperature: temperature,
		MaxTokens:   maxOutputTokens,
	})
	if err != nil {
		slog.Error("analysis request failed", "err", err, "stack", string(debug.Stack()))
		return Failed(err.Error())
	}
	slog.Debug("analysis reply", "reply", completion.Text)

	result, matched := parseReply(completion.Text)
	if !slices.Contains(matched, promptRule) {
		slog.Warn("could not extract structured prompt, using full reply")
	}
	slog.Info(
		"analysis complete",
		"mood", result.Mood,
		"setting", result.Setting,
		"ambientSounds", len(result.AmbientSounds),
		"matched", matched,
		"inputTokens", completion.Usage.InputTokens,
		"outputTokens", completion.Usage.OutputTokens,
		"totalTokens", completion.Usage.TotalTokens,
	)
	return result
}

// Truncate cuts text to max runes and appends "..." when anything was removed.
func Truncate(text string, max int) string {
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	slog.Info("text truncated", "maxChars", max)
	return string(runes[:max]) + "..."
}

// ClientFor builds the text client selected by cfg.
func ClientFor(ctx context.Context, cfg config.Config) (ai.TextClient, error) {
	_, key := cfg.TextCredential()
	baseURL := cfg.OpenAIBaseURL
	if cfg.TextProvider == config.ProviderGemini {
		baseURL = cfg.GeminiBaseURL
	}
	return ai.NewTextClient(ctx, cfg.TextProvider, key, baseURL)
}
