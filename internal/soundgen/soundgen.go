// Package soundgen turns an ambiance prompt into audio bytes and delivers them.
package soundgen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"storia/internal/ai"
	"storia/internal/config"
)

const (
	DefaultDuration  = 15.0
	DefaultInfluence = 0.7

	// MinDuration and MaxDuration bound what the sound-generation endpoint accepts.
	MinDuration = 0.5
	MaxDuration = 30.0
)

var (
	ErrInvalidRequest = errors.New("invalid synthesis request")
	ErrNoAudio        = errors.New("no audio data received")
)

// Request describes one clip to synthesize.
type Request struct {
	Prompt          string
	DurationSeconds float64
	PromptInfluence float64
}

// Validate checks the request against the provider's accepted ranges.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return fmt.Errorf("%w: prompt is required", ErrInvalidRequest)
	}
	if math.IsNaN(r.DurationSeconds) || r.DurationSeconds < MinDuration || r.DurationSeconds > MaxDuration {
		return fmt.Errorf("%w: duration must be between %.1f and %.1f seconds, got %v", ErrInvalidRequest, MinDuration, MaxDuration, r.DurationSeconds)
	}
	if math.IsNaN(r.PromptInfluence) || r.PromptInfluence < 0 || r.PromptInfluence > 1 {
		return fmt.Errorf("%w: influence must be between 0.0 and 1.0, got %v", ErrInvalidRequest, r.PromptInfluence)
	}
	return nil
}

// Synthesizer requests generated ambiance from a sound client.
type Synthesizer struct {
	client      ai.SoundClient
	unavailable error
}

// NewSynthesizer builds a synthesizer for cfg. client may be nil when cfg has no
// ELEVENLABS_API_KEY; Generate then fails without any request.
func NewSynthesizer(cfg config.Config, client ai.SoundClient) *Synthesizer {
	s := &Synthesizer{client: client}
	if err := config.ValidateForSynthesis(cfg); err != nil {
		s.unavailable = err
	} else if client == nil {
		s.unavailable = errors.New("sound client is not configured")
	}
	return s
}

// Generate returns the complete audio clip for req, or nil and an error.
func (s *Synthesizer) Generate(ctx context.Context, req Request) ([]byte, error) {
	if s.unavailable != nil {
		return nil, s.unavailable
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	slog.Info("synthesis start", "prompt", req.Prompt, "duration", req.DurationSeconds, "influence", req.PromptInfluence)

	var buf bytes.Buffer
	err := s.client.GenerateSound(ctx, ai.SoundGenerationRequest{
		Text:            req.Prompt,
		DurationSeconds: req.DurationSeconds,
		PromptInfluence: req.PromptInfluence,
	}, &buf)
	if err != nil {
		return nil, fmt.Errorf("generate sound: %w", err)
	}
	if buf.Len() == 0 {
		return nil, ErrNoAudio
	}
	slog.Info("synthesis complete", "bytes", buf.Len())
	return buf.Bytes(), nil
}

// ClientFor builds the ElevenLabs sound client for cfg.
func ClientFor(cfg config.Config) (ai.SoundClient, error) {
	return ai.NewElevenLabs(cfg.ElevenLabsAPIKey, ai.WithElevenLabsBaseURL(cfg.ElevenLabsBaseURL))
}
