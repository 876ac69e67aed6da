package soundgen

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"testing"

	"storia/internal/ai"
	"storia/internal/config"
)

type fakeSoundClient struct {
	chunks  [][]byte
	err     error
	calls   int
	lastReq ai.SoundGenerationRequest
}

func (f *fakeSoundClient) GenerateSound(ctx context.Context, req ai.SoundGenerationRequest, w io.Writer) error {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return f.err
	}
	for _, c := range f.chunks {
		if _, err := w.Write(c); err != nil {
			return err
		}
	}
	return nil
}

func validRequest() Request {
	return Request{Prompt: "rain on a tin roof", DurationSeconds: DefaultDuration, PromptInfluence: DefaultInfluence}
}

func TestGenerateConcatenatesChunks(t *testing.T) {
	fake := &fakeSoundClient{chunks: [][]byte{[]byte("ID3"), []byte{0x00, 0xff}, []byte("tail")}}
	s := NewSynthesizer(config.Config{ElevenLabsAPIKey: "xi"}, fake)

	data, err := s.Generate(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	want := []byte{'I', 'D', '3', 0x00, 0xff, 't', 'a', 'i', 'l'}
	if !bytes.Equal(data, want) {
		t.Fatalf("audio mismatch: %v", data)
	}
	if fake.lastReq.Text != "rain on a tin roof" || fake.lastReq.DurationSeconds != 15 || fake.lastReq.PromptInfluence != 0.7 {
		t.Fatalf("request not forwarded: %+v", fake.lastReq)
	}
}

func TestGenerateMissingCredentialSkipsRequest(t *testing.T) {
	fake := &fakeSoundClient{chunks: [][]byte{[]byte("x")}}
	data, err := NewSynthesizer(config.Config{}, fake).Generate(context.Background(), validRequest())
	if !errors.Is(err, config.ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
	if data != nil {
		t.Fatalf("expected no data")
	}
	if fake.calls != 0 {
		t.Fatalf("expected no requests, got %d", fake.calls)
	}
}

func TestGenerateRejectsInvalidRequest(t *testing.T) {
	fake := &fakeSoundClient{chunks: [][]byte{[]byte("x")}}
	s := NewSynthesizer(config.Config{ElevenLabsAPIKey: "xi"}, fake)

	bad := []Request{
		{Prompt: "  ", DurationSeconds: 5, PromptInfluence: 0.5},
		{Prompt: "wind", DurationSeconds: 0, PromptInfluence: 0.5},
		{Prompt: "wind", DurationSeconds: 31, PromptInfluence: 0.5},
		{Prompt: "wind", DurationSeconds: 5, PromptInfluence: -0.1},
		{Prompt: "wind", DurationSeconds: 5, PromptInfluence: 1.5},
		{Prompt: "wind", DurationSeconds: math.NaN(), PromptInfluence: 0.5},
	}
	for _, req := range bad {
		if _, err := s.Generate(context.Background(), req); !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("expected ErrInvalidRequest for %+v, got %v", req, err)
		}
	}
	if fake.calls != 0 {
		t.Fatalf("expected no requests, got %d", fake.calls)
	}

	edges := []Request{
		{Prompt: "wind", DurationSeconds: MinDuration, PromptInfluence: 0},
		{Prompt: "wind", DurationSeconds: MaxDuration, PromptInfluence: 1},
	}
	for _, req := range edges {
		if err := req.Validate(); err != nil {
			t.Fatalf("edge request should be valid: %+v: %v", req, err)
		}
	}
}

func TestGenerateServiceFailure(t *testing.T) {
	fake := &fakeSoundClient{err: &ai.ElevenLabsAPIError{StatusCode: 500, Status: "500 Internal Server Error"}}
	data, err := NewSynthesizer(config.Config{ElevenLabsAPIKey: "xi"}, fake).Generate(context.Background(), validRequest())
	var apiErr *ai.ElevenLabsAPIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected wrapped ElevenLabsAPIError, got %v", err)
	}
	if data != nil {
		t.Fatalf("expected no data on failure")
	}
}

func TestGenerateEmptyAudio(t *testing.T) {
	fake := &fakeSoundClient{}
	_, err := NewSynthesizer(config.Config{ElevenLabsAPIKey: "xi"}, fake).Generate(context.Background(), validRequest())
	if !errors.Is(err, ErrNoAudio) {
		t.Fatalf("expected ErrNoAudio, got %v", err)
	}
}
