package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const elevenLabsDefaultBaseURL = "https://api.elevenlabs.io"
const elevenLabsDefaultOutputFormat = "mp3_44100_128"

// ElevenLabsOption configures the ElevenLabs client.
type ElevenLabsOption func(*ElevenLabsClient)

// WithElevenLabsBaseURL sets the ElevenLabs API base URL.
func WithElevenLabsBaseURL(baseURL string) ElevenLabsOption {
	return func(c *ElevenLabsClient) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithElevenLabsHTTPClient sets the HTTP client used for requests.
func WithElevenLabsHTTPClient(client *http.Client) ElevenLabsOption {
	return func(c *ElevenLabsClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// ElevenLabsClient provides a thin wrapper for ElevenLabs API calls.
type ElevenLabsClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	sound      *ElevenLabsSoundGenerationService
}

// NewElevenLabs constructs a new ElevenLabs client. The apiKey is required.
func NewElevenLabs(apiKey string, opts ...ElevenLabsOption) (*ElevenLabsClient, error) {
	if apiKey == "" {
		return nil, errors.New("ELEVENLABS_API_KEY is required")
	}
	client := &ElevenLabsClient{
		apiKey:  apiKey,
		baseURL: elevenLabsDefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
	for _, opt := range opts {
		opt(client)
	}
	client.sound = &ElevenLabsSoundGenerationService{client: client}
	return client, nil
}

// SoundGeneration returns the sound-generation service.
func (c *ElevenLabsClient) SoundGeneration() *ElevenLabsSoundGenerationService {
	return c.sound
}

// SoundGenerationRequest is a request to generate a sound effect / ambiance clip.
type SoundGenerationRequest struct {
	Text            string
	DurationSeconds float64
	PromptInfluence float64
	OutputFormat    string
}

// ElevenLabsSoundGenerationService handles sound-generation requests.
type ElevenLabsSoundGenerationService struct {
	client *ElevenLabsClient
}

// Convert generates audio and returns a reader for the audio stream.
func (s *ElevenLabsSoundGenerationService) Convert(ctx context.Context, req *SoundGenerationRequest) (io.ReadCloser, error) {
	if req == nil {
		return nil, errors.New("request is required")
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, errors.New("text is required")
	}

	outputFormat := req.OutputFormat
	if outputFormat == "" {
		outputFormat = elevenLabsDefaultOutputFormat
	}

	endpoint, err := s.client.endpoint("/v1/sound-generation")
	if err != nil {
		return nil, err
	}
	query := endpoint.Query()
	query.Set("output_format", outputFormat)
	endpoint.RawQuery = query.Encode()

	body := struct {
		Text            string  `json:"text"`
		DurationSeconds float64 `json:"duration_seconds,omitempty"`
		PromptInfluence float64 `json:"prompt_influence"`
	}{
		Text:            req.Text,
		DurationSeconds: req.DurationSeconds,
		PromptInfluence: req.PromptInfluence,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("encode elevenlabs request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), &buf)
	if err != nil {
		return nil, fmt.Errorf("build elevenlabs request: %w", err)
	}
	httpReq.Header.Set("accept", "audio/mpeg")
	httpReq.Header.Set("content-type", "application/json")
	return s.client.do(httpReq)
}

// ConvertToWriter generates audio and writes the whole stream to the writer.
func (s *ElevenLabsSoundGenerationService) ConvertToWriter(ctx context.Context, req *SoundGenerationRequest, w io.Writer) error {
	reader, err := s.Convert(ctx, req)
	if err != nil {
		return err
	}
	defer reader.Close()
	_, err = io.Copy(w, reader)
	return err
}

// GenerateSound writes MP3 audio for the request to w.
func (c *ElevenLabsClient) GenerateSound(ctx context.Context, req SoundGenerationRequest, w io.Writer) error {
	return c.SoundGeneration().ConvertToWriter(ctx, &req, w)
}

// ElevenLabsSubscription is the subset of the /v1/user subscription block we report.
type ElevenLabsSubscription struct {
	Tier           string `json:"tier"`
	Status         string `json:"status"`
	CharacterCount int64  `json:"character_count"`
	CharacterLimit int64  `json:"character_limit"`
	NextResetUnix  int64  `json:"next_character_count_reset_unix"`
}

// ElevenLabsUser is the account returned by /v1/user.
type ElevenLabsUser struct {
	UserID       string                 `json:"user_id"`
	FirstName    string                 `json:"first_name"`
	Subscription ElevenLabsSubscription `json:"subscription"`
}

// User fetches the account bound to the API key. It is the cheapest authenticated call
// and is used to verify connectivity.
func (c *ElevenLabsClient) User(ctx context.Context) (*ElevenLabsUser, error) {
	endpoint, err := c.endpoint("/v1/user")
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build elevenlabs request: %w", err)
	}
	httpReq.Header.Set("accept", "application/json")
	body, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	var user ElevenLabsUser
	if err := json.NewDecoder(body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode elevenlabs user: %w", err)
	}
	return &user, nil
}

func (c *ElevenLabsClient) endpoint(p string) (*url.URL, error) {
	endpoint, err := url.Parse(strings.TrimRight(c.baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse elevenlabs base url: %w", err)
	}
	endpoint.Path = strings.TrimRight(endpoint.Path, "/") + p
	return endpoint, nil
}

func (c *ElevenLabsClient) do(httpReq *http.Request) (io.ReadCloser, error) {
	httpReq.Header.Set("xi-api-key", c.apiKey)
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		defer resp.Body.Close()
		errBody, _ := io.ReadAll(resp.Body)
		return nil, &ElevenLabsAPIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(errBody)),
		}
	}
	return resp.Body, nil
}

// ElevenLabsAPIError captures error details from ElevenLabs responses.
type ElevenLabsAPIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *ElevenLabsAPIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("elevenlabs api error: %s", e.Status)
	}
	return fmt.Sprintf("elevenlabs api error: %s: %s", e.Status, e.Body)
}
