package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"storia/internal/ambiance"
	"storia/internal/paths"
	"storia/internal/soundgen"
)

type fakeAnalyzer struct {
	result ambiance.Result
	text   string
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, text string) ambiance.Result {
	f.text = text
	return f.result
}

type fakeSynth struct {
	audio []byte
	err   error
	req   soundgen.Request
	calls int
}

func (f *fakeSynth) Generate(ctx context.Context, req soundgen.Request) ([]byte, error) {
	f.calls++
	f.req = req
	return f.audio, f.err
}

type fakeSink struct {
	dest paths.Destination
	data []byte
	err  error
}

func (f *fakeSink) Deliver(ctx context.Context, dest paths.Destination, data []byte) error {
	f.dest = dest
	f.data = data
	return f.err
}

func newTestServer() (*Server, *fakeAnalyzer, *fakeSynth, *fakeSink) {
	a := &fakeAnalyzer{result: ambiance.Result{Mood: "eerie", Setting: "crypt", AmbiancePrompt: "dripping water and low drones"}}
	sy := &fakeSynth{audio: []byte("mp3")}
	sk := &fakeSink{}
	return New("test", a, sy, sk), a, sy, sk
}

func call(args map[string]interface{}) mcp.CallToolRequest {
	request := mcp.CallToolRequest{}
	request.Params.Arguments = args
	return request
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatalf("expected content in result")
	}
	content, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return content.Text
}

func TestNew(t *testing.T) {
	srv, _, _, _ := newTestServer()
	if srv.mcpServer == nil {
		t.Fatal("expected mcpServer to be initialized")
	}
}

func TestHandleAnalyze(t *testing.T) {
	srv, a, _, _ := newTestServer()
	result, err := srv.handleAnalyze(context.Background(), call(map[string]interface{}{"text": "The crypt was silent."}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got %s", textOf(t, result))
	}
	var got map[string]any
	if err := json.Unmarshal([]byte(textOf(t, result)), &got); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if got["mood"] != "eerie" || a.text != "The crypt was silent." {
		t.Fatalf("unexpected result: %v", got)
	}
	if sounds, ok := got["ambient_sounds"].([]any); !ok || len(sounds) != 0 {
		t.Fatalf("ambient_sounds should be an empty array, got %v", got["ambient_sounds"])
	}
}

func TestHandleAnalyzeMissingText(t *testing.T) {
	srv, _, _, _ := newTestServer()
	result, err := srv.handleAnalyze(context.Background(), call(map[string]interface{}{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError || !strings.Contains(textOf(t, result), "text parameter is required") {
		t.Fatalf("expected tool error, got %+v", result)
	}
}

func TestHandleGenerate(t *testing.T) {
	srv, _, sy, sk := newTestServer()
	result, err := srv.handleGenerate(context.Background(), call(map[string]interface{}{
		"prompt":   "rain on leaves",
		"output":   "/tmp/rain.mp3",
		"duration": 4.5,
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got %s", textOf(t, result))
	}
	if sy.req.DurationSeconds != 4.5 || sy.req.PromptInfluence != soundgen.DefaultInfluence {
		t.Fatalf("unexpected request: %+v", sy.req)
	}
	if sk.dest.Kind != paths.File || sk.dest.Path != "/tmp/rain.mp3" || string(sk.data) != "mp3" {
		t.Fatalf("unexpected delivery: %+v", sk.dest)
	}
	if !strings.Contains(textOf(t, result), `"bytes": 3`) {
		t.Fatalf("summary missing byte count: %s", textOf(t, result))
	}
}

func TestHandleGenerateRejectsBadArguments(t *testing.T) {
	cases := map[string]map[string]interface{}{
		"missing prompt":   {"output": "/tmp/a.mp3"},
		"missing output":   {"prompt": "rain"},
		"stdout output":    {"prompt": "rain", "output": "-"},
		"bad s3":           {"prompt": "rain", "output": "s3://bucket"},
		"duration too big": {"prompt": "rain", "output": "/tmp/a.mp3", "duration": 31.0},
		"influence high":   {"prompt": "rain", "output": "/tmp/a.mp3", "influence": 1.5},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			srv, _, sy, _ := newTestServer()
			result, err := srv.handleGenerate(context.Background(), call(args))
			if err != nil {
				t.Fatalf("handlers should not return Go errors: %v", err)
			}
			if !result.IsError {
				t.Fatalf("expected tool error")
			}
			if sy.calls != 0 {
				t.Fatalf("expected no synthesis, got %d calls", sy.calls)
			}
		})
	}
}

func TestHandleGenerateSynthesisFailure(t *testing.T) {
	srv, _, sy, _ := newTestServer()
	sy.err = errors.New("quota exceeded")
	result, err := srv.handleGenerate(context.Background(), call(map[string]interface{}{"prompt": "rain", "output": "s3://b/k.mp3"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError || !strings.Contains(textOf(t, result), "quota exceeded") {
		t.Fatalf("expected synthesis error, got %s", textOf(t, result))
	}
}

func TestHandleFromText(t *testing.T) {
	srv, _, sy, sk := newTestServer()
	result, err := srv.handleFromText(context.Background(), call(map[string]interface{}{"text": "Water dripped in the dark.", "output": "s3://clips/crypt.mp3"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got %s", textOf(t, result))
	}
	if sy.req.Prompt != "dripping water and low drones" {
		t.Fatalf("analysis prompt not used: %q", sy.req.Prompt)
	}
	if sk.dest.Bucket != "clips" || sk.dest.Key != "crypt.mp3" {
		t.Fatalf("unexpected destination: %+v", sk.dest)
	}
}

func TestHandleFromTextAnalysisFailure(t *testing.T) {
	srv, a, sy, _ := newTestServer()
	a.result = ambiance.Failed("OPENAI_API_KEY not found in environment variables")
	result, err := srv.handleFromText(context.Background(), call(map[string]interface{}{"text": "Water dripped in the dark.", "output": "/tmp/x.mp3"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError || sy.calls != 0 {
		t.Fatalf("expected tool error without synthesis")
	}
}
