// Package mcpserver exposes ambiance analysis and synthesis as MCP tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"storia/internal/ambiance"
	"storia/internal/paths"
	"storia/internal/soundgen"
)

// Analyzer turns narrative text into an ambiance result.
type Analyzer interface {
	Analyze(ctx context.Context, text string) ambiance.Result
}

// Synthesizer renders a prompt to audio.
type Synthesizer interface {
	Generate(ctx context.Context, req soundgen.Request) ([]byte, error)
}

// Deliverer stores audio at a destination.
type Deliverer interface {
	Deliver(ctx context.Context, dest paths.Destination, data []byte) error
}

// Server wraps the MCP server and the ambiance pipeline behind it.
type Server struct {
	mcpServer *server.MCPServer
	analyzer  Analyzer
	synth     Synthesizer
	sink      Deliverer
}

// New registers the ambiance tools on a fresh MCP server.
func New(version string, analyzer Analyzer, synth Synthesizer, sink Deliverer) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer("storia", version, server.WithToolCapabilities(true)),
		analyzer:  analyzer,
		synth:     synth,
		sink:      sink,
	}
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	analyzeTool := mcp.NewTool("analyze_ambiance",
		mcp.WithDescription("Analyze a story passage and return its mood, setting, ambient sounds and an ambiance prompt as JSON."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Narrative text to analyze (first 4000 characters are used)"),
		),
	)
	s.mcpServer.AddTool(analyzeTool, s.handleAnalyze)

	generateTool := mcp.NewTool("generate_ambiance_audio",
		mcp.WithDescription("Generate an MP3 ambiance clip from a text prompt and save it to a file or s3://bucket/key."),
		mcp.WithString("prompt", mcp.Required(), mcp.Description("Description of the soundscape")),
		mcp.WithString("output", mcp.Required(), mcp.Description("Output file path or s3://bucket/key")),
		mcp.WithNumber("duration", mcp.Description("Clip length in seconds, 0.5-30 (default 15)")),
		mcp.WithNumber("influence", mcp.Description("Prompt influence, 0.0-1.0 (default 0.7)")),
	)
	s.mcpServer.AddTool(generateTool, s.handleGenerate)

	pipelineTool := mcp.NewTool("ambiance_from_text",
		mcp.WithDescription("Analyze a story passage, then generate ambiance audio for it."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Narrative text to analyze")),
		mcp.WithString("output", mcp.Required(), mcp.Description("Output file path or s3://bucket/key")),
		mcp.WithNumber("duration", mcp.Description("Clip length in seconds, 0.5-30 (default 15)")),
		mcp.WithNumber("influence", mcp.Description("Prompt influence, 0.0-1.0 (default 0.7)")),
	)
	s.mcpServer.AddTool(pipelineTool, s.handleFromText)
}

func (s *Server) handleAnalyze(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, ok := request.Params.Arguments["text"].(string)
	if !ok || strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("text parameter is required"), nil
	}
	return jsonResult(s.analyzer.Analyze(ctx, text))
}

func (s *Server) handleGenerate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt, ok := request.Params.Arguments["prompt"].(string)
	if !ok || strings.TrimSpace(prompt) == "" {
		return mcp.NewToolResultError("prompt parameter is required"), nil
	}
	return s.synthesize(ctx, request, prompt)
}

func (s *Server) handleFromText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, ok := request.Params.Arguments["text"].(string)
	if !ok || strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("text parameter is required"), nil
	}
	result := s.analyzer.Analyze(ctx, text)
	if result.Error != "" {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %s", result.Error)), nil
	}
	return s.synthesize(ctx, request, result.AmbiancePrompt)
}

type audioSummary struct {
	Prompt      string  `json:"prompt"`
	Destination string  `json:"destination"`
	Bytes       int     `json:"bytes"`
	Duration    float64 `json:"duration_seconds"`
	Influence   float64 `json:"prompt_influence"`
}

func (s *Server) synthesize(ctx context.Context, request mcp.CallToolRequest, prompt string) (*mcp.CallToolResult, error) {
	output, _ := request.Params.Arguments["output"].(string)
	dest, err := paths.ParseDestination(output)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	// stdout carries the protocol itself
	if dest.Kind == paths.Stdout {
		return mcp.NewToolResultError("output parameter must be a file path or s3://bucket/key"), nil
	}
	req := soundgen.Request{
		Prompt:          prompt,
		DurationSeconds: number(request, "duration", soundgen.DefaultDuration),
		PromptInfluence: number(request, "influence", soundgen.DefaultInfluence),
	}
	if err := req.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	audio, err := s.synth.Generate(ctx, req)
	if err != nil {
		slog.Error("mcp synthesis failed", "err", err)
		return mcp.NewToolResultError(fmt.Sprintf("failed to generate audio: %v", err)), nil
	}
	if err := s.sink.Deliver(ctx, dest, audio); err != nil {
		slog.Error("mcp delivery failed", "err", err)
		return mcp.NewToolResultError(fmt.Sprintf("failed to save audio: %v", err)), nil
	}
	return jsonResult(audioSummary{
		Prompt:      prompt,
		Destination: dest.String(),
		Bytes:       len(audio),
		Duration:    req.DurationSeconds,
		Influence:   req.PromptInfluence,
	})
}

// number returns the numeric argument name, or def when it is absent or not a number.
func number(request mcp.CallToolRequest, name string, def float64) float64 {
	switch v := request.Params.Arguments[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return def
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// Start serves MCP requests on stdin/stdout until the client disconnects.
func (s *Server) Start() error {
	return server.ServeStdio(s.mcpServer)
}
