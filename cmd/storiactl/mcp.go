package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"

	"storia/internal/ambiance"
	"storia/internal/mcpserver"
	"storia/internal/soundgen"
)

var serveMCP = func(s *mcpserver.Server) error { return s.Start() }

// storiactl mcp
func cmdMCP(args []string) error {
	var cf commonFlags
	var overwrite bool
	fs := newFlagSet("mcp")
	addCommonFlags(fs, &cf)
	fs.BoolVar(&overwrite, "overwrite", true, "Allow tools to overwrite existing files")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	cfg, _, err := loadConfig("mcp", cf)
	if err != nil {
		return err
	}
	ctx := context.Background()

	// Tools still register without credentials and report the problem per call.
	analyzer, err := buildAnalyzer(ctx, cfg)
	if err != nil {
		slog.Warn("analysis unavailable", "err", err)
		analyzer = ambiance.NewAnalyzer(cfg, nil)
	}
	synth, err := buildSynthesizer(cfg)
	if err != nil {
		slog.Warn("synthesis unavailable", "err", err)
		synth = soundgen.NewSynthesizer(cfg, nil)
	}
	sink := soundgen.Sink{Overwrite: overwrite, NewUploader: newUploader(cfg.Region, cfg.S3Prefix)}

	slog.Info("serving mcp on stdio", "version", version)
	return serveMCP(mcpserver.New(version, analyzer, synth, sink))
}
