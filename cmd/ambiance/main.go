package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"storia/internal/ai"
	"storia/internal/ambiance"
	"storia/internal/cli"
	cfgpkg "storia/internal/config"
)

var (
	stdout  io.Writer = os.Stdout
	stderr  io.Writer = os.Stderr
	environ           = os.Environ
	stdin             = func() io.Reader {
		if cli.StdinIsPiped(os.Stdin) {
			return os.Stdin
		}
		return nil
	}
	newTextClient = ambiance.ClientFor
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var text, file, envDir string
	var provider, model, logLevel cli.StringFlag
	fs := flag.NewFlagSet("ambiance", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&text, "text", "", "Text content to analyze")
	fs.StringVar(&file, "file", "", "File containing text content to analyze")
	fs.StringVar(&envDir, "env-dir", "", "Directory holding .env / .env.production (default $STORIA_ROOT or .)")
	fs.Var(&provider, "provider", "Text provider: openai, gemini")
	fs.Var(&model, "model", "Text model (default depends on provider)")
	fs.Var(&logLevel, "log-level", "Log level: debug, info, warn, error")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: ambiance [--text TEXT | --file PATH] [flags]\n\n")
		fmt.Fprintf(stderr, "Analyzes text for mood and setting and prints a JSON result.\n")
		fmt.Fprintf(stderr, "Reads stdin when neither --text nor --file is given.\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	cfg, err := cfgpkg.Load(cfgpkg.ResolveRoot(envDir), environ())
	if err != nil {
		cli.SetupLogger(stderr, logLevel.Value, "ambiance")
		slog.Error("config failed", "err", err)
		return 1
	}
	cfg = cfgpkg.Merge(cfg, cfgpkg.Overrides{
		TextProvider: provider.Ptr(),
		TextModel:    model.Ptr(),
		LogLevel:     logLevel.Ptr(),
	})
	cli.SetupLogger(stderr, cfg.LogLevel, "ambiance")
	if cfg.EnvFile != "" {
		slog.Info("loaded environment", "file", cfg.EnvFile)
	} else {
		slog.Warn("no .env file found")
	}

	content, err := cli.Input{Text: text, File: file, Stdin: stdin()}.Read()
	if err != nil {
		slog.Error("input failed", "err", err)
		if errors.Is(err, cli.ErrNoInput) {
			fs.Usage()
		}
		return 1
	}
	if content == "" {
		slog.Error("no text content provided")
		return 1
	}

	result := analyze(context.Background(), cfg, content)
	if err := json.NewEncoder(stdout).Encode(result); err != nil {
		slog.Error("write result failed", "err", err)
		return 1
	}
	return 0
}

func analyze(ctx context.Context, cfg cfgpkg.Config, text string) ambiance.Result {
	var client ai.TextClient
	if cfgpkg.ValidateForAnalysis(cfg) == nil {
		c, err := newTextClient(ctx, cfg)
		if err != nil {
			slog.Error("failed to create text client", "err", err)
			return ambiance.Failed(fmt.Sprintf("failed to create %s client: %v", cfg.TextProvider, err))
		}
		client = c
	}
	result := ambiance.NewAnalyzer(cfg, client).Analyze(ctx, text)
	slog.Info("ambiance prompt generated", "prompt", result.AmbiancePrompt, "hasError", result.Error != "")
	return result
}
