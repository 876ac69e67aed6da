package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"storia/internal/cli"
	cfgpkg "storia/internal/config"
	"storia/internal/paths"
	"storia/internal/soundgen"
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
	newSoundClient = soundgen.ClientFor
	newUploader    = soundgen.S3Uploaders
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var prompt, output, envDir string
	var duration, influence float64
	var overwrite bool
	var logLevel cli.StringFlag
	fs := flag.NewFlagSet("musicgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&prompt, "prompt", "", "Text prompt describing the ambiance (default: read stdin)")
	fs.Float64Var(&duration, "duration", soundgen.DefaultDuration, "Clip length in seconds (0.5-30)")
	fs.Float64Var(&influence, "influence", soundgen.DefaultInfluence, "Prompt influence (0.0-1.0)")
	fs.StringVar(&output, "output", "", "Output file path or s3://bucket/key (default: stdout)")
	fs.BoolVar(&overwrite, "overwrite", true, "Overwrite an existing output file")
	fs.StringVar(&envDir, "env-dir", "", "Directory holding .env / .env.production (default $STORIA_ROOT or .)")
	fs.Var(&logLevel, "log-level", "Log level: debug, info, warn, error")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: musicgen [--prompt TEXT] [flags]\n\n")
		fmt.Fprintf(stderr, "Generates MP3 ambiance from a text prompt.\n")
		fmt.Fprintf(stderr, "Audio goes to stdout unless --output is given.\n\n")
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
		cli.SetupLogger(stderr, logLevel.Value, "musicgen")
		slog.Error("config failed", "err", err)
		return 1
	}
	cfg = cfgpkg.Merge(cfg, cfgpkg.Overrides{LogLevel: logLevel.Ptr()})
	cli.SetupLogger(stderr, cfg.LogLevel, "musicgen")

	if err := generate(context.Background(), cfg, prompt, duration, influence, output, overwrite); err != nil {
		slog.Error("musicgen failed", "err", err)
		return 1
	}
	return 0
}

func generate(ctx context.Context, cfg cfgpkg.Config, prompt string, duration, influence float64, output string, overwrite bool) error {
	dest, err := paths.ParseDestination(output)
	if err != nil {
		return err
	}
	if prompt == "" {
		in := stdin()
		if in == nil {
			return errors.New("no prompt provided (no --prompt or stdin)")
		}
		b, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		prompt = strings.TrimSpace(string(b))
	}
	req := soundgen.Request{Prompt: prompt, DurationSeconds: duration, PromptInfluence: influence}
	if err := req.Validate(); err != nil {
		return err
	}
	if err := cfgpkg.ValidateForSynthesis(cfg); err != nil {
		return err
	}

	client, err := newSoundClient(cfg)
	if err != nil {
		return fmt.Errorf("create sound client: %w", err)
	}
	audio, err := soundgen.NewSynthesizer(cfg, client).Generate(ctx, req)
	if err != nil {
		return err
	}

	sink := soundgen.Sink{
		Stdout:      stdout,
		Overwrite:   overwrite,
		NewUploader: newUploader(cfg.Region, cfg.S3Prefix),
	}
	return sink.Deliver(ctx, dest, audio)
}
