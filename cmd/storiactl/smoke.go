package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"storia/internal/ambiance"
	cfgpkg "storia/internal/config"
	"storia/internal/paths"
	"storia/internal/soundgen"
)

const samplePassage = `The old house creaked in the wind, its wooden beams protesting against the storm outside.
Rain lashed against the windows, creating a rhythmic pattern that was both soothing and eerie.
Inside, a fire crackled in the hearth, casting dancing shadows on the walls.
The room smelled of old books and wood smoke, a comforting scent that reminded her of childhood.`

const samplePrompt = "Soft instrumental piano melody with distant thunder, rain tapping against window panes, " +
	"and the occasional crackle of a fire, warm and slightly mysterious."

const smokeDuration = 5.0

// storiactl smoke-elevenlabs
func cmdSmokeElevenLabs(args []string) error {
	var cf commonFlags
	fs := newFlagSet("smoke-elevenlabs")
	addCommonFlags(fs, &cf)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	cfg, _, err := loadConfig("smoke-elevenlabs", cf)
	if err != nil {
		return err
	}
	if err := cfgpkg.ValidateForSynthesis(cfg); err != nil {
		return err
	}
	slog.Info("api key loaded", "length", len(cfg.ElevenLabsAPIKey))

	client, err := newAccountClient(cfg)
	if err != nil {
		return err
	}
	user, err := client.User(context.Background())
	if err != nil {
		return fmt.Errorf("elevenlabs connection failed: %w", err)
	}
	sub := user.Subscription
	slog.Info("elevenlabs connection ok",
		"tier", sub.Tier,
		"status", sub.Status,
		"characterCount", sub.CharacterCount,
		"characterLimit", sub.CharacterLimit,
	)
	return nil
}

// storiactl smoke-ambiance
func cmdSmokeAmbiance(args []string) error {
	var cf commonFlags
	fs := newFlagSet("smoke-ambiance")
	addCommonFlags(fs, &cf)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	cfg, _, err := loadConfig("smoke-ambiance", cf)
	if err != nil {
		return err
	}
	ctx := context.Background()
	analyzer, err := buildAnalyzer(ctx, cfg)
	if err != nil {
		return err
	}

	result := analyzer.Analyze(ctx, samplePassage)
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	if result.Error != "" {
		return fmt.Errorf("analysis returned error: %s", result.Error)
	}
	if result.AmbiancePrompt == "" {
		return errors.New("analysis returned no ambiance prompt")
	}
	slog.Info("smoke-ambiance passed", "mood", result.Mood, "prompt", result.AmbiancePrompt)
	return nil
}

// storiactl smoke-music
func cmdSmokeMusic(args []string) error {
	var cf commonFlags
	var output string
	fs := newFlagSet("smoke-music")
	addCommonFlags(fs, &cf)
	fs.StringVar(&output, "output", filepath.Join(os.TempDir(), "storia_smoke.mp3"), "Output file path or s3://bucket/key")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	cfg, _, err := loadConfig("smoke-music", cf)
	if err != nil {
		return err
	}
	dest, err := paths.ParseDestination(output)
	if err != nil {
		return err
	}
	ctx := context.Background()
	synth, err := buildSynthesizer(cfg)
	if err != nil {
		return err
	}

	audio, err := synth.Generate(ctx, soundgen.Request{
		Prompt:          samplePrompt,
		DurationSeconds: smokeDuration,
		PromptInfluence: soundgen.DefaultInfluence,
	})
	if err != nil {
		return err
	}
	sink := soundgen.Sink{Stdout: stdout, Overwrite: true, NewUploader: newUploader(cfg.Region, cfg.S3Prefix)}
	if err := sink.Deliver(ctx, dest, audio); err != nil {
		return err
	}
	slog.Info("smoke-music passed", "bytes", len(audio), "destination", dest.String())
	return nil
}

// buildAnalyzer returns an analyzer for cfg, or the credential error when it has none.
func buildAnalyzer(ctx context.Context, cfg cfgpkg.Config) (*ambiance.Analyzer, error) {
	if err := cfgpkg.ValidateForAnalysis(cfg); err != nil {
		return nil, err
	}
	client, err := newTextClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create %s client: %w", cfg.TextProvider, err)
	}
	return ambiance.NewAnalyzer(cfg, client), nil
}

func buildSynthesizer(cfg cfgpkg.Config) (*soundgen.Synthesizer, error) {
	if err := cfgpkg.ValidateForSynthesis(cfg); err != nil {
		return nil, err
	}
	client, err := newSoundClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create sound client: %w", err)
	}
	return soundgen.NewSynthesizer(cfg, client), nil
}
