package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"

	"storia/internal/ai"
	"storia/internal/ambiance"
	"storia/internal/cli"
	cfgpkg "storia/internal/config"
	"storia/internal/soundgen"
)

var (
	stdout  io.Writer = os.Stdout
	stderr  io.Writer = os.Stderr
	environ           = os.Environ

	newTextClient  = ambiance.ClientFor
	newSoundClient = soundgen.ClientFor
	newUploader    = soundgen.S3Uploaders
)

type accountClient interface {
	User(ctx context.Context) (*ai.ElevenLabsUser, error)
}

var newAccountClient = func(cfg cfgpkg.Config) (accountClient, error) {
	return ai.NewElevenLabs(cfg.ElevenLabsAPIKey, ai.WithElevenLabsBaseURL(cfg.ElevenLabsBaseURL))
}

// Common flags for env resolution and logging across subcommands
type commonFlags struct {
	envDir   string
	logLevel cli.StringFlag
}

func addCommonFlags(fs *flag.FlagSet, cf *commonFlags) {
	fs.StringVar(&cf.envDir, "env-dir", "", "Directory holding .env / .env.production (default $STORIA_ROOT or .)")
	fs.Var(&cf.logLevel, "log-level", "Log level: debug, info, warn, error")
}

// loadConfig resolves configuration for a subcommand and installs its logger.
func loadConfig(sub string, cf commonFlags) (cfgpkg.Config, string, error) {
	root := cfgpkg.ResolveRoot(cf.envDir)
	cfg, err := cfgpkg.Load(root, environ())
	if err != nil {
		cli.SetupLogger(stderr, cf.logLevel.Value, "storiactl")
		return cfgpkg.Config{}, root, err
	}
	cfg = cfgpkg.Merge(cfg, cfgpkg.Overrides{LogLevel: cf.logLevel.Ptr()})
	cli.SetupLogger(stderr, cfg.LogLevel, "storiactl").Debug("configured", "subcommand", sub, "root", root)
	if cfg.EnvFile != "" {
		slog.Info("loaded environment", "file", cfg.EnvFile)
	} else {
		slog.Warn("no .env file found", "root", root)
	}
	return cfg, root, nil
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}
