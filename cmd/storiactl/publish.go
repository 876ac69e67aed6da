package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"storia/internal/paths"
	"storia/internal/soundgen"
)

const cacheArchive = "public, max-age=86400"

// storiactl publish
func cmdPublish(args []string) error {
	var cf commonFlags
	var file, output, cacheControl string
	var overwrite bool
	fs := newFlagSet("publish")
	addCommonFlags(fs, &cf)
	fs.StringVar(&file, "file", "", "Local MP3 to upload (required)")
	fs.StringVar(&output, "output", "", "Destination s3://bucket/key (required)")
	fs.StringVar(&cacheControl, "cache-control", cacheArchive, "Cache-Control header for the object")
	fs.BoolVar(&overwrite, "overwrite", true, "Replace an existing object")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	cfg, _, err := loadConfig("publish", cf)
	if err != nil {
		return err
	}
	if file == "" {
		return errors.New("--file is required")
	}
	dest, err := paths.ParseDestination(output)
	if err != nil {
		return err
	}
	if dest.Kind != paths.S3 {
		return fmt.Errorf("--output must be s3://bucket/key, got %q", output)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("missing local file %s: %w", file, err)
	}
	if len(data) == 0 {
		return fmt.Errorf("local file %s is empty", file)
	}
	sink := soundgen.Sink{Overwrite: overwrite, CacheControl: cacheControl, NewUploader: newUploader(cfg.Region, cfg.S3Prefix)}
	if err := sink.Deliver(context.Background(), dest, data); err != nil {
		return err
	}
	slog.Info("publish completed", "file", file, "destination", dest.String(), "region", cfg.Region, "prefix", cfg.S3Prefix)
	return nil
}
