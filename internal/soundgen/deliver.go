package soundgen

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"storia/internal/paths"
	"storia/internal/storage"
)

const mp3ContentType = "audio/mpeg"

// Uploader stores audio objects.
type Uploader interface {
	Key(name string) string
	Exists(ctx context.Context, key string) (bool, error)
	UploadBytes(ctx context.Context, key string, data []byte, contentType, cacheControl string) error
}

// Sink delivers generated audio to exactly one destination.
type Sink struct {
	Stdout       io.Writer
	Overwrite    bool
	CacheControl string
	// NewUploader returns an uploader for bucket; required only for s3 destinations.
	NewUploader func(ctx context.Context, bucket string) (Uploader, error)
}

// Deliver writes data to dest. File and S3 destinations never touch Stdout.
func (s Sink) Deliver(ctx context.Context, dest paths.Destination, data []byte) error {
	switch dest.Kind {
	case paths.File:
		if err := paths.CheckOverwrite([]string{dest.Path}, s.Overwrite); err != nil {
			return err
		}
		if err := paths.EnsureParentDir(dest.Path); err != nil {
			return err
		}
		if err := os.WriteFile(dest.Path, data, 0o644); err != nil {
			return fmt.Errorf("save audio file: %w", err)
		}
	case paths.S3:
		if s.NewUploader == nil {
			return fmt.Errorf("no uploader configured for %s", dest)
		}
		up, err := s.NewUploader(ctx, dest.Bucket)
		if err != nil {
			return err
		}
		key := up.Key(dest.Key)
		if !s.Overwrite {
			exists, err := up.Exists(ctx, key)
			if err != nil {
				return fmt.Errorf("check %s: %w", dest, err)
			}
			if exists {
				return fmt.Errorf("output already exists: %s (use --overwrite)", dest)
			}
		}
		if err := up.UploadBytes(ctx, key, data, mp3ContentType, s.CacheControl); err != nil {
			if code := storage.ErrorCode(err); code != "" {
				return fmt.Errorf("upload audio to %s (%s): %w", dest, code, err)
			}
			return fmt.Errorf("upload audio to %s: %w", dest, err)
		}
	default:
		if s.Stdout == nil {
			return fmt.Errorf("no output stream configured")
		}
		if _, err := s.Stdout.Write(data); err != nil {
			return fmt.Errorf("write audio to stdout: %w", err)
		}
	}
	slog.Info("audio delivered", "destination", dest.String(), "kind", dest.Kind.String(), "bytes", len(data))
	return nil
}

// S3Uploaders returns an uploader factory bound to cfg's region and key prefix.
func S3Uploaders(region, prefix string) func(ctx context.Context, bucket string) (Uploader, error) {
	return func(ctx context.Context, bucket string) (Uploader, error) {
		return storage.New(ctx, bucket, prefix, region)
	}
}
