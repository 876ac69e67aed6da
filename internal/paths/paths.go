package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const s3Scheme = "s3://"

// Kind identifies where generated audio goes.
type Kind int

const (
	// Stdout emits the audio on the primary output stream.
	Stdout Kind = iota
	// File writes the audio to a local path.
	File
	// S3 uploads the audio to an object.
	S3
)

func (k Kind) String() string {
	switch k {
	case File:
		return "file"
	case S3:
		return "s3"
	default:
		return "stdout"
	}
}

// Destination is a parsed --output value.
type Destination struct {
	Kind   Kind
	Path   string
	Bucket string
	Key    string
}

// ParseDestination maps an --output value to a destination: "" or "-" is stdout,
// "s3://bucket/key" is an object, anything else is a file path.
func ParseDestination(raw string) (Destination, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "-" {
		return Destination{Kind: Stdout}, nil
	}
	if strings.HasPrefix(raw, s3Scheme) {
		bucket, key, _ := strings.Cut(strings.TrimPrefix(raw, s3Scheme), "/")
		key = strings.Trim(key, "/")
		if bucket == "" || key == "" {
			return Destination{}, fmt.Errorf("invalid s3 destination %q: want s3://bucket/key", raw)
		}
		return Destination{Kind: S3, Bucket: bucket, Key: key}, nil
	}
	return Destination{Kind: File, Path: filepath.Clean(raw)}, nil
}

func (d Destination) String() string {
	switch d.Kind {
	case File:
		return d.Path
	case S3:
		return s3Scheme + d.Bucket + "/" + d.Key
	default:
		return "-"
	}
}

// EnsureParentDir creates the directory that will hold path if it does not exist.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// CheckOverwrite enforces overwrite behavior. If any path exists and overwrite is false, returns error.
func CheckOverwrite(paths []string, overwrite bool) error {
	if overwrite {
		return nil
	}
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return fmt.Errorf("refusing to overwrite existing file: %s (use --overwrite)", p)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("checking file: %s: %w", p, err)
		}
	}
	return nil
}
