// Package cli holds the flag, logging, and input plumbing shared by the storia programs.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
)

// ErrNoInput is returned when no flag supplies input and stdin is a terminal.
var ErrNoInput = errors.New("no input provided (no --text, --file, or stdin)")

// SetupLogger installs a JSON slog logger on w (stderr in production) at level;
// defaults to info. Every record carries a per-run id.
func SetupLogger(w io.Writer, level, program string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	logger := slog.New(h).With("program", program, "run", uuid.NewString())
	slog.SetDefault(logger)
	return logger
}

// StdinIsPiped reports whether f is redirected from a file or pipe.
func StdinIsPiped(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
}

// Input names where text comes from, in priority order.
type Input struct {
	Text  string
	File  string
	Stdin io.Reader
}

// Read returns the text from the first available source. Stdin is used only when it is
// non-nil (callers pass nil for an interactive terminal).
func (in Input) Read() (string, error) {
	switch {
	case in.Text != "":
		slog.Info("using text from --text", "length", len(in.Text))
		return in.Text, nil
	case in.File != "":
		b, err := os.ReadFile(in.File)
		if err != nil {
			return "", fmt.Errorf("read input file: %w", err)
		}
		slog.Info("read text from file", "file", in.File, "length", len(b))
		return string(b), nil
	case in.Stdin != nil:
		b, err := io.ReadAll(in.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		slog.Info("read text from stdin", "length", len(b))
		return string(b), nil
	default:
		return "", ErrNoInput
	}
}

// StringFlag records whether a string flag was set explicitly.
type StringFlag struct {
	Value   string
	Changed bool
}

func (f *StringFlag) String() string { return f.Value }

func (f *StringFlag) Set(s string) error {
	f.Value = s
	f.Changed = true
	return nil
}

// Ptr returns the value when the flag was given, nil otherwise.
func (f *StringFlag) Ptr() *string {
	if !f.Changed {
		return nil
	}
	v := f.Value
	return &v
}
