package app

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// NewLogger opens a JSON-lines log at path (created if needed). The TUI owns
// the terminal, so logs never go to stderr during interactive runs. The
// returned func closes the file.
func NewLogger(path string) (zerolog.Logger, func(), error) {
	if path == "" {
		path = DefaultLogPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), func() {}, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), func() {}, err
	}
	log := zerolog.New(f).With().Timestamp().Logger()
	return log, func() { _ = f.Close() }, nil
}

// NewWriterLogger is the test seam: a logger over any writer.
func NewWriterLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}

func DefaultLogPath() string {
	return filepath.Join(DefaultDataRoot(), "docchat.log")
}

// DefaultDataRoot prefers the XDG data dir and falls back to ~/.local/share,
// then the temp dir.
func DefaultDataRoot() string {
	if base := os.Getenv("XDG_DATA_HOME"); base != "" {
		return filepath.Join(base, "docchat")
	}
	if base, err := os.UserHomeDir(); err == nil && base != "" {
		return filepath.Join(base, ".local", "share", "docchat")
	}
	return filepath.Join(os.TempDir(), "docchat")
}
