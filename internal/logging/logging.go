// Package logging configures the logrus logger shared by qgen commands.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Options configures New.
type Options struct {
	// Level is a logrus level name; empty means "info".
	Level string

	// File, when set, receives the log instead of Fallback. The TUI always
	// logs to a file since it owns the terminal.
	File string

	// Fallback is used when File is empty. Nil discards output.
	Fallback io.Writer

	// JSON selects the JSON formatter.
	JSON bool
}

// New returns a logger and a function that closes its output file.
func New(opts Options) (*logrus.Logger, func() error, error) {
	log := logrus.New()
	closer := func() error { return nil }

	level := logrus.InfoLevel
	if opts.Level != "" {
		var err error
		level, err = logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, closer, fmt.Errorf("log level: %w", err)
		}
	}
	log.SetLevel(level)

	if opts.JSON {
		log.SetFormatter(&logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: opts.File != ""})
	}

	switch {
	case opts.File != "":
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, closer, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, closer, fmt.Errorf("open log file: %w", err)
		}
		log.SetOutput(f)
		closer = f.Close
	case opts.Fallback != nil:
		log.SetOutput(opts.Fallback)
	default:
		log.SetOutput(io.Discard)
	}

	return log, closer, nil
}

// DefaultFile returns the log path used by the TUI when none is configured.
func DefaultFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "qgen", "qgen.log")
}
