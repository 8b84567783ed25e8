// Package config loads qgen settings from defaults, the config file, a .env
// file and QGEN_* environment variables, in that order.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/qgen/internal/api"
	"github.com/abhisek/qgen/internal/question"
)

// Environment variables read by ApplyEnv.
const (
	EnvAPIURL    = "QGEN_API_URL"
	EnvTimeout   = "QGEN_TIMEOUT"
	EnvOutputDir = "QGEN_OUTPUT_DIR"
	EnvLogLevel  = "QGEN_LOG_LEVEL"
	EnvLogFile   = "QGEN_LOG_FILE"
	EnvLogFormat = "QGEN_LOG_FORMAT"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds all user-tunable settings.
type Config struct {
	APIURL    string        `yaml:"api_url" validate:"required,url"`
	Timeout   time.Duration `yaml:"timeout" validate:"gt=0"`
	OutputDir string        `yaml:"output_dir" validate:"required"`
	LogLevel  string        `yaml:"log_level" validate:"oneof=trace debug info warn error"`
	LogFile   string        `yaml:"log_file"`
	LogFormat string        `yaml:"log_format" validate:"oneof=text json"`
	Defaults  Defaults      `yaml:"defaults"`
}

// Defaults are the generation parameters preselected on the upload screen.
type Defaults struct {
	Count      int    `yaml:"num_questions"`
	Difficulty string `yaml:"difficulty"`
	Type       string `yaml:"question_type"`
}

// Default returns the built-in configuration.
func Default() Config {
	p := question.DefaultParams()
	return Config{
		APIURL:    api.DefaultBaseURL,
		Timeout:   api.DefaultConfig().Timeout,
		OutputDir: ".",
		LogLevel:  "info",
		LogFormat: LogFormatText,
		Defaults: Defaults{
			Count:      p.Count,
			Difficulty: string(p.Difficulty),
			Type:       string(p.Type),
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/qgen/config.yaml, falling back to
// the OS user config directory.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		var err error
		dir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine config directory: %w", err)
		}
	}
	return filepath.Join(dir, "qgen", "config.yaml"), nil
}

// Load builds a Config. An explicit path must exist; when path is empty the
// default location is used if present. A .env file in the working directory
// is loaded without overriding variables already set.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		if p, err := DefaultPath(); err == nil {
			path = p
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if cfg, err = Parse(data, cfg); err != nil {
				return Config{}, fmt.Errorf("%s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg, err := ApplyEnv(cfg, os.Getenv)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes YAML over base. Unknown keys are rejected.
func Parse(data []byte, base Config) (Config, error) {
	cfg := base
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return base, nil
		}
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overlays QGEN_* variables read through getenv.
func ApplyEnv(cfg Config, getenv func(string) string) (Config, error) {
	if v := getenv(EnvAPIURL); v != "" {
		cfg.APIURL = v
	}
	if v := getenv(EnvTimeout); v != "" {
		d, err := parseTimeout(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		cfg.Timeout = d
	}
	if v := getenv(EnvOutputDir); v != "" {
		cfg.OutputDir = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := getenv(EnvLogFile); v != "" {
		cfg.LogFile = v
	}
	if v := getenv(EnvLogFormat); v != "" {
		cfg.LogFormat = v
	}
	return cfg, nil
}

// parseTimeout accepts a Go duration ("90s") or a bare number of seconds.
func parseTimeout(s string) (time.Duration, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(s)
}

var validate = validator.New()

// Validate checks the settings and the default generation parameters.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s=%v fails %q", fe.Field(), fe.Value(), fe.Tag())
		}
		return err
	}
	if _, err := c.Params(); err != nil {
		return fmt.Errorf("invalid config defaults: %w", err)
	}
	return nil
}

// Params returns the default generation parameters.
func (c Config) Params() (question.Params, error) {
	d, err := question.ParseDifficulty(c.Defaults.Difficulty)
	if err != nil {
		return question.Params{}, err
	}
	t, err := question.ParseType(c.Defaults.Type)
	if err != nil {
		return question.Params{}, err
	}
	p := question.Params{Count: c.Defaults.Count, Difficulty: d, Type: t}
	if err := p.Validate(); err != nil {
		return question.Params{}, err
	}
	return p, nil
}

// API returns the HTTP client configuration. version is reported in the
// User-Agent header.
func (c Config) API(version string) api.Config {
	return api.Config{
		BaseURL:   c.APIURL,
		Timeout:   c.Timeout,
		UserAgent: "qgen/" + version,
	}
}
