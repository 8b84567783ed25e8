package api

import (
	"fmt"
	"net/url"
	"time"
)

// DefaultBaseURL is where the API listens in a local setup.
const DefaultBaseURL = "http://localhost:8000"

// Config holds the HTTP client configuration.
type Config struct {
	// BaseURL is the API root, e.g. "http://localhost:8000".
	BaseURL string

	// Timeout bounds a single request, including the upload.
	// Question generation is slow, so the default is generous.
	Timeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string
}

// DefaultConfig returns a Config pointing at a local API.
func DefaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		Timeout:   2 * time.Minute,
		UserAgent: "qgen",
	}
}

// Validate checks that the base URL is absolute and the timeout positive.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid API URL %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid API URL %q: scheme must be http or https", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid API URL %q: missing host", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return nil
}
