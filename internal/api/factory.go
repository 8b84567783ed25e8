package api

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// New creates a Client from configuration, wrapped with request logging.
func New(cfg Config, log logrus.FieldLogger) (Client, error) {
	base, err := NewHTTPClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing API client: %w", err)
	}
	if log == nil {
		return base, nil
	}
	return WithLogging(base, log), nil
}
