package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration matches every *ConfigError via errors.Is.
	ErrConfiguration = errors.New("configuration error")
	// ErrMissingCorpus is returned when Analyze is called without a corpus.
	ErrMissingCorpus = errors.New("missing document corpus")
)

// ConfigError reports a required input that is absent or invalid.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Message)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}
