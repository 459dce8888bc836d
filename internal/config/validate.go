package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyRootDir indicates a missing root directory.
	ErrEmptyRootDir = errors.New("empty root directory")

	// ErrInvalidChunkSize indicates a non-positive chunk size.
	ErrInvalidChunkSize = errors.New("invalid chunk size")

	// ErrInvalidOverlap indicates an out-of-range overlap percentage.
	ErrInvalidOverlap = errors.New("invalid overlap percentage")

	// ErrInvalidWindowSize indicates a non-positive metrics window size.
	ErrInvalidWindowSize = errors.New("invalid metrics window size")
)

// Validate checks that cfg is well-formed before it is used to construct
// a core instance.
func Validate(cfg *Config) error {
	var errs []error

	if strings.TrimSpace(cfg.Paths.RootDir) == "" {
		errs = append(errs, fmt.Errorf("%w: root dir is required", ErrEmptyRootDir))
	}

	if cfg.Chunking.MaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_tokens must be positive, got %d", ErrInvalidChunkSize, cfg.Chunking.MaxTokens))
	}

	if cfg.Chunking.OverlapPercent < 0 || cfg.Chunking.OverlapPercent >= 1 {
		errs = append(errs, fmt.Errorf("%w: overlap_percent must be in [0, 1), got %f", ErrInvalidOverlap, cfg.Chunking.OverlapPercent))
	}

	if cfg.Metrics.WindowSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: window_size must be positive, got %d", ErrInvalidWindowSize, cfg.Metrics.WindowSize))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

func joinErrors(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Errorf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}
