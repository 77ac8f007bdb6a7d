package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidConfiguration indicates a TogglerConfig that cannot drive a toggler.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// IntervalMode selects how the time between toggles is chosen.
type IntervalMode string

const (
	IntervalFixed  IntervalMode = "fixed"
	IntervalRandom IntervalMode = "random"
)

// ParseIntervalMode converts a user supplied name to an IntervalMode.
func ParseIntervalMode(value string) (IntervalMode, error) {
	switch IntervalMode(strings.ToLower(strings.TrimSpace(value))) {
	case IntervalFixed:
		return IntervalFixed, nil
	case IntervalRandom:
		return IntervalRandom, nil
	}
	return "", fmt.Errorf("%w: unknown interval mode %q", ErrInvalidConfiguration, value)
}

// TogglerConfig contains the timing settings of a toggler.
type TogglerConfig struct {
	InitDelay time.Duration
	Mode      IntervalMode

	// Interval is used in fixed mode.
	Interval time.Duration

	// MinInterval and MaxInterval bound the random mode sample.
	MinInterval time.Duration
	MaxInterval time.Duration
}

// Validate reports whether the config can be used to start a toggler.
func (config TogglerConfig) Validate() error {
	if config.InitDelay < 0 {
		return fmt.Errorf("%w: negative initial delay %s", ErrInvalidConfiguration, config.InitDelay)
	}
	if config.Interval < 0 {
		return fmt.Errorf("%w: negative interval %s", ErrInvalidConfiguration, config.Interval)
	}
	if config.MinInterval < 0 || config.MaxInterval < 0 {
		return fmt.Errorf("%w: negative interval bound", ErrInvalidConfiguration)
	}

	switch config.Mode {
	case IntervalFixed:
	case IntervalRandom:
		if config.MinInterval > config.MaxInterval {
			return fmt.Errorf("%w: min interval %s exceeds max interval %s",
				ErrInvalidConfiguration, config.MinInterval, config.MaxInterval)
		}
	default:
		return fmt.Errorf("%w: unknown interval mode %q", ErrInvalidConfiguration, config.Mode)
	}
	return nil
}
