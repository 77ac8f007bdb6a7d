package inspector

import (
	"fmt"
	"math"
	"time"

	"randomizer/internal/core/model"
)

// Settings defines the values editable in the inspector. Durations are in
// seconds, as they are shown to the user.
type Settings struct {
	InitDelay   float64
	Mode        model.IntervalMode
	Interval    float64
	MinInterval float64
	MaxInterval float64

	RedisAddr    string
	RedisChannel string
}

// DefaultSettings returns default settings for the randomizer.
func DefaultSettings() Settings {
	return Settings{
		InitDelay:    0,
		Mode:         model.IntervalFixed,
		Interval:     2,
		MinInterval:  1,
		MaxInterval:  3,
		RedisChannel: "randomizer",
	}
}

// TogglerConfig converts settings to TogglerConfig.
func (settings Settings) TogglerConfig() model.TogglerConfig {
	return model.TogglerConfig{
		InitDelay:   seconds(settings.InitDelay),
		Mode:        settings.Mode,
		Interval:    seconds(settings.Interval),
		MinInterval: seconds(settings.MinInterval),
		MaxInterval: seconds(settings.MaxInterval),
	}
}

// MaxSeconds is the exclusive upper bound of a seconds value; anything at or
// above it does not fit a time.Duration.
const MaxSeconds = float64(math.MaxInt64) / float64(time.Second)

// Validate checks that every value converts to a duration and that the
// resulting TogglerConfig is valid.
func (settings Settings) Validate() error {
	values := []struct {
		name  string
		value float64
	}{
		{"initial delay", settings.InitDelay},
		{"interval", settings.Interval},
		{"min interval", settings.MinInterval},
		{"max interval", settings.MaxInterval},
	}
	for _, field := range values {
		switch {
		case math.IsNaN(field.value):
			return fmt.Errorf("%w: %s is not a number", model.ErrInvalidConfiguration, field.name)
		case field.value < 0:
			return fmt.Errorf("%w: %s must not be negative", model.ErrInvalidConfiguration, field.name)
		case field.value >= MaxSeconds:
			return fmt.Errorf("%w: %s %v seconds is too large", model.ErrInvalidConfiguration, field.name, field.value)
		}
	}
	return settings.TogglerConfig().Validate()
}

// Field identifies an inspector input.
type Field string

const (
	FieldInitDelay   Field = "init_delay"
	FieldMode        Field = "mode"
	FieldInterval    Field = "interval"
	FieldMinInterval Field = "min_interval"
	FieldMaxInterval Field = "max_interval"
)

// VisibleFields returns the timing fields shown for mode, in display order.
func VisibleFields(mode model.IntervalMode) []Field {
	fields := []Field{FieldInitDelay, FieldMode}
	switch mode {
	case model.IntervalRandom:
		return append(fields, FieldMinInterval, FieldMaxInterval)
	default:
		return append(fields, FieldInterval)
	}
}

func seconds(value float64) time.Duration {
	return time.Duration(value * float64(time.Second))
}
