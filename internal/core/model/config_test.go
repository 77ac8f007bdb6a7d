package model

import (
	"errors"
	"testing"
	"time"
)

func TestTogglerConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  TogglerConfig
		wantErr bool
	}{
		{
			name:   "fixed",
			config: TogglerConfig{Mode: IntervalFixed, Interval: 2 * time.Second},
		},
		{
			name:   "fixed zero interval",
			config: TogglerConfig{Mode: IntervalFixed},
		},
		{
			name:   "random",
			config: TogglerConfig{Mode: IntervalRandom, MinInterval: time.Second, MaxInterval: 3 * time.Second},
		},
		{
			name:   "random equal bounds",
			config: TogglerConfig{Mode: IntervalRandom, MinInterval: time.Second, MaxInterval: time.Second},
		},
		{
			name:   "fixed ignores inverted random bounds",
			config: TogglerConfig{Mode: IntervalFixed, Interval: time.Second, MinInterval: 5 * time.Second, MaxInterval: time.Second},
		},
		{
			name:    "random inverted bounds",
			config:  TogglerConfig{Mode: IntervalRandom, MinInterval: 5 * time.Second, MaxInterval: time.Second},
			wantErr: true,
		},
		{
			name:    "negative delay",
			config:  TogglerConfig{Mode: IntervalFixed, InitDelay: -time.Second},
			wantErr: true,
		},
		{
			name:    "negative interval",
			config:  TogglerConfig{Mode: IntervalFixed, Interval: -time.Second},
			wantErr: true,
		},
		{
			name:    "negative bound",
			config:  TogglerConfig{Mode: IntervalRandom, MinInterval: -time.Second, MaxInterval: time.Second},
			wantErr: true,
		},
		{
			name:    "unknown mode",
			config:  TogglerConfig{Mode: "sometimes"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidConfiguration) {
					t.Fatalf("Validate() = %v, want ErrInvalidConfiguration", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestParseIntervalMode(t *testing.T) {
	tests := []struct {
		input   string
		want    IntervalMode
		wantErr bool
	}{
		{input: "fixed", want: IntervalFixed},
		{input: " Random ", want: IntervalRandom},
		{input: "FIXED", want: IntervalFixed},
		{input: "", wantErr: true},
		{input: "burst", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseIntervalMode(tt.input)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("ParseIntervalMode(%q) error = %v, want ErrInvalidConfiguration", tt.input, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseIntervalMode(%q) = %q, %v; want %q", tt.input, got, err, tt.want)
		}
	}
}
