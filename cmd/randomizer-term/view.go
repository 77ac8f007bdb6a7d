package main

import (
	"fmt"
	"time"

	"randomizer/internal/core/model"
	"randomizer/internal/core/toggler"
	"randomizer/internal/ui/inspector"
)

type view struct {
	settings inspector.Settings
	running  bool
	state    bool
	toggles  uint64
	next     time.Duration
	lastErr  string
}

func (v *view) apply(event toggler.Event) {
	switch event.Type {
	case toggler.EventStarted:
		v.running = true
		v.state = false
		v.toggles = 0
		v.next = 0
		v.lastErr = ""
	case toggler.EventToggle:
		v.state = event.State
		v.toggles = event.Toggle
		v.next = event.Next
	case toggler.EventStopped:
		v.running = false
	case toggler.EventFailed:
		v.running = false
		if event.Err != nil {
			v.lastErr = event.Err.Error()
		}
	}
}

func (v *view) lines() []string {
	state := "OFF"
	if v.state {
		state = "ON"
	}
	running := "stopped"
	if v.running {
		running = "running"
	}

	lines := []string{
		fmt.Sprintf("State:   %s", state),
		fmt.Sprintf("Toggles: %d", v.toggles),
		fmt.Sprintf("Loop:    %s", running),
		fmt.Sprintf("Timing:  %s", describeTiming(v.settings)),
	}
	if v.running && v.toggles > 0 {
		lines = append(lines, fmt.Sprintf("Next in: %s", v.next.Round(time.Millisecond)))
	}
	if v.lastErr != "" {
		lines = append(lines, "Error:   "+v.lastErr)
	}
	return append(lines, "", "[s] start/stop  [q] quit")
}

func describeTiming(settings inspector.Settings) string {
	config := settings.TogglerConfig()
	timing := fmt.Sprintf("every %s", config.Interval)
	if config.Mode == model.IntervalRandom {
		timing = fmt.Sprintf("every %s..%s", config.MinInterval, config.MaxInterval)
	}
	if config.InitDelay > 0 {
		timing = fmt.Sprintf("%s after %s", timing, config.InitDelay)
	}
	return timing
}
