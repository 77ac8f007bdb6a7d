package main

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)
	onTone     = 880
	offTone    = 440
)

// clicker plays a short tone on every toggle. A zero clicker is silent.
type clicker struct {
	enabled bool
}

func newClicker() (*clicker, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return &clicker{}, err
	}
	return &clicker{enabled: true}, nil
}

func (c *clicker) play(state bool) {
	if c == nil || !c.enabled {
		return
	}
	freq := offTone
	if state {
		freq = onTone
	}
	sine, err := generators.SineTone(sampleRate, float64(freq))
	if err != nil {
		return
	}
	speaker.Play(beep.Take(sampleRate.N(50*time.Millisecond), sine))
}
