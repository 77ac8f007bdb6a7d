package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"randomizer/internal/core/toggler"
	"randomizer/internal/session"
	"randomizer/internal/storage"
	"randomizer/internal/ui/inspector"

	"github.com/gdamore/tcell/v2"
)

const appName = "Randomizer"

var (
	configPath = flag.String("config", "", "read settings from this YAML file instead of the user data dir")
	sound      = flag.Bool("sound", false, "play a tone on every toggle")
	logPath    = flag.String("log", "", "write logs to this file")
)

// toggleEvent carries a toggler event into the tcell event loop.
type toggleEvent struct {
	generation int
	event      toggler.Event
}

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	if *logPath != "" {
		logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer logFile.Close()
		log.SetOutput(logFile)
	} else {
		// The screen owns the terminal.
		log.SetOutput(io.Discard)
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	var tone *clicker
	if *sound {
		tone, err = newClicker()
		if err != nil {
			log.Printf("audio initialization failed: %v", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	state := &view{settings: settings}
	generation := 0
	var current *session.Session

	start := func() {
		generation++
		owner := generation
		started, err := session.Start(ctx, settings, func(event toggler.Event) {
			_ = screen.PostEvent(tcell.NewEventInterrupt(toggleEvent{generation: owner, event: event}))
		})
		if err != nil {
			state.lastErr = err.Error()
			return
		}
		current = started
	}
	stop := func() {
		current.Stop()
		current = nil
	}
	defer func() { stop() }()

	start()
	draw(screen, state)

	for {
		switch ev := screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
				(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
				return nil
			}
			if ev.Key() == tcell.KeyRune && ev.Rune() == 's' {
				if current != nil && current.Toggler.Running() {
					stop()
				} else {
					stop()
					start()
				}
			}
		case *tcell.EventInterrupt:
			data, ok := ev.Data().(toggleEvent)
			if !ok || data.generation != generation {
				continue
			}
			state.apply(data.event)
			if data.event.Type == toggler.EventToggle {
				tone.play(data.event.State)
			}
		}
		draw(screen, state)
	}
}

func loadSettings() (inspector.Settings, error) {
	if *configPath != "" {
		return storage.LoadFile(*configPath)
	}
	store, err := storage.Open(appName)
	if err != nil {
		log.Printf("[Storage] %v (using defaults)", err)
	}
	return store.Load()
}

func draw(screen tcell.Screen, state *view) {
	screen.Clear()
	style := tcell.StyleDefault
	for row, line := range state.lines() {
		lineStyle := style
		if row == 0 {
			lineStyle = style.Bold(true).Foreground(tcell.ColorRed)
			if state.state {
				lineStyle = style.Bold(true).Foreground(tcell.ColorGreen)
			}
		}
		for col, r := range []rune(line) {
			screen.SetContent(col+1, row+1, r, nil, lineStyle)
		}
	}
	screen.Show()
}
