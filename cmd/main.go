package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"randomizer/internal/core/toggler"
	"randomizer/internal/platform"
	"randomizer/internal/session"
	"randomizer/internal/storage"
	"randomizer/internal/ui/inspector"
	"randomizer/internal/ui/tray"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const appName = "Randomizer"

func main() {
	toggle := flag.Bool("toggle", false, "start or stop the running instance instead of opening its inspector")
	flag.Parse()

	guard, err := platform.AcquireSingleInstance(appName)
	if errors.Is(err, platform.ErrAlreadyRunning) {
		command := platform.CommandShowInspector
		if *toggle {
			command = platform.CommandToggleRunning
		}
		if err := platform.Forward(context.Background(), appName, command); err != nil {
			log.Printf("single instance: %v", err)
		}
		return
	}
	if err != nil {
		log.Printf("single instance: %v", err)
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	store, err := storage.Open(appName)
	if err != nil {
		log.Printf("[Storage] %v (settings will not persist)", err)
	}
	settings, err := store.Load()
	if err != nil {
		log.Printf("[Storage] failed to load settings: %v (using defaults)", err)
	}

	fyneApp := app.NewWithID("com.randomizer.app")
	fyneApp.SetIcon(theme.RadioButtonCheckedIcon())
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		log.Printf("system tray unsupported on this platform")
		return
	}

	trayWindow := fyneApp.NewWindow(appName)
	trayWindow.SetContent(widget.NewLabel("Randomizer is running in the system tray."))
	trayWindow.SetCloseIntercept(func() {
		trayWindow.Hide()
	})
	trayWindow.Hide()
	desktopApp.SetSystemTrayWindow(trayWindow)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var current *session.Session
	var trayManager *tray.Manager
	generation := 0

	observer := func(owner int) func(toggler.Event) {
		return func(event toggler.Event) {
			fyne.Do(func() {
				if owner != generation {
					return
				}
				applyEvent(trayManager, event)
			})
		}
	}

	start := func() {
		generation++
		started, err := session.Start(ctx, settings, observer(generation))
		if err != nil {
			log.Printf("start toggler: %v", err)
			trayManager.SetDetail(err.Error())
			return
		}
		current = started
		trayManager.SetDetail("")
		trayManager.SetState(false)
		trayManager.SetRunning(true)
	}
	stop := func() {
		current.Stop()
		current = nil
	}

	inspectorWindow := inspector.New(fyneApp, settings, func(updated inspector.Settings) {
		settings = updated
		if err := store.Save(settings); err != nil {
			log.Printf("[Storage] %v", err)
		}
		// Config is fixed once a toggler starts, so a running one is replaced.
		if current != nil {
			stop()
			start()
		}
	})

	showInspector := func() {
		inspectorWindow.UpdateSettings(settings)
		inspectorWindow.Show()
	}
	toggleRunning := func() {
		if current != nil && current.Toggler.Running() {
			stop()
			trayManager.SetRunning(false)
			return
		}
		stop()
		start()
	}

	trayManager = tray.New(desktopApp, tray.Callbacks{
		OnInspector:     showInspector,
		OnToggleRunning: toggleRunning,
		OnQuit: func() {
			stop()
			fyneApp.Quit()
		},
	})

	go func() {
		err := guard.Serve(func(command platform.Command) {
			fyne.Do(func() {
				switch command {
				case platform.CommandShowInspector:
					showInspector()
				case platform.CommandToggleRunning:
					toggleRunning()
				}
			})
		})
		if err != nil {
			log.Printf("single instance: %v", err)
		}
	}()

	start()
	fyneApp.Run()
}

func applyEvent(trayManager *tray.Manager, event toggler.Event) {
	switch event.Type {
	case toggler.EventToggle:
		trayManager.SetState(event.State)
	case toggler.EventFailed:
		trayManager.SetRunning(false)
		trayManager.SetDetail(event.Err.Error())
	case toggler.EventStopped:
		trayManager.SetRunning(false)
	}
}
