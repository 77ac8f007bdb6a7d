package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnInspector     func()
	OnToggleRunning func()
	OnQuit          func()
}

// Manager mirrors the toggler state in the system tray.
type Manager struct {
	app         desktop.App
	menu        *fyne.Menu
	stateItem   *fyne.MenuItem
	runningItem *fyne.MenuItem
	callbacks   Callbacks
	state       bool
	running     bool
	detail      string
}

// New creates a tray manager with the provided callbacks. app may be nil, in
// which case only the menu model is maintained.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
	}

	manager.stateItem = fyne.NewMenuItem("", nil)
	manager.stateItem.Disabled = true

	inspector := fyne.NewMenuItem("Inspector", func() {
		if manager.callbacks.OnInspector != nil {
			manager.callbacks.OnInspector()
		}
	})

	manager.runningItem = fyne.NewMenuItem("", func() {
		if manager.callbacks.OnToggleRunning != nil {
			manager.callbacks.OnToggleRunning()
		}
	})

	quit := fyne.NewMenuItem("Quit", func() {
		if manager.callbacks.OnQuit != nil {
			manager.callbacks.OnQuit()
		}
	})
	quit.IsQuit = true

	manager.menu = fyne.NewMenu("Randomizer", manager.stateItem, inspector, manager.runningItem, quit)
	manager.refresh()
	return manager
}

// SetState updates the displayed toggle value.
func (manager *Manager) SetState(state bool) {
	manager.state = state
	manager.refresh()
}

// SetRunning updates the Start/Stop entry.
func (manager *Manager) SetRunning(running bool) {
	manager.running = running
	manager.refresh()
}

// SetDetail appends extra text, such as an error, to the state label.
func (manager *Manager) SetDetail(detail string) {
	manager.detail = detail
	manager.refresh()
}

// StateLabel returns the current state menu label.
func (manager *Manager) StateLabel() string {
	return manager.stateItem.Label
}

// RunningLabel returns the current Start/Stop menu label.
func (manager *Manager) RunningLabel() string {
	return manager.runningItem.Label
}

func (manager *Manager) refresh() {
	label := "off"
	if manager.state {
		label = "on"
	}
	if !manager.running {
		label += ", stopped"
	}
	if manager.detail != "" {
		label = fmt.Sprintf("%s (%s)", label, manager.detail)
	}
	manager.stateItem.Label = "State: " + label

	if manager.running {
		manager.runningItem.Label = "Stop"
	} else {
		manager.runningItem.Label = "Start"
	}

	if manager.app == nil {
		return
	}
	if manager.state {
		manager.app.SetSystemTrayIcon(theme.RadioButtonCheckedIcon())
	} else {
		manager.app.SetSystemTrayIcon(theme.RadioButtonIcon())
	}
	manager.app.SetSystemTrayMenu(manager.menu)
}
