package inspector

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"randomizer/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

var modeLabels = map[model.IntervalMode]string{
	model.IntervalFixed:  "Fixed",
	model.IntervalRandom: "Random",
}

// Window handles the inspector UI.
type Window struct {
	window       fyne.Window
	settings     Settings
	onSave       func(Settings)
	rows         map[Field]fyne.CanvasObject
	mode         *widget.Select
	initDelay    *widget.Entry
	interval     *widget.Entry
	minInterval  *widget.Entry
	maxInterval  *widget.Entry
	redisAddr    *widget.Entry
	redisChannel *widget.Entry
	status       *widget.Label
}

// New creates an inspector window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("Randomizer Inspector")

	inspector := &Window{
		window:       window,
		onSave:       onSave,
		initDelay:    widget.NewEntry(),
		interval:     widget.NewEntry(),
		minInterval:  widget.NewEntry(),
		maxInterval:  widget.NewEntry(),
		redisAddr:    widget.NewEntry(),
		redisChannel: widget.NewEntry(),
		status:       widget.NewLabel(""),
	}
	inspector.redisAddr.SetPlaceHolder("host:6379 (optional)")

	inspector.mode = widget.NewSelect([]string{modeLabels[model.IntervalFixed], modeLabels[model.IntervalRandom]}, func(label string) {
		inspector.applyVisibility(modeFromLabel(label))
	})

	inspector.rows = map[Field]fyne.CanvasObject{
		FieldInitDelay:   container.NewHBox(widget.NewLabel("Initial delay"), inspector.initDelay, widget.NewLabel("sec")),
		FieldMode:        container.NewHBox(widget.NewLabel("Interval type"), inspector.mode),
		FieldInterval:    container.NewHBox(widget.NewLabel("Interval"), inspector.interval, widget.NewLabel("sec")),
		FieldMinInterval: container.NewHBox(widget.NewLabel("Min interval"), inspector.minInterval, widget.NewLabel("sec")),
		FieldMaxInterval: container.NewHBox(widget.NewLabel("Max interval"), inspector.maxInterval, widget.NewLabel("sec")),
	}

	form := container.NewVBox(
		widget.NewLabelWithStyle("Timing", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		inspector.rows[FieldInitDelay],
		inspector.rows[FieldMode],
		inspector.rows[FieldInterval],
		inspector.rows[FieldMinInterval],
		inspector.rows[FieldMaxInterval],
		widget.NewLabelWithStyle("Publish toggles", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Redis address"), inspector.redisAddr),
		container.NewHBox(widget.NewLabel("Redis channel"), inspector.redisChannel),
		inspector.status,
	)

	saveButton := widget.NewButton("Save", inspector.handleSave)
	cancelButton := widget.NewButton("Cancel", func() {
		window.Hide()
	})
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(420, 380))

	inspector.UpdateSettings(settings)
	return inspector
}

// Show displays the inspector window.
func (inspector *Window) Show() {
	inspector.window.Show()
	inspector.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (inspector *Window) UpdateSettings(settings Settings) {
	inspector.settings = settings
	inspector.initDelay.SetText(formatSeconds(settings.InitDelay))
	inspector.interval.SetText(formatSeconds(settings.Interval))
	inspector.minInterval.SetText(formatSeconds(settings.MinInterval))
	inspector.maxInterval.SetText(formatSeconds(settings.MaxInterval))
	inspector.redisAddr.SetText(settings.RedisAddr)
	inspector.redisChannel.SetText(settings.RedisChannel)
	inspector.status.SetText("")

	mode := settings.Mode
	if _, ok := modeLabels[mode]; !ok {
		mode = model.IntervalFixed
	}
	inspector.mode.SetSelected(modeLabels[mode])
	inspector.applyVisibility(mode)
}

func (inspector *Window) applyVisibility(mode model.IntervalMode) {
	visible := map[Field]bool{}
	for _, field := range VisibleFields(mode) {
		visible[field] = true
	}
	for field, row := range inspector.rows {
		if visible[field] {
			row.Show()
		} else {
			row.Hide()
		}
	}
}

func (inspector *Window) handleSave() {
	settings := inspector.settings
	settings.Mode = modeFromLabel(inspector.mode.Selected)

	fields := []struct {
		name   string
		entry  *widget.Entry
		target *float64
	}{
		{"initial delay", inspector.initDelay, &settings.InitDelay},
		{"interval", inspector.interval, &settings.Interval},
		{"min interval", inspector.minInterval, &settings.MinInterval},
		{"max interval", inspector.maxInterval, &settings.MaxInterval},
	}
	for _, field := range fields {
		value, ok := parseSeconds(field.entry.Text)
		if !ok {
			inspector.status.SetText(fmt.Sprintf("%s must be a number of seconds >= 0 and below %.0f", field.name, MaxSeconds))
			return
		}
		*field.target = value
	}

	if err := settings.Validate(); err != nil {
		inspector.status.SetText(err.Error())
		return
	}

	settings.RedisAddr = strings.TrimSpace(inspector.redisAddr.Text)
	settings.RedisChannel = strings.TrimSpace(inspector.redisChannel.Text)
	if settings.RedisChannel == "" {
		settings.RedisChannel = DefaultSettings().RedisChannel
	}

	inspector.settings = settings
	inspector.status.SetText("")
	if inspector.onSave != nil {
		inspector.onSave(settings)
	}
	inspector.window.Hide()
}

func modeFromLabel(label string) model.IntervalMode {
	for mode, modeLabel := range modeLabels {
		if modeLabel == label {
			return mode
		}
	}
	return model.IntervalFixed
}

func parseSeconds(value string) (float64, bool) {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) || parsed < 0 || parsed >= MaxSeconds {
		return 0, false
	}
	return parsed, true
}

func formatSeconds(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
