package preferences

import (
	"pomowave/internal/core/model"
	"pomowave/internal/core/session"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Controller is the subset of the session controller the settings form edits.
type Controller interface {
	UpdateDuration(mode model.Mode, minutes int)
	SelectSound(soundID string)
	OpenSettings()
	CloseSettings()
	ApplySettings()
	Snapshot() session.Snapshot
}

// Window handles the settings UI. Edits reach the controller as they are
// typed; Save reloads the countdown and hides the window.
type Window struct {
	window     fyne.Window
	controller Controller
	sounds     []model.Sound
	sound      *widget.Select
	durations  map[model.Mode]*widget.Entry
	save       *widget.Button
	syncing    bool
}

// New creates a settings window offering sounds in the sound picker.
func New(app fyne.App, controller Controller, sounds []model.Sound) *Window {
	window := app.NewWindow("🛠 Settings")

	prefs := &Window{
		window:     window,
		controller: controller,
		sounds:     sounds,
		durations:  make(map[model.Mode]*widget.Entry, len(model.Modes)),
	}

	names := make([]string, 0, len(sounds))
	for _, sound := range sounds {
		names = append(names, sound.Name)
	}
	prefs.sound = widget.NewSelect(names, prefs.handleSoundChanged)

	form := container.NewVBox(
		widget.NewLabelWithStyle("🔔 Notification Sound", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.sound,
	)
	for _, mode := range model.Modes {
		mode := mode
		entry := widget.NewEntry()
		entry.OnChanged = func(text string) {
			prefs.handleDurationChanged(mode, text)
		}
		prefs.durations[mode] = entry
		form.Add(widget.NewLabel(string(mode) + " duration (minutes)"))
		form.Add(entry)
	}

	prefs.save = widget.NewButton("💾 Save", prefs.handleSave)
	buttons := container.NewHBox(layout.NewSpacer(), prefs.save)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(360, 420))
	window.SetCloseIntercept(prefs.handleClose)

	prefs.syncFromController()
	return prefs
}

// Show opens the settings overlay with the current values.
func (prefs *Window) Show() {
	prefs.controller.OpenSettings()
	prefs.syncFromController()
	prefs.window.Show()
	prefs.window.RequestFocus()
}

func (prefs *Window) syncFromController() {
	snapshot := prefs.controller.Snapshot()

	prefs.syncing = true
	defer func() { prefs.syncing = false }()

	for mode, entry := range prefs.durations {
		entry.SetText(formatMinutes(snapshot.Durations[mode]))
	}
	for _, sound := range prefs.sounds {
		if sound.URL == snapshot.Sound {
			prefs.sound.SetSelected(sound.Name)
			return
		}
	}
	prefs.sound.ClearSelected()
}

func (prefs *Window) handleDurationChanged(mode model.Mode, text string) {
	if prefs.syncing {
		return
	}
	prefs.controller.UpdateDuration(mode, ParseMinutes(text))
}

func (prefs *Window) handleSoundChanged(name string) {
	if prefs.syncing {
		return
	}
	for _, sound := range prefs.sounds {
		if sound.Name == name {
			prefs.controller.SelectSound(sound.URL)
			return
		}
	}
}

func (prefs *Window) handleSave() {
	prefs.controller.ApplySettings()
	prefs.window.Hide()
}

func (prefs *Window) handleClose() {
	prefs.controller.CloseSettings()
	prefs.window.Hide()
}
