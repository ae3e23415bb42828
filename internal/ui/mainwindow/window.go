package mainwindow

import (
	"fmt"
	"image/color"

	"pomowave/internal/core/model"
	"pomowave/internal/core/session"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const (
	appTitle    = "Pomowave"
	windowTitle = "🖥️ Pomodoro Timer"
)

// Controller is the subset of the session controller the window drives.
type Controller interface {
	SelectMode(mode model.Mode)
	Start()
	Pause()
	Reset()
	Snapshot() session.Snapshot
}

var _ session.Notifier = (*Window)(nil)

// Window renders the session and dispatches user actions to the controller.
type Window struct {
	app         fyne.App
	window      fyne.Window
	controller  Controller
	modeButtons map[model.Mode]*widget.Button
	clock       *canvas.Text
	taskbar     *widget.Label
	count       *widget.Label
	start       *widget.Button
	pause       *widget.Button
	reset       *widget.Button
	settings    *widget.Button
	onSettings  func()
}

// New creates the main window. onSettings is called when the settings
// button is pressed.
func New(app fyne.App, controller Controller, onSettings func()) *Window {
	window := app.NewWindow(appTitle)
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	view := &Window{
		app:         app,
		window:      window,
		controller:  controller,
		modeButtons: make(map[model.Mode]*widget.Button, len(model.Modes)),
		onSettings:  onSettings,
	}

	modes := container.NewGridWithColumns(len(model.Modes))
	for _, mode := range model.Modes {
		mode := mode
		button := widget.NewButton(mode.Label(), func() {
			view.controller.SelectMode(mode)
		})
		view.modeButtons[mode] = button
		modes.Add(button)
	}

	view.clock = canvas.NewText("--:--", color.NRGBA{R: 57, G: 255, B: 20, A: 255})
	view.clock.Alignment = fyne.TextAlignCenter
	view.clock.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	view.clock.TextSize = 56

	view.start = widget.NewButton("▶ Start", controller.Start)
	view.pause = widget.NewButton("⏸ Pause", controller.Pause)
	view.reset = widget.NewButton("🔁 Reset", controller.Reset)
	controls := container.NewHBox(layout.NewSpacer(), view.start, view.pause, view.reset, layout.NewSpacer())

	view.count = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{})
	view.taskbar = widget.NewLabel("")

	view.settings = widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		if view.onSettings != nil {
			view.onSettings()
		}
	})
	header := container.NewBorder(nil, nil,
		widget.NewLabelWithStyle(windowTitle, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		view.settings,
	)
	titleBar := widget.NewLabelWithStyle(appTitle, fyne.TextAlignCenter, fyne.TextStyle{Bold: true, Italic: true})

	body := container.NewVBox(modes, view.clock, controls, view.count)
	content := container.NewBorder(
		container.NewVBox(titleBar, widget.NewSeparator(), header),
		container.NewVBox(widget.NewSeparator(), view.taskbar),
		nil, nil,
		container.NewCenter(body),
	)

	window.SetContent(content)
	window.Resize(fyne.NewSize(520, 360))

	view.Render(controller.Snapshot())
	return view
}

// Window returns the underlying Fyne window.
func (view *Window) Window() fyne.Window {
	return view.window
}

// Show displays and focuses the window.
func (view *Window) Show() {
	view.window.Show()
	view.window.RequestFocus()
}

// Hide hides the window; the app keeps running.
func (view *Window) Hide() {
	view.window.Hide()
}

// HideOnClose makes closing the window hide it instead of quitting, for
// when the tray can bring it back.
func (view *Window) HideOnClose() {
	view.window.SetCloseIntercept(view.Hide)
}

// Render updates every widget from snapshot. Must run on the UI thread.
func (view *Window) Render(snapshot session.Snapshot) {
	for mode, button := range view.modeButtons {
		if mode == snapshot.Mode {
			button.Importance = widget.HighImportance
		} else {
			button.Importance = widget.MediumImportance
		}
		button.Refresh()
	}

	clock := snapshot.Clock()
	view.clock.Text = clock
	view.clock.Refresh()
	view.taskbar.SetText("🕒 " + clock)
	view.count.SetText(fmt.Sprintf("🍅 Pomodoros completed: %d", snapshot.Completed))
}

// Watch renders every event received on events. The returned channel is
// closed once events is closed and drained.
func (view *Window) Watch(events <-chan session.Event) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range events {
			snapshot := event.Snapshot
			fyne.Do(func() {
				view.Render(snapshot)
			})
		}
	}()
	return done
}

// Notify shows the completion notice without blocking the caller.
func (view *Window) Notify(message string) {
	view.app.SendNotification(fyne.NewNotification(appTitle, message))
	fyne.Do(func() {
		dialog.ShowInformation(appTitle, message, view.window)
	})
}
