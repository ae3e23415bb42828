package splash

import (
	"context"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
)

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// Window shows a boot message for a fixed delay.
type Window struct {
	window    fyne.Window
	message   *canvas.Text
	cancelCtx context.CancelFunc
}

// New creates the boot splash window.
func New(app fyne.App, message string) *Window {
	window := app.NewWindow(message)
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		// Splash window is undecorated (no native frame/buttons).
		window = driver.CreateSplashWindow()
	}
	window.SetPadded(false)

	background := canvas.NewRectangle(color.NRGBA{R: 0, G: 0, B: 128, A: 255})
	text := canvas.NewText(message, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	text.TextStyle = fyne.TextStyle{Monospace: true}
	text.TextSize = 20

	window.SetContent(container.NewStack(background, container.NewCenter(text)))
	window.Resize(fyne.NewSize(420, 180))
	window.CenterOnScreen()

	return &Window{window: window, message: text}
}

// Show displays the splash and calls onDone on the UI thread once delay has
// elapsed. A non-positive delay skips the splash entirely.
func (splash *Window) Show(ctx context.Context, delay time.Duration, onDone func()) {
	splash.Cancel()
	if delay <= 0 {
		onDone()
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	splash.cancelCtx = cancel
	splash.window.Show()

	go func() {
		if !sleepWithContext(runCtx, delay) {
			return
		}
		fyne.Do(func() {
			splash.window.Hide()
			onDone()
		})
	}()
}

// Cancel hides the splash without calling the pending callback.
func (splash *Window) Cancel() {
	if splash.cancelCtx != nil {
		splash.cancelCtx()
		splash.cancelCtx = nil
	}
	splash.window.Hide()
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
