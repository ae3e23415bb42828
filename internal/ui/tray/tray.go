package tray

import (
	"pomowave/internal/core/session"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

const menuTitle = "Pomowave"

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow     func()
	OnStart    func()
	OnPause    func()
	OnReset    func()
	OnSettings func()
	OnQuit     func()
}

// Manager keeps the tray menu in step with the session, mirroring the
// taskbar clock of the main window.
type Manager struct {
	app        desktop.App
	clockItem  *fyne.MenuItem
	toggleItem *fyne.MenuItem
	callbacks  Callbacks
	running    bool
	clock      string
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
		clock:     "--:--",
	}

	manager.clockItem = fyne.NewMenuItem("", func() {
		invoke(manager.callbacks.OnShow)
	})
	manager.toggleItem = fyne.NewMenuItem("", manager.toggle)
	manager.refreshLabels()
	manager.refreshMenu()

	return manager
}

// Render updates the tray from snapshot.
func (manager *Manager) Render(snapshot session.Snapshot) {
	clock := snapshot.Clock()
	if clock == manager.clock && snapshot.Running == manager.running {
		return
	}
	manager.clock = clock
	manager.running = snapshot.Running
	manager.refreshLabels()
	manager.refreshMenu()
}

func (manager *Manager) toggle() {
	if manager.running {
		invoke(manager.callbacks.OnPause)
		return
	}
	invoke(manager.callbacks.OnStart)
}

func (manager *Manager) refreshLabels() {
	manager.clockItem.Label = "🕒 " + manager.clock
	if manager.running {
		manager.toggleItem.Label = "⏸ Pause"
	} else {
		manager.toggleItem.Label = "▶ Start"
	}
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu(menuTitle,
		manager.clockItem,
		fyne.NewMenuItemSeparator(),
		manager.toggleItem,
		fyne.NewMenuItem("🔁 Reset", func() {
			invoke(manager.callbacks.OnReset)
		}),
		fyne.NewMenuItem("Settings", func() {
			invoke(manager.callbacks.OnSettings)
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			invoke(manager.callbacks.OnQuit)
		}),
	))
}

func invoke(callback func()) {
	if callback != nil {
		callback()
	}
}
