package session

import (
	"sync"
	"time"

	"pomowave/internal/core/model"

	"github.com/rs/zerolog/log"
)

// CompletionMessage is shown to the user when a countdown finishes.
const CompletionMessage = "Timer complete!"

// SoundPlayer plays a notification sound. Play must not block.
type SoundPlayer interface {
	Play(soundID string)
}

// Notifier surfaces a completion notice to the user.
type Notifier interface {
	Notify(message string)
}

// Config contains runtime options for the Controller.
type Config struct {
	TickInterval time.Duration
}

// Controller owns the session state and drives the countdown.
//
// At most one tick goroutine is armed at a time. Arming and disarming both
// bump the generation counter, so a tick that was already waiting on the
// lock when its source got cancelled is dropped.
type Controller struct {
	mu           sync.Mutex
	options      Config
	durations    model.DurationConfig
	mode         model.Mode
	remaining    int
	running      bool
	completed    int
	sound        string
	settingsOpen bool
	player       SoundPlayer
	notifier     Notifier
	events       []chan Event
	stopTick     chan struct{}
	generation   uint64
	closed       bool
}

// New creates an idle Controller in pomodoro mode.
func New(durations model.DurationConfig, sound string, options Config) *Controller {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if durations == nil {
		durations = model.DefaultDurations()
	}
	if sound == "" {
		sound = model.SoundBeep
	}

	controller := &Controller{
		options:   options,
		durations: durations.Clone(),
		mode:      model.ModePomodoro,
		sound:     sound,
	}
	controller.remaining = controller.durations.Seconds(controller.mode)
	return controller
}

// SetPlayer injects the sound player.
func (controller *Controller) SetPlayer(player SoundPlayer) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.player = player
}

// SetNotifier injects the completion notifier.
func (controller *Controller) SetNotifier(notifier Notifier) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.notifier = notifier
}

// Subscribe registers a new observer channel.
func (controller *Controller) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	controller.mu.Lock()
	if controller.closed {
		controller.mu.Unlock()
		close(ch)
		return ch
	}
	controller.events = append(controller.events, ch)
	controller.mu.Unlock()
	return ch
}

// Snapshot returns a copy of the current state.
func (controller *Controller) Snapshot() Snapshot {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.snapshotLocked()
}

// SelectMode switches to mode, stops the countdown and reloads its duration.
func (controller *Controller) SelectMode(mode model.Mode) {
	if !mode.Valid() {
		log.Debug().Str("mode", string(mode)).Msg("ignoring unknown mode")
		return
	}

	controller.mu.Lock()
	controller.mode = mode
	controller.running = false
	controller.disarmLocked()
	controller.remaining = controller.durations.Seconds(mode)
	controller.emitLocked(EventStateChange, "")
	controller.mu.Unlock()
}

// Reset reloads the current mode.
func (controller *Controller) Reset() {
	controller.mu.Lock()
	mode := controller.mode
	controller.mu.Unlock()
	controller.SelectMode(mode)
}

// Start resumes the countdown. It is a no-op while already running.
func (controller *Controller) Start() {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if controller.closed || controller.running || controller.remaining <= 0 {
		return
	}
	controller.running = true
	controller.armLocked()
	controller.emitLocked(EventStateChange, "")
}

// Pause freezes the countdown, keeping the remaining time.
func (controller *Controller) Pause() {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if !controller.running {
		return
	}
	controller.running = false
	controller.disarmLocked()
	controller.emitLocked(EventStateChange, "")
}

// UpdateDuration stores minutes for mode without clamping.
func (controller *Controller) UpdateDuration(mode model.Mode, minutes int) {
	if !mode.Valid() {
		return
	}
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.durations[mode] = minutes
	controller.emitLocked(EventSettings, "")
}

// SelectSound changes the sound used by the next completion.
func (controller *Controller) SelectSound(soundID string) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.sound = soundID
	controller.emitLocked(EventSettings, "")
}

// OpenSettings marks the settings overlay visible.
func (controller *Controller) OpenSettings() {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.settingsOpen = true
	controller.emitLocked(EventSettings, "")
}

// CloseSettings hides the settings overlay without recomputing the countdown.
// Duration edits are already live and are kept.
func (controller *Controller) CloseSettings() {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if !controller.settingsOpen {
		return
	}
	controller.settingsOpen = false
	controller.emitLocked(EventSettings, "")
}

// ApplySettings closes the settings overlay and reloads the current mode's
// duration. A running countdown keeps running from the new value.
func (controller *Controller) ApplySettings() {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.settingsOpen = false
	controller.remaining = controller.durations.Seconds(controller.mode)
	if controller.running {
		controller.armLocked()
	}
	controller.emitLocked(EventStateChange, "")
}

// Close stops the countdown and closes all observers.
func (controller *Controller) Close() {
	controller.mu.Lock()
	if controller.closed {
		controller.mu.Unlock()
		return
	}
	controller.closed = true
	controller.running = false
	controller.disarmLocked()
	events := controller.events
	controller.events = nil
	controller.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (controller *Controller) armLocked() {
	controller.disarmLocked()
	stop := make(chan struct{})
	controller.stopTick = stop
	go controller.run(controller.generation, stop)
}

func (controller *Controller) disarmLocked() {
	if controller.stopTick != nil {
		close(controller.stopTick)
		controller.stopTick = nil
	}
	controller.generation++
}

func (controller *Controller) run(generation uint64, stop <-chan struct{}) {
	ticker := time.NewTicker(controller.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			controller.tick(generation)
		}
	}
}

func (controller *Controller) tick(generation uint64) {
	controller.mu.Lock()
	if generation != controller.generation || !controller.running || controller.remaining <= 0 {
		controller.mu.Unlock()
		return
	}

	controller.remaining--
	if controller.remaining > 0 {
		controller.emitLocked(EventTick, "")
		controller.mu.Unlock()
		return
	}

	sound, player, notifier := controller.expireLocked()
	controller.mu.Unlock()

	if player != nil {
		go player.Play(sound)
	}
	if notifier != nil {
		go notifier.Notify(CompletionMessage)
	}
}

// expireLocked completes the countdown and reloads the same mode. The
// collaborators are returned so they can be fired outside the lock.
func (controller *Controller) expireLocked() (string, SoundPlayer, Notifier) {
	controller.running = false
	controller.disarmLocked()
	controller.completed++
	controller.remaining = controller.durations.Seconds(controller.mode)

	log.Info().
		Str("mode", string(controller.mode)).
		Int("completed", controller.completed).
		Msg("countdown complete")

	controller.emitLocked(EventCompleted, CompletionMessage)
	return controller.sound, controller.player, controller.notifier
}

func (controller *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Mode:         controller.mode,
		Remaining:    controller.remaining,
		Running:      controller.running,
		Completed:    controller.completed,
		Durations:    controller.durations.Clone(),
		Sound:        controller.sound,
		SettingsOpen: controller.settingsOpen,
	}
}

func (controller *Controller) emitLocked(eventType EventType, message string) {
	snapshot := controller.snapshotLocked()
	state := snapshot.State()
	if eventType == EventCompleted {
		state = StateExpired
	}
	event := Event{
		Type:     eventType,
		State:    state,
		Snapshot: snapshot,
		Message:  message,
		At:       time.Now(),
	}
	for _, ch := range controller.events {
		select {
		case ch <- event:
		default:
		}
	}
}
