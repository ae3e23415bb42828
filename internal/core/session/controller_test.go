package session

import (
	"sync"
	"testing"
	"time"

	"pomowave/internal/core/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type recordingPlayer struct {
	mu     sync.Mutex
	played []string
}

func (player *recordingPlayer) Play(soundID string) {
	player.mu.Lock()
	defer player.mu.Unlock()
	player.played = append(player.played, soundID)
}

func (player *recordingPlayer) Played() []string {
	player.mu.Lock()
	defer player.mu.Unlock()
	return append([]string(nil), player.played...)
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (notifier *recordingNotifier) Notify(message string) {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	notifier.messages = append(notifier.messages, message)
}

func (notifier *recordingNotifier) Messages() []string {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	return append([]string(nil), notifier.messages...)
}

// advance delivers n ticks from the currently armed source.
func advance(controller *Controller, n int) {
	for i := 0; i < n; i++ {
		controller.mu.Lock()
		generation := controller.generation
		controller.mu.Unlock()
		controller.tick(generation)
	}
}

type ControllerSuite struct {
	suite.Suite
	controller *Controller
	player     *recordingPlayer
	notifier   *recordingNotifier
}

func (s *ControllerSuite) SetupTest() {
	// The real ticker never fires during a test; ticks are delivered by advance.
	s.controller = New(model.DefaultDurations(), model.SoundBeep, Config{TickInterval: time.Hour})
	s.player = &recordingPlayer{}
	s.notifier = &recordingNotifier{}
	s.controller.SetPlayer(s.player)
	s.controller.SetNotifier(s.notifier)
}

func (s *ControllerSuite) TearDownTest() {
	s.controller.Close()
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) TestInitialState() {
	snapshot := s.controller.Snapshot()
	s.Equal(model.ModePomodoro, snapshot.Mode)
	s.Equal(1500, snapshot.Remaining)
	s.False(snapshot.Running)
	s.Equal(0, snapshot.Completed)
	s.Equal(model.SoundBeep, snapshot.Sound)
	s.Equal(StateIdle, snapshot.State())
}

func (s *ControllerSuite) TestSelectModeLoadsDuration() {
	durations := model.DefaultDurations()
	for _, mode := range model.Modes {
		s.controller.Start()
		s.controller.SelectMode(mode)
		snapshot := s.controller.Snapshot()
		s.Equal(mode, snapshot.Mode)
		s.Equal(durations[mode]*60, snapshot.Remaining)
		s.False(snapshot.Running)
	}
}

func (s *ControllerSuite) TestSelectUnknownModeIgnored() {
	s.controller.SelectMode(model.ModeBreak)
	s.controller.SelectMode(model.Mode("nap"))
	s.Equal(model.ModeBreak, s.controller.Snapshot().Mode)
}

func (s *ControllerSuite) TestFullPomodoroCompletesOnce() {
	events := s.controller.Subscribe(4096)

	s.controller.SelectMode(model.ModePomodoro)
	s.Equal(1500, s.controller.Snapshot().Remaining)
	s.controller.Start()
	s.True(s.controller.Snapshot().Running)

	advance(s.controller, 1500)

	snapshot := s.controller.Snapshot()
	s.Equal(1, snapshot.Completed)
	s.Equal(1500, snapshot.Remaining)
	s.False(snapshot.Running)

	completions := 0
	ticks := 0
	for len(events) > 0 {
		event := <-events
		switch event.Type {
		case EventCompleted:
			completions++
			s.Equal(StateExpired, event.State)
			s.Equal(CompletionMessage, event.Message)
		case EventTick:
			ticks++
		}
	}
	s.Equal(1, completions)
	s.Equal(1499, ticks)

	s.Eventually(func() bool { return len(s.player.Played()) == 1 }, time.Second, 5*time.Millisecond)
	s.Eventually(func() bool { return len(s.notifier.Messages()) == 1 }, time.Second, 5*time.Millisecond)
	s.Equal([]string{CompletionMessage}, s.notifier.Messages())
}

func (s *ControllerSuite) TestTicksAfterCompletionAreIgnored() {
	s.controller.UpdateDuration(model.ModeBreak, 1)
	s.controller.SelectMode(model.ModeBreak)
	s.controller.Start()
	advance(s.controller, 60)
	advance(s.controller, 30)

	snapshot := s.controller.Snapshot()
	s.Equal(1, snapshot.Completed)
	s.Equal(60, snapshot.Remaining)
}

func (s *ControllerSuite) TestPauseFreezesRemaining() {
	s.controller.Start()
	advance(s.controller, 10)
	s.controller.Pause()

	before := s.controller.Snapshot()
	s.False(before.Running)
	s.Equal(1490, before.Remaining)

	advance(s.controller, 100)
	s.Equal(1490, s.controller.Snapshot().Remaining)

	s.controller.Start()
	advance(s.controller, 1)
	s.Equal(1489, s.controller.Snapshot().Remaining)
}

func (s *ControllerSuite) TestStaleTickSourceIgnored() {
	s.controller.Start()
	s.controller.mu.Lock()
	stale := s.controller.generation
	s.controller.mu.Unlock()

	s.controller.Pause()
	s.controller.Start()
	s.controller.tick(stale)
	s.Equal(1500, s.controller.Snapshot().Remaining)
}

func (s *ControllerSuite) TestStartWhileRunningKeepsTickSource() {
	s.controller.Start()
	s.controller.mu.Lock()
	generation := s.controller.generation
	s.controller.mu.Unlock()

	s.controller.Start()
	s.controller.mu.Lock()
	defer s.controller.mu.Unlock()
	s.Equal(generation, s.controller.generation)
}

func (s *ControllerSuite) TestResetAfterPartialCountdown() {
	s.controller.UpdateDuration(model.ModeBreak, 1)
	s.controller.SelectMode(model.ModeBreak)
	s.controller.Start()
	advance(s.controller, 60)
	s.Equal(1, s.controller.Snapshot().Completed)

	s.controller.Start()
	advance(s.controller, 25)
	s.controller.Reset()

	snapshot := s.controller.Snapshot()
	s.Equal(60, snapshot.Remaining)
	s.False(snapshot.Running)
	s.Equal(1, snapshot.Completed)
}

func (s *ControllerSuite) TestZeroDurationFloorsToOneMinute() {
	s.controller.UpdateDuration(model.ModeCustom, 0)
	s.Equal(0, s.controller.Snapshot().Durations[model.ModeCustom])

	s.controller.SelectMode(model.ModeCustom)
	s.Equal(60, s.controller.Snapshot().Remaining)
}

func (s *ControllerSuite) TestNegativeDurationStoredAsIs() {
	s.controller.UpdateDuration(model.ModeLongBreak, -4)
	s.Equal(-4, s.controller.Snapshot().Durations[model.ModeLongBreak])
}

func (s *ControllerSuite) TestUpdatedBreakDuration() {
	s.controller.UpdateDuration(model.ModeBreak, 10)
	s.controller.SelectMode(model.ModeBreak)
	s.Equal(600, s.controller.Snapshot().Remaining)
}

func (s *ControllerSuite) TestSelectedSoundPlaysOnCompletion() {
	s.controller.SelectSound(model.SoundDing)
	s.controller.UpdateDuration(model.ModeCustom, 1)
	s.controller.SelectMode(model.ModeCustom)
	s.controller.Start()
	advance(s.controller, 60)

	s.Eventually(func() bool { return len(s.player.Played()) == 1 }, time.Second, 5*time.Millisecond)
	s.Equal([]string{model.SoundDing}, s.player.Played())
}

func (s *ControllerSuite) TestApplySettingsRecomputesWhileRunning() {
	s.controller.OpenSettings()
	s.True(s.controller.Snapshot().SettingsOpen)

	s.controller.Start()
	advance(s.controller, 100)
	s.controller.UpdateDuration(model.ModePomodoro, 2)
	s.Equal(1400, s.controller.Snapshot().Remaining)

	s.controller.ApplySettings()
	snapshot := s.controller.Snapshot()
	s.False(snapshot.SettingsOpen)
	s.True(snapshot.Running)
	s.Equal(120, snapshot.Remaining)

	advance(s.controller, 1)
	s.Equal(119, s.controller.Snapshot().Remaining)
}

func (s *ControllerSuite) TestApplySettingsKeepsIdle() {
	s.controller.UpdateDuration(model.ModePomodoro, 0)
	s.controller.ApplySettings()
	snapshot := s.controller.Snapshot()
	s.False(snapshot.Running)
	s.Equal(60, snapshot.Remaining)
}

func (s *ControllerSuite) TestCloseSettingsKeepsLiveEdits() {
	s.controller.OpenSettings()
	s.controller.UpdateDuration(model.ModePomodoro, 30)
	s.controller.CloseSettings()

	snapshot := s.controller.Snapshot()
	s.False(snapshot.SettingsOpen)
	s.Equal(30, snapshot.Durations[model.ModePomodoro])
	s.Equal(1500, snapshot.Remaining)
}

func (s *ControllerSuite) TestCloseClosesSubscribers() {
	events := s.controller.Subscribe(1)
	s.controller.Close()
	_, ok := <-events
	s.False(ok)

	late := s.controller.Subscribe(1)
	_, ok = <-late
	s.False(ok)

	s.controller.Start()
	s.False(s.controller.Snapshot().Running)
}

func TestRealTickerCompletes(t *testing.T) {
	controller := New(model.DurationConfig{model.ModePomodoro: 1}, model.SoundClick, Config{TickInterval: time.Millisecond})
	defer controller.Close()
	player := &recordingPlayer{}
	controller.SetPlayer(player)

	controller.Start()
	require.Eventually(t, func() bool {
		return controller.Snapshot().Completed == 1
	}, 5*time.Second, 5*time.Millisecond)

	snapshot := controller.Snapshot()
	assert.False(t, snapshot.Running)
	assert.Equal(t, 60, snapshot.Remaining)
	require.Eventually(t, func() bool { return len(player.Played()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{model.SoundClick}, player.Played())
}

func TestFormatClock(t *testing.T) {
	cases := map[int]string{
		0:    "00:00",
		59:   "00:59",
		60:   "01:00",
		1500: "25:00",
		6000: "100:00",
		-5:   "00:00",
	}
	for seconds, expected := range cases {
		assert.Equal(t, expected, FormatClock(seconds))
	}
}

func (s *ControllerSuite) TestSnapshotStateAfterCompletion() {
	events := s.controller.Subscribe(256)
	s.controller.UpdateDuration(model.ModeBreak, 1)
	s.controller.SelectMode(model.ModeBreak)
	s.controller.Start()
	s.Equal(StateRunning, s.controller.Snapshot().State())

	advance(s.controller, 60)
	s.Equal(StateIdle, s.controller.Snapshot().State())

	var completed []Event
	for len(events) > 0 {
		if event := <-events; event.Type == EventCompleted {
			completed = append(completed, event)
		}
	}
	s.Require().Len(completed, 1)
	s.Equal(StateExpired, completed[0].State)
	s.Equal(60, completed[0].Snapshot.Remaining)
}
