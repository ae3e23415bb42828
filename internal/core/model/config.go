package model

import "time"

// Mode selects which duration applies to the countdown.
type Mode string

const (
	ModePomodoro  Mode = "pomodoro"
	ModeBreak     Mode = "break"
	ModeLongBreak Mode = "longBreak"
	ModeCustom    Mode = "custom"
)

// Modes lists every mode in display order.
var Modes = []Mode{ModePomodoro, ModeBreak, ModeLongBreak, ModeCustom}

// Valid reports whether mode is one of the known presets.
func (mode Mode) Valid() bool {
	for _, known := range Modes {
		if mode == known {
			return true
		}
	}
	return false
}

// Label returns the button caption for the mode.
func (mode Mode) Label() string {
	switch mode {
	case ModePomodoro:
		return "🍅 Pomodoro"
	case ModeBreak:
		return "☕ Break"
	case ModeLongBreak:
		return "🎮 Long Break"
	case ModeCustom:
		return "⏲️ Custom"
	default:
		return string(mode)
	}
}

// DurationConfig maps every mode to its length in minutes.
// Values are stored as entered; callers floor them when deriving a countdown.
type DurationConfig map[Mode]int

// DefaultDurations returns the stock preset lengths.
func DefaultDurations() DurationConfig {
	return DurationConfig{
		ModePomodoro:  25,
		ModeBreak:     5,
		ModeLongBreak: 10,
		ModeCustom:    5,
	}
}

// Clone returns an independent copy.
func (durations DurationConfig) Clone() DurationConfig {
	clone := make(DurationConfig, len(durations))
	for mode, minutes := range durations {
		clone[mode] = minutes
	}
	return clone
}

// Seconds returns the countdown length for mode with a one minute floor.
func (durations DurationConfig) Seconds(mode Mode) int {
	minutes := durations[mode]
	if minutes < 1 {
		minutes = 1
	}
	return minutes * 60
}

// Sound is a selectable notification sound.
type Sound struct {
	Name string
	URL  string
}

const (
	SoundBeep  = "https://www.soundjay.com/button/beep-07.wav"
	SoundClick = "https://www.soundjay.com/button/beep-08b.wav"
	SoundDing  = "https://www.soundjay.com/button/button-3.wav"

	// BuiltinBeep plays the embedded asset and never touches the network.
	BuiltinBeep = "builtin:beep.wav"
)

// DefaultSounds returns the stock sound catalog.
func DefaultSounds() []Sound {
	return []Sound{
		{Name: "Beep", URL: SoundBeep},
		{Name: "Click", URL: SoundClick},
		{Name: "Ding", URL: SoundDing},
	}
}

// AppConfig contains startup options read from the config file.
type AppConfig struct {
	BootDelay    time.Duration
	Durations    DurationConfig
	DefaultSound string
	Sounds       []Sound
	LogLevel     string
}

// DefaultAppConfig returns the configuration used when no file is present.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		BootDelay:    3 * time.Second,
		Durations:    DefaultDurations(),
		DefaultSound: SoundBeep,
		Sounds:       DefaultSounds(),
		LogLevel:     "info",
	}
}

// SoundName returns the catalog name for url, or url itself when unknown.
func (config AppConfig) SoundName(url string) string {
	for _, sound := range config.Sounds {
		if sound.URL == url {
			return sound.Name
		}
	}
	return url
}

// SoundURL returns the catalog url for name.
func (config AppConfig) SoundURL(name string) (string, bool) {
	for _, sound := range config.Sounds {
		if sound.Name == name {
			return sound.URL, true
		}
	}
	return "", false
}
