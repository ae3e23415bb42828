package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pomowave/internal/core/model"

	"gopkg.in/yaml.v3"
)

const configFileName = "config.yaml"

type yamlDurations struct {
	Pomodoro  int `yaml:"pomodoro"`
	Break     int `yaml:"break"`
	LongBreak int `yaml:"long_break"`
	Custom    int `yaml:"custom"`
}

type yamlSound struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type yamlConfig struct {
	BootDelaySeconds *int          `yaml:"boot_delay_seconds"`
	Durations        yamlDurations `yaml:"durations"`
	DefaultSound     string        `yaml:"default_sound"`
	Sounds           []yamlSound   `yaml:"sounds"`
	LogLevel         string        `yaml:"log_level"`
}

// LoadConfig reads startup options from the user config directory.
// If the config file does not exist, the default config is returned.
// The file is never written back.
func LoadConfig(appName string) (model.AppConfig, error) {
	configPath, err := ConfigPath(appName)
	if err != nil {
		return model.DefaultAppConfig(), err
	}
	return LoadConfigFile(configPath)
}

// LoadConfigFile reads startup options from path.
func LoadConfigFile(path string) (model.AppConfig, error) {
	config := model.DefaultAppConfig()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config, nil
		}
		return config, fmt.Errorf("read config file: %w", err)
	}

	var fileData yamlConfig
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return config, fmt.Errorf("parse config yaml: %w", err)
	}

	applyYamlConfig(&config, fileData)
	return config, nil
}

// ConfigPath returns the location LoadConfig reads from.
func ConfigPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, configFileName), nil
}

func applyYamlConfig(config *model.AppConfig, fileData yamlConfig) {
	if fileData.BootDelaySeconds != nil && *fileData.BootDelaySeconds >= 0 {
		config.BootDelay = time.Duration(*fileData.BootDelaySeconds) * time.Second
	}

	overrides := map[model.Mode]int{
		model.ModePomodoro:  fileData.Durations.Pomodoro,
		model.ModeBreak:     fileData.Durations.Break,
		model.ModeLongBreak: fileData.Durations.LongBreak,
		model.ModeCustom:    fileData.Durations.Custom,
	}
	for mode, minutes := range overrides {
		if minutes > 0 {
			config.Durations[mode] = minutes
		}
	}

	var sounds []model.Sound
	for _, sound := range fileData.Sounds {
		name := strings.TrimSpace(sound.Name)
		url := strings.TrimSpace(sound.URL)
		if name == "" || url == "" {
			continue
		}
		sounds = append(sounds, model.Sound{Name: name, URL: url})
	}
	if len(sounds) > 0 {
		config.Sounds = sounds
		config.DefaultSound = sounds[0].URL
	}

	if defaultSound := strings.TrimSpace(fileData.DefaultSound); defaultSound != "" {
		if url, ok := config.SoundURL(defaultSound); ok {
			config.DefaultSound = url
		} else {
			config.DefaultSound = defaultSound
		}
	}

	if level := strings.TrimSpace(fileData.LogLevel); level != "" {
		config.LogLevel = strings.ToLower(level)
	}
}
