package main

import (
	"context"
	"errors"
	"os"
	"time"

	"pomowave/internal/audio"
	"pomowave/internal/core/session"
	"pomowave/internal/platform"
	"pomowave/internal/storage"
	"pomowave/internal/ui/mainwindow"
	"pomowave/internal/ui/preferences"
	"pomowave/internal/ui/splash"
	"pomowave/internal/ui/tray"
	"pomowave/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	appName     = "Pomowave"
	bootMessage = "Booting Pomowave ..."
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true})

	config, err := storage.LoadConfig(appName)
	if err != nil {
		log.Warn().Err(err).Msg("load config, using defaults")
	}
	setLogLevel(config.LogLevel)

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			if activateErr := platform.ActivateRunning(appName); activateErr != nil {
				log.Warn().Err(activateErr).Msg("activate running instance")
			}
		}
		log.Info().Err(err).Msg("single instance")
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	fyneApp := app.NewWithID("com.pomowave.app")
	fyneApp.SetIcon(resources.MustLogo(resources.AppIcon))

	controller := session.New(config.Durations, config.DefaultSound, session.Config{TickInterval: time.Second})
	defer controller.Close()
	controller.SetPlayer(audio.NewPlayer(audio.Options{}))

	prefsWindow := preferences.New(fyneApp, controller, config.Sounds)
	mainWindow := mainwindow.New(fyneApp, controller, prefsWindow.Show)
	controller.SetNotifier(mainWindow)
	mainWindow.Watch(controller.Subscribe(16))

	if desktopApp, ok := fyneApp.(desktop.App); ok {
		mainWindow.HideOnClose()
		desktopApp.SetSystemTrayIcon(fyneApp.Icon())
		trayManager := tray.New(desktopApp, tray.Callbacks{
			OnShow:     mainWindow.Show,
			OnStart:    controller.Start,
			OnPause:    controller.Pause,
			OnReset:    controller.Reset,
			OnSettings: prefsWindow.Show,
			OnQuit:     fyneApp.Quit,
		})
		watchTray(trayManager, controller.Subscribe(16))
	} else {
		mainWindow.Window().SetMaster()
		log.Info().Msg("system tray unsupported on this platform")
	}

	guard.Serve(func() {
		fyne.Do(mainWindow.Show)
	})

	log.Info().
		Interface("durations", config.Durations).
		Str("sound", config.SoundName(config.DefaultSound)).
		Msg("starting")

	bootSplash := splash.New(fyneApp, bootMessage)
	bootSplash.Show(context.Background(), config.BootDelay, mainWindow.Show)

	fyneApp.Run()
}

func watchTray(manager *tray.Manager, events <-chan session.Event) {
	go func() {
		for event := range events {
			snapshot := event.Snapshot
			fyne.Do(func() {
				manager.Render(snapshot)
			})
		}
	}()
}

func setLogLevel(level string) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}
