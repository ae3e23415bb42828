// Package audio plays notification sounds through the system speaker.
package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"pomowave/resources"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"
	"github.com/rs/zerolog/log"
)

const (
	builtinPrefix = "builtin:"
	maxSoundBytes = 8 << 20
	fetchTimeout  = 10 * time.Second
)

// ErrUnsupportedSound indicates the sound identifier cannot be resolved.
var ErrUnsupportedSound = errors.New("unsupported sound identifier")

type encoding int

const (
	encodingWAV encoding = iota
	encodingMP3
)

// Output receives decoded streams.
type Output interface {
	Play(streamer beep.Streamer, format beep.Format) error
}

// Options configures a Player.
type Options struct {
	Client   *http.Client
	Output   Output
	Fallback string
}

// Player resolves sound identifiers and plays them without blocking the caller.
// Remote assets are fetched once and cached by identifier.
type Player struct {
	client   *http.Client
	output   Output
	fallback string

	mu    sync.Mutex
	cache map[string]asset
	wg    sync.WaitGroup
}

type asset struct {
	data     []byte
	encoding encoding
}

// NewPlayer creates a Player. Missing options fall back to the system
// speaker, http.DefaultClient and the embedded beep.
func NewPlayer(options Options) *Player {
	if options.Client == nil {
		options.Client = http.DefaultClient
	}
	if options.Output == nil {
		options.Output = NewSpeaker(DefaultSampleRate)
	}
	if options.Fallback == "" {
		options.Fallback = builtinPrefix + resources.DefaultSound
	}
	return &Player{
		client:   options.Client,
		output:   options.Output,
		fallback: options.Fallback,
		cache:    make(map[string]asset),
	}
}

// Play starts playback of soundID in the background. Failures are logged
// and the fallback sound is played instead.
func (player *Player) Play(soundID string) {
	player.wg.Add(1)
	go func() {
		defer player.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		err := player.PlayContext(ctx, soundID)
		if err == nil {
			return
		}
		log.Warn().Err(err).Str("sound", soundID).Msg("play sound failed, using fallback")
		if soundID == player.fallback {
			return
		}
		if err := player.PlayContext(ctx, player.fallback); err != nil {
			log.Error().Err(err).Str("sound", player.fallback).Msg("play fallback sound failed")
		}
	}()
}

// PlayContext resolves, decodes and queues soundID on the output.
func (player *Player) PlayContext(ctx context.Context, soundID string) error {
	loaded, err := player.load(ctx, soundID)
	if err != nil {
		return err
	}

	stream, format, err := decode(loaded)
	if err != nil {
		return fmt.Errorf("decode %s: %w", soundID, err)
	}

	done := beep.Seq(stream, beep.Callback(func() {
		_ = stream.Close()
	}))
	if err := player.output.Play(done, format); err != nil {
		_ = stream.Close()
		return fmt.Errorf("play %s: %w", soundID, err)
	}
	return nil
}

// Wait blocks until every background Play call has been handed to the output.
func (player *Player) Wait() {
	player.wg.Wait()
}

func (player *Player) load(ctx context.Context, soundID string) (asset, error) {
	player.mu.Lock()
	cached, ok := player.cache[soundID]
	player.mu.Unlock()
	if ok {
		return cached, nil
	}

	var loaded asset
	switch {
	case strings.HasPrefix(soundID, builtinPrefix):
		name := strings.TrimPrefix(soundID, builtinPrefix)
		data, err := resources.Sound(name)
		if err != nil {
			return asset{}, err
		}
		loaded = asset{data: data, encoding: encodingFor(name, "")}
	default:
		fetched, err := player.fetch(ctx, soundID)
		if err != nil {
			return asset{}, err
		}
		loaded = fetched
	}

	player.mu.Lock()
	player.cache[soundID] = loaded
	player.mu.Unlock()
	return loaded, nil
}

func (player *Player) fetch(ctx context.Context, soundID string) (asset, error) {
	parsed, err := url.Parse(soundID)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return asset{}, fmt.Errorf("%w: %q", ErrUnsupportedSound, soundID)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, soundID, nil)
	if err != nil {
		return asset{}, fmt.Errorf("build request: %w", err)
	}
	response, err := player.client.Do(request)
	if err != nil {
		return asset{}, fmt.Errorf("fetch sound: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return asset{}, fmt.Errorf("fetch sound: unexpected status %s", response.Status)
	}

	data, err := io.ReadAll(io.LimitReader(response.Body, maxSoundBytes))
	if err != nil {
		return asset{}, fmt.Errorf("read sound body: %w", err)
	}

	log.Debug().Str("sound", soundID).Int("bytes", len(data)).Msg("fetched sound")
	return asset{data: data, encoding: encodingFor(parsed.Path, response.Header.Get("Content-Type"))}, nil
}

func encodingFor(name, contentType string) encoding {
	switch strings.ToLower(path.Ext(name)) {
	case ".mp3":
		return encodingMP3
	case ".wav":
		return encodingWAV
	}
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil && mediaType == "audio/mpeg" {
		return encodingMP3
	}
	return encodingWAV
}

func decode(loaded asset) (beep.StreamSeekCloser, beep.Format, error) {
	if loaded.encoding == encodingMP3 {
		return mp3.Decode(io.NopCloser(bytes.NewReader(loaded.data)))
	}
	return wav.Decode(bytes.NewReader(loaded.data))
}
