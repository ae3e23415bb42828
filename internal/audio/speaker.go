package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

// DefaultSampleRate is the rate the speaker is opened with.
const DefaultSampleRate = beep.SampleRate(44100)

const resampleQuality = 4

// Speaker is an Output backed by the system audio device. The device is
// opened lazily on first use.
type Speaker struct {
	rate    beep.SampleRate
	once    sync.Once
	initErr error
}

// NewSpeaker returns a Speaker that plays at rate.
func NewSpeaker(rate beep.SampleRate) *Speaker {
	return &Speaker{rate: rate}
}

// Play queues streamer, resampling it to the speaker rate when needed.
func (out *Speaker) Play(streamer beep.Streamer, format beep.Format) error {
	out.once.Do(func() {
		out.initErr = speaker.Init(out.rate, out.rate.N(time.Second/10))
	})
	if out.initErr != nil {
		return fmt.Errorf("init speaker: %w", out.initErr)
	}

	if format.SampleRate != out.rate {
		streamer = beep.Resample(resampleQuality, format.SampleRate, out.rate, streamer)
	}
	speaker.Play(streamer)
	return nil
}
