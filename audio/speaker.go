package audio

import (
	"fmt"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// SpeakerPlayer plays through the system audio device.
type SpeakerPlayer struct{}

// OpenSpeaker initializes the audio device with a 100ms buffer. Call Close
// when done.
func OpenSpeaker() (*SpeakerPlayer, error) {
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	return &SpeakerPlayer{}, nil
}

func (*SpeakerPlayer) Play(s ...beep.Streamer) {
	speaker.Play(s...)
}

func (*SpeakerPlayer) Close() {
	speaker.Close()
}
