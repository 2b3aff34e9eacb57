package audio

import (
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/lixenwraith/danmaku/parameter"
)

// Speaker mixes cues onto the system audio device
type Speaker struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	rate   beep.SampleRate
	gain   float64
	active bool
	log    *zap.Logger
}

// NewSpeaker initializes the output device. On failure the caller should fall back to Silent
func NewSpeaker(gain float64, log *zap.Logger) (*Speaker, error) {
	if log == nil {
		log = zap.NewNop()
	}
	rate := beep.SampleRate(parameter.AudioSampleRate)
	if err := speaker.Init(rate, rate.N(parameter.AudioBufferDuration)); err != nil {
		return nil, err
	}

	s := &Speaker{
		mixer:  &beep.Mixer{},
		rate:   rate,
		gain:   gain,
		active: true,
		log:    log,
	}
	speaker.Play(s.mixer)
	log.Debug("audio initialized", zap.Int("rate", int(rate)), zap.Float64("gain", gain))
	return s, nil
}

func (s *Speaker) Play(c Cue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}

	st := Synthesize(c, s.rate, s.gain)
	if st == nil {
		return
	}
	speaker.Lock()
	s.mixer.Add(st)
	speaker.Unlock()
}

// Close drops pending cues and releases the device
func (s *Speaker) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	s.active = false

	speaker.Lock()
	s.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
}

// Open returns a Speaker, or Silent when muted or when the device is unavailable
func Open(muted bool, gain float64, log *zap.Logger) Player {
	if muted {
		return Silent{}
	}
	s, err := NewSpeaker(gain, log)
	if err != nil {
		if log != nil {
			log.Warn("audio unavailable, continuing silent", zap.Error(err))
		}
		return Silent{}
	}
	return s
}
