package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/lixenwraith/danmaku/parameter"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator returns a finite streamer of the given wave shape
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			val = 1
			if o.phase >= 0.5 {
				val = -1
			}
		case WaveSaw:
			val = 2 * (o.phase - 0.5)
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies linear attack and release to a stream
type envelope struct {
	streamer     beep.Streamer
	position     int
	attack       int
	release      int
	releaseStart int
	total        int
}

// NewEnvelope shapes s over duration; attack and release are clamped to fit
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := min(rate.N(attack), total)
	rel := min(rate.N(release), total-att)
	return &envelope{
		streamer:     s,
		attack:       att,
		release:      rel,
		releaseStart: total - rel,
		total:        total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		if e.position >= e.total {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		}
		if e.position >= e.releaseStart && e.release > 0 {
			vol = float64(e.total-e.position) / float64(e.release)
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume maps linear gain onto beep's log2 volume; zero gain is silent
func newVolume(s beep.Streamer, gain float64) beep.Streamer {
	if gain <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(gain)}
}

// Synthesize builds the finite streamer for a cue at the given gain.
// The result is bounded to the cue duration so mixed layers always drain
func Synthesize(c Cue, rate beep.SampleRate, gain float64) beep.Streamer {
	var (
		s beep.Streamer
		d time.Duration
	)
	switch c {
	case CueShot:
		d = parameter.ShotDuration
		s = NewEnvelope(NewOscillator(parameter.ShotFrequency, d, WaveSquare, rate), d, d/10, d/2, rate)

	case CueHit:
		d = parameter.HitDuration
		buzz := NewEnvelope(NewOscillator(parameter.HitFrequency, d, WaveSaw, rate), d, 5*time.Millisecond, d/2, rate)
		crack := NewEnvelope(NewOscillator(0, d/3, WaveNoise, rate), d/3, 0, d/3, rate)
		s = beep.Mix(newVolume(buzz, 0.7), newVolume(crack, 0.3))

	case CueDeath:
		d = parameter.DeathDuration
		var tone beep.Streamer
		if sine, err := generators.SineTone(rate, parameter.DeathFrequency); err == nil {
			tone = beep.Take(rate.N(d), sine)
		} else {
			tone = NewOscillator(parameter.DeathFrequency, d, WaveSine, rate)
		}
		rumble := NewEnvelope(tone, d, 10*time.Millisecond, d*3/4, rate)
		noise := NewEnvelope(NewOscillator(0, d/2, WaveNoise, rate), d/2, 0, d/2, rate)
		s = beep.Mix(newVolume(rumble, 0.6), newVolume(noise, 0.4))

	default:
		return nil
	}
	return newVolume(beep.Take(rate.N(d), s), gain)
}
