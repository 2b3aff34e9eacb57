package parameter

import "time"

// Audio output
const (
	AudioSampleRate = 44100

	// AudioBufferDuration is the speaker buffer size
	AudioBufferDuration = 50 * time.Millisecond

	// CueVolume is the default gain of synthesized cues
	CueVolume = 0.25
)

// Cue synthesis
const (
	ShotFrequency  = 880.0
	ShotDuration   = 30 * time.Millisecond
	HitFrequency   = 220.0
	HitDuration    = 120 * time.Millisecond
	DeathFrequency = 110.0
	DeathDuration  = 400 * time.Millisecond
)
