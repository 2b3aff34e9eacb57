package audio

// Cue identifies a short synthesized sound effect
type Cue int

const (
	CueShot  Cue = iota // Player bullet fired
	CueHit              // Enemy took damage
	CueDeath            // Enemy or player destroyed
	cueCount
)

func (c Cue) String() string {
	switch c {
	case CueShot:
		return "shot"
	case CueHit:
		return "hit"
	case CueDeath:
		return "death"
	default:
		return "unknown"
	}
}

// Player plays cues without blocking the caller
type Player interface {
	Play(c Cue)
	Close()
}

// Silent discards every cue, used when muted or when no output device exists
type Silent struct{}

func (Silent) Play(Cue) {}
func (Silent) Close()   {}
