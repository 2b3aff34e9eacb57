package physics

// Strategy enumerates candidate pairs for the narrow phase
// emit may receive a pair more than once and in either order; the world dedups
// margin is the world's proximity margin; a pair closer than it must be emitted
type Strategy interface {
	Name() string
	Candidates(objects []*Object, margin float64, emit func(a, b *Object))
}

// TrackedPass tests every anchor against every object it can interact with
// Anchors are Interactive and NonInteractive objects (player, bounds, enemies);
// bullets are never tested against each other, so the cost is O(anchors*n)
// instead of O(n^2). Every legal pair has at least one anchor member.
type TrackedPass struct{}

func (TrackedPass) Name() string { return "tracked" }

func (TrackedPass) Candidates(objects []*Object, _ float64, emit func(a, b *Object)) {
	for _, a := range objects {
		if a.Group == SemiInteractive {
			continue
		}
		for _, b := range objects {
			if b == a || !CanInteract(a.Group, b.Group) {
				continue
			}
			// Anchor-anchor pairs are visited from both sides; keep one
			if b.Group != SemiInteractive && b.Handle < a.Handle {
				continue
			}
			emit(a, b)
		}
	}
}
