package parameter

import "time"

// Simulation & Frame Timing
const (
	// TickInterval is the fixed simulation step (60 Hz)
	TickInterval = time.Second / 60

	// FrameUpdateInterval is the rendering frame rate interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// MaxCatchUpTicks bounds the steps run for one wall-clock delta; excess time is dropped
	MaxCatchUpTicks = 5

	// FastForwardStep is the sub-step used when a time skip is replayed through the pipeline
	FastForwardStep = TickInterval

	// MaxDeliveryPasses bounds re-delivery of events published by handlers within one phase
	MaxDeliveryPasses = 16

	// InputPollInterval is how often the input goroutine checks key latch expiry
	InputPollInterval = 10 * time.Millisecond

	// InputLatchInitial holds a fresh key press until the terminal's auto-repeat delay has passed
	InputLatchInitial = 550 * time.Millisecond

	// InputLatchHold holds a repeated key between auto-repeat events
	InputLatchHold = 120 * time.Millisecond
)

// Timer classes disambiguate timer families sharing an id space on one entity
const (
	ClassDefault byte = iota
	ClassAction       // path action delays on enemies
	ClassPattern      // pattern-owned delays
	ClassLevel        // level event delays
	ClassRepeat       // spawn repeat triggers
	ClassFire         // player auto-fire
)

// Input hand-off limits
const (
	// InputQueueSize is the fixed capacity of the input ring buffer
	InputQueueSize = 256

	// InputBufferMask is the bitmask for fast modulo operations (256 - 1)
	InputBufferMask = 255
)

// StepTimeSmoothing is the moving average weight of the engine.step_ms gauge
const StepTimeSmoothing = 0.1
