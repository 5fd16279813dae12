package constant

import "time"

// Pattern playback parameters

const (
	// DashUnits is the tone length of a dash in units
	DashUnits = 3

	// SymbolGapUnits is the implicit silence between adjacent tones
	SymbolGapUnits = 1

	// WordGapUnits is the silence added by an explicit gap symbol
	WordGapUnits = 3

	// DefaultUnitMs is the base unit duration when a request carries
	// none (~15 wpm)
	DefaultUnitMs = 80.0

	// SleepQuantum is the worker sleep slice. Cancellation latency is
	// bounded by one quantum.
	SleepQuantum = time.Millisecond

	// DispatchLeadMs is how far before a symbol's audio start the worker
	// may wake to pre-roll slow actuators
	DispatchLeadMs = 4.0

	// MinDispatchOffsetMs is the slack that must remain in the gap
	// before a symbol for any lead to be taken at all
	MinDispatchOffsetMs = 12.0

	// OverlayReadyTimeoutMs bounds the wait for the flash overlay
	// surface before a pattern starts
	OverlayReadyTimeoutMs = 180

	// SnapshotCapacity bounds the telemetry snapshot queue; oldest
	// entries are dropped silently on overflow
	SnapshotCapacity = 64
)
