package outputs

// Phase tags the two lifecycle events emitted per symbol
type Phase string

const (
	// PhaseScheduled fires when the worker wakes for a symbol, before
	// the tone is commanded
	PhaseScheduled Phase = "scheduled"
	// PhaseActual fires once the tone and actuators have been raised
	PhaseActual Phase = "actual"
)

// DispatchEvent is delivered synchronously from the worker for every
// tone symbol: first with PhaseScheduled, then with PhaseActual, in
// sequence order. Observation fields below the lead are meaningful only
// in the actual phase, except ExpectedSincePriorMs which is also set on
// scheduled events from the second symbol on.
type DispatchEvent struct {
	Phase    Phase
	Symbol   string
	Sequence uint64

	PatternStartMs      float64
	ExpectedTimestampMs float64
	OffsetMs            float64
	DurationMs          float64
	UnitMs              float64
	ToneHz              float64

	// ScheduledTimestampMs is when the worker woke for this symbol;
	// LeadMs is how far before the audio start that wake was placed
	ScheduledTimestampMs float64
	LeadMs               float64

	ActualTimestampMs    float64
	MonotonicTimestampMs float64
	StartSkewMs          float64
	BatchElapsedMs       float64
	ExpectedSincePriorMs float64
	SincePriorMs         float64

	NativeFlashAvailable bool
	FlashHandledNatively bool
}

// SymbolDispatchCallback observes dispatch events. It runs on the
// worker goroutine: implementations must return quickly and must not
// re-enter the engine, or they cancel their own pattern.
type SymbolDispatchCallback func(DispatchEvent)
