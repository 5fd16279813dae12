package telemetry

import (
	"sync"

	"github.com/lixenwraith/cw-outputs/constant"
	"github.com/lixenwraith/cw-outputs/morse"
)

// ScheduledSymbol is one planned tone of a pattern
type ScheduledSymbol struct {
	Sequence            uint64
	Symbol              morse.Symbol
	ExpectedTimestampMs float64
	OffsetMs            float64
	DurationMs          float64
}

// Snapshot records the observed execution of one symbol
type Snapshot struct {
	Sequence             uint64
	Symbol               morse.Symbol
	TimestampMs          float64
	DurationMs           float64
	PatternStartMs       float64
	ExpectedTimestampMs  float64
	StartSkewMs          float64
	BatchElapsedMs       float64
	ExpectedSincePriorMs float64
	SincePriorMs         float64
}

// Store holds the scheduled plan and the captured snapshots of the
// current pattern. The plan is overwritten atomically at plan time; the
// snapshot queue is a bounded FIFO that drops its oldest entry on
// overflow.
type Store struct {
	scheduleMu sync.Mutex
	schedule   []ScheduledSymbol

	symbolMu       sync.Mutex
	snapshots      []Snapshot
	patternStartMs float64
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		snapshots: make([]Snapshot, 0, constant.SnapshotCapacity),
	}
}

// SetSchedule installs a freshly built plan, replacing any previous one
func (s *Store) SetSchedule(plan []ScheduledSymbol, patternStartMs float64) {
	s.scheduleMu.Lock()
	s.schedule = plan
	s.scheduleMu.Unlock()

	s.symbolMu.Lock()
	s.patternStartMs = patternStartMs
	s.symbolMu.Unlock()
}

// ScheduledSymbols returns a copy of the installed plan
func (s *Store) ScheduledSymbols() []ScheduledSymbol {
	s.scheduleMu.Lock()
	defer s.scheduleMu.Unlock()
	plan := make([]ScheduledSymbol, len(s.schedule))
	copy(plan, s.schedule)
	return plan
}

// PatternStartMs returns the monotonic start of the current pattern
func (s *Store) PatternStartMs() float64 {
	s.symbolMu.Lock()
	defer s.symbolMu.Unlock()
	return s.patternStartMs
}

// PushSnapshot appends a snapshot, dropping the oldest entry when the
// queue is full
func (s *Store) PushSnapshot(snap Snapshot) {
	s.symbolMu.Lock()
	defer s.symbolMu.Unlock()
	if len(s.snapshots) >= constant.SnapshotCapacity {
		copy(s.snapshots, s.snapshots[1:])
		s.snapshots = s.snapshots[:len(s.snapshots)-1]
	}
	s.snapshots = append(s.snapshots, snap)
}

// PopSnapshot removes and returns the oldest snapshot
func (s *Store) PopSnapshot() (Snapshot, bool) {
	s.symbolMu.Lock()
	defer s.symbolMu.Unlock()
	if len(s.snapshots) == 0 {
		return Snapshot{}, false
	}
	snap := s.snapshots[0]
	copy(s.snapshots, s.snapshots[1:])
	s.snapshots = s.snapshots[:len(s.snapshots)-1]
	return snap, true
}

// SnapshotCount returns the number of queued snapshots
func (s *Store) SnapshotCount() int {
	s.symbolMu.Lock()
	defer s.symbolMu.Unlock()
	return len(s.snapshots)
}

// Reset clears the plan, the snapshots, and the pattern start. Called
// at the start of every pattern and on cancellation.
func (s *Store) Reset() {
	s.scheduleMu.Lock()
	s.schedule = nil
	s.scheduleMu.Unlock()

	s.symbolMu.Lock()
	s.snapshots = s.snapshots[:0]
	s.patternStartMs = 0
	s.symbolMu.Unlock()
}
