package telemetry

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/lixenwraith/cw-outputs/constant"
	"github.com/lixenwraith/cw-outputs/morse"
)

// TestSnapshotFIFO verifies snapshots pop in push order
func TestSnapshotFIFO(t *testing.T) {
	s := NewStore()

	for i := uint64(1); i <= 3; i++ {
		s.PushSnapshot(Snapshot{Sequence: i, Symbol: morse.Dot})
	}
	if s.SnapshotCount() != 3 {
		t.Fatalf("Expected 3 snapshots, got %d", s.SnapshotCount())
	}

	for i := uint64(1); i <= 3; i++ {
		snap, ok := s.PopSnapshot()
		if !ok {
			t.Fatalf("Expected snapshot %d", i)
		}
		if snap.Sequence != i {
			t.Errorf("Expected sequence %d, got %d", i, snap.Sequence)
		}
	}

	if _, ok := s.PopSnapshot(); ok {
		t.Error("Expected empty store after draining")
	}
}

// TestSnapshotOverflowDropsOldest verifies the queue drops its oldest
// entry at capacity
func TestSnapshotOverflowDropsOldest(t *testing.T) {
	s := NewStore()

	total := constant.SnapshotCapacity + 5
	for i := 1; i <= total; i++ {
		s.PushSnapshot(Snapshot{Sequence: uint64(i)})
	}

	if s.SnapshotCount() != constant.SnapshotCapacity {
		t.Fatalf("Expected count capped at %d, got %d", constant.SnapshotCapacity, s.SnapshotCount())
	}

	snap, ok := s.PopSnapshot()
	if !ok {
		t.Fatal("Expected a snapshot")
	}
	if snap.Sequence != uint64(total-constant.SnapshotCapacity+1) {
		t.Errorf("Expected oldest surviving sequence %d, got %d",
			total-constant.SnapshotCapacity+1, snap.Sequence)
	}
}

// TestScheduleRoundTrip verifies plan install and copy-out
func TestScheduleRoundTrip(t *testing.T) {
	s := NewStore()
	plan := []ScheduledSymbol{
		{Sequence: 1, Symbol: morse.Dot, OffsetMs: 0, DurationMs: 60},
		{Sequence: 2, Symbol: morse.Dash, OffsetMs: 120, DurationMs: 180},
	}
	s.SetSchedule(plan, 1000)

	if s.PatternStartMs() != 1000 {
		t.Errorf("Expected pattern start 1000, got %f", s.PatternStartMs())
	}

	got := s.ScheduledSymbols()
	if len(got) != 2 {
		t.Fatalf("Expected 2 scheduled symbols, got %d", len(got))
	}

	// The copy must be detached from the installed plan
	got[0].Sequence = 99
	if s.ScheduledSymbols()[0].Sequence != 1 {
		t.Error("Expected ScheduledSymbols to return a copy")
	}
}

// TestReset verifies reset clears plan, snapshots and pattern start
func TestReset(t *testing.T) {
	s := NewStore()
	s.SetSchedule([]ScheduledSymbol{{Sequence: 1}}, 500)
	s.PushSnapshot(Snapshot{Sequence: 1})

	s.Reset()

	if len(s.ScheduledSymbols()) != 0 {
		t.Error("Expected empty schedule after reset")
	}
	if s.SnapshotCount() != 0 {
		t.Error("Expected no snapshots after reset")
	}
	if s.PatternStartMs() != 0 {
		t.Error("Expected zero pattern start after reset")
	}
}

// TestSnapshotJSON verifies the hand-formatted record parses and
// carries three-decimal timing values
func TestSnapshotJSON(t *testing.T) {
	snap := Snapshot{
		Sequence:             2,
		Symbol:               morse.Dash,
		TimestampMs:          1234.5678,
		DurationMs:           180,
		PatternStartMs:       1000,
		ExpectedTimestampMs:  1230,
		StartSkewMs:          4.5678,
		BatchElapsedMs:       234.5678,
		ExpectedSincePriorMs: 120,
		SincePriorMs:         121.25,
	}

	text := snap.JSON(1300)

	var decoded map[string]any
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		t.Fatalf("Expected valid JSON, got error %v from %s", err, text)
	}

	if decoded["sequence"].(float64) != 2 {
		t.Errorf("Expected sequence 2, got %v", decoded["sequence"])
	}
	if decoded["symbol"].(string) != "-" {
		t.Errorf("Expected symbol -, got %v", decoded["symbol"])
	}
	if !strings.Contains(text, `"timestampMs":1234.568`) {
		t.Errorf("Expected three-decimal timestamp, got %s", text)
	}
	if !strings.Contains(text, `"ageMs":65.432`) {
		t.Errorf("Expected ageMs relative to read time, got %s", text)
	}
}

// TestScheduleJSON verifies the plan renders as a JSON array
func TestScheduleJSON(t *testing.T) {
	s := NewStore()

	if s.ScheduleJSON() != "[]" {
		t.Errorf("Expected empty array, got %s", s.ScheduleJSON())
	}

	s.SetSchedule([]ScheduledSymbol{
		{Sequence: 1, Symbol: morse.Dot, ExpectedTimestampMs: 1000, OffsetMs: 0, DurationMs: 60},
		{Sequence: 2, Symbol: morse.Dash, ExpectedTimestampMs: 1120, OffsetMs: 120, DurationMs: 180},
	}, 1000)

	text := s.ScheduleJSON()
	var decoded []map[string]any
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		t.Fatalf("Expected valid JSON array, got error %v from %s", err, text)
	}
	if len(decoded) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(decoded))
	}
	if decoded[1]["offsetMs"].(float64) != 120 {
		t.Errorf("Expected second offset 120, got %v", decoded[1]["offsetMs"])
	}
}
