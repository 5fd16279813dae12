package outputs

import (
	"math"
	"testing"

	"github.com/lixenwraith/cw-outputs/morse"
)

// TestBuildPlanSingleLetter verifies offsets within a letter: one unit
// of implicit silence between adjacent tones
func TestBuildPlanSingleLetter(t *testing.T) {
	// "S" is dot dot dot
	plan := buildPlan(morse.Pattern{morse.Dot, morse.Dot, morse.Dot}, 60, 1000)

	if len(plan) != 3 {
		t.Fatalf("Expected 3 scheduled symbols, got %d", len(plan))
	}

	wantOffsets := []float64{0, 120, 240}
	for i, sym := range plan {
		if sym.Sequence != uint64(i+1) {
			t.Errorf("Symbol %d: expected sequence %d, got %d", i, i+1, sym.Sequence)
		}
		if sym.OffsetMs != wantOffsets[i] {
			t.Errorf("Symbol %d: expected offset %f, got %f", i, wantOffsets[i], sym.OffsetMs)
		}
		if sym.DurationMs != 60 {
			t.Errorf("Symbol %d: expected duration 60, got %f", i, sym.DurationMs)
		}
		if sym.ExpectedTimestampMs != 1000+wantOffsets[i] {
			t.Errorf("Symbol %d: expected timestamp %f, got %f",
				i, 1000+wantOffsets[i], sym.ExpectedTimestampMs)
		}
	}
}

// TestBuildPlanLetterGap verifies a gap contributes three units of
// silence on top of the implicit unit already accumulated
func TestBuildPlanLetterGap(t *testing.T) {
	// "E I" spacing at 60ms units: E at 0, gap widens I's first dot to
	// 60+180 = 240
	pattern := morse.Pattern{morse.Dot, morse.Gap, morse.Dot, morse.Dot}
	plan := buildPlan(pattern, 60, 0)

	if len(plan) != 3 {
		t.Fatalf("Expected 3 tones, got %d", len(plan))
	}
	wantOffsets := []float64{0, 300, 420}
	for i, sym := range plan {
		if sym.OffsetMs != wantOffsets[i] {
			t.Errorf("Tone %d: expected offset %f, got %f", i, wantOffsets[i], sym.OffsetMs)
		}
	}
}

// TestBuildPlanDashDuration verifies dashes schedule three units
func TestBuildPlanDashDuration(t *testing.T) {
	plan := buildPlan(morse.Pattern{morse.Dash, morse.Dot}, 80, 0)

	if plan[0].DurationMs != 240 {
		t.Errorf("Expected dash duration 240, got %f", plan[0].DurationMs)
	}
	// dash 240 plus one implicit unit
	if plan[1].OffsetMs != 320 {
		t.Errorf("Expected second offset 320, got %f", plan[1].OffsetMs)
	}
}

// TestBuildPlanEmpty verifies the empty pattern plans nothing
func TestBuildPlanEmpty(t *testing.T) {
	if plan := buildPlan(nil, 60, 0); len(plan) != 0 {
		t.Errorf("Expected empty plan, got %d entries", len(plan))
	}
	// gap-only patterns produce no tones either
	if plan := buildPlan(morse.Pattern{morse.Gap, morse.Gap}, 60, 0); len(plan) != 0 {
		t.Errorf("Expected no tones for gap-only pattern, got %d", len(plan))
	}
}

// TestDispatchLead verifies the actuator lead clamps
func TestDispatchLead(t *testing.T) {
	tests := []struct {
		name          string
		offset, gap   float64
		want          float64
	}{
		{"first symbol gets no lead", 0, 0, 0},
		{"wide gap gets full lead", 300, 60, 4},
		{"short gap collapses to zero", 100, 14, 2},
		{"tiny gap collapses fully", 100, 10, 0},
		{"offset bounds the lead", 2, 300, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dispatchLead(tt.offset, tt.gap); got != tt.want {
				t.Errorf("Expected lead %f, got %f", tt.want, got)
			}
		})
	}
}

// TestResolveUnitMs verifies unit fallback
func TestResolveUnitMs(t *testing.T) {
	if got := resolveUnitMs(60); got != 60 {
		t.Errorf("Expected 60, got %f", got)
	}
	if got := resolveUnitMs(0); got != 80 {
		t.Errorf("Expected default unit for zero, got %f", got)
	}
	if got := resolveUnitMs(-5); got != 80 {
		t.Errorf("Expected default unit for negative, got %f", got)
	}
	if got := resolveUnitMs(math.NaN()); got != 80 {
		t.Errorf("Expected default unit for NaN, got %f", got)
	}
}

// TestResolveBrightness verifies percentage clamping
func TestResolveBrightness(t *testing.T) {
	if got := resolveBrightness(50); got != 50 {
		t.Errorf("Expected 50, got %f", got)
	}
	if got := resolveBrightness(-10); got != 0 {
		t.Errorf("Expected 0, got %f", got)
	}
	if got := resolveBrightness(150); got != 100 {
		t.Errorf("Expected 100, got %f", got)
	}
	if got := resolveBrightness(math.NaN()); got != 100 {
		t.Errorf("Expected 100 for NaN, got %f", got)
	}
}
