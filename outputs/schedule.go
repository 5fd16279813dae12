package outputs

import (
	"math"

	"github.com/lixenwraith/cw-outputs/audio"
	"github.com/lixenwraith/cw-outputs/constant"
	"github.com/lixenwraith/cw-outputs/morse"
	"github.com/lixenwraith/cw-outputs/telemetry"
)

// PlaybackRequest describes one pattern playback
type PlaybackRequest struct {
	Pattern morse.Pattern
	ToneHz  float64
	UnitMs  float64
	Gain    float64
	// Envelope overrides the attack/release defaults when non-nil
	Envelope *audio.EnvelopeOptions

	FlashEnabled   bool
	HapticsEnabled bool
	TorchEnabled   bool

	FlashBrightnessPercent float64
	ScreenBrightnessBoost  bool
}

// ToneOptions describes a manually keyed tone
type ToneOptions struct {
	ToneHz   float64
	Gain     float64
	Envelope *audio.EnvelopeOptions
}

// buildPlan walks the pattern once, accumulating expected offsets.
// Each tone emits a ScheduledSymbol; a tone adds its duration plus one
// unit of implicit silence when anything follows it; a gap adds three
// units without emitting.
func buildPlan(pattern morse.Pattern, unitMs, patternStartMs float64) []telemetry.ScheduledSymbol {
	plan := make([]telemetry.ScheduledSymbol, 0, pattern.Tones())
	offset := 0.0
	var sequence uint64

	for i, sym := range pattern {
		if !sym.IsTone() {
			offset += float64(constant.WordGapUnits) * unitMs
			continue
		}

		sequence++
		duration := unitMs * float64(sym.Units())
		plan = append(plan, telemetry.ScheduledSymbol{
			Sequence:            sequence,
			Symbol:              sym,
			ExpectedTimestampMs: patternStartMs + offset,
			OffsetMs:            offset,
			DurationMs:          duration,
		})

		offset += duration
		if i < len(pattern)-1 {
			offset += float64(constant.SymbolGapUnits) * unitMs
		}
	}
	return plan
}

// resolveUnitMs falls back to the default unit for non-positive or
// non-finite values
func resolveUnitMs(unitMs float64) float64 {
	if math.IsNaN(unitMs) || math.IsInf(unitMs, 0) || unitMs <= 0 {
		return constant.DefaultUnitMs
	}
	return unitMs
}

// resolveBrightness clamps a percentage into [0, 100]; non-finite
// values fall back to full brightness
func resolveBrightness(pct float64) float64 {
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return 100
	}
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
