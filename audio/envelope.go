package audio

import (
	"math"

	"github.com/lixenwraith/cw-outputs/constant"
)

// Envelope is the resolved amplitude envelope for a tone
type Envelope struct {
	AttackMs  float64
	ReleaseMs float64
}

// EnvelopeOptions carries caller-supplied envelope times. Zero values
// are meaningful (an immediate transition), so requests use a pointer
// to distinguish "absent" from "zero".
type EnvelopeOptions struct {
	AttackMs  float64
	ReleaseMs float64
}

// DefaultEnvelope returns the click-suppression defaults
func DefaultEnvelope() Envelope {
	return Envelope{
		AttackMs:  constant.DefaultAttackMs,
		ReleaseMs: constant.DefaultReleaseMs,
	}
}

// ResolveEnvelope applies defaults for an absent envelope and treats
// negative or non-finite times as zero
func ResolveEnvelope(opts *EnvelopeOptions) Envelope {
	if opts == nil {
		return DefaultEnvelope()
	}
	env := Envelope{AttackMs: opts.AttackMs, ReleaseMs: opts.ReleaseMs}
	if !isFinite(env.AttackMs) || env.AttackMs < 0 {
		env.AttackMs = 0
	}
	if !isFinite(env.ReleaseMs) || env.ReleaseMs < 0 {
		env.ReleaseMs = 0
	}
	return env
}

// ResolveGain clamps gain into [0, 1]; non-finite values fall back to
// the default
func ResolveGain(gain float64) float64 {
	if !isFinite(gain) {
		return constant.DefaultGain
	}
	if gain < 0 {
		return 0
	}
	if gain > 1 {
		return 1
	}
	return gain
}

// ClampToneHz bounds a requested frequency; non-positive or non-finite
// values fall back to the default sidetone
func ClampToneHz(toneHz float64) float64 {
	if !isFinite(toneHz) || toneHz <= 0 {
		return constant.DefaultToneHz
	}
	if toneHz < constant.MinToneHz {
		return constant.MinToneHz
	}
	if toneHz > constant.MaxToneHz {
		return constant.MaxToneHz
	}
	return toneHz
}

// RampStep returns the per-frame gain increment that spans magnitude
// over durationMs. A zero duration yields the full magnitude, an
// immediate single-frame transition.
func RampStep(magnitude, durationMs, sampleRate float64) float64 {
	if durationMs <= 0 || sampleRate <= 0 {
		return magnitude
	}
	frames := math.Max(1, sampleRate*durationMs/1000)
	return magnitude / frames
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
