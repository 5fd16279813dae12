package audio

import (
	"os"
	"strconv"

	"github.com/lixenwraith/cw-outputs/constant"
)

// Config holds engine audio defaults. Per-call options override these;
// invalid values resolve the same way request fields do.
type Config struct {
	SampleRate int
	ToneHz     float64
	UnitMs     float64
	Gain       float64
	AttackMs   float64
	ReleaseMs  float64
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		SampleRate: constant.SampleRate,
		ToneHz:     constant.DefaultToneHz,
		UnitMs:     constant.DefaultUnitMs,
		Gain:       constant.DefaultGain,
		AttackMs:   constant.DefaultAttackMs,
		ReleaseMs:  constant.DefaultReleaseMs,
	}
}

// LoadConfig loads audio configuration from environment variables
func LoadConfig() *Config {
	cfg := DefaultConfig()

	if rate := os.Getenv("CW_OUTPUTS_SAMPLE_RATE"); rate != "" {
		if val, err := strconv.Atoi(rate); err == nil && val > 0 {
			cfg.SampleRate = val
		}
	}

	if hz := os.Getenv("CW_OUTPUTS_TONE_HZ"); hz != "" {
		if val, err := strconv.ParseFloat(hz, 64); err == nil {
			cfg.ToneHz = ClampToneHz(val)
		}
	}

	if unit := os.Getenv("CW_OUTPUTS_UNIT_MS"); unit != "" {
		if val, err := strconv.ParseFloat(unit, 64); err == nil && val > 0 {
			cfg.UnitMs = val
		}
	}

	if gain := os.Getenv("CW_OUTPUTS_GAIN"); gain != "" {
		if val, err := strconv.ParseFloat(gain, 64); err == nil {
			cfg.Gain = ResolveGain(val)
		}
	}

	if attack := os.Getenv("CW_OUTPUTS_ATTACK_MS"); attack != "" {
		if val, err := strconv.ParseFloat(attack, 64); err == nil && val >= 0 {
			cfg.AttackMs = val
		}
	}

	if release := os.Getenv("CW_OUTPUTS_RELEASE_MS"); release != "" {
		if val, err := strconv.ParseFloat(release, 64); err == nil && val >= 0 {
			cfg.ReleaseMs = val
		}
	}

	return cfg
}
