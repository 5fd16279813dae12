package audio

import (
	"testing"

	"github.com/lixenwraith/cw-outputs/constant"
)

// TestDefaultConfig verifies the built-in defaults
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("Expected non-nil default config")
	}
	if cfg.SampleRate != constant.SampleRate {
		t.Errorf("Expected sample rate %d, got %d", constant.SampleRate, cfg.SampleRate)
	}
	if cfg.ToneHz != constant.DefaultToneHz {
		t.Errorf("Expected tone %f, got %f", float64(constant.DefaultToneHz), cfg.ToneHz)
	}
	if cfg.UnitMs != constant.DefaultUnitMs {
		t.Errorf("Expected unit %f, got %f", float64(constant.DefaultUnitMs), cfg.UnitMs)
	}
	if cfg.Gain != constant.DefaultGain {
		t.Errorf("Expected gain %f, got %f", float64(constant.DefaultGain), cfg.Gain)
	}
}

// TestLoadConfigDefaults verifies loading with no env vars set
func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CW_OUTPUTS_SAMPLE_RATE", "")
	t.Setenv("CW_OUTPUTS_TONE_HZ", "")
	t.Setenv("CW_OUTPUTS_UNIT_MS", "")
	t.Setenv("CW_OUTPUTS_GAIN", "")

	cfg := LoadConfig()
	def := DefaultConfig()

	if *cfg != *def {
		t.Errorf("Expected defaults %+v, got %+v", def, cfg)
	}
}

// TestLoadConfigEnv verifies environment overrides
func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("CW_OUTPUTS_SAMPLE_RATE", "44100")
	t.Setenv("CW_OUTPUTS_TONE_HZ", "700")
	t.Setenv("CW_OUTPUTS_UNIT_MS", "60")
	t.Setenv("CW_OUTPUTS_GAIN", "0.5")

	cfg := LoadConfig()

	if cfg.SampleRate != 44100 {
		t.Errorf("Expected sample rate 44100, got %d", cfg.SampleRate)
	}
	if cfg.ToneHz != 700 {
		t.Errorf("Expected tone 700, got %f", cfg.ToneHz)
	}
	if cfg.UnitMs != 60 {
		t.Errorf("Expected unit 60, got %f", cfg.UnitMs)
	}
	if cfg.Gain != 0.5 {
		t.Errorf("Expected gain 0.5, got %f", cfg.Gain)
	}
}

// TestLoadConfigInvalidEnv verifies invalid values are sanitized or
// ignored
func TestLoadConfigInvalidEnv(t *testing.T) {
	t.Setenv("CW_OUTPUTS_SAMPLE_RATE", "banana")
	t.Setenv("CW_OUTPUTS_TONE_HZ", "99999")
	t.Setenv("CW_OUTPUTS_UNIT_MS", "-5")
	t.Setenv("CW_OUTPUTS_GAIN", "3.0")

	cfg := LoadConfig()

	if cfg.SampleRate != constant.SampleRate {
		t.Errorf("Expected default sample rate, got %d", cfg.SampleRate)
	}
	if cfg.ToneHz != constant.MaxToneHz {
		t.Errorf("Expected tone clamped to %f, got %f", float64(constant.MaxToneHz), cfg.ToneHz)
	}
	if cfg.UnitMs != constant.DefaultUnitMs {
		t.Errorf("Expected default unit, got %f", cfg.UnitMs)
	}
	if cfg.Gain != 1.0 {
		t.Errorf("Expected gain clamped to 1.0, got %f", cfg.Gain)
	}
}
