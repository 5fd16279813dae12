package audio

import (
	"math"
	"sync/atomic"

	"github.com/lixenwraith/cw-outputs/status"
)

const twoPi = 2 * math.Pi

// Voice is the render path: a sine oscillator behind a linear gain
// ramp, exposed as a beep.Streamer. Stream runs on the speaker's
// high-priority goroutine and must stay real-time safe: it reads shared
// state only through scalar atomics, allocates nothing, and takes no
// locks. Phase and live gain are owned by the callback and never
// touched cross-thread while the stream is running.
type Voice struct {
	sampleRate float64

	frequency status.AtomicFloat
	target    status.AtomicFloat
	stepUp    status.AtomicFloat
	stepDown  status.AtomicFloat

	// observed mirrors the callback's live gain for ramp computation in
	// the caller domain
	observed status.AtomicFloat
	active   atomic.Bool

	// Callback-owned
	phase float64
	gain  float64
}

// NewVoice creates a silent voice at the given sample rate
func NewVoice(sampleRate float64) *Voice {
	return &Voice{sampleRate: sampleRate}
}

// Stream fills the buffer with the enveloped sine tone. It always
// reports more samples available; silence is a zero-gain tone, not the
// end of the stream.
func (v *Voice) Stream(samples [][2]float64) (n int, ok bool) {
	frequency := v.frequency.Get()
	target := v.target.Get()
	rampUp := v.stepUp.Get()
	rampDown := v.stepDown.Get()
	phaseIncrement := twoPi * frequency / math.Max(v.sampleRate, 1)

	gain := v.gain
	phase := v.phase

	for i := range samples {
		if gain < target {
			gain = math.Min(target, gain+rampUp)
		} else if gain > target {
			gain = math.Max(target, gain-rampDown)
		}

		sample := gain * math.Sin(phase)
		samples[i][0] = sample
		samples[i][1] = sample

		phase += phaseIncrement
		if phase >= twoPi {
			phase -= twoPi
		}
	}

	v.gain = gain
	v.phase = phase
	v.observed.Set(gain)
	return len(samples), true
}

// Err implements beep.Streamer; the voice never fails
func (v *Voice) Err() error {
	return nil
}

// SetFrequency updates the oscillator frequency. Picked up once per
// render callback, not per frame.
func (v *Voice) SetFrequency(toneHz float64) {
	v.frequency.Set(toneHz)
}

// Frequency returns the current oscillator frequency
func (v *Voice) Frequency() float64 {
	return v.frequency.Get()
}

// Ramp publishes a gain transition. The steps are written first and the
// target last, so a callback that observes the new target also observes
// the steps that go with it.
func (v *Voice) Ramp(target, rampUp, rampDown float64) {
	v.stepUp.Set(rampUp)
	v.stepDown.Set(rampDown)
	v.target.Set(target)
	v.active.Store(target > 0)
}

// TargetGain returns the published gain target
func (v *Voice) TargetGain() float64 {
	return v.target.Get()
}

// ObservedGain returns the live gain as of the last render callback
func (v *Voice) ObservedGain() float64 {
	return v.observed.Get()
}

// ToneActive reports whether a non-zero gain target is published
func (v *Voice) ToneActive() bool {
	return v.active.Load()
}

// Reset silences the voice and rewinds the oscillator. Only safe while
// the stream is closed.
func (v *Voice) Reset() {
	v.phase = 0
	v.gain = 0
	v.observed.Set(0)
	v.target.Set(0)
	v.stepUp.Set(0)
	v.stepDown.Set(0)
	v.active.Store(false)
}
