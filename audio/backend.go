package audio

import (
	"errors"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/cw-outputs/constant"
)

// ErrStreamClosed reports an operation against a backend whose stream
// is not open
var ErrStreamClosed = errors.New("audio: stream closed")

// ErrUnsupported reports a host with no usable output device
var ErrUnsupported = errors.New("audio: output not supported")

// Backend owns the speaker stream and the voice rendered into it. The
// stream is opened lazily on first use, kept open across pulses, and
// released on Close or after a stream error; the next use re-opens it.
type Backend struct {
	cfg *Config
	log *slog.Logger

	// mu guards stream open/close and the envelope config. Never held
	// across sleeps or render work.
	mu       sync.Mutex
	voice    *Voice
	envelope Envelope

	ready        atomic.Bool
	supportKnown atomic.Bool
	supported    bool
}

// NewBackend creates a backend; the stream stays closed until first use
func NewBackend(cfg *Config, logger *slog.Logger) *Backend {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{
		cfg:      cfg,
		log:      logger,
		voice:    NewVoice(float64(cfg.SampleRate)),
		envelope: DefaultEnvelope(),
	}
}

// ProbeSupport attempts to open and close a probe stream once and
// caches the result. When unsupported, every tone and pattern call
// becomes a no-op.
func (b *Backend) ProbeSupport() bool {
	if b.supportKnown.Load() {
		return b.supported
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.supportKnown.Load() {
		err := speaker.Init(b.sampleRate(), b.bufferSize())
		if err != nil {
			b.supported = false
			b.log.Debug("isSupported.failed", "error", err)
		} else {
			b.supported = true
			speaker.Close()
		}
		b.supportKnown.Store(true)
	}
	return b.supported
}

// ensureOpenLocked opens and starts the stream if it is not already
// running. Idempotent; on failure the stream stays closed and state
// clean.
func (b *Backend) ensureOpenLocked(toneHz float64) {
	if b.ready.Load() {
		return
	}

	b.voice.Reset()
	if err := speaker.Init(b.sampleRate(), b.bufferSize()); err != nil {
		b.log.Debug("stream.open.failed", "error", err)
		b.ready.Store(false)
		return
	}

	b.voice.SetFrequency(toneHz)
	speaker.Play(b.voice)
	b.ready.Store(true)
	b.log.Debug("stream.open",
		"sampleRate", b.cfg.SampleRate,
		"burst", b.bufferSize())
}

// Warm opens the stream and parks it at zero gain so a following tone
// start skips the open latency
func (b *Backend) Warm(toneHz float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ensureOpenLocked(toneHz)
	if !b.ready.Load() {
		return
	}
	b.voice.SetFrequency(toneHz)
	b.voice.Ramp(0, 1, 1)
	b.log.Debug("warmup", "hz", toneHz)
}

// RampTo raises (or moves) the tone to the given gain with the given
// envelope. Ramp steps are precomputed here so the render callback
// performs only arithmetic.
func (b *Backend) RampTo(toneHz, gain float64, env Envelope) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.ensureOpenLocked(toneHz)
	if !b.ready.Load() {
		return
	}

	b.envelope = env
	sr := float64(b.cfg.SampleRate)
	current := b.voice.ObservedGain()
	gainDelta := math.Max(0, gain-current)
	magnitude := gain
	if gainDelta > 0 {
		magnitude = gainDelta
	}
	rampUp := RampStep(magnitude, env.AttackMs, sr)
	rampDown := RampStep(math.Max(gain, current), env.ReleaseMs, sr)

	b.voice.SetFrequency(toneHz)
	b.voice.Ramp(gain, rampUp, rampDown)
	b.log.Debug("start",
		"hz", toneHz,
		"gain", gain,
		"attack", env.AttackMs,
		"release", env.ReleaseMs)
}

// Release ramps the tone to silence at the configured release time.
// The stream stays open.
func (b *Backend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.ready.Load() {
		return
	}

	sr := float64(b.cfg.SampleRate)
	current := b.voice.ObservedGain()
	rampDown := RampStep(math.Max(current, 0), b.envelope.ReleaseMs, sr)
	b.voice.Ramp(0, 0, rampDown)
	b.log.Debug("stop", "gain", current, "release", b.envelope.ReleaseMs)
}

// HandleStreamError releases the stream after a surfaced device error.
// The next tone or pattern call re-opens lazily.
func (b *Backend) HandleStreamError(err error) {
	b.log.Debug("stream.error", "error", err)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closeLocked()
}

// Close stops and releases the stream. Idempotent.
func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closeLocked()
}

func (b *Backend) closeLocked() {
	if b.ready.Load() {
		speaker.Clear()
		speaker.Close()
	}
	b.ready.Store(false)
	b.voice.Reset()
}

// Ready reports whether the stream is open and started
func (b *Backend) Ready() bool {
	return b.ready.Load()
}

// SampleRate returns the output sample rate in Hz
func (b *Backend) SampleRate() float64 {
	return float64(b.cfg.SampleRate)
}

// Envelope returns the envelope config installed by the last RampTo
func (b *Backend) Envelope() Envelope {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.envelope
}

func (b *Backend) sampleRate() beep.SampleRate {
	return beep.SampleRate(b.cfg.SampleRate)
}

func (b *Backend) bufferSize() int {
	return b.sampleRate().N(constant.SpeakerBufferMs * time.Millisecond)
}
