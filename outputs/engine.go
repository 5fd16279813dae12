package outputs

import (
	"log/slog"
	"sync"
	"time"

	"github.com/lixenwraith/cw-outputs/audio"
	"github.com/lixenwraith/cw-outputs/constant"
	"github.com/lixenwraith/cw-outputs/telemetry"
)

// AudioBackend is what the engine needs from the tone source. Satisfied
// by audio.Backend; tests substitute a fake.
type AudioBackend interface {
	ProbeSupport() bool
	Warm(toneHz float64)
	Ready() bool
	RampTo(toneHz, gain float64, env audio.Envelope)
	Release()
	HandleStreamError(err error)
	Close()
}

// Engine is the playback facade: manual tones, pattern playback with
// actuator dispatch, and the telemetry the host polls. All methods are
// safe for concurrent use; starting anything cancels whatever pattern
// was running.
type Engine struct {
	backend AudioBackend
	bridge  *Bridge
	store   *telemetry.Store
	log     *slog.Logger

	// playMu serializes the cancel/replace/spawn transitions so at most
	// one pattern worker exists at a time
	playMu sync.Mutex

	// mu guards the current worker pointer only
	mu      sync.Mutex
	current *worker

	callbackMu sync.RWMutex
	callback   SymbolDispatchCallback

	appearanceMu   sync.Mutex
	appearancePct  float64
	appearanceTint int32
	overridePct    *float64
	overrideTint   *int32
}

// NewEngine wires the facade. A nil backend builds the default speaker
// backend from cfg; a nil actuator leaves the device outputs inert.
func NewEngine(cfg *audio.Config, backend AudioBackend, actuator DeviceActuator, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if backend == nil {
		backend = audio.NewBackend(cfg, logger)
	}
	return &Engine{
		backend:       backend,
		bridge:        NewBridge(actuator, logger),
		store:         telemetry.NewStore(),
		log:           logger,
		appearancePct: 100,
	}
}

// IsSupported reports whether an output stream can be opened on this
// host. Probed once and cached.
func (e *Engine) IsSupported() bool {
	return e.backend.ProbeSupport()
}

// Warmup opens the stream at zero gain so the next tone starts without
// open latency
func (e *Engine) Warmup(toneHz float64) {
	if !e.backend.ProbeSupport() {
		return
	}
	e.backend.Warm(audio.ClampToneHz(toneHz))
}

// StartTone keys a continuous tone, cancelling any running pattern
// first. Re-keying an already sounding tone re-ramps from the current
// gain without a dip.
func (e *Engine) StartTone(opts ToneOptions) {
	if !e.backend.ProbeSupport() {
		return
	}
	e.playMu.Lock()
	defer e.playMu.Unlock()
	e.cancelPlayback(true)
	e.backend.RampTo(
		audio.ClampToneHz(opts.ToneHz),
		audio.ResolveGain(opts.Gain),
		audio.ResolveEnvelope(opts.Envelope))
}

// StopTone releases the tone to silence. Cancels a running pattern;
// idempotent when nothing sounds.
func (e *Engine) StopTone() {
	e.playMu.Lock()
	defer e.playMu.Unlock()
	e.cancelPlayback(true)
	e.backend.Release()
}

// PlayMorse schedules and plays a pattern. Replaces any running
// pattern; an empty pattern only cancels. Returns once the worker is
// started, never when the pattern finishes.
func (e *Engine) PlayMorse(req PlaybackRequest) {
	e.playMu.Lock()
	defer e.playMu.Unlock()

	e.cancelPlayback(true)
	e.store.Reset()
	if len(req.Pattern) == 0 {
		e.log.Debug("playMorse.skip", "reason", "empty pattern")
		return
	}
	if !e.backend.ProbeSupport() {
		e.log.Debug("playMorse.skip", "error", audio.ErrUnsupported)
		return
	}

	toneHz := audio.ClampToneHz(req.ToneHz)
	unitMs := resolveUnitMs(req.UnitMs)
	gain := audio.ResolveGain(req.Gain)
	env := audio.ResolveEnvelope(req.Envelope)
	brightness := resolveBrightness(req.FlashBrightnessPercent)

	e.bridge.ResetAvailability()
	e.backend.Warm(toneHz)
	if !e.backend.Ready() {
		e.log.Debug("playMorse.skip", "error", audio.ErrStreamClosed)
		return
	}

	// the overlay wait happens before the pattern clock starts so a
	// slow surface cannot make the first symbol late
	overlayReady := false
	if req.FlashEnabled {
		overlayReady = e.bridge.AwaitOverlayReady(constant.OverlayReadyTimeoutMs)
		if !overlayReady {
			e.log.Debug("overlay.not.ready", "detail", e.bridge.DebugString())
		}
	}
	boostActive := false
	if req.FlashEnabled && req.ScreenBrightnessBoost && overlayReady {
		e.bridge.SetScreenBrightnessBoost(true)
		boostActive = true
	}

	patternStart := time.Now()
	plan := buildPlan(req.Pattern, unitMs, toMs(patternStart))
	e.store.SetSchedule(plan, toMs(patternStart))

	w := &worker{
		pattern:      req.Pattern,
		plan:         plan,
		unitMs:       unitMs,
		toneHz:       toneHz,
		gain:         gain,
		envelope:     env,
		flash:        req.FlashEnabled,
		haptics:      req.HapticsEnabled,
		torch:        req.TorchEnabled,
		boostActive:  boostActive,
		brightness:   brightness,
		overlayReady: overlayReady,
		patternStart: patternStart,
		tone:         e.backend,
		bridge:       e.bridge,
		emit:         e.emit,
		log:          e.log,
		done:         make(chan struct{}),
	}
	// the currency check and the write share the lock so a replaced
	// worker can never land a stale snapshot in the new pattern's store
	w.push = func(snap telemetry.Snapshot) {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.current == w {
			e.store.PushSnapshot(snap)
		}
	}

	e.mu.Lock()
	e.current = w
	e.mu.Unlock()
	go w.run()
}

// Running reports whether a pattern worker is still live
func (e *Engine) Running() bool {
	e.mu.Lock()
	w := e.current
	e.mu.Unlock()
	if w == nil {
		return false
	}
	select {
	case <-w.done:
		return false
	default:
		return true
	}
}

// SetSymbolDispatchCallback installs (or clears, with nil) the observer
// for per-symbol dispatch events
func (e *Engine) SetSymbolDispatchCallback(cb SymbolDispatchCallback) {
	e.callbackMu.Lock()
	e.callback = cb
	e.callbackMu.Unlock()
}

// LatestSymbolInfo pops the oldest captured snapshot as JSON
func (e *Engine) LatestSymbolInfo() (string, bool) {
	snap, ok := e.store.PopSnapshot()
	if !ok {
		return "", false
	}
	return snap.JSON(nowMs()), true
}

// ScheduleJSON returns the installed plan as a JSON array
func (e *Engine) ScheduleJSON() string {
	return e.store.ScheduleJSON()
}

// SetFlashOverlayState switches the overlay directly, outside pattern
// playback. Subject to the same per-run availability latch as symbol
// flashes.
func (e *Engine) SetFlashOverlayState(on bool, brightnessPct float64) bool {
	return e.bridge.SetOverlayState(on, resolveBrightness(brightnessPct))
}

// SetFlashOverlayAppearance persists the default overlay appearance and
// forwards it to the host
func (e *Engine) SetFlashOverlayAppearance(brightnessPct float64, tintARGB int32) bool {
	pct := resolveBrightness(brightnessPct)
	e.appearanceMu.Lock()
	e.appearancePct = pct
	e.appearanceTint = tintARGB
	e.appearanceMu.Unlock()
	return e.bridge.SetOverlayAppearance(pct, tintARGB)
}

// SetFlashOverlayOverride applies a per-session override on top of the
// appearance; nil fields fall back to the persisted appearance
func (e *Engine) SetFlashOverlayOverride(brightnessPct *float64, tintARGB *int32) bool {
	var pct *float64
	if brightnessPct != nil {
		v := resolveBrightness(*brightnessPct)
		pct = &v
	}
	e.appearanceMu.Lock()
	e.overridePct = pct
	e.overrideTint = tintARGB
	e.appearanceMu.Unlock()
	return e.bridge.SetOverlayOverride(pct, tintARGB)
}

// OverlayDebugString describes the host overlay state for diagnostics
func (e *Engine) OverlayDebugString() string {
	return e.bridge.DebugString()
}

// ReportStreamError tells the engine the output device failed; the
// stream is released and re-opened lazily on the next tone
func (e *Engine) ReportStreamError(err error) {
	e.backend.HandleStreamError(err)
}

// Teardown cancels playback and releases the stream. Idempotent; the
// engine stays usable and re-opens lazily afterwards.
func (e *Engine) Teardown() {
	e.playMu.Lock()
	e.cancelPlayback(true)
	e.backend.Close()
	e.playMu.Unlock()
	e.SetSymbolDispatchCallback(nil)
	e.store.Reset()
	e.log.Debug("teardown")
}

// cancelPlayback detaches the current worker and flags it cancelled.
// With join it waits for the worker to exit, except when the worker is
// parked inside its dispatch callback, where joining could wait on the
// calling goroutine itself. A detached worker is harmless: its store
// writes are gated on still being current, and the telemetry reset for
// an interrupted pattern happens here, not in the worker.
func (e *Engine) cancelPlayback(join bool) {
	e.mu.Lock()
	w := e.current
	e.current = nil
	e.mu.Unlock()
	if w == nil {
		return
	}
	w.stop()
	if join && !w.inCallback.Load() {
		<-w.done
	}
	if !w.completed.Load() {
		e.store.Reset()
	}
}

// emit delivers one dispatch event to the installed callback on the
// worker goroutine. A panicking callback is logged and contained.
func (e *Engine) emit(ev DispatchEvent) {
	e.callbackMu.RLock()
	cb := e.callback
	e.callbackMu.RUnlock()
	if cb == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			e.log.Debug("dispatch.callback.error", "panic", r)
		}
	}()
	cb(ev)
}
