package outputs

import (
	"log/slog"
	"sync/atomic"
)

// DeviceActuator is the host capability surface for the non-audio
// outputs: camera torch, vibrator, and fullscreen flash overlay. All
// methods are best-effort; the engine never aborts a pattern over an
// actuator failure.
type DeviceActuator interface {
	// SetTorchEnabled drives the camera LED
	SetTorchEnabled(on bool) error

	// Vibrate fires a haptic pulse of the given duration
	Vibrate(durationMs int64) error

	// SetFlashOverlayState turns the fullscreen overlay on or off and
	// reports whether the host confirmed it
	SetFlashOverlayState(on bool, brightnessPct float64) (bool, error)

	// SetFlashOverlayAppearance persists the default overlay appearance
	SetFlashOverlayAppearance(brightnessPct float64, tintARGB int32) (bool, error)

	// SetFlashOverlayOverride applies a per-session override on top of
	// the appearance; nil fields leave the appearance value in place
	SetFlashOverlayOverride(brightnessPct *float64, tintARGB *int32) (bool, error)

	// SetScreenBrightnessBoost raises or restores the host screen
	// brightness while the overlay flashes
	SetScreenBrightnessBoost(on bool) error

	// AwaitOverlayReady blocks up to timeoutMs for the overlay surface
	AwaitOverlayReady(timeoutMs int64) bool

	// OverlayAvailabilityDebugString describes the overlay state for
	// diagnostics
	OverlayAvailabilityDebugString() string
}

// Bridge wraps a DeviceActuator with per-run failure latches. A failed
// call logs, marks that actuator unavailable, and suppresses further
// calls to it until the next pattern resets the latches.
type Bridge struct {
	dev DeviceActuator
	log *slog.Logger

	torchUnavailable   atomic.Bool
	hapticUnavailable  atomic.Bool
	overlayUnavailable atomic.Bool
}

// NewBridge wraps an actuator; a nil actuator yields an inert bridge
func NewBridge(dev DeviceActuator, logger *slog.Logger) *Bridge {
	if dev == nil {
		dev = NopActuator{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{dev: dev, log: logger}
}

// ResetAvailability clears the failure latches at the start of a run
func (b *Bridge) ResetAvailability() {
	b.torchUnavailable.Store(false)
	b.hapticUnavailable.Store(false)
	b.overlayUnavailable.Store(false)
}

// SetTorch drives the torch; silently ignored once unavailable
func (b *Bridge) SetTorch(on bool) {
	if b.torchUnavailable.Load() {
		return
	}
	if err := b.dev.SetTorchEnabled(on); err != nil {
		b.torchUnavailable.Store(true)
		b.log.Debug("torch.unavailable", "error", err)
	}
}

// Vibrate fires a haptic pulse; no-op for non-positive durations
func (b *Bridge) Vibrate(durationMs int64) {
	if durationMs <= 0 || b.hapticUnavailable.Load() {
		return
	}
	if err := b.dev.Vibrate(durationMs); err != nil {
		b.hapticUnavailable.Store(true)
		b.log.Debug("haptic.unavailable", "error", err)
	}
}

// SetOverlayState switches the overlay and reports confirmed success.
// A refusal or error latches the overlay unavailable for the run;
// off-switches still pass through so a latched overlay is never left
// lit.
func (b *Bridge) SetOverlayState(on bool, brightnessPct float64) bool {
	if on && b.overlayUnavailable.Load() {
		return false
	}
	ok, err := b.dev.SetFlashOverlayState(on, brightnessPct)
	if err != nil || (!ok && on) {
		b.overlayUnavailable.Store(true)
		b.log.Debug("overlay.symbol.unavailable", "error", err)
		return false
	}
	return ok
}

// SetOverlayAppearance persists the default overlay appearance
func (b *Bridge) SetOverlayAppearance(brightnessPct float64, tintARGB int32) bool {
	ok, err := b.dev.SetFlashOverlayAppearance(brightnessPct, tintARGB)
	if err != nil {
		b.log.Debug("overlay.appearance.failed", "error", err)
		return false
	}
	return ok
}

// SetOverlayOverride applies a per-session appearance override
func (b *Bridge) SetOverlayOverride(brightnessPct *float64, tintARGB *int32) bool {
	ok, err := b.dev.SetFlashOverlayOverride(brightnessPct, tintARGB)
	if err != nil {
		b.log.Debug("overlay.override.failed", "error", err)
		return false
	}
	return ok
}

// SetScreenBrightnessBoost toggles the host brightness boost
func (b *Bridge) SetScreenBrightnessBoost(on bool) {
	if err := b.dev.SetScreenBrightnessBoost(on); err != nil {
		b.log.Debug("brightness.boost.failed", "error", err)
	}
}

// AwaitOverlayReady blocks up to timeoutMs for the overlay surface
func (b *Bridge) AwaitOverlayReady(timeoutMs int64) bool {
	return b.dev.AwaitOverlayReady(timeoutMs)
}

// OverlayAvailable reports whether the overlay is still usable this run
func (b *Bridge) OverlayAvailable() bool {
	return !b.overlayUnavailable.Load()
}

// DebugString describes the overlay state for diagnostics
func (b *Bridge) DebugString() string {
	return b.dev.OverlayAvailabilityDebugString()
}

// NopActuator discards every call. Used when the host provides no
// actuator surface.
type NopActuator struct{}

func (NopActuator) SetTorchEnabled(bool) error { return nil }
func (NopActuator) Vibrate(int64) error        { return nil }
func (NopActuator) SetFlashOverlayState(bool, float64) (bool, error) {
	return false, nil
}
func (NopActuator) SetFlashOverlayAppearance(float64, int32) (bool, error) {
	return false, nil
}
func (NopActuator) SetFlashOverlayOverride(*float64, *int32) (bool, error) {
	return false, nil
}
func (NopActuator) SetScreenBrightnessBoost(bool) error { return nil }
func (NopActuator) AwaitOverlayReady(int64) bool        { return false }
func (NopActuator) OverlayAvailabilityDebugString() string {
	return "overlay: none"
}
