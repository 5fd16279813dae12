package main

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/cw-outputs/status"
)

// screenActuator adapts the terminal into a device actuator. All
// methods are called from the playback worker goroutine, so state is
// held in atomics and the UI loop is woken with a posted interrupt
// event rather than drawn directly.
type screenActuator struct {
	screen tcell.Screen

	overlay    atomic.Bool
	brightness status.AtomicFloat
	haptic     atomic.Bool
	torch      atomic.Bool

	noteMu sync.Mutex
	notes  []string
}

func newScreenActuator(screen tcell.Screen) *screenActuator {
	a := &screenActuator{screen: screen}
	a.brightness.Set(100)
	return a
}

func (a *screenActuator) SetTorchEnabled(on bool) error {
	a.torch.Store(on)
	a.wake()
	return nil
}

func (a *screenActuator) Vibrate(durationMs int64) error {
	a.haptic.Store(true)
	a.wake()
	time.AfterFunc(time.Duration(shapePulse(durationMs))*time.Millisecond, func() {
		a.haptic.Store(false)
		a.wake()
	})
	return nil
}

// shapePulse widens the raw tone duration for tactile clarity: dashes
// pad +40ms within [140, 360], dots +20ms within [50, 180]
func shapePulse(durationMs int64) int64 {
	if durationMs >= 120 {
		return clamp64(durationMs+40, 140, 360)
	}
	return clamp64(durationMs+20, 50, 180)
}

func clamp64(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (a *screenActuator) SetFlashOverlayState(on bool, brightnessPct float64) (bool, error) {
	if on {
		a.brightness.Set(brightnessPct)
	}
	a.overlay.Store(on)
	a.wake()
	return true, nil
}

func (a *screenActuator) SetFlashOverlayAppearance(brightnessPct float64, tintARGB int32) (bool, error) {
	a.brightness.Set(brightnessPct)
	return true, nil
}

func (a *screenActuator) SetFlashOverlayOverride(brightnessPct *float64, tintARGB *int32) (bool, error) {
	if brightnessPct != nil {
		a.brightness.Set(*brightnessPct)
	}
	return true, nil
}

func (a *screenActuator) SetScreenBrightnessBoost(bool) error { return nil }

func (a *screenActuator) AwaitOverlayReady(int64) bool {
	// the screen exists for the lifetime of the process
	return true
}

func (a *screenActuator) OverlayAvailabilityDebugString() string {
	w, h := a.screen.Size()
	return fmt.Sprintf("overlay: terminal %dx%d", w, h)
}

// postNote queues a line for the UI loop and wakes it
func (a *screenActuator) postNote(line string) {
	a.noteMu.Lock()
	a.notes = append(a.notes, line)
	a.noteMu.Unlock()
	a.wake()
}

func (a *screenActuator) takeNote() (string, bool) {
	a.noteMu.Lock()
	defer a.noteMu.Unlock()
	if len(a.notes) == 0 {
		return "", false
	}
	line := a.notes[0]
	a.notes = a.notes[1:]
	return line, true
}

func (a *screenActuator) overlayOn() bool            { return a.overlay.Load() }
func (a *screenActuator) overlayBrightness() float64 { return a.brightness.Get() }
func (a *screenActuator) hapticOn() bool             { return a.haptic.Load() }
func (a *screenActuator) torchOn() bool              { return a.torch.Load() }

func (a *screenActuator) wake() {
	a.screen.PostEvent(tcell.NewEventInterrupt(nil))
}
