package outputs

import (
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/cw-outputs/audio"
	"github.com/lixenwraith/cw-outputs/constant"
	"github.com/lixenwraith/cw-outputs/morse"
	"github.com/lixenwraith/cw-outputs/telemetry"
)

// worker executes one pattern on its own goroutine. Each playback gets
// a fresh worker: cancellation flips this worker's flag only, so a
// replaced worker can never clear the flag of its successor.
type worker struct {
	pattern  morse.Pattern
	plan     []telemetry.ScheduledSymbol
	unitMs   float64
	toneHz   float64
	gain     float64
	envelope audio.Envelope

	flash       bool
	haptics     bool
	torch       bool
	boostActive bool
	brightness  float64
	// overlayReady records whether the host surface was confirmed
	// before the pattern clock started
	overlayReady bool

	patternStart time.Time

	tone   AudioBackend
	bridge *Bridge
	emit   func(DispatchEvent)
	log    *slog.Logger

	// push records a snapshot only while this worker is still current;
	// a replaced worker must not write to the shared store
	push func(telemetry.Snapshot)

	cancel atomic.Bool
	// inCallback is raised around emit so a cancel arriving while the
	// observer runs does not join this goroutine
	inCallback atomic.Bool
	// completed marks a natural finish; an interrupted worker leaves it
	// unset so the engine knows to clear the half-captured telemetry
	completed atomic.Bool
	done      chan struct{}
}

// stop requests cancellation; the worker notices within one sleep
// quantum
func (w *worker) stop() {
	w.cancel.Store(true)
}

// dispatch delivers one event with the in-callback flag raised
func (w *worker) dispatch(ev DispatchEvent) {
	w.inCallback.Store(true)
	w.emit(ev)
	w.inCallback.Store(false)
}

// sleepUntil sleeps in small slices so cancellation is honored within
// roughly one quantum even mid-gap
func (w *worker) sleepUntil(deadline time.Time) {
	for !w.cancel.Load() && time.Now().Before(deadline) {
		time.Sleep(constant.SleepQuantum)
	}
}

// dispatchLead places the worker wake ahead of the expected audio start
// so actuator calls land inside the tone window. The lead never exceeds
// the target, never reaches before the pattern start, and collapses to
// zero when the preceding silent gap is too short to borrow from.
func dispatchLead(offsetMs, gapMs float64) float64 {
	lead := math.Min(constant.DispatchLeadMs, offsetMs)
	lead = math.Min(lead, gapMs-constant.MinDispatchOffsetMs)
	if lead < 0 {
		return 0
	}
	return lead
}

func (w *worker) run() {
	defer close(w.done)

	w.log.Debug("playMorse.start",
		"symbols", len(w.pattern),
		"tones", len(w.plan),
		"unit", w.unitMs,
		"hz", w.toneHz)

	prevEndMs := 0.0
	toneIdx := 0
	var prevExpectedMs, prevActualMs float64
	overlayOn := false
	torchOn := false

	for _, sym := range w.pattern {
		if w.cancel.Load() {
			break
		}

		if !sym.IsTone() {
			gap := float64(constant.WordGapUnits) * w.unitMs
			w.sleepUntil(time.Now().Add(msDuration(gap)))
			continue
		}

		sched := w.plan[toneIdx]
		toneIdx++

		gapMs := sched.OffsetMs - prevEndMs
		lead := dispatchLead(sched.OffsetMs, gapMs)

		w.sleepUntil(w.patternStart.Add(msDuration(sched.OffsetMs - lead)))
		if w.cancel.Load() {
			break
		}

		ev := DispatchEvent{
			Phase:                PhaseScheduled,
			Symbol:               sched.Symbol.String(),
			Sequence:             sched.Sequence,
			PatternStartMs:       toMs(w.patternStart),
			ExpectedTimestampMs:  sched.ExpectedTimestampMs,
			OffsetMs:             sched.OffsetMs,
			DurationMs:           sched.DurationMs,
			UnitMs:               w.unitMs,
			ToneHz:               w.toneHz,
			ScheduledTimestampMs: nowMs(),
			LeadMs:               lead,
		}
		if sched.Sequence >= 2 {
			ev.ExpectedSincePriorMs = sched.ExpectedTimestampMs - prevExpectedMs
		}
		w.dispatch(ev)

		w.tone.RampTo(w.toneHz, w.gain, w.envelope)

		startedAt := time.Now()
		// the worker woke lead ms early, so the audible start is lead
		// ms after the ramp command
		actualMs := toMs(startedAt) + lead

		snap := telemetry.Snapshot{
			Sequence:            sched.Sequence,
			Symbol:              sched.Symbol,
			TimestampMs:         actualMs,
			DurationMs:          sched.DurationMs,
			PatternStartMs:      toMs(w.patternStart),
			ExpectedTimestampMs: sched.ExpectedTimestampMs,
			StartSkewMs:         actualMs - sched.ExpectedTimestampMs,
			BatchElapsedMs:      actualMs - toMs(w.patternStart),
		}
		if sched.Sequence >= 2 {
			snap.ExpectedSincePriorMs = sched.ExpectedTimestampMs - prevExpectedMs
			snap.SincePriorMs = actualMs - prevActualMs
		}
		w.push(snap)

		flashNative := false
		if w.flash && w.overlayReady && w.bridge.OverlayAvailable() {
			if w.bridge.SetOverlayState(true, w.brightness) {
				overlayOn = true
				flashNative = true
			} else if w.boostActive {
				w.boostActive = false
				w.bridge.SetScreenBrightnessBoost(false)
			}
		}
		if w.torch {
			w.bridge.SetTorch(true)
			torchOn = true
		}
		if w.haptics {
			w.bridge.Vibrate(int64(math.Round(sched.DurationMs)))
		}

		actual := ev
		actual.Phase = PhaseActual
		actual.ActualTimestampMs = actualMs
		actual.MonotonicTimestampMs = toMs(startedAt)
		actual.StartSkewMs = snap.StartSkewMs
		actual.BatchElapsedMs = snap.BatchElapsedMs
		actual.ExpectedSincePriorMs = snap.ExpectedSincePriorMs
		actual.SincePriorMs = snap.SincePriorMs
		actual.NativeFlashAvailable = w.overlayReady && w.bridge.OverlayAvailable()
		actual.FlashHandledNatively = flashNative
		w.dispatch(actual)

		w.log.Debug("playMorse.symbol",
			"seq", sched.Sequence,
			"symbol", sched.Symbol.String(),
			"skew", snap.StartSkewMs)

		w.sleepUntil(startedAt.Add(msDuration(lead + sched.DurationMs)))

		if torchOn {
			w.bridge.SetTorch(false)
			torchOn = false
		}
		if overlayOn {
			w.bridge.SetOverlayState(false, 0)
			overlayOn = false
		}
		w.tone.Release()

		prevEndMs = sched.OffsetMs + sched.DurationMs
		prevExpectedMs = sched.ExpectedTimestampMs
		prevActualMs = actualMs
	}

	w.tone.Release()
	if torchOn {
		w.bridge.SetTorch(false)
	}
	if overlayOn {
		w.bridge.SetOverlayState(false, 0)
	}
	if w.boostActive {
		w.bridge.SetScreenBrightnessBoost(false)
	}

	cancelled := w.cancel.Load()
	if !cancelled {
		w.completed.Store(true)
	}
	w.log.Debug("playMorse.end",
		"cancelled", cancelled,
		"dispatched", toneIdx)
}
