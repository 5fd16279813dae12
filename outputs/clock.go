package outputs

import "time"

// All timestamps the engine reports are milliseconds on a process-local
// monotonic clock. time.Since carries the monotonic reading, so these
// values never jump with wall-clock changes.
var clockEpoch = time.Now()

func nowMs() float64 {
	return float64(time.Since(clockEpoch)) / float64(time.Millisecond)
}

func toMs(t time.Time) float64 {
	return float64(t.Sub(clockEpoch)) / float64(time.Millisecond)
}

func msDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
