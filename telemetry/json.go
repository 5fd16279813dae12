package telemetry

import "strconv"

// Compact JSON records polled by the host. Hand-formatted: the field
// order is stable and every timing value carries exactly three decimal
// places, which encoding/json does not produce.

// JSON renders the snapshot, stamping it with its age at read time
func (snap Snapshot) JSON(nowMs float64) string {
	buf := make([]byte, 0, 256)
	buf = append(buf, `{"sequence":`...)
	buf = strconv.AppendUint(buf, snap.Sequence, 10)
	buf = append(buf, `,"symbol":"`...)
	buf = append(buf, snap.Symbol.String()...)
	buf = append(buf, '"')
	buf = appendField(buf, "timestampMs", snap.TimestampMs)
	buf = appendField(buf, "durationMs", snap.DurationMs)
	buf = appendField(buf, "patternStartMs", snap.PatternStartMs)
	buf = appendField(buf, "expectedTimestampMs", snap.ExpectedTimestampMs)
	buf = appendField(buf, "startSkewMs", snap.StartSkewMs)
	buf = appendField(buf, "batchElapsedMs", snap.BatchElapsedMs)
	buf = appendField(buf, "expectedSincePriorMs", snap.ExpectedSincePriorMs)
	buf = appendField(buf, "sincePriorMs", snap.SincePriorMs)
	buf = appendField(buf, "ageMs", nowMs-snap.TimestampMs)
	buf = append(buf, '}')
	return string(buf)
}

// JSON renders one schedule entry
func (sym ScheduledSymbol) JSON() string {
	buf := make([]byte, 0, 128)
	buf = append(buf, `{"sequence":`...)
	buf = strconv.AppendUint(buf, sym.Sequence, 10)
	buf = append(buf, `,"symbol":"`...)
	buf = append(buf, sym.Symbol.String()...)
	buf = append(buf, '"')
	buf = appendField(buf, "expectedTimestampMs", sym.ExpectedTimestampMs)
	buf = appendField(buf, "offsetMs", sym.OffsetMs)
	buf = appendField(buf, "durationMs", sym.DurationMs)
	buf = append(buf, '}')
	return string(buf)
}

// ScheduleJSON renders the installed plan as a JSON array
func (s *Store) ScheduleJSON() string {
	s.scheduleMu.Lock()
	defer s.scheduleMu.Unlock()

	buf := make([]byte, 0, 64+128*len(s.schedule))
	buf = append(buf, '[')
	for i, sym := range s.schedule {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, sym.JSON()...)
	}
	buf = append(buf, ']')
	return string(buf)
}

func appendField(buf []byte, name string, value float64) []byte {
	buf = append(buf, ',', '"')
	buf = append(buf, name...)
	buf = append(buf, '"', ':')
	return strconv.AppendFloat(buf, value, 'f', 3, 64)
}
