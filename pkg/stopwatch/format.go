package stopwatch

import (
	"fmt"
	"strings"
	"time"
)

// FormatDuration renders d as minutes, seconds and hundredths,
// e.g. "1 min 5.25 s". Minutes wrap at one hour.
func FormatDuration(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	hundredths := (ms / 10) % 100
	sec := (ms / 1000) % 60
	minutes := (ms / 60000) % 60
	return fmt.Sprintf("%d min %d.%02d s", minutes, sec, hundredths)
}

func formatSnapshot(snap Snapshot) string {
	var b strings.Builder
	b.WriteString("elapsed: ")
	b.WriteString(FormatDuration(snap.Elapsed))
	b.WriteString("\nlaps:")
	for _, lap := range snap.Laps {
		b.WriteString(" ")
		b.WriteString(FormatDuration(lap))
		b.WriteString(";")
	}
	return strings.TrimSuffix(b.String(), ";")
}
