package psys

import (
	"fmt"
	"os"
	"time"
)

// debugStats holds per-tick timing and particle counts.
// Only populated when the System is in debug mode.
type debugStats struct {
	updateTime time.Duration
	renderTime time.Duration
	emitters   int
	free       int
	particles  int
	drawn      int
	optimized  int
}

// SetDebugMode enables or disables per-tick stats on stderr and warnings for
// emitters created from invalid models.
func (s *System) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// debugLog prints timing and count stats to stderr.
func (s *System) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr,
		"[psys] tick %d | update: %v | render: %v | total: %v\n",
		s.tick, stats.updateTime, stats.renderTime, stats.updateTime+stats.renderTime)
	_, _ = fmt.Fprintf(os.Stderr,
		"[psys] emitters: %d (free %d) | particles: %d | drawn: %d | optimized: %d\n",
		stats.emitters, stats.free, stats.particles, stats.drawn, stats.optimized)
}
