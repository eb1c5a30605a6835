package arscene

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// debugStats holds per-frame timing and counters. Only populated when the
// engine's debug mode is on.
type debugStats struct {
	pollTime     time.Duration
	timelineTime time.Duration
	resolveTime  time.Duration
	objects      int
	visible      int
	tweens       int
	pending      int
}

// debugLog emits the frame stats at debug level.
func (e *Engine) debugLog(stats debugStats) {
	if !e.debug {
		return
	}
	total := stats.pollTime + stats.timelineTime + stats.resolveTime
	e.log.Debug("frame",
		"poll", stats.pollTime,
		"timeline", stats.timelineTime,
		"resolve", stats.resolveTime,
		"total", total,
		"objects", stats.objects,
		"visible", stats.visible,
		"tweens", stats.tweens,
		"pending", stats.pending,
	)
}

func countVisible(reg *Registry) int {
	n := 0
	for _, o := range reg.All() {
		if o.effectiveVisible {
			n++
		}
	}
	return n
}

// ParseLogLevel maps "debug", "info", "warn" or "error" (case-insensitive)
// to a slog level. The empty string is info.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// NewLogger creates a text logger writing to w at the configured level,
// tagged with the arscene component attribute.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("component", "arscene")
}
