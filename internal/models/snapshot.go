package models

import (
	"time"

	"github.com/google/uuid"
)

// Window represents a lookback window over verified outcomes
type Window string

const (
	Window30d  Window = "30d"
	Window90d  Window = "90d"
	Window180d Window = "180d"
	Window365d Window = "365d"
	WindowAll  Window = "all"
)

// AllWindows lists every supported lookback window
var AllWindows = []Window{Window30d, Window90d, Window180d, Window365d, WindowAll}

// Duration returns the window length. The second return value is false for
// the all-time window, which has no lower bound.
func (w Window) Duration() (time.Duration, bool) {
	switch w {
	case Window30d:
		return 30 * 24 * time.Hour, true
	case Window90d:
		return 90 * 24 * time.Hour, true
	case Window180d:
		return 180 * 24 * time.Hour, true
	case Window365d:
		return 365 * 24 * time.Hour, true
	default:
		return 0, false
	}
}

// IsValid checks whether the window is one of the supported values
func (w Window) IsValid() bool {
	for _, known := range AllWindows {
		if w == known {
			return true
		}
	}
	return false
}

// Start returns the lower bound of the window ending at the given time.
// The all-time window returns the zero time.
func (w Window) Start(end time.Time) time.Time {
	d, bounded := w.Duration()
	if !bounded {
		return time.Time{}
	}
	return end.Add(-d)
}

// PerformanceSnapshot holds per-model statistics for one lookback window and
// stance. Snapshots are recomputed fresh each run and superseded, never
// mutated; prior runs may be retained for trend charts.
type PerformanceSnapshot struct {
	RunID            uuid.UUID `db:"run_id" json:"run_id"`
	ModelID          uuid.UUID `db:"model_id" json:"model_id" validate:"required"`
	Sport            Sport     `db:"sport" json:"sport" validate:"required"`
	BetType          BetType   `db:"bet_type" json:"bet_type" validate:"required"`
	Stance           Stance    `db:"stance" json:"stance" validate:"required"`
	Window           Window    `db:"window" json:"window" validate:"required"`
	Total            int       `db:"total" json:"total" validate:"gte=0"`
	Correct          int       `db:"correct" json:"correct" validate:"gte=0"`
	Accuracy         float64   `db:"accuracy" json:"accuracy" validate:"gte=0,lte=1"`
	MeanROI          float64   `db:"mean_roi" json:"mean_roi"`
	StdevROI         float64   `db:"stdev_roi" json:"stdev_roi"`
	Sharpe           *float64  `db:"sharpe" json:"sharpe"`
	InsufficientData bool      `db:"insufficient_data" json:"insufficient_data"`
	ComputedAt       time.Time `db:"computed_at" json:"computed_at"`
}

// Incorrect returns the number of verified outcomes that were wrong
func (s *PerformanceSnapshot) Incorrect() int {
	return s.Total - s.Correct
}

// HasSample reports whether the snapshot carries at least min verified outcomes
func (s *PerformanceSnapshot) HasSample(min int) bool {
	return s.Total >= min
}
