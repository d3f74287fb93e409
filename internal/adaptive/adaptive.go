// Package adaptive maintains the rolling performance history and
// derives difficulty adjustments from it.
package adaptive

import "github.com/hanmaum/pairo/internal/model"

// HistoryCap is the number of records kept; the oldest is dropped on
// overflow.
const HistoryCap = 7

// window and upgradeThreshold partition the 3-record success count:
// {2,3} moves difficulty up, {0,1} moves it down. Changing the window
// without revisiting the threshold breaks that partition, so neither is
// configurable.
const (
	window           = 3
	upgradeThreshold = 2
)

// Append returns history with rec added, capped at the HistoryCap most
// recent records. The input slice is not mutated.
func Append(history []model.Record, rec model.Record) []model.Record {
	out := make([]model.Record, 0, len(history)+1)
	out = append(out, history...)
	out = append(out, rec)
	if len(out) > HistoryCap {
		out = out[len(out)-HistoryCap:]
	}
	return out
}

// Adjust returns the level index after inspecting the last three
// records. Fewer than three records is insufficient data and leaves the
// index unchanged. Two or three successes move up one level, zero or
// one moves down one level, always clamped to [0, maxIndex].
func Adjust(history []model.Record, current, maxIndex int) int {
	if len(history) < window {
		return current
	}
	successes := 0
	for _, rec := range history[len(history)-window:] {
		if rec.Success {
			successes++
		}
	}
	switch {
	case successes >= upgradeThreshold && current < maxIndex:
		return current + 1
	case successes < upgradeThreshold && current > 0:
		return current - 1
	}
	return current
}
