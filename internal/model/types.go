// Package model defines shared data structures.
package model

import "time"

// Tile is a single card in a deck. Matched is the only field that
// changes after creation.
type Tile struct {
	ID      string
	Symbol  string
	Matched bool
}

// Level defines one difficulty preset. Targets are aspirational; the
// round timer allows extra slack on top of TargetSeconds.
type Level struct {
	ID            string
	PairCount     int
	TargetMoves   int
	TargetSeconds int
}

// DefaultLevelIndex is the level used when nothing is persisted.
const DefaultLevelIndex = 1

// Levels returns the fixed difficulty table in ascending order.
func Levels() []Level {
	return []Level{
		{ID: "easy", PairCount: 4, TargetMoves: 12, TargetSeconds: 60},
		{ID: "medium", PairCount: 6, TargetMoves: 18, TargetSeconds: 90},
		{ID: "hard", PairCount: 8, TargetMoves: 24, TargetSeconds: 120},
	}
}

// LevelIndex returns the index of the level with the given id.
func LevelIndex(levels []Level, id string) (int, bool) {
	for i, l := range levels {
		if l.ID == id {
			return i, true
		}
	}
	return 0, false
}

// Record captures one finished round for difficulty adjustment.
// TimeSeconds and Moves are set only on success; a timed-out round's
// figures are not meaningful.
type Record struct {
	Success     bool      `json:"success"`
	TimeSeconds *int      `json:"time_seconds,omitempty"`
	Moves       *int      `json:"moves,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	LevelID     string    `json:"level_id"`
}

// RoundResult is a finished round destined for the round log.
type RoundResult struct {
	EndedAt time.Time
	LevelID string
	Success bool
	Seconds *int
	Moves   *int
}

// StatsConfig defines filters for stats output.
type StatsConfig struct {
	Level string
	Last  int
}
