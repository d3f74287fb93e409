// Package round implements the reveal/match state machine for a single
// round and its soft timeout.
package round

import (
	"time"

	"github.com/hanmaum/pairo/internal/model"
)

// Phase is the lifecycle state of a round.
type Phase int

const (
	// PhaseIdle is a round that has not started.
	PhaseIdle Phase = iota
	// PhaseInProgress accepts tile selections.
	PhaseInProgress
	// PhaseResolving holds two revealed tiles while their outcome is
	// communicated; input is locked.
	PhaseResolving
	// PhaseComplete means every pair was matched.
	PhaseComplete
	// PhaseTimedOut means the soft deadline was exceeded.
	PhaseTimedOut
)

// String implements fmt.Stringer.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseInProgress:
		return "in-progress"
	case PhaseResolving:
		return "resolving"
	case PhaseComplete:
		return "complete"
	case PhaseTimedOut:
		return "timed-out"
	}
	return "unknown"
}

// Terminal reports whether the round produces no further mutations.
func (p Phase) Terminal() bool {
	return p == PhaseComplete || p == PhaseTimedOut
}

// Selection is the outcome of a Select call.
type Selection int

const (
	// SelectionIgnored means the input was dropped, not an error.
	SelectionIgnored Selection = iota
	// SelectionFirst revealed the first tile of a move.
	SelectionFirst
	// SelectionPair revealed the second tile; the round is now
	// resolving and Resolve must be called after the feedback delay.
	SelectionPair
)

// Round tracks one round of play.
type Round struct {
	Level        model.Level
	Deck         []model.Tile
	Revealed     []int
	Moves        int
	MatchedPairs int
	Elapsed      int
	StartedAt    time.Time

	phase Phase
}

// Start begins a fresh round over the given deck.
func Start(level model.Level, tiles []model.Tile, startedAt time.Time) *Round {
	return &Round{
		Level:     level,
		Deck:      tiles,
		StartedAt: startedAt,
		phase:     PhaseInProgress,
	}
}

// Phase returns the current lifecycle state.
func (r *Round) Phase() Phase {
	return r.phase
}

// InputLocked reports whether tile selections are currently dropped.
func (r *Round) InputLocked() bool {
	return r.phase == PhaseResolving
}

// Select reveals the tile at index i. Inputs are silently dropped while
// resolving, out of range, already revealed, already matched, or after
// a terminal phase.
func (r *Round) Select(i int) Selection {
	if r.phase != PhaseInProgress {
		return SelectionIgnored
	}
	if i < 0 || i >= len(r.Deck) {
		return SelectionIgnored
	}
	if r.Deck[i].Matched {
		return SelectionIgnored
	}
	for _, j := range r.Revealed {
		if j == i {
			return SelectionIgnored
		}
	}
	r.Revealed = append(r.Revealed, i)
	if len(r.Revealed) < 2 {
		return SelectionFirst
	}
	r.Moves++
	r.phase = PhaseResolving
	return SelectionPair
}

// PairMatches reports whether the two revealed tiles share a symbol.
// Meaningful only while resolving.
func (r *Round) PairMatches() bool {
	if len(r.Revealed) != 2 {
		return false
	}
	return r.Deck[r.Revealed[0]].Symbol == r.Deck[r.Revealed[1]].Symbol
}

// Resolve applies the pending pair outcome and unlocks input. Matching
// the final pair completes the round immediately.
func (r *Round) Resolve() {
	if r.phase != PhaseResolving {
		return
	}
	if r.PairMatches() {
		r.Deck[r.Revealed[0]].Matched = true
		r.Deck[r.Revealed[1]].Matched = true
		r.MatchedPairs++
	}
	r.Revealed = r.Revealed[:0]
	r.phase = PhaseInProgress
	if r.MatchedPairs == r.Level.PairCount {
		r.phase = PhaseComplete
	}
}

// Tick advances the timer by one second and enforces the soft deadline
// of TargetSeconds×slack. Elapsed equal to the deadline is still in
// progress; only exceeding it times the round out.
func (r *Round) Tick(slack float64) {
	if r.phase != PhaseInProgress && r.phase != PhaseResolving {
		return
	}
	r.Elapsed++
	if float64(r.Elapsed) > float64(r.Level.TargetSeconds)*slack {
		r.Revealed = r.Revealed[:0]
		r.phase = PhaseTimedOut
	}
}
