package round

import (
	"testing"
	"time"

	"github.com/hanmaum/pairo/internal/model"
)

func testLevel(pairs int) model.Level {
	return model.Level{ID: "test", PairCount: pairs, TargetMoves: pairs * 3, TargetSeconds: 90}
}

// pairedDeck lays tiles out as a,a,b,b,... so tests can pick pairs by
// index arithmetic.
func pairedDeck(pairs int) []model.Tile {
	symbols := []string{"A", "B", "C", "D", "E", "F"}
	tiles := make([]model.Tile, 0, 2*pairs)
	for i := 0; i < pairs; i++ {
		tiles = append(tiles,
			model.Tile{ID: symbols[i] + "-a", Symbol: symbols[i]},
			model.Tile{ID: symbols[i] + "-b", Symbol: symbols[i]},
		)
	}
	return tiles
}

func TestSelectFirstAndPair(t *testing.T) {
	r := Start(testLevel(2), pairedDeck(2), time.Unix(0, 0))
	if got := r.Select(0); got != SelectionFirst {
		t.Fatalf("first select: got %v", got)
	}
	if r.Moves != 0 {
		t.Fatalf("move counted on first reveal")
	}
	if got := r.Select(1); got != SelectionPair {
		t.Fatalf("second select: got %v", got)
	}
	if r.Moves != 1 {
		t.Fatalf("expected 1 move, got %d", r.Moves)
	}
	if !r.InputLocked() {
		t.Fatalf("expected input locked while resolving")
	}
	if !r.PairMatches() {
		t.Fatalf("expected matching pair")
	}
}

func TestSelectDropsInvalidInputs(t *testing.T) {
	r := Start(testLevel(2), pairedDeck(2), time.Unix(0, 0))
	if got := r.Select(-1); got != SelectionIgnored {
		t.Fatalf("negative index: got %v", got)
	}
	if got := r.Select(4); got != SelectionIgnored {
		t.Fatalf("out of range index: got %v", got)
	}
	r.Select(0)
	if got := r.Select(0); got != SelectionIgnored {
		t.Fatalf("repeated index: got %v", got)
	}
	if len(r.Revealed) != 1 {
		t.Fatalf("repeated select mutated revealed set: %v", r.Revealed)
	}

	r.Select(1)
	if got := r.Select(2); got != SelectionIgnored {
		t.Fatalf("select while locked: got %v", got)
	}
	r.Resolve()
	if got := r.Select(0); got != SelectionIgnored {
		t.Fatalf("select matched tile: got %v", got)
	}
}

func TestMismatchClearsWithoutMatching(t *testing.T) {
	r := Start(testLevel(2), pairedDeck(2), time.Unix(0, 0))
	r.Select(0)
	r.Select(2)
	if r.PairMatches() {
		t.Fatalf("expected mismatch")
	}
	r.Resolve()
	if r.MatchedPairs != 0 {
		t.Fatalf("mismatch incremented matched pairs")
	}
	if r.Deck[0].Matched || r.Deck[2].Matched {
		t.Fatalf("mismatch marked tiles matched")
	}
	if len(r.Revealed) != 0 {
		t.Fatalf("revealed not cleared: %v", r.Revealed)
	}
	if r.InputLocked() {
		t.Fatalf("input still locked after resolve")
	}
	if r.Moves != 1 {
		t.Fatalf("expected mismatch to count as a move, got %d", r.Moves)
	}
}

func TestFullRoundCompletes(t *testing.T) {
	r := Start(testLevel(3), pairedDeck(3), time.Unix(0, 0))
	for i := 0; i < 3; i++ {
		r.Select(2 * i)
		r.Select(2*i + 1)
		r.Resolve()
	}
	if r.Phase() != PhaseComplete {
		t.Fatalf("expected complete, got %v", r.Phase())
	}
	if r.MatchedPairs != 3 || r.Moves != 3 {
		t.Fatalf("unexpected counters: pairs=%d moves=%d", r.MatchedPairs, r.Moves)
	}

	// Terminal round produces no further mutations.
	before := append([]model.Tile(nil), r.Deck...)
	if got := r.Select(0); got != SelectionIgnored {
		t.Fatalf("select after complete: got %v", got)
	}
	r.Tick(1.5)
	if r.Elapsed != 0 {
		t.Fatalf("timer advanced after completion")
	}
	for i := range before {
		if before[i] != r.Deck[i] {
			t.Fatalf("deck mutated after completion")
		}
	}
}

func TestTickTimeoutBoundary(t *testing.T) {
	r := Start(testLevel(2), pairedDeck(2), time.Unix(0, 0))
	// targetSeconds=90, slack 1.5 → deadline 135.
	for i := 0; i < 135; i++ {
		r.Tick(1.5)
	}
	if r.Phase() != PhaseInProgress {
		t.Fatalf("elapsed=135 should still be in progress, got %v", r.Phase())
	}
	r.Tick(1.5)
	if r.Elapsed != 136 {
		t.Fatalf("expected elapsed 136, got %d", r.Elapsed)
	}
	if r.Phase() != PhaseTimedOut {
		t.Fatalf("elapsed=136 should time out, got %v", r.Phase())
	}
	r.Tick(1.5)
	if r.Elapsed != 136 {
		t.Fatalf("timer advanced after timeout")
	}
}

func TestTimeoutWhileResolvingDropsPendingPair(t *testing.T) {
	r := Start(testLevel(2), pairedDeck(2), time.Unix(0, 0))
	r.Select(0)
	r.Select(1)
	for i := 0; i < 136; i++ {
		r.Tick(1.5)
	}
	if r.Phase() != PhaseTimedOut {
		t.Fatalf("expected timeout, got %v", r.Phase())
	}
	r.Resolve()
	if r.MatchedPairs != 0 {
		t.Fatalf("stale resolve mutated a timed-out round")
	}
}
