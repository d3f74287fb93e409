package tui

import (
	"strings"
	"testing"

	"github.com/hanmaum/pairo/internal/model"
	"github.com/hanmaum/pairo/internal/round"
	"github.com/hanmaum/pairo/internal/session"
)

func testSnapshot() session.Snapshot {
	return session.Snapshot{
		Level:      model.Level{ID: "medium", PairCount: 2, TargetMoves: 6, TargetSeconds: 90},
		LevelIndex: 1,
		LevelCount: 3,
		Deck: []model.Tile{
			{ID: "0-a", Symbol: "🐶", Matched: true},
			{ID: "0-b", Symbol: "🐶", Matched: true},
			{ID: "1-a", Symbol: "🐱"},
			{ID: "1-b", Symbol: "🐱"},
		},
		Revealed:        []int{2},
		Moves:           3,
		MatchedPairs:    1,
		Elapsed:         42,
		DeadlineSeconds: 135,
		Phase:           round.PhaseInProgress,
		VoiceEnabled:    true,
		History: []model.Record{
			{Success: true, LevelID: "medium"},
			{Success: false, LevelID: "medium"},
		},
		LastAnnouncement: "짝을 찾았어요",
	}
}

func TestRenderStatusFormats(t *testing.T) {
	out := renderStatus(testSnapshot())
	for _, want := range []string{
		"Level medium (2/3)",
		"Pairs 1/2",
		"Moves 3 (target 6)",
		"Time 42s/135s",
		"voice on",
		"●○",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("status missing %q: %s", want, out)
		}
	}
}

func TestRenderStatusTerminalHints(t *testing.T) {
	snap := testSnapshot()
	snap.Phase = round.PhaseComplete
	if out := renderStatus(snap); !strings.Contains(out, "round complete") {
		t.Fatalf("missing completion hint: %s", out)
	}
	snap.Phase = round.PhaseTimedOut
	if out := renderStatus(snap); !strings.Contains(out, "time over") {
		t.Fatalf("missing timeout hint: %s", out)
	}
}

func TestRenderGridShowsFaces(t *testing.T) {
	out := renderGrid(testSnapshot(), 3)
	if !strings.Contains(out, "🐶") {
		t.Fatalf("matched symbols hidden: %s", out)
	}
	if !strings.Contains(out, "🐱") {
		t.Fatalf("revealed symbol hidden: %s", out)
	}
	if !strings.Contains(out, hiddenFace) {
		t.Fatalf("unrevealed tile not masked: %s", out)
	}
	if strings.Count(out, "🐱") != 1 {
		t.Fatalf("unrevealed twin leaked its symbol: %s", out)
	}
	if !strings.Contains(out, "[") || !strings.Contains(out, "]") {
		t.Fatalf("cursor cell not marked: %s", out)
	}
}

func TestRenderGridRowLayout(t *testing.T) {
	snap := testSnapshot()
	// Six pairs fill three rows of four.
	snap.Deck = make([]model.Tile, 12)
	for i := range snap.Deck {
		snap.Deck[i] = model.Tile{ID: "x", Symbol: "🐰"}
	}
	snap.Revealed = nil
	out := renderGrid(snap, 0)
	if got := len(strings.Split(out, "\n")); got != 3 {
		t.Fatalf("expected 3 grid rows, got %d", got)
	}
}

func TestMoveCursorStaysInsideDeck(t *testing.T) {
	m := &Model{}
	m.moveCursor(1, 4)
	m.moveCursor(1, 4)
	if m.cursor != 2 {
		t.Fatalf("expected cursor 2, got %d", m.cursor)
	}
	m.moveCursor(gridColumns, 4)
	if m.cursor != 2 {
		t.Fatalf("cursor moved past deck: %d", m.cursor)
	}
	m.moveCursor(-gridColumns, 4)
	if m.cursor != 2 {
		t.Fatalf("cursor moved before deck: %d", m.cursor)
	}
	m.moveCursor(-1, 4)
	m.moveCursor(-1, 4)
	m.moveCursor(-1, 4)
	if m.cursor != 0 {
		t.Fatalf("expected cursor 0, got %d", m.cursor)
	}
}
