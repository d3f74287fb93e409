package deck

import (
	"errors"
	"testing"
)

func TestGenerateDeckShape(t *testing.T) {
	g := NewWithSeed(1)
	for pairs := 1; pairs <= PoolSize(); pairs++ {
		tiles, err := g.Generate(pairs)
		if err != nil {
			t.Fatalf("generate %d pairs: %v", pairs, err)
		}
		if len(tiles) != 2*pairs {
			t.Fatalf("expected %d tiles, got %d", 2*pairs, len(tiles))
		}
		symbols := map[string]int{}
		ids := map[string]int{}
		for _, tile := range tiles {
			symbols[tile.Symbol]++
			ids[tile.ID]++
			if tile.Matched {
				t.Fatalf("tile %s created already matched", tile.ID)
			}
		}
		if len(symbols) != pairs {
			t.Fatalf("expected %d distinct symbols, got %d", pairs, len(symbols))
		}
		for sym, n := range symbols {
			if n != 2 {
				t.Fatalf("symbol %s appears %d times", sym, n)
			}
		}
		for id, n := range ids {
			if n != 1 {
				t.Fatalf("tile id %s appears %d times", id, n)
			}
		}
	}
}

func TestGenerateRejectsBadPairCount(t *testing.T) {
	g := NewWithSeed(1)
	for _, pairs := range []int{0, -1, PoolSize() + 1} {
		if _, err := g.Generate(pairs); !errors.Is(err, ErrPairCount) {
			t.Fatalf("pairs=%d: expected ErrPairCount, got %v", pairs, err)
		}
	}
}

func TestGenerateShufflesWithoutPositionalBias(t *testing.T) {
	g := NewWithSeed(42)
	const runs = 6000
	const pairs = 2
	firstPos := map[string]int{}
	for i := 0; i < runs; i++ {
		tiles, err := g.Generate(pairs)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		firstPos[tiles[0].ID]++
	}
	// Four tiles, each expected in position 0 about runs/4 times.
	expected := runs / (2 * pairs)
	tolerance := expected / 4
	if len(firstPos) != 2*pairs {
		t.Fatalf("expected every tile to reach position 0, got %d ids", len(firstPos))
	}
	for id, n := range firstPos {
		if n < expected-tolerance || n > expected+tolerance {
			t.Fatalf("tile %s took position 0 %d times, expected about %d", id, n, expected)
		}
	}
}
