// Package deck builds shuffled tile decks.
package deck

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/hanmaum/pairo/internal/model"
)

// ErrPairCount reports a pair count outside the symbol pool bounds.
var ErrPairCount = errors.New("pair count out of range")

// symbolPool is the fixed set of tile symbols. Pairs are always drawn
// from its prefix, so the same level always plays the same symbols.
var symbolPool = []string{
	"🐶", "🐱", "🐰", "🦊", "🐻", "🐼",
	"🐸", "🐵", "🐤", "🐙", "🦋", "🌻",
}

// PoolSize returns the number of available symbols.
func PoolSize() int {
	return len(symbolPool)
}

// Generator produces shuffled decks.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a Generator with a fixed seed.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Generate builds a deck of 2×pairCount tiles, two per symbol, in
// uniformly random order.
func (g *Generator) Generate(pairCount int) ([]model.Tile, error) {
	if pairCount < 1 || pairCount > len(symbolPool) {
		return nil, fmt.Errorf("%w: %d (pool holds %d symbols)", ErrPairCount, pairCount, len(symbolPool))
	}
	tiles := make([]model.Tile, 0, 2*pairCount)
	for i := 0; i < pairCount; i++ {
		tiles = append(tiles,
			model.Tile{ID: fmt.Sprintf("%d-a", i), Symbol: symbolPool[i]},
			model.Tile{ID: fmt.Sprintf("%d-b", i), Symbol: symbolPool[i]},
		)
	}
	// Fisher–Yates.
	for i := len(tiles) - 1; i > 0; i-- {
		j := g.rnd.Intn(i + 1)
		tiles[i], tiles[j] = tiles[j], tiles[i]
	}
	return tiles, nil
}
