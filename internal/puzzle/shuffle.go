package puzzle

import (
	"math/rand"
	"sync"
	"time"
)

// Shuffler scrambles a board in place.
type Shuffler interface {
	Shuffle(b *Board)
}

// RandomShuffler applies ShuffleMoves random legal slides, so the result
// is always reachable from the solved state.
type RandomShuffler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomShuffler creates a shuffler. A zero seed uses the current time.
func NewRandomShuffler(seed int64) *RandomShuffler {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomShuffler{rng: rand.New(rand.NewSource(seed))}
}

func (s *RandomShuffler) Shuffle(b *Board) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := ShuffleMoves(b.Size()); i > 0; i-- {
		neighbors := b.Neighbors(b.EmptyIndex())
		pick := neighbors[s.rng.Intn(len(neighbors))]
		b.Swap(pick, b.EmptyIndex())
	}
}
