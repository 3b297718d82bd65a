package puzzle

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomShufflerKeepsPermutation(t *testing.T) {
	for _, size := range []int{3, 4, 6} {
		b := NewBoard(size)
		NewRandomShuffler(42).Shuffle(b)

		tiles := b.Tiles()
		assert.Equal(t, 0, tiles[b.EmptyIndex()])

		sorted := append([]int(nil), tiles...)
		sort.Ints(sorted)
		for i, v := range sorted {
			assert.Equal(t, i, v)
		}
	}
}

func TestRandomShufflerSeeded(t *testing.T) {
	a, b := NewBoard(4), NewBoard(4)
	NewRandomShuffler(7).Shuffle(a)
	NewRandomShuffler(7).Shuffle(b)
	assert.Equal(t, a.Tiles(), b.Tiles())
}

func TestRandomShufflerIsSolvable(t *testing.T) {
	// On an odd-width board legal slides preserve inversion parity, and the
	// solved board has none.
	for _, seed := range []int64{1, 99, 12345} {
		b := NewBoard(3)
		NewRandomShuffler(seed).Shuffle(b)
		assert.Equal(t, 0, inversions(b)%2)
	}
}

func inversions(b *Board) int {
	tiles := b.Tiles()
	inv := 0
	for i := 0; i < len(tiles); i++ {
		for j := i + 1; j < len(tiles); j++ {
			if tiles[i] != 0 && tiles[j] != 0 && tiles[i] > tiles[j] {
				inv++
			}
		}
	}
	return inv
}
