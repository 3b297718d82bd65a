package puzzle

// Board is a size x size grid holding a permutation of 0..size²-1.
// Value 0 marks the empty cell.
type Board struct {
	size  int
	tiles []int
	empty int
}

// NewBoard returns a solved board of the given side length.
func NewBoard(size int) *Board {
	b := &Board{}
	b.Reset(size)
	return b
}

// Reset puts the board in the solved order [1, 2, ..., size²-1, 0].
func (b *Board) Reset(size int) {
	b.size = size
	b.tiles = SolvedTiles(size)
	b.empty = len(b.tiles) - 1
}

// SolvedTiles returns the solved permutation for a board of the given size.
func SolvedTiles(size int) []int {
	n := size * size
	tiles := make([]int, n)
	for i := 0; i < n-1; i++ {
		tiles[i] = i + 1
	}
	return tiles
}

func (b *Board) Size() int { return b.size }

// EmptyIndex returns the cell currently holding the empty tile.
func (b *Board) EmptyIndex() int { return b.empty }

// Tiles returns a copy of the cells in row-major order.
func (b *Board) Tiles() []int {
	out := make([]int, len(b.tiles))
	copy(out, b.tiles)
	return out
}

// Neighbors returns the orthogonally adjacent cells of index in
// up, down, left, right order.
func (b *Board) Neighbors(index int) []int {
	if !b.inRange(index) {
		return nil
	}
	row, col := index/b.size, index%b.size
	out := make([]int, 0, 4)
	if row > 0 {
		out = append(out, index-b.size)
	}
	if row < b.size-1 {
		out = append(out, index+b.size)
	}
	if col > 0 {
		out = append(out, index-1)
	}
	if col < b.size-1 {
		out = append(out, index+1)
	}
	return out
}

// IsMovable reports whether the tile at index may slide into the empty cell.
func (b *Board) IsMovable(index int) bool {
	for _, n := range b.Neighbors(b.empty) {
		if n == index {
			return true
		}
	}
	return false
}

// Swap exchanges two cells without checking legality. Out of range
// indices are ignored.
func (b *Board) Swap(i, j int) {
	if !b.inRange(i) || !b.inRange(j) {
		return
	}
	b.tiles[i], b.tiles[j] = b.tiles[j], b.tiles[i]
	switch {
	case b.tiles[i] == 0:
		b.empty = i
	case b.tiles[j] == 0:
		b.empty = j
	}
}

// IsSolved reports whether every tile sits at its home cell.
func (b *Board) IsSolved() bool {
	last := len(b.tiles) - 1
	for k, v := range b.tiles {
		if k == last {
			return v == 0
		}
		if v != k+1 {
			return false
		}
	}
	return false
}

// load replaces the cells wholesale. tiles must be a permutation for the
// current size.
func (b *Board) load(tiles []int) {
	b.tiles = make([]int, len(tiles))
	copy(b.tiles, tiles)
	for i, v := range b.tiles {
		if v == 0 {
			b.empty = i
			break
		}
	}
}

func (b *Board) inRange(i int) bool {
	return i >= 0 && i < len(b.tiles)
}
