package engine

// BlockSize is the edge length of every piece.
const BlockSize = 2

// Block is a 2×2 piece of colored cells plus a stable identifier.
// Cells are indexed [y][x]. A block is never modified after creation;
// rotation returns a new value carrying the same ID.
type Block struct {
	ID    string                     `json:"id"`
	Cells [BlockSize][BlockSize]Cell `json:"cells"`
}

// NewBlock generates a random block from the RNG.
func NewBlock(rng *RNG) Block {
	var b Block
	colors := []Cell{ColorA, ColorB}
	for y := range BlockSize {
		for x := range BlockSize {
			b.Cells[y][x] = Choice(rng, colors)
		}
	}
	b.ID = rng.GenerateID()
	return b
}

// RotateCW returns the block turned a quarter clockwise.
func (b Block) RotateCW() Block {
	r := Block{ID: b.ID}
	for y := range BlockSize {
		for x := range BlockSize {
			r.Cells[y][x] = b.Cells[BlockSize-1-x][y]
		}
	}
	return r
}

// RotateCCW returns the block turned a quarter counter-clockwise.
func (b Block) RotateCCW() Block {
	r := Block{ID: b.ID}
	for y := range BlockSize {
		for x := range BlockSize {
			r.Cells[y][x] = b.Cells[x][BlockSize-1-y]
		}
	}
	return r
}

// occupied calls fn for every non-empty cell with its board coordinates
// when the block sits at pos.
func (b Block) occupied(pos Position, fn func(x, y int, c Cell)) {
	for dy := range BlockSize {
		for dx := range BlockSize {
			c := b.Cells[dy][dx]
			if c == Empty {
				continue
			}
			fn(pos.X+dx, pos.Y+dy, c)
		}
	}
}
