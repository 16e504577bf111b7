// Package engine implements the deterministic blockdrop simulation: the board,
// falling-cell physics, square detection, the timeline sweep and the reducer
// that folds actions over a GameState.
//
// Every exported operation is a pure function. Boards are value arrays, so a
// copy is a snapshot; slices inside GameState are copied before any write.
package engine

import "strings"

// Board dimensions.
const (
	Width  = 16
	Height = 10
)

// Cell is the content of a single board square.
type Cell uint8

const (
	Empty Cell = iota
	ColorA
	ColorB
)

// String returns a human-readable name for the cell.
func (c Cell) String() string {
	switch c {
	case Empty:
		return "empty"
	case ColorA:
		return "a"
	case ColorB:
		return "b"
	default:
		return "unknown"
	}
}

// Char returns a single character representation for ASCII dumps.
func (c Cell) Char() rune {
	switch c {
	case ColorA:
		return 'A'
	case ColorB:
		return 'B'
	default:
		return '.'
	}
}

// ParseCell converts a character from an ASCII dump back into a Cell.
func ParseCell(r rune) (Cell, bool) {
	switch r {
	case '.', ' ':
		return Empty, true
	case 'A', 'a':
		return ColorA, true
	case 'B', 'b':
		return ColorB, true
	default:
		return Empty, false
	}
}

// Board is the playfield, indexed [y][x] with y growing downward.
type Board [Height][Width]Cell

// Position is the top-left cell of the active block.
// Y may be negative while the block is still above the visible board.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Coord addresses a single visible board cell.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// SpawnPosition is where every new block enters.
var SpawnPosition = Position{X: Width/2 - 1, Y: -2}

// NewBoard returns a board with every cell empty.
func NewBoard() Board {
	return Board{}
}

// ParseBoard builds a board from rows of 'A', 'B' and '.' characters.
// Rows are aligned to the bottom of the board; missing rows are empty.
// Unknown characters are treated as empty.
func ParseBoard(rows ...string) Board {
	var b Board
	offset := Height - len(rows)
	for i, row := range rows {
		y := offset + i
		if y < 0 {
			continue
		}
		for x, r := range []rune(row) {
			if x >= Width {
				break
			}
			if c, ok := ParseCell(r); ok {
				b[y][x] = c
			}
		}
	}
	return b
}

// String renders the board as rows of characters.
func (b Board) String() string {
	var sb strings.Builder
	sb.Grow((Width + 1) * Height)
	for y := range Height {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for x := range Width {
			sb.WriteRune(b[y][x].Char())
		}
	}
	return sb.String()
}

// FilledCount returns the number of non-empty cells.
func (b Board) FilledCount() int {
	count := 0
	for y := range Height {
		for x := range Width {
			if b[y][x] != Empty {
				count++
			}
		}
	}
	return count
}

// inBounds reports whether (x, y) is a visible board cell.
func inBounds(x, y int) bool {
	return x >= 0 && x < Width && y >= 0 && y < Height
}
