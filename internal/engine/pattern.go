package engine

import (
	"cmp"
	"slices"
)

// Square is a detected 2×2 block of one color, addressed by its top-left cell.
type Square struct {
	X     int  `json:"x"`
	Y     int  `json:"y"`
	Color Cell `json:"color"`
}

// Cells returns the four board cells the square covers.
func (s Square) Cells() [4]Coord {
	return [4]Coord{
		{X: s.X, Y: s.Y},
		{X: s.X + 1, Y: s.Y},
		{X: s.X, Y: s.Y + 1},
		{X: s.X + 1, Y: s.Y + 1},
	}
}

// DetectSquares reports every 2×2 same-colored block on the board.
// Overlapping squares are reported independently, in row-major order.
func DetectSquares(board Board) []Square {
	var out []Square
	for y := 0; y < Height-1; y++ {
		for x := 0; x < Width-1; x++ {
			c := board[y][x]
			if c == Empty {
				continue
			}
			if board[y][x+1] == c && board[y+1][x] == c && board[y+1][x+1] == c {
				out = append(out, Square{X: x, Y: y, Color: c})
			}
		}
	}
	return out
}

// SquareCells returns the distinct cells covered by the squares, sorted.
func SquareCells(squares []Square) []Coord {
	var cells []Coord
	for _, s := range squares {
		for _, c := range s.Cells() {
			cells = append(cells, c)
		}
	}
	return normalizeCoords(cells)
}

// compareCoord orders coordinates column-major, which is the sweep order.
func compareCoord(a, b Coord) int {
	if a.X != b.X {
		return cmp.Compare(a.X, b.X)
	}
	return cmp.Compare(a.Y, b.Y)
}

// normalizeCoords sorts and deduplicates coordinates.
func normalizeCoords(cells []Coord) []Coord {
	slices.SortFunc(cells, compareCoord)
	return slices.Compact(cells)
}

// mergeSquares adds newly detected squares to the tracked set and returns the
// updated squares and marked cells. Already tracked squares are not duplicated.
func mergeSquares(tracked []Square, marked []Coord, detected []Square) ([]Square, []Coord) {
	squares := slices.Clone(tracked)
	for _, s := range detected {
		if slices.Contains(squares, s) {
			continue
		}
		squares = append(squares, s)
	}
	cells := slices.Clone(marked)
	cells = append(cells, SquareCells(detected)...)
	return squares, normalizeCoords(cells)
}

// markedInColumn splits marked cells into those in column x and the rest.
func markedInColumn(marked []Coord, x int) (in, rest []Coord) {
	for _, c := range marked {
		if c.X == x {
			in = append(in, c)
		} else {
			rest = append(rest, c)
		}
	}
	return in, rest
}
