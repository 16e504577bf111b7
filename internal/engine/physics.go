package engine

import (
	"slices"
	"sort"
)

// Validity is the outcome of a placement check.
type Validity uint8

const (
	Valid Validity = iota
	OutOfBounds
	Collision
)

// String returns a human-readable name for the validity.
func (v Validity) String() string {
	switch v {
	case Valid:
		return "valid"
	case OutOfBounds:
		return "out_of_bounds"
	case Collision:
		return "collision"
	default:
		return "unknown"
	}
}

// FallingCell is a single airborne cell inside a FallingColumn.
type FallingCell struct {
	ID    string `json:"id"`
	Y     int    `json:"y"`
	Color Cell   `json:"color"`
}

// FallingColumn is a stack of airborne cells in one column,
// ordered top-to-bottom.
type FallingColumn struct {
	X     int           `json:"x"`
	Cells []FallingCell `json:"cells"`
}

// cloneFalling deep-copies a falling column list.
func cloneFalling(fc []FallingColumn) []FallingColumn {
	if fc == nil {
		return nil
	}
	out := make([]FallingColumn, len(fc))
	for i, col := range fc {
		out[i] = FallingColumn{X: col.X, Cells: slices.Clone(col.Cells)}
	}
	return out
}

// fallingAt reports whether a falling cell occupies (x, y).
func fallingAt(fc []FallingColumn, x, y int) bool {
	for _, col := range fc {
		if col.X != x {
			continue
		}
		for _, c := range col.Cells {
			if c.Y == y {
				return true
			}
		}
	}
	return false
}

// IsValidPosition checks whether the block may occupy pos.
// Rows above the board are always in bounds; collisions are only
// checked against visible rows.
func IsValidPosition(board Board, block Block, pos Position, falling []FallingColumn) Validity {
	result := Valid
	block.occupied(pos, func(x, y int, _ Cell) {
		if result == OutOfBounds {
			return
		}
		if x < 0 || x >= Width || y >= Height {
			result = OutOfBounds
			return
		}
		if y < 0 {
			return
		}
		if board[y][x] != Empty || fallingAt(falling, x, y) {
			result = Collision
		}
	})
	return result
}

// PlaceBlockOnBoard writes every visible, non-colliding cell of the block.
// Cells that land on an occupied board cell or a falling cell are skipped,
// which allows partial placement.
func PlaceBlockOnBoard(board Board, falling []FallingColumn, block Block, pos Position) Board {
	block.occupied(pos, func(x, y int, c Cell) {
		if !inBounds(x, y) {
			return
		}
		if board[y][x] != Empty || fallingAt(falling, x, y) {
			return
		}
		board[y][x] = c
	})
	return board
}

// SpillAboveBoard turns the cells of a locking block that are still above
// the board into falling cells, for every column whose top row is open.
// Cells over a full column are lost. This is how a block that spawned
// partially blocked still delivers its free columns.
func SpillAboveBoard(board Board, falling []FallingColumn, block Block, pos Position, ids IDGenerator) []FallingColumn {
	out := cloneFalling(falling)
	for dx := range BlockSize {
		x := pos.X + dx
		if x < 0 || x >= Width || board[0][x] != Empty {
			continue
		}
		var cells []FallingCell
		for dy := range BlockSize {
			y := pos.Y + dy
			c := block.Cells[dy][dx]
			if y >= 0 || c == Empty {
				continue
			}
			cells = append(cells, FallingCell{ID: ids.GenerateID(), Y: y, Color: c})
		}
		if len(cells) > 0 {
			out = mergeFalling(out, x, cells)
		}
	}
	return out
}

// CanPlaceAnyPartOfBlock reports whether a freshly spawned block at pos could
// put at least one cell onto the board. A cell can land in its column as long
// as the topmost visible row of that column is empty.
func CanPlaceAnyPartOfBlock(board Board, pos Position) bool {
	for dx := range BlockSize {
		x := pos.X + dx
		if x < 0 || x >= Width {
			continue
		}
		if board[0][x] == Empty {
			return true
		}
	}
	return false
}

// FindDropPosition descends the block one row at a time and returns the
// last valid position.
func FindDropPosition(board Board, block Block, pos Position, falling []FallingColumn) Position {
	for {
		next := Position{X: pos.X, Y: pos.Y + 1}
		if IsValidPosition(board, block, next, falling) != Valid {
			return pos
		}
		pos = next
	}
}

// ApplyGravity compacts every column downward, preserving the vertical order
// of its cells.
func ApplyGravity(board Board) Board {
	var out Board
	for x := range Width {
		write := Height - 1
		for y := Height - 1; y >= 0; y-- {
			if board[y][x] == Empty {
				continue
			}
			out[write][x] = board[y][x]
			write--
		}
	}
	return out
}

// CreateFallingColumns extracts every cell resting above an empty cell into
// a falling column and clears it from the board. New cells join any existing
// falling column for the same x, keeping top-to-bottom order.
func CreateFallingColumns(board Board, existing []FallingColumn, ids IDGenerator) ([]FallingColumn, Board) {
	out := cloneFalling(existing)
	for x := range Width {
		// The lowest empty row; everything above it is unsupported.
		gap := -1
		for y := Height - 1; y >= 0; y-- {
			if board[y][x] == Empty {
				gap = y
				break
			}
		}
		if gap <= 0 {
			continue
		}

		var cells []FallingCell
		for y := 0; y < gap; y++ {
			if board[y][x] == Empty {
				continue
			}
			cells = append(cells, FallingCell{ID: ids.GenerateID(), Y: y, Color: board[y][x]})
			board[y][x] = Empty
		}
		if len(cells) == 0 {
			continue
		}
		out = mergeFalling(out, x, cells)
	}
	return out, board
}

// mergeFalling adds cells to the column at x, creating it if needed.
func mergeFalling(fc []FallingColumn, x int, cells []FallingCell) []FallingColumn {
	idx := slices.IndexFunc(fc, func(col FallingColumn) bool { return col.X == x })
	if idx < 0 {
		fc = append(fc, FallingColumn{X: x, Cells: cells})
		idx = len(fc) - 1
	} else {
		fc[idx].Cells = append(fc[idx].Cells, cells...)
	}
	sort.SliceStable(fc[idx].Cells, func(i, j int) bool {
		return fc[idx].Cells[i].Y < fc[idx].Cells[j].Y
	})
	sort.SliceStable(fc, func(i, j int) bool { return fc[i].X < fc[j].X })
	return fc
}

// ClearCells empties the given cells and re-derives falling columns for
// whatever the clear left unsupported.
func ClearCells(board Board, cells []Coord, falling []FallingColumn, ids IDGenerator) (Board, []FallingColumn) {
	for _, c := range cells {
		board[c.Y][c.X] = Empty
	}
	fc, b := CreateFallingColumns(board, falling, ids)
	return b, fc
}

// ClearMarkedCellsAndApplyGravity zeroes every cell covered by the squares,
// then extracts cells left unsupported into falling columns.
func ClearMarkedCellsAndApplyGravity(board Board, squares []Square, falling []FallingColumn, ids IDGenerator) (Board, []FallingColumn) {
	return ClearCells(board, SquareCells(squares), falling, ids)
}

// StepFallingColumns moves every falling cell down one row, bottom-most
// first. A cell whose next row is off the board, filled, or held by the
// cell beneath it lands and is written back into the board.
// Returns the new board, the remaining falling columns and the number of
// cells that landed.
func StepFallingColumns(board Board, falling []FallingColumn) (Board, []FallingColumn, int) {
	landed := 0
	var out []FallingColumn
	for _, col := range falling {
		var still []FallingCell
		below := Height // row held by the processed cell beneath
		for i := len(col.Cells) - 1; i >= 0; i-- {
			cell := col.Cells[i]
			next := cell.Y + 1
			if next >= Height || next >= below || (next >= 0 && board[next][col.X] != Empty) {
				if cell.Y >= 0 && board[cell.Y][col.X] == Empty {
					board[cell.Y][col.X] = cell.Color
				}
				landed++
				below = cell.Y
				continue
			}
			cell.Y = next
			still = append(still, cell)
			below = cell.Y
		}
		if len(still) == 0 {
			continue
		}
		slices.Reverse(still)
		out = append(out, FallingColumn{X: col.X, Cells: still})
	}
	return board, out, landed
}
