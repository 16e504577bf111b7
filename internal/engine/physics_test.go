package engine

import (
	"fmt"
	"testing"
)

// scriptedIDs hands out ids in order, then falls back to numbered ones.
type scriptedIDs struct {
	ids []string
	n   int
}

func (s *scriptedIDs) GenerateID() string {
	defer func() { s.n++ }()
	if s.n < len(s.ids) {
		return s.ids[s.n]
	}
	return fmt.Sprintf("gen-%d", s.n)
}

func solid(c Cell) Block {
	return Block{ID: "solid", Cells: [2][2]Cell{{c, c}, {c, c}}}
}

// checkerBoard fills every cell without forming a single square.
func checkerBoard() Board {
	var bd Board
	for y := range Height {
		for x := range Width {
			if (x+y)%2 == 0 {
				bd[y][x] = ColorA
			} else {
				bd[y][x] = ColorB
			}
		}
	}
	return bd
}

func TestIsValidPosition(t *testing.T) {
	var withCell Board
	withCell[5][5] = ColorA

	var topLeft Board
	topLeft[0][0] = ColorB

	falling := []FallingColumn{{X: 3, Cells: []FallingCell{{ID: "f", Y: 3, Color: ColorA}}}}

	tests := []struct {
		name    string
		board   Board
		pos     Position
		falling []FallingColumn
		want    Validity
	}{
		{"spawn on empty board", NewBoard(), SpawnPosition, nil, Valid},
		{"resting on floor", NewBoard(), Position{X: 0, Y: 8}, nil, Valid},
		{"left wall", NewBoard(), Position{X: -1, Y: 0}, nil, OutOfBounds},
		{"right wall", NewBoard(), Position{X: Width - 1, Y: 0}, nil, OutOfBounds},
		{"below floor", NewBoard(), Position{X: 0, Y: Height - 1}, nil, OutOfBounds},
		{"board collision", withCell, Position{X: 4, Y: 4}, nil, Collision},
		{"hidden rows skip collision", topLeft, Position{X: 0, Y: -2}, nil, Valid},
		{"partly visible collides", topLeft, Position{X: 0, Y: -1}, nil, Collision},
		{"falling collision", NewBoard(), Position{X: 3, Y: 2}, falling, Collision},
		{"wall above board", NewBoard(), Position{X: -1, Y: -2}, nil, OutOfBounds},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := IsValidPosition(tc.board, solid(ColorA), tc.pos, tc.falling)
			if got != tc.want {
				t.Errorf("IsValidPosition(%v) = %v, expected %v", tc.pos, got, tc.want)
			}
		})
	}
}

func TestPlaceBlockPartial(t *testing.T) {
	var bd Board
	bd[8][4] = ColorA
	bd[9][4] = ColorA

	got := PlaceBlockOnBoard(bd, nil, solid(ColorB), Position{X: 4, Y: 8})

	if got[8][4] != ColorA || got[9][4] != ColorA {
		t.Error("occupied cells should keep their original color")
	}
	if got[8][5] != ColorB || got[9][5] != ColorB {
		t.Error("free cells of the block should be written")
	}
	if got.FilledCount() != 4 {
		t.Errorf("FilledCount() = %d, expected 4", got.FilledCount())
	}
}

func TestPlaceBlockAboveBoard(t *testing.T) {
	got := PlaceBlockOnBoard(NewBoard(), nil, solid(ColorA), Position{X: 7, Y: -1})
	if got.FilledCount() != 2 {
		t.Fatalf("FilledCount() = %d, expected 2", got.FilledCount())
	}
	if got[0][7] != ColorA || got[0][8] != ColorA {
		t.Error("visible bottom row should be written")
	}
}

func TestCanPlaceAnyPartOfBlock(t *testing.T) {
	full := "AAAAAAAAAAAAAAAA"
	topFull := NewBoard()
	for y := 0; y < 3; y++ {
		for x := range Width {
			topFull[y][x] = ColorA
		}
	}

	oneFree := topFull
	oneFree[0][8] = Empty

	deepStack := ParseBoard(full, full, full)

	tests := []struct {
		name  string
		board Board
		want  bool
	}{
		{"empty board", NewBoard(), true},
		{"top three rows full", topFull, false},
		{"one spawn column free", oneFree, true},
		{"stack below top", deepStack, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanPlaceAnyPartOfBlock(tc.board, SpawnPosition); got != tc.want {
				t.Errorf("CanPlaceAnyPartOfBlock() = %v, expected %v", got, tc.want)
			}
		})
	}
}

func TestFindDropPosition(t *testing.T) {
	if got := FindDropPosition(NewBoard(), solid(ColorA), SpawnPosition, nil); got.Y != Height-2 {
		t.Errorf("FindDropPosition() on empty board = %v, expected Y=%d", got, Height-2)
	}

	var bd Board
	bd[7][8] = ColorB
	bd[8][8] = ColorB
	bd[9][8] = ColorB
	got := FindDropPosition(bd, solid(ColorA), SpawnPosition, nil)
	if got != (Position{X: 7, Y: 5}) {
		t.Errorf("FindDropPosition() = %v, expected {7 5}", got)
	}
}

func TestApplyGravityOrder(t *testing.T) {
	var bd Board
	bd[2][0] = ColorA
	bd[5][0] = ColorB

	got := ApplyGravity(bd)
	if got[8][0] != ColorA || got[9][0] != ColorB {
		t.Errorf("ApplyGravity() column 0 = %v/%v, expected a/b", got[8][0], got[9][0])
	}
	if got.FilledCount() != 2 {
		t.Errorf("FilledCount() = %d, expected 2", got.FilledCount())
	}
}

func TestApplyGravityIdempotent(t *testing.T) {
	r := NewRNG(2024)
	cells := []Cell{Empty, ColorA, ColorB}
	for i := 0; i < 50; i++ {
		var bd Board
		for y := range Height {
			for x := range Width {
				bd[y][x] = Choice(&r, cells)
			}
		}
		once := ApplyGravity(bd)
		twice := ApplyGravity(once)
		if once != twice {
			t.Fatalf("ApplyGravity() not idempotent for board:\n%s", bd)
		}
		if once.FilledCount() != bd.FilledCount() {
			t.Fatalf("ApplyGravity() changed cell count %d -> %d", bd.FilledCount(), once.FilledCount())
		}
	}
}

func TestCreateFallingColumns(t *testing.T) {
	var bd Board
	bd[2][3] = ColorA
	bd[3][3] = ColorB
	bd[5][3] = ColorA
	bd[9][3] = ColorB
	bd[9][0] = ColorA // supported, stays

	ids := &scriptedIDs{ids: []string{"c1", "c2", "c3"}}
	fc, got := CreateFallingColumns(bd, nil, ids)

	if len(fc) != 1 {
		t.Fatalf("len(falling) = %d, expected 1", len(fc))
	}
	col := fc[0]
	if col.X != 3 {
		t.Errorf("falling column X = %d, expected 3", col.X)
	}
	want := []FallingCell{
		{ID: "c1", Y: 2, Color: ColorA},
		{ID: "c2", Y: 3, Color: ColorB},
		{ID: "c3", Y: 5, Color: ColorA},
	}
	if len(col.Cells) != len(want) {
		t.Fatalf("len(cells) = %d, expected %d", len(col.Cells), len(want))
	}
	for i := range want {
		if col.Cells[i] != want[i] {
			t.Errorf("cells[%d] = %+v, expected %+v", i, col.Cells[i], want[i])
		}
	}

	if got[9][3] != ColorB || got[9][0] != ColorA {
		t.Error("supported cells should remain on the board")
	}
	if got.FilledCount() != 2 {
		t.Errorf("FilledCount() = %d, expected 2", got.FilledCount())
	}
}

func TestCreateFallingColumnsMergesExisting(t *testing.T) {
	var bd Board
	bd[4][3] = ColorA

	existing := []FallingColumn{{X: 3, Cells: []FallingCell{{ID: "old", Y: 0, Color: ColorB}}}}
	fc, _ := CreateFallingColumns(bd, existing, &scriptedIDs{ids: []string{"new"}})

	if len(fc) != 1 || len(fc[0].Cells) != 2 {
		t.Fatalf("falling = %+v, expected one column with two cells", fc)
	}
	if fc[0].Cells[0].ID != "old" || fc[0].Cells[1].ID != "new" {
		t.Errorf("cells out of top-to-bottom order: %+v", fc[0].Cells)
	}
	if len(existing[0].Cells) != 1 {
		t.Error("input falling columns were modified")
	}
}

func TestCreateFallingColumnsFreshIDs(t *testing.T) {
	bd := ParseBoard(
		"AB.AB.AB.AB.AB.A",
		"................",
	)
	r := NewRNG(8)
	fc, _ := CreateFallingColumns(bd, nil, &r)

	seen := make(map[string]bool)
	for _, col := range fc {
		for _, c := range col.Cells {
			if seen[c.ID] {
				t.Fatalf("duplicate falling cell id %q", c.ID)
			}
			seen[c.ID] = true
		}
	}
	if len(seen) != bd.FilledCount() {
		t.Errorf("extracted %d cells, expected %d", len(seen), bd.FilledCount())
	}
}

func TestStepFallingColumns(t *testing.T) {
	var bd Board
	bd[9][0] = ColorA
	falling := []FallingColumn{{X: 0, Cells: []FallingCell{
		{ID: "top", Y: 6, Color: ColorB},
		{ID: "bottom", Y: 7, Color: ColorA},
	}}}

	bd, falling, landed := StepFallingColumns(bd, falling)
	if landed != 0 {
		t.Fatalf("first step landed %d, expected 0", landed)
	}
	if len(falling) != 1 || falling[0].Cells[0].Y != 7 || falling[0].Cells[1].Y != 8 {
		t.Fatalf("after first step falling = %+v, expected rows 7 and 8", falling)
	}

	bd, falling, landed = StepFallingColumns(bd, falling)
	if landed != 2 {
		t.Errorf("second step landed %d, expected 2", landed)
	}
	if len(falling) != 0 {
		t.Errorf("falling = %+v, expected none", falling)
	}
	if bd[7][0] != ColorB || bd[8][0] != ColorA || bd[9][0] != ColorA {
		t.Errorf("column 0 after landing:\n%s", bd)
	}
}

func TestStepFallingAboveBoard(t *testing.T) {
	falling := []FallingColumn{{X: 2, Cells: []FallingCell{{ID: "f", Y: -2, Color: ColorA}}}}
	bd, falling, _ := StepFallingColumns(NewBoard(), falling)
	if len(falling) != 1 || falling[0].Cells[0].Y != -1 {
		t.Fatalf("falling = %+v, expected cell at row -1", falling)
	}
	if bd.FilledCount() != 0 {
		t.Error("airborne cell should not be written")
	}
}

func TestSpillAboveBoard(t *testing.T) {
	var bd Board
	for y := range Height {
		bd[y][3] = ColorB
	}
	blk := Block{ID: "b", Cells: [2][2]Cell{{ColorA, ColorB}, {ColorB, ColorA}}}

	fc := SpillAboveBoard(bd, nil, blk, Position{X: 3, Y: -2}, &scriptedIDs{ids: []string{"top", "bottom"}})
	if len(fc) != 1 || fc[0].X != 4 {
		t.Fatalf("SpillAboveBoard() = %+v, expected one column at x=4", fc)
	}
	want := []FallingCell{{ID: "top", Y: -2, Color: ColorB}, {ID: "bottom", Y: -1, Color: ColorA}}
	for i, c := range fc[0].Cells {
		if c != want[i] {
			t.Errorf("cell %d = %+v, expected %+v", i, c, want[i])
		}
	}

	// Cells already on the board and columns with a full top row spill nothing.
	if got := SpillAboveBoard(NewBoard(), nil, blk, Position{X: 3, Y: 0}, &scriptedIDs{}); got != nil {
		t.Errorf("SpillAboveBoard() on board = %+v, expected nil", got)
	}
}

func TestClearMarkedCellsAndApplyGravity(t *testing.T) {
	bd := ParseBoard(
		"B...............",
		"AA..............",
		"AA..............",
	)
	squares := DetectSquares(bd)
	if len(squares) != 1 {
		t.Fatalf("DetectSquares() found %d, expected 1", len(squares))
	}

	got, fc := ClearMarkedCellsAndApplyGravity(bd, squares, nil, &scriptedIDs{})
	if got.FilledCount() != 0 {
		t.Errorf("board should be empty after clearing, got:\n%s", got)
	}
	if len(fc) != 1 || fc[0].X != 0 || fc[0].Cells[0].Color != ColorB {
		t.Errorf("falling = %+v, expected the B cell in column 0", fc)
	}
}

func TestGameOverBoardHasNoSquares(t *testing.T) {
	if n := len(DetectSquares(checkerBoard())); n != 0 {
		t.Fatalf("checkerBoard() has %d squares, expected 0", n)
	}
}
