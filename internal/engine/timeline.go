package engine

// Timeline is the cursor that sweeps the board column by column and commits
// marked squares into score as it passes them.
type Timeline struct {
	X             int  `json:"x"`
	Timer         int  `json:"timer"`
	SweepInterval int  `json:"sweep_interval"`
	Active        bool `json:"active"`
	HoldingScore  int  `json:"holding_score"`
	// HoldingSquares counts squares collected in the current run of the sweep.
	HoldingSquares int `json:"holding_squares"`
}

// NewTimeline returns an inactive timeline parked at column 0.
func NewTimeline(sweepInterval int) Timeline {
	if sweepInterval < 1 {
		sweepInterval = 1
	}
	return Timeline{SweepInterval: sweepInterval}
}

// sweepResult describes what happened during one timeline tick.
type sweepResult struct {
	Swept   bool // the cursor moved this tick
	Column  int  // column that was swept
	Wrapped bool // the cursor returned to column 0
}

// advance runs the per-tick timer and reports whether a column was swept.
func (t Timeline) advance() (Timeline, sweepResult) {
	if !t.Active {
		return t, sweepResult{}
	}
	t.Timer++
	if t.Timer < t.SweepInterval {
		return t, sweepResult{}
	}
	res := sweepResult{Swept: true, Column: t.X}
	t.Timer = 0
	t.X++
	if t.X >= Width {
		t.X = 0
		res.Wrapped = true
	}
	return t, res
}

// commit moves the holding score into the committed score, applying the
// combo bonus for every square beyond the first.
func (t Timeline) commit(score int, rules Rules) (Timeline, int) {
	if t.HoldingScore == 0 {
		t.HoldingSquares = 0
		return t, score
	}
	bonus := 0
	if t.HoldingSquares > 1 {
		bonus = (t.HoldingSquares - 1) * rules.ComboBonus
	}
	score += t.HoldingScore + bonus
	t.HoldingScore = 0
	t.HoldingSquares = 0
	return t, score
}

// tickTimeline advances the sweep by one tick and applies its effects to the
// state: clearing marked cells in the swept column, completing squares,
// committing the holding score and re-deriving falling columns.
func tickTimeline(s *GameState) {
	tl, res := s.Timeline.advance()
	s.Timeline = tl
	if !res.Swept {
		return
	}

	in, rest := markedInColumn(s.MarkedCells, res.Column)
	if len(in) > 0 {
		s.Board, s.FallingColumns = ClearCells(s.Board, in, s.FallingColumns, &s.RNG)
		s.MarkedCells = rest
		s.Stats.CellsCleared += len(in)

		var remaining []Square
		for _, sq := range s.Squares {
			if sq.X+1 == res.Column {
				s.Timeline.HoldingScore += s.Rules.PointsPerSquare
				s.Timeline.HoldingSquares++
				s.Stats.SquaresCleared++
				continue
			}
			remaining = append(remaining, sq)
		}
		s.Squares = remaining
	}

	if len(in) == 0 || res.Wrapped {
		s.Timeline, s.Score = s.Timeline.commit(s.Score, s.Rules)
	}
}
