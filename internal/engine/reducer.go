package engine

import "slices"

// Reduce folds one action over the state and returns the next state.
// It never fails: an action that cannot apply leaves the state as it was.
// The input state is never modified.
func Reduce(s GameState, a Action) GameState {
	switch a.(type) {
	case StartGame:
		return startGame(s)
	case Tick:
		return tick(s)
	case MoveLeft:
		return move(s, -1)
	case MoveRight:
		return move(s, 1)
	case RotateCW:
		return rotate(s, s.Current.RotateCW())
	case RotateCCW:
		return rotate(s, s.Current.RotateCCW())
	case SoftDrop:
		return softDrop(s)
	case HardDrop:
		return hardDrop(s)
	case Pause:
		return pause(s)
	case Resume:
		return resume(s)
	case Restart:
		return restart(s)
	default:
		return s
	}
}

func startGame(s GameState) GameState {
	if s.Status != StatusInitial {
		return s
	}
	s = s.Clone()
	s.Status = StatusPlaying
	s.Timeline.Active = true
	return s
}

func move(s GameState, dx int) GameState {
	if s.Status != StatusPlaying {
		return s
	}
	target := Position{X: s.Position.X + dx, Y: s.Position.Y}
	if IsValidPosition(s.Board, s.Current, target, s.FallingColumns) != Valid {
		return s
	}
	s = s.Clone()
	s.Position = target
	return s
}

func rotate(s GameState, rotated Block) GameState {
	if s.Status != StatusPlaying {
		return s
	}
	if IsValidPosition(s.Board, rotated, s.Position, s.FallingColumns) != Valid {
		return s
	}
	s = s.Clone()
	s.Current = rotated
	return s
}

func softDrop(s GameState) GameState {
	if s.Status != StatusPlaying {
		return s
	}
	target := Position{X: s.Position.X, Y: s.Position.Y + 1}
	if IsValidPosition(s.Board, s.Current, target, s.FallingColumns) != Valid {
		return s
	}
	s = s.Clone()
	s.Position = target
	return s
}

func hardDrop(s GameState) GameState {
	if s.Status != StatusPlaying {
		return s
	}
	s = s.Clone()
	s.Position = FindDropPosition(s.Board, s.Current, s.Position, s.FallingColumns)
	lockBlock(&s)
	return s
}

func pause(s GameState) GameState {
	if s.Status != StatusPlaying && s.Status != StatusCountdownPaused {
		return s
	}
	s = s.Clone()
	s.Status = StatusPaused
	s.Countdown = 0
	s.Timeline.Active = false
	return s
}

func resume(s GameState) GameState {
	if s.Status != StatusPaused {
		return s
	}
	s = s.Clone()
	if s.Rules.ResumeCountdown > 0 {
		s.Status = StatusCountdownPaused
		s.Countdown = s.Rules.ResumeCountdown
		return s
	}
	s.Status = StatusPlaying
	s.Timeline.Active = true
	return s
}

func restart(s GameState) GameState {
	fresh := NewGameState(s.Seed, s.Rules)
	fresh.Debug = s.Debug
	fresh.Status = StatusPlaying
	fresh.Timeline.Active = true
	return fresh
}

func tick(s GameState) GameState {
	switch s.Status {
	case StatusCountdownPaused:
		s = s.Clone()
		s.Countdown--
		if s.Countdown <= 0 {
			s.Countdown = 0
			s.Status = StatusPlaying
			s.Timeline.Active = true
		}
		return s
	case StatusPlaying:
	default:
		return s
	}

	s = s.Clone()
	s.Frame++

	s.DropTimer++
	if s.DropTimer >= s.DropInterval {
		s.DropTimer = 0
		below := Position{X: s.Position.X, Y: s.Position.Y + 1}
		if IsValidPosition(s.Board, s.Current, below, s.FallingColumns) == Valid {
			s.Position = below
		} else {
			lockBlock(&s)
		}
	}
	if s.Status != StatusPlaying {
		return s
	}

	tickTimeline(&s)

	if len(s.FallingColumns) > 0 {
		var landed int
		s.Board, s.FallingColumns, landed = StepFallingColumns(s.Board, s.FallingColumns)
		if landed > 0 {
			markSquares(&s)
		}
	}

	s.DropInterval = s.Rules.dropIntervalFor(s.Score)
	return s
}

// lockBlock writes the active block into the board at its current position,
// lets cells still above an open column fall in, settles unsupported cells,
// marks squares and spawns the next block.
// The state must already be a private copy.
func lockBlock(s *GameState) {
	s.Board = PlaceBlockOnBoard(s.Board, s.FallingColumns, s.Current, s.Position)
	s.FallingColumns = SpillAboveBoard(s.Board, s.FallingColumns, s.Current, s.Position, &s.RNG)
	s.FallingColumns, s.Board = CreateFallingColumns(s.Board, s.FallingColumns, &s.RNG)
	s.Stats.BlocksLocked++
	markSquares(s)
	spawnNext(s)
}

// markSquares detects squares on the board and adds them to the marked set.
func markSquares(s *GameState) {
	s.Squares, s.MarkedCells = mergeSquares(s.Squares, s.MarkedCells, DetectSquares(s.Board))
}

// spawnNext promotes the head of the queue, refills the queue from the RNG
// and ends the game when the new block has nowhere to go.
func spawnNext(s *GameState) {
	s.Current = s.Queue[0]
	s.Queue = append(slices.Clone(s.Queue[1:]), NewBlock(&s.RNG))
	s.Position = SpawnPosition
	s.DropTimer = 0

	if !CanPlaceAnyPartOfBlock(s.Board, s.Position) {
		s.Status = StatusGameOver
		s.Timeline.Active = false
	}
}
