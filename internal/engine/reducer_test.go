package engine

import "testing"

func playing(seed uint64) GameState {
	return Reduce(NewGameState(seed, DefaultRules()), StartGame{})
}

// script is a mixed action sequence used by the determinism tests.
func script() []Action {
	var out []Action
	for i := 0; i < 600; i++ {
		switch {
		case i%97 == 0:
			out = append(out, HardDrop{At: i})
		case i%31 == 0:
			out = append(out, MoveLeft{At: i})
		case i%37 == 0:
			out = append(out, MoveRight{At: i})
		case i%41 == 0:
			out = append(out, RotateCW{At: i})
		case i%43 == 0:
			out = append(out, RotateCCW{At: i})
		case i%13 == 0:
			out = append(out, SoftDrop{At: i})
		}
		out = append(out, Tick{At: i})
	}
	return out
}

func TestStartGame(t *testing.T) {
	s := NewGameState(1, DefaultRules())
	if s.Status != StatusInitial {
		t.Fatalf("Status = %q, expected %q", s.Status, StatusInitial)
	}
	if len(s.Queue) != DefaultRules().QueueSize {
		t.Errorf("len(Queue) = %d, expected %d", len(s.Queue), DefaultRules().QueueSize)
	}

	next := Reduce(s, StartGame{})
	if next.Status != StatusPlaying || !next.Timeline.Active {
		t.Errorf("after START_GAME status=%q active=%v", next.Status, next.Timeline.Active)
	}
	if again := Reduce(next, StartGame{}); Fingerprint(again) != Fingerprint(next) {
		t.Error("START_GAME while playing should be a no-op")
	}
}

func TestInputsIgnoredBeforeStart(t *testing.T) {
	s := NewGameState(1, DefaultRules())
	fp := Fingerprint(s)
	for _, a := range []Action{MoveLeft{}, MoveRight{}, RotateCW{}, SoftDrop{}, HardDrop{}, Tick{}, Pause{}, Resume{}} {
		if got := Fingerprint(Reduce(s, a)); got != fp {
			t.Errorf("%s changed an initial state", a.Type())
		}
	}
}

func TestMoveStopsAtWalls(t *testing.T) {
	s := playing(1)
	for range Width {
		s = Reduce(s, MoveLeft{})
	}
	if s.Position.X != 0 {
		t.Errorf("Position.X = %d, expected 0", s.Position.X)
	}
	for range Width {
		s = Reduce(s, MoveRight{})
	}
	if s.Position.X != Width-BlockSize {
		t.Errorf("Position.X = %d, expected %d", s.Position.X, Width-BlockSize)
	}
}

func TestRotateChangesCurrent(t *testing.T) {
	s := playing(1)
	s.Current = Block{ID: "r", Cells: [2][2]Cell{{ColorA, ColorB}, {ColorB, ColorB}}}
	next := Reduce(s, RotateCW{})
	want := [2][2]Cell{{ColorB, ColorA}, {ColorB, ColorB}}
	if next.Current.Cells != want {
		t.Errorf("Current after ROTATE_CW = %v, expected %v", next.Current.Cells, want)
	}
	if back := Reduce(next, RotateCCW{}); back.Current != s.Current {
		t.Errorf("ROTATE_CCW did not undo ROTATE_CW: %v", back.Current.Cells)
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	s := playing(7)
	for _, a := range script()[:300] {
		s = Reduce(s, a)
	}
	before := Fingerprint(s)
	queueHead := s.Queue[0].ID

	for _, a := range []Action{HardDrop{}, Tick{}, MoveLeft{}, RotateCW{}, Pause{}, Restart{}} {
		_ = Reduce(s, a)
		if Fingerprint(s) != before {
			t.Fatalf("%s modified its input state", a.Type())
		}
	}
	if s.Queue[0].ID != queueHead {
		t.Error("queue backing array was modified")
	}
}

func TestHardDropLocksAndSpawns(t *testing.T) {
	s := playing(3)
	current, head := s.Current, s.Queue[0]

	next := Reduce(s, HardDrop{})
	if next.Board[8][7] == Empty || next.Board[9][7] == Empty ||
		next.Board[8][8] == Empty || next.Board[9][8] == Empty {
		t.Fatalf("block not locked at the floor:\n%s", next.Board)
	}
	if next.Current.ID != head.ID {
		t.Errorf("Current = %q, expected queue head %q", next.Current.ID, head.ID)
	}
	if next.Current.ID == current.ID {
		t.Error("locked block is still current")
	}
	if len(next.Queue) != len(s.Queue) {
		t.Errorf("len(Queue) = %d, expected %d", len(next.Queue), len(s.Queue))
	}
	if next.Position != SpawnPosition {
		t.Errorf("Position = %v, expected spawn %v", next.Position, SpawnPosition)
	}
	if next.Stats.BlocksLocked != 1 {
		t.Errorf("BlocksLocked = %d, expected 1", next.Stats.BlocksLocked)
	}
}

func TestLockCreatesFallingColumn(t *testing.T) {
	s := playing(5)
	s.Board[9][7] = ColorA

	s = Reduce(s, HardDrop{})
	if len(s.FallingColumns) != 1 || s.FallingColumns[0].X != 8 {
		t.Fatalf("FallingColumns = %+v, expected one column at x=8", s.FallingColumns)
	}
	if s.Board[7][7] == Empty || s.Board[8][7] == Empty {
		t.Error("supported half of the block should stay on the board")
	}

	s = Reduce(s, Tick{})
	s = Reduce(s, Tick{})
	if len(s.FallingColumns) != 0 {
		t.Fatalf("FallingColumns = %+v, expected all landed", s.FallingColumns)
	}
	if s.Board[8][8] == Empty || s.Board[9][8] == Empty {
		t.Errorf("falling cells did not settle:\n%s", s.Board)
	}
}

func TestLockPartiallyBlockedSpawn(t *testing.T) {
	for _, drop := range []struct {
		name string
		act  func(GameState) GameState
	}{
		{"hard drop", func(s GameState) GameState { return Reduce(s, HardDrop{}) }},
		{"gravity", func(s GameState) GameState {
			for range s.DropInterval {
				s = Reduce(s, Tick{})
			}
			return s
		}},
	} {
		t.Run(drop.name, func(t *testing.T) {
			s := playing(21)
			for y := range Height {
				s.Board[y][7] = ColorB
			}
			s.Current = Block{ID: "p", Cells: [2][2]Cell{{ColorA, ColorB}, {ColorB, ColorA}}}

			s = drop.act(s)
			if s.Status != StatusPlaying {
				t.Fatalf("Status = %q, expected %q", s.Status, StatusPlaying)
			}
			if s.Stats.BlocksLocked != 1 {
				t.Fatalf("BlocksLocked = %d, expected 1", s.Stats.BlocksLocked)
			}
			if len(s.FallingColumns) != 1 || s.FallingColumns[0].X != 8 || len(s.FallingColumns[0].Cells) != 2 {
				t.Fatalf("FallingColumns = %+v, expected two cells at x=8", s.FallingColumns)
			}

			bd, fc := s.Board, s.FallingColumns
			for range Height + 2 {
				bd, fc, _ = StepFallingColumns(bd, fc)
			}
			if len(fc) != 0 {
				t.Fatalf("FallingColumns = %+v, expected all landed", fc)
			}
			if bd[9][8] != ColorA || bd[8][8] != ColorB {
				t.Errorf("free column of the block did not reach the floor:\n%s", bd)
			}
		})
	}
}

func TestGravityTick(t *testing.T) {
	s := playing(9)
	startY := s.Position.Y
	for range s.DropInterval - 1 {
		s = Reduce(s, Tick{})
	}
	if s.Position.Y != startY {
		t.Fatalf("block moved before the drop interval elapsed")
	}
	s = Reduce(s, Tick{})
	if s.Position.Y != startY+1 {
		t.Errorf("Position.Y = %d, expected %d", s.Position.Y, startY+1)
	}
	if s.Frame != DefaultRules().DropInterval {
		t.Errorf("Frame = %d, expected %d", s.Frame, DefaultRules().DropInterval)
	}
}

func TestGameOver(t *testing.T) {
	tests := []struct {
		name  string
		board Board
		want  Status
	}{
		{"board full", checkerBoard(), StatusGameOver},
		{"spawn column free", func() Board {
			bd := checkerBoard()
			for y := range Height {
				bd[y][7] = Empty
			}
			return bd
		}(), StatusPlaying},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := playing(11)
			s.Board = tc.board
			next := Reduce(s, HardDrop{})
			if next.Status != tc.want {
				t.Errorf("Status = %q, expected %q", next.Status, tc.want)
			}
			if tc.want == StatusGameOver {
				if next.Timeline.Active {
					t.Error("timeline should stop on game over")
				}
				after := Reduce(next, Tick{})
				if Fingerprint(after) != Fingerprint(next) {
					t.Error("TICK after game over should be a no-op")
				}
			}
		})
	}
}

func TestPauseResume(t *testing.T) {
	s := playing(2)
	for range 10 {
		s = Reduce(s, Tick{})
	}

	paused := Reduce(s, Pause{})
	if paused.Status != StatusPaused || paused.Timeline.Active {
		t.Fatalf("after PAUSE status=%q active=%v", paused.Status, paused.Timeline.Active)
	}
	if paused.Board != s.Board || paused.Frame != s.Frame || paused.Score != s.Score {
		t.Error("PAUSE should only change status and the timeline flag")
	}
	if Fingerprint(Reduce(paused, Tick{})) != Fingerprint(paused) {
		t.Error("TICK while paused should be a no-op")
	}
	if Fingerprint(Reduce(paused, MoveLeft{})) != Fingerprint(paused) {
		t.Error("MOVE_LEFT while paused should be a no-op")
	}

	resumed := Reduce(paused, Resume{})
	if resumed.Status != StatusPlaying || !resumed.Timeline.Active {
		t.Errorf("after RESUME status=%q active=%v", resumed.Status, resumed.Timeline.Active)
	}
}

func TestResumeCountdown(t *testing.T) {
	rules := DefaultRules()
	rules.ResumeCountdown = 3
	s := Reduce(NewGameState(4, rules), StartGame{})
	s = Reduce(s, Pause{})
	s = Reduce(s, Resume{})
	if s.Status != StatusCountdownPaused || s.Countdown != 3 {
		t.Fatalf("after RESUME status=%q countdown=%d", s.Status, s.Countdown)
	}
	frame := s.Frame
	for range 2 {
		s = Reduce(s, Tick{})
	}
	if s.Status != StatusCountdownPaused {
		t.Fatalf("countdown ended early, status=%q", s.Status)
	}
	s = Reduce(s, Tick{})
	if s.Status != StatusPlaying || !s.Timeline.Active {
		t.Errorf("after countdown status=%q active=%v", s.Status, s.Timeline.Active)
	}
	if s.Frame != frame {
		t.Errorf("Frame advanced during countdown: %d -> %d", frame, s.Frame)
	}

	if again := Reduce(Reduce(s, Pause{}), Tick{}); again.Status != StatusPaused {
		t.Errorf("status = %q, expected paused", again.Status)
	}
}

func TestRestart(t *testing.T) {
	s := playing(6)
	for _, a := range script()[:200] {
		s = Reduce(s, a)
	}
	s.Debug = true

	restarted := Reduce(s, Restart{})
	fresh := NewGameState(6, DefaultRules())
	if restarted.Current.ID != fresh.Current.ID {
		t.Errorf("Current = %q, expected %q", restarted.Current.ID, fresh.Current.ID)
	}
	if restarted.Board != NewBoard() || restarted.Frame != 0 || restarted.Score != 0 {
		t.Error("RESTART should reset board, frame and score")
	}
	if restarted.Status != StatusPlaying || !restarted.Debug {
		t.Errorf("status=%q debug=%v, expected playing with debug kept", restarted.Status, restarted.Debug)
	}
}

func TestDeterminism(t *testing.T) {
	actions := script()
	a := playing(12345)
	b := playing(12345)
	for i, act := range actions {
		a = Reduce(a, act)
		b = Reduce(b, act)
		if Fingerprint(a) != Fingerprint(b) {
			t.Fatalf("states diverged after action %d (%s)", i, act.Type())
		}
	}
	if a.RNGState() != b.RNGState() {
		t.Error("RNG checkpoints differ")
	}
}

func TestSeedsDiffer(t *testing.T) {
	a := NewGameState(1, DefaultRules())
	b := NewGameState(2, DefaultRules())
	if a.Current.ID == b.Current.ID {
		t.Error("different seeds produced the same first block")
	}
}

func TestNewAction(t *testing.T) {
	for _, typ := range ActionTypes() {
		a, err := NewAction(typ, 42)
		if err != nil {
			t.Fatalf("NewAction(%q) error: %v", typ, err)
		}
		if a.Type() != typ || a.Frame() != 42 {
			t.Errorf("NewAction(%q) = %s@%d", typ, a.Type(), a.Frame())
		}
	}
	if _, err := NewAction("TELEPORT", 0); err == nil {
		t.Error("NewAction(TELEPORT) expected error")
	}
	if ActionType("TELEPORT").Valid() {
		t.Error("TELEPORT should not be valid")
	}
}

func TestFingerprint(t *testing.T) {
	s := NewGameState(1, DefaultRules())
	if Fingerprint(s) != Fingerprint(s.Clone()) {
		t.Error("clone should have the same fingerprint")
	}
	moved := Reduce(Reduce(s, StartGame{}), MoveLeft{})
	if Fingerprint(moved) == Fingerprint(s) {
		t.Error("different states should have different fingerprints")
	}
}
