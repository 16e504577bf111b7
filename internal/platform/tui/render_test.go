package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/blockdrop/internal/core"
	"github.com/vovakirdan/blockdrop/internal/engine"
)

func TestDrawGameTooSmall(t *testing.T) {
	s := core.NewScreen(20, 5)
	DrawGame(s, engine.NewGameState(1, engine.DefaultRules()), HUD{})

	if !strings.Contains(s.String(), "Terminal too small") {
		t.Errorf("expected size warning, got:\n%s", s.String())
	}
}

func TestDrawGameBoardCells(t *testing.T) {
	g := engine.NewGameState(1, engine.DefaultRules())
	g.Board[engine.Height-1][0] = engine.ColorA
	g.Board[engine.Height-1][1] = engine.ColorB

	s := core.NewScreen(80, 24)
	DrawGame(s, g, HUD{Title: "TEST"})

	ox, oy := boardOrigin(s)
	y := oy + engine.Height
	if got := s.GetCell(ox+1, y); got.Rune != '█' || got.Color != core.ColorBlockA {
		t.Errorf("cell (0,%d) = %+v, expected block A", engine.Height-1, got)
	}
	if got := s.GetCell(ox+3, y); got.Color != core.ColorBlockB {
		t.Errorf("cell (1,%d) color = %v, expected block B", engine.Height-1, got.Color)
	}
	if got := s.GetCell(ox, oy); got.Rune != '┌' {
		t.Errorf("frame corner = %q, expected '┌'", got.Rune)
	}
	if !strings.Contains(s.String(), "TEST") {
		t.Error("HUD title missing from screen")
	}
	if !strings.Contains(s.String(), "PRESS ANY KEY") {
		t.Error("initial state should show the start banner")
	}
}

func TestDrawGameMarkedAndTimeline(t *testing.T) {
	g := engine.NewGameState(1, engine.DefaultRules())
	g = engine.Reduce(g, engine.StartGame{})
	g.Board[engine.Height-1][4] = engine.ColorB
	g.MarkedCells = []engine.Coord{{X: 4, Y: engine.Height - 1}}
	g.Timeline.X = 2

	s := core.NewScreen(80, 24)
	DrawGame(s, g, HUD{})

	ox, oy := boardOrigin(s)
	if got := s.GetCell(ox+1+4*cellW, oy+engine.Height); got.Color != core.ColorMarkedB {
		t.Errorf("marked cell color = %v, expected %v", got.Color, core.ColorMarkedB)
	}
	if got := s.GetCell(ox+1+2*cellW, oy-1); got.Rune != '▼' {
		t.Errorf("timeline marker = %q, expected '▼'", got.Rune)
	}
}

func TestStatusBanner(t *testing.T) {
	tests := []struct {
		status   engine.Status
		expected string
	}{
		{engine.StatusInitial, "PRESS ANY KEY"},
		{engine.StatusPaused, "PAUSED"},
		{engine.StatusGameOver, "GAME OVER"},
		{engine.StatusPlaying, ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			banner, _ := statusBanner(engine.GameState{Status: tt.status})
			if strings.TrimSpace(banner) != tt.expected {
				t.Errorf("statusBanner(%s) = %q, expected %q", tt.status, banner, tt.expected)
			}
		})
	}
}

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(10, 2)
	s.DrawText(0, 0, "hello", core.ColorText)
	s.DrawText(0, 1, "world", core.ColorAlert)

	out := RenderScreen(s)
	if !strings.Contains(out, "hello") || !strings.Contains(out, "world") {
		t.Errorf("RenderScreen() lost text: %q", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("RenderScreen() should emit one newline per row break, got %q", out)
	}
}

func TestGameKeyMapActionType(t *testing.T) {
	km := DefaultGameKeyMap()

	tests := []struct {
		name     string
		msg      tea.KeyMsg
		status   engine.Status
		expected engine.ActionType
		ok       bool
	}{
		{"left arrow", keyLeft, engine.StatusPlaying, engine.ActionMoveLeft, true},
		{"d", runeKey('d'), engine.StatusPlaying, engine.ActionMoveRight, true},
		{"up rotates", keyUp, engine.StatusPlaying, engine.ActionRotateCW, true},
		{"z", runeKey('z'), engine.StatusPlaying, engine.ActionRotateCCW, true},
		{"down", tea.KeyMsg{Type: tea.KeyDown}, engine.StatusPlaying, engine.ActionSoftDrop, true},
		{"space", keySpace, engine.StatusPlaying, engine.ActionHardDrop, true},
		{"p pauses", runeKey('p'), engine.StatusPlaying, engine.ActionPause, true},
		{"p resumes", runeKey('p'), engine.StatusPaused, engine.ActionResume, true},
		{"unbound", runeKey('m'), engine.StatusPlaying, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := km.ActionType(tt.msg, tt.status)
			if got != tt.expected || ok != tt.ok {
				t.Errorf("ActionType() = %q, %v, expected %q, %v", got, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		msg      tea.KeyMsg
		expected MenuAction
	}{
		{runeKey('q'), MenuActionQuit},
		{runeKey('k'), MenuActionUp},
		{tea.KeyMsg{Type: tea.KeyDown}, MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyEsc}, MenuActionBack},
		{runeKey('x'), MenuActionNone},
	}

	for _, tt := range tests {
		if got := km.MapKeyToMenuAction(tt.msg); got != tt.expected {
			t.Errorf("MapKeyToMenuAction(%q) = %v, expected %v", tt.msg.String(), got, tt.expected)
		}
	}
}
