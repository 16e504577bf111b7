package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/blockdrop/internal/core"
	"github.com/vovakirdan/blockdrop/internal/engine"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:  lipgloss.NewStyle(),
	core.ColorBlockA:   lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorBlockB:   lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	core.ColorMarkedA:  lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("130")),
	core.ColorMarkedB:  lipgloss.NewStyle().Foreground(lipgloss.Color("195")).Background(lipgloss.Color("25")),
	core.ColorTimeline: lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
	core.ColorGhost:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	core.ColorFrame:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	core.ColorText:     lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorDim:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	core.ColorAlert:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		// Group consecutive cells with the same color for efficiency
		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			startColor := cell.Color

			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// Board layout in screen characters. Each board cell is two characters wide.
const (
	cellW      = 2
	boardOuter = engine.Width*cellW + 2
	panelW     = 20
	layoutW    = boardOuter + 2 + panelW
	layoutH    = engine.Height + 4 // timeline marker, frame, hint line
)

// HUD carries the text shown next to the board.
type HUD struct {
	Title     string
	Player    string
	HighScore int
	Message   string // status line under the board, e.g. save result
}

// boardOrigin returns the top-left of the board frame for the screen.
func boardOrigin(s *core.Screen) (int, int) {
	ox := max((s.Width()-layoutW)/2, 0)
	oy := max((s.Height()-layoutH)/2, 0)
	return ox, oy + 1
}

// cellColor maps an engine cell to its screen color.
func cellColor(c engine.Cell, marked bool) core.Color {
	switch {
	case c == engine.ColorA && marked:
		return core.ColorMarkedA
	case c == engine.ColorB && marked:
		return core.ColorMarkedB
	case c == engine.ColorA:
		return core.ColorBlockA
	case c == engine.ColorB:
		return core.ColorBlockB
	}
	return core.ColorDefault
}

// DrawGame renders the full game view into the screen buffer.
func DrawGame(s *core.Screen, g engine.GameState, hud HUD) {
	s.Clear()
	if s.Width() < layoutW || s.Height() < layoutH {
		s.DrawTextCentered(s.Height()/2, "Terminal too small", core.ColorAlert)
		s.DrawTextCentered(s.Height()/2+1, fmt.Sprintf("need %dx%d", layoutW, layoutH), core.ColorDim)
		return
	}

	ox, oy := boardOrigin(s)
	drawBoard(s, ox, oy, g)
	drawPanel(s, ox+boardOuter+2, oy, g, hud)

	if hud.Message != "" {
		s.DrawText(ox, oy+engine.Height+2, hud.Message, core.ColorDim)
	}
	if banner, color := statusBanner(g); banner != "" {
		x := ox + (boardOuter-len([]rune(banner)))/2
		s.DrawText(x, oy+engine.Height/2, banner, color)
	}
}

// drawBoard draws the frame, settled cells, falling cells, the ghost, the
// active block and the timeline cursor.
func drawBoard(s *core.Screen, ox, oy int, g engine.GameState) {
	s.DrawBox(core.Rect{X: ox, Y: oy, W: boardOuter, H: engine.Height + 2}, core.ColorFrame)

	plot := func(x, y int, r rune, c core.Color) {
		if x < 0 || x >= engine.Width || y < 0 || y >= engine.Height {
			return
		}
		sx, sy := ox+1+x*cellW, oy+1+y
		s.SetCell(sx, sy, r, c)
		s.SetCell(sx+1, sy, r, c)
	}

	// Timeline column and cursor.
	if g.Timeline.Active || g.Status == engine.StatusPaused {
		tx := g.Timeline.X
		s.SetCell(ox+1+tx*cellW, oy-1, '▼', core.ColorTimeline)
		s.SetCell(ox+2+tx*cellW, oy-1, '▼', core.ColorTimeline)
		for y := range engine.Height {
			plot(tx, y, '┊', core.ColorTimeline)
		}
	}

	marked := make(map[engine.Coord]bool, len(g.MarkedCells))
	for _, c := range g.MarkedCells {
		marked[c] = true
	}
	for y := range engine.Height {
		for x := range engine.Width {
			c := g.Board[y][x]
			if c == engine.Empty {
				continue
			}
			m := marked[engine.Coord{X: x, Y: y}]
			r := '█'
			if m {
				r = '▓'
			}
			plot(x, y, r, cellColor(c, m))
		}
	}

	for _, col := range g.FallingColumns {
		for _, fc := range col.Cells {
			plot(col.X, fc.Y, '▒', cellColor(fc.Color, false))
		}
	}

	if g.Status != engine.StatusPlaying && g.Status != engine.StatusCountdownPaused {
		return
	}

	ghost := engine.FindDropPosition(g.Board, g.Current, g.Position, g.FallingColumns)
	if ghost != g.Position {
		drawBlock(g.Current, ghost, func(x, y int, _ engine.Cell) {
			if g.Board[y][x] == engine.Empty {
				plot(x, y, '░', core.ColorGhost)
			}
		})
	}
	drawBlock(g.Current, g.Position, func(x, y int, c engine.Cell) {
		plot(x, y, '█', cellColor(c, false))
	})
}

// drawBlock calls fn for every on-board cell of the block at pos.
func drawBlock(b engine.Block, pos engine.Position, fn func(x, y int, c engine.Cell)) {
	for dy := range engine.BlockSize {
		for dx := range engine.BlockSize {
			c := b.Cells[dy][dx]
			x, y := pos.X+dx, pos.Y+dy
			if c == engine.Empty || x < 0 || x >= engine.Width || y < 0 || y >= engine.Height {
				continue
			}
			fn(x, y, c)
		}
	}
}

func drawPanel(s *core.Screen, px, py int, g engine.GameState, hud HUD) {
	title := hud.Title
	if title == "" {
		title = "BLOCKDROP"
	}
	s.DrawText(px, py, title, core.ColorText)
	if hud.Player != "" {
		s.DrawText(px, py+1, hud.Player, core.ColorDim)
	}

	s.DrawText(px, py+3, "SCORE", core.ColorDim)
	s.DrawText(px+7, py+3, fmt.Sprintf("%d", g.Score), core.ColorText)
	if g.Timeline.HoldingScore > 0 {
		s.DrawText(px+7+len(fmt.Sprint(g.Score)), py+3,
			fmt.Sprintf(" +%d", g.Timeline.HoldingScore), core.ColorTimeline)
	}
	s.DrawText(px, py+4, "BEST", core.ColorDim)
	s.DrawText(px+7, py+4, fmt.Sprintf("%d", max(hud.HighScore, g.Score)), core.ColorText)
	s.DrawText(px, py+5, "SQUARES", core.ColorDim)
	s.DrawText(px+8, py+5, fmt.Sprintf("%d", g.Stats.SquaresCleared), core.ColorText)

	s.DrawText(px, py+7, "NEXT", core.ColorDim)
	for i, b := range g.Queue {
		bx := px + i*(engine.BlockSize*cellW+1)
		if bx+engine.BlockSize*cellW > s.Width() {
			break
		}
		for dy := range engine.BlockSize {
			for dx := range engine.BlockSize {
				c := b.Cells[dy][dx]
				if c == engine.Empty {
					continue
				}
				s.SetCell(bx+dx*cellW, py+8+dy, '█', cellColor(c, false))
				s.SetCell(bx+dx*cellW+1, py+8+dy, '█', cellColor(c, false))
			}
		}
	}

	s.DrawText(px, py+11, fmt.Sprintf("frame %d", g.Frame), core.ColorDim)
}

// statusBanner returns the overlay text for non-playing states.
func statusBanner(g engine.GameState) (string, core.Color) {
	switch g.Status {
	case engine.StatusInitial:
		return " PRESS ANY KEY ", core.ColorText
	case engine.StatusPaused:
		return " PAUSED ", core.ColorAlert
	case engine.StatusCountdownPaused:
		return fmt.Sprintf(" %d ", g.Countdown), core.ColorAlert
	case engine.StatusGameOver:
		return " GAME OVER ", core.ColorAlert
	}
	return "", core.ColorDefault
}
