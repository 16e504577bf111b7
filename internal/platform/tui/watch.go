package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/blockdrop/internal/core"
	"github.com/vovakirdan/blockdrop/internal/engine"
	"github.com/vovakirdan/blockdrop/internal/replay"
)

// WatchKeyMap defines the replay viewer bindings.
type WatchKeyMap struct {
	Pause  key.Binding
	Step   key.Binding
	Faster key.Binding
	Slower key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k WatchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Step, k.Faster, k.Slower, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k WatchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultWatchKeyMap returns the default viewer bindings.
func DefaultWatchKeyMap() WatchKeyMap {
	return WatchKeyMap{
		Pause:  key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "pause")),
		Step:   key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n", "step")),
		Faster: key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "faster")),
		Slower: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "slower")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// maxSpeed caps the frames simulated per tick message.
const maxSpeed = 64

// WatchModel plays a replay back frame by frame with the same schedule as
// replay.Play: a frame's actions first, then its tick.
type WatchModel struct {
	data     replay.Data
	timeline []replay.Frame
	frame    int
	last     int
	state    engine.GameState

	screen   *core.Screen
	tickRate int
	speed    int
	paused   bool
	keys     WatchKeyMap
	help     help.Model
	quitting bool
}

// NewWatchModel prepares a viewer for d. It fails on a malformed replay.
func NewWatchModel(d replay.Data, cfg core.RuntimeConfig) (WatchModel, error) {
	if d.Version != replay.Version {
		return WatchModel{}, fmt.Errorf("replay: version %d: %w", d.Version, replay.ErrUnsupportedVersion)
	}
	timeline, err := replay.Expand(d)
	if err != nil {
		return WatchModel{}, err
	}
	return WatchModel{
		data:     d,
		timeline: timeline,
		last:     max(d.Frames, len(timeline)-1),
		state:    engine.NewGameState(d.Seed, d.Rules),
		screen:   core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		tickRate: cfg.TickRate,
		speed:    1,
		keys:     DefaultWatchKeyMap(),
		help:     help.New(),
	}, nil
}

// step simulates one replay frame. It reports false once the replay is over.
func (m *WatchModel) step() bool {
	if m.frame > m.last {
		return false
	}
	if m.frame < len(m.timeline) {
		for _, a := range m.timeline[m.frame].Actions {
			m.state = engine.Reduce(m.state, a)
		}
	}
	if m.frame < m.data.Frames {
		m.state = engine.Reduce(m.state, engine.Tick{At: m.frame})
	}
	m.frame++
	return true
}

// Done reports whether every frame has been played.
func (m WatchModel) Done() bool {
	return m.frame > m.last
}

// State returns the state reached so far.
func (m WatchModel) State() engine.GameState {
	return m.state
}

// Init starts the tick loop.
func (m WatchModel) Init() tea.Cmd {
	return tickCmd(m.tickRate)
}

// Update handles messages.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
		case key.Matches(msg, m.keys.Step):
			m.paused = true
			m.step()
		case key.Matches(msg, m.keys.Faster):
			m.speed = min(m.speed*2, maxSpeed)
		case key.Matches(msg, m.keys.Slower):
			m.speed = max(m.speed/2, 1)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, msg.Height)
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if !m.paused {
			for range m.speed {
				if !m.step() {
					break
				}
			}
		}
		return m, tickCmd(m.tickRate)
	}
	return m, nil
}

// View renders the replay.
func (m WatchModel) View() string {
	if m.quitting {
		return ""
	}

	msg := fmt.Sprintf("frame %d/%d  x%d", min(m.frame, m.data.Frames), m.data.Frames, m.speed)
	if m.paused {
		msg += "  paused"
	}
	if m.Done() {
		if m.state.Score == m.data.FinalScore {
			msg = fmt.Sprintf("done: score %d matches", m.state.Score)
		} else {
			msg = fmt.Sprintf("done: claimed %d, recomputed %d", m.data.FinalScore, m.state.Score)
		}
	}

	title := "REPLAY"
	if m.data.PlayerName != "" {
		title = "REPLAY " + m.data.PlayerName
	}
	DrawGame(m.screen, m.state, HUD{
		Title:     title,
		Player:    fmt.Sprintf("seed %d", m.data.Seed),
		HighScore: m.data.FinalScore,
		Message:   msg,
	})
	return RenderScreen(m.screen) + "\n" + m.help.View(m.keys)
}

// RunWatch plays a replay in the terminal.
func RunWatch(d replay.Data, cfg core.RuntimeConfig) error {
	model, err := NewWatchModel(d, cfg)
	if err != nil {
		return err
	}
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
