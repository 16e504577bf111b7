package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockdrop/internal/core"
	"github.com/vovakirdan/blockdrop/internal/engine"
	"github.com/vovakirdan/blockdrop/internal/replay"
	"github.com/vovakirdan/blockdrop/internal/storage"
)

// GameOptions configures a local game session.
type GameOptions struct {
	Rules     engine.Rules
	RecordDir string      // when set, finished replays are also written here as JSON
	Logger    *log.Logger // optional
	Title     string
}

// Model is the Bubble Tea model that drives one blockdrop game. It owns the
// state and the recorder; every action goes through dispatch so the recorded
// log matches what the reducer saw.
type Model struct {
	state    engine.GameState
	recorder *replay.Recorder
	store    *storage.Store
	screen   *core.Screen
	config   core.RuntimeConfig
	opts     GameOptions
	keys     GameKeyMap
	help     help.Model
	started  time.Time
	best     int
	message  string

	lastReplay *replay.Data
	saved      bool
	quitting   bool
	backToMenu bool
}

// NewModel creates a game model. A zero seed is replaced with one derived
// from the clock.
func NewModel(store *storage.Store, cfg core.RuntimeConfig, opts GameOptions) Model {
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	if opts.Logger == nil {
		opts.Logger = log.New(os.Stderr)
	}

	m := Model{
		recorder: replay.NewRecorder(),
		store:    store,
		screen:   core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:   cfg,
		opts:     opts,
		keys:     DefaultGameKeyMap(),
		help:     help.New(),
	}
	if store != nil {
		if best, err := store.HighScore(); err == nil {
			m.best = best
		}
	}
	m.newRun(cfg.Seed)
	return m
}

// newRun resets the state and the recorder for seed and starts playing.
func (m *Model) newRun(seed uint64) {
	m.config.Seed = seed
	m.state = engine.NewGameState(seed, m.opts.Rules)
	m.recorder.Start()
	m.started = time.Now()
	m.saved = false
	m.lastReplay = nil
	m.message = fmt.Sprintf("seed %d", seed)
	m.dispatch(engine.ActionStartGame)
}

// dispatch records an action and folds it into the state.
func (m *Model) dispatch(t engine.ActionType) {
	a, err := engine.NewAction(t, m.state.Frame)
	if err != nil {
		m.opts.Logger.Error("cannot build action", "type", t, "error", err)
		return
	}
	m.recorder.Record(a)
	m.state = engine.Reduce(m.state, a)
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.finish()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Back):
		if m.state.Status == engine.StatusGameOver || m.state.Status == engine.StatusPaused {
			m.finish()
			m.backToMenu = true
		}
		return m, nil

	case key.Matches(msg, m.keys.Restart):
		if m.state.Status == engine.StatusGameOver {
			// A finished run is closed; the next one gets a fresh seed.
			m.newRun(uint64(time.Now().UnixNano()))
		} else {
			m.dispatch(engine.ActionRestart)
			m.message = "restarted"
		}
		return m, nil
	}

	if t, ok := m.keys.ActionType(msg, m.state.Status); ok {
		m.dispatch(t)
	}
	return m, nil
}

// handleTick advances the simulation while the game is running.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting || m.backToMenu {
		return m, nil
	}
	switch m.state.Status {
	case engine.StatusPlaying, engine.StatusCountdownPaused:
		m.dispatch(engine.ActionTick)
	}
	if m.state.Status == engine.StatusGameOver {
		m.finish()
	}
	return m, tickCmd(m.config.TickRate)
}

// finish finalizes the replay once and stores it with the score.
func (m *Model) finish() {
	if m.saved || !m.recorder.Active() {
		return
	}
	m.saved = true

	d := m.recorder.Finalize(m.config.Seed, m.state.Rules, replay.Meta{
		FinalScore: m.state.Score,
		Duration:   time.Since(m.started),
		PlayerName: m.config.Player,
		RecordedAt: time.Now().UTC(),
	})
	m.lastReplay = &d

	if d.ActionCount() <= 1 && d.Frames == 0 {
		return
	}

	_, verr := replay.Verify(d)
	if verr != nil {
		m.opts.Logger.Warn("local replay does not reproduce", "seed", d.Seed, "error", verr)
	}

	var saved []string
	if m.store != nil {
		if id, err := m.store.SaveReplay(d, verr == nil); err != nil {
			m.opts.Logger.Error("cannot save replay", "error", err)
		} else {
			saved = append(saved, fmt.Sprintf("replay #%d", id))
		}
	}
	if m.opts.RecordDir != "" {
		name := fmt.Sprintf("blockdrop-%d-%s.json", d.Seed, d.RecordedAt.Format("20060102-150405"))
		path := filepath.Join(m.opts.RecordDir, name)
		if err := replay.WriteFile(path, d); err != nil {
			m.opts.Logger.Error("cannot write replay file", "path", path, "error", err)
		} else {
			saved = append(saved, path)
		}
	}
	if len(saved) > 0 {
		m.message = "saved " + strings.Join(saved, ", ")
	}
	m.best = max(m.best, d.FinalScore)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	DrawGame(m.screen, m.state, HUD{
		Title:     m.opts.Title,
		Player:    m.config.Player,
		HighScore: m.best,
		Message:   m.message,
	})
	return RenderScreen(m.screen) + "\n" + m.help.View(m.keys)
}

// State returns the current game state.
func (m Model) State() engine.GameState {
	return m.state
}

// LastReplay returns the replay of the last finished run, if any.
func (m Model) LastReplay() *replay.Data {
	return m.lastReplay
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts a local game and blocks until the player quits.
// It returns the replay of the last finished run.
func Run(store *storage.Store, cfg core.RuntimeConfig, opts GameOptions) (*replay.Data, error) {
	model := NewModel(store, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	if fm, ok := final.(Model); ok {
		return fm.LastReplay(), nil
	}
	return nil, nil
}
