package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/constraints"

	"github.com/amalg/go-shellsweeper/internal/game"
	"github.com/amalg/go-shellsweeper/internal/rng"
)

// tickMsg redraws the clock. gen ties it to one clock loop so a reset or a
// new game stops the old loop.
type tickMsg struct{ gen int }

func tick(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

// events collects engine notifications during one Update call.
type events struct {
	started bool
	ended   bool
	outcome game.Outcome
	elapsed int
}

func (ev *events) OnGameStart() { ev.started = true }

func (ev *events) OnGameEnd(outcome game.Outcome, elapsed int) {
	ev.ended = true
	ev.outcome = outcome
	ev.elapsed = elapsed
}

// Refresh needs no bookkeeping: bubbletea redraws the whole view after
// every message.
func (ev *events) Refresh([]game.Pos) {}

// Model is the Bubbletea model for a local game.
type Model struct {
	engine   *game.Engine
	events   *events
	cursor   game.Pos
	tickGen  int
	message  string
	now      func() time.Time
	quitting bool
}

// NewModel creates a TUI model driving the given engine. The model registers
// itself as the engine's display.
func NewModel(engine *game.Engine) Model {
	ev := &events{}
	engine.SetDisplay(ev)
	return Model{
		engine: engine,
		events: ev,
		cursor: game.Pos{Row: 1, Col: 1},
		now:    time.Now,
	}
}

// Init has nothing to start; the clock begins with the first reveal.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles key presses, mouse clicks and clock ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tickMsg:
		if msg.gen != m.tickGen || m.engine.Phase() != game.PhaseInProgress {
			return m, nil
		}
		return m, tick(msg.gen)
	}

	return m, nil
}

// View renders the board next to the HUD.
func (m Model) View() string {
	if m.quitting {
		return "Goodbye! 👋\n"
	}

	snap := m.engine.Snapshot()
	board := RenderBoard(&snap, m.cursor)
	hud := RenderHUD(&snap, snap.Elapsed(m.now()), m.message)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		board,
		"  ",
		hud,
	) + "\n"
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		m.tickGen++
		return m, tea.Quit

	case "up", "k", "w":
		m.moveCursor(-1, 0)
	case "down", "j", "s":
		m.moveCursor(1, 0)
	case "left", "h", "a":
		m.moveCursor(0, -1)
	case "right", "l", "d":
		m.moveCursor(0, 1)
	case "home", "0":
		m.cursor.Col = 1
	case "end", "$":
		m.cursor.Col = m.engine.Width()

	case " ", "enter":
		return m.click(m.cursor, game.ClickLeft)
	case "f", "x":
		return m.click(m.cursor, game.ClickRight)
	case "c":
		return m.claim()

	case "r":
		m.engine.Reset()
		m.restart()
	case "n":
		if err := m.engine.NewGame(rng.TimeSeed(m.now())); err != nil {
			m.message = err.Error()
			return m, nil
		}
		m.restart()
	}

	return m, nil
}

// handleMouse maps a button press on the board to a click on that cell. A
// left press off the board claims the game.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}

	var kind game.ClickKind
	switch msg.Button {
	case tea.MouseButtonLeft:
		kind = game.ClickLeft
	case tea.MouseButtonRight:
		kind = game.ClickRight
	default:
		return m, nil
	}

	p, ok := cellAt(msg.X, msg.Y, m.engine.Width(), m.engine.Height())
	if !ok {
		if kind == game.ClickLeft {
			return m.claim()
		}
		return m, nil
	}
	m.cursor = p
	return m.click(p, kind)
}

// click forwards a gesture to the engine and turns the notifications it
// produced into commands.
func (m Model) click(p game.Pos, kind game.ClickKind) (tea.Model, tea.Cmd) {
	if err := m.engine.OnClick(p, kind); err != nil {
		logrus.WithError(err).Warn("click rejected")
		return m, nil
	}
	return m.settle()
}

// claim asks the engine to end the game on the flags placed so far.
func (m Model) claim() (tea.Model, tea.Cmd) {
	if err := m.engine.Claim(); err != nil {
		logrus.WithError(err).Warn("claim rejected")
		return m, nil
	}
	return m.settle()
}

// settle turns the notifications the engine produced into a clock command
// and a status message.
func (m Model) settle() (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.events.started {
		m.events.started = false
		m.tickGen++
		cmd = tick(m.tickGen)
	}
	if m.events.ended {
		m.events.ended = false
		m.tickGen++
		cmd = nil
		switch m.events.outcome {
		case game.OutcomeWin:
			m.message = fmt.Sprintf("Cleared in %ds!", m.events.elapsed)
		default:
			m.message = fmt.Sprintf("Boom after %ds.", m.events.elapsed)
		}
	}
	return m, cmd
}

// restart forgets the previous game's clock and message.
func (m *Model) restart() {
	*m.events = events{}
	m.tickGen++
	m.message = ""
	m.cursor.Row = clamp(m.cursor.Row, 1, m.engine.Height())
	m.cursor.Col = clamp(m.cursor.Col, 1, m.engine.Width())
}

func (m *Model) moveCursor(dRow, dCol int) {
	m.cursor.Row = clamp(m.cursor.Row+dRow, 1, m.engine.Height())
	m.cursor.Col = clamp(m.cursor.Col+dCol, 1, m.engine.Width())
}

func clamp[N constraints.Integer](n, lo, hi N) N {
	return min(max(n, lo), hi)
}
