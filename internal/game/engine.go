package game

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/zyedidia/generic/mapset"

	"github.com/amalg/go-shellsweeper/internal/rng"
)

// Engine owns one board: the mine layout, the visible state of every cell and
// the game rules. All methods run to completion on the caller's goroutine;
// the engine is not safe for concurrent use.
type Engine struct {
	Config GameConfig

	board     *MineMap
	cells     []CellState
	phase     Phase
	outcome   Outcome
	remaining int // mines minus flags, may go negative
	safeLeft  int // non-mine cells not yet opened
	startTime time.Time
	endTime   time.Time

	seed    uint32
	id      uuid.UUID
	display Display
	now     func() time.Time
	changed mapset.Set[Pos] // cells touched since the last Refresh
	log     *logrus.Entry
}

// NewEngine validates the config and generates a board. Without a fixed seed
// the seed is taken from the clock so repeated runs differ.
func NewEngine(config GameConfig) (*Engine, error) {
	seed := rng.TimeSeed(time.Now())
	if config.Seed != nil {
		seed = *config.Seed
	}
	return newEngine(config, seed, rng.New(seed))
}

func newEngine(config GameConfig, seed uint32, src Source) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		Config:  config,
		display: NopDisplay{},
		now:     time.Now,
		changed: mapset.New[Pos](),
	}
	if err := e.load(seed, src); err != nil {
		return nil, err
	}
	// Nothing has been drawn yet, so there is nothing to report as changed.
	e.changed = mapset.New[Pos]()
	return e, nil
}

// SetDisplay registers the presentation collaborator. nil restores the no-op display.
func (e *Engine) SetDisplay(d Display) {
	if d == nil {
		d = NopDisplay{}
	}
	e.display = d
}

// SetClock replaces the time source used for start and end timestamps.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// NewGame reseeds the random source, generates a fresh layout and resets
// the board.
func (e *Engine) NewGame(seed uint32) error {
	if err := e.load(seed, rng.New(seed)); err != nil {
		return fmt.Errorf("new game: %w", err)
	}
	e.flush()
	return nil
}

// load generates a layout from src and resets every counter.
func (e *Engine) load(seed uint32, src Source) error {
	board, err := Generate(e.Config.Width, e.Config.Height, e.Config.Mines, src)
	if err != nil {
		return err
	}

	e.board = board
	e.seed = seed
	e.id = uuid.New()
	e.log = logrus.WithField("game", e.id.String())
	e.reset()

	e.log.WithFields(logrus.Fields{
		"width":  board.Width(),
		"height": board.Height(),
		"mines":  board.Mines(),
		"seed":   seed,
	}).Info("board generated")
	return nil
}

// Reset hides every cell and restores counters, phase and timestamps.
// The mine layout is kept.
func (e *Engine) Reset() {
	e.reset()
	e.log.Debug("board reset")
	e.flush()
}

func (e *Engine) reset() {
	if len(e.cells) != e.board.Width()*e.board.Height() {
		e.cells = make([]CellState, e.board.Width()*e.board.Height())
	}
	for row := 1; row <= e.board.Height(); row++ {
		for col := 1; col <= e.board.Width(); col++ {
			e.setCell(Pos{Row: row, Col: col}, Hidden)
		}
	}

	e.phase = PhaseNotStarted
	e.outcome = OutcomeNone
	e.remaining = e.board.Mines()
	e.safeLeft = e.board.Width()*e.board.Height() - e.board.Mines()
	e.startTime = time.Time{}
	e.endTime = time.Time{}
}

// OnClick forwards a user gesture on a cell.
func (e *Engine) OnClick(p Pos, kind ClickKind) error {
	switch kind {
	case ClickLeft:
		return e.Reveal(p)
	case ClickRight:
		return e.ToggleMark(p)
	}
	return fmt.Errorf("click %d at %v: %w", kind, p, ErrUnknownClick)
}

// Reveal applies a left click: opens a hidden or questioned cell, or chords
// on an opened one. The first accepted call starts the game.
func (e *Engine) Reveal(p Pos) error {
	if !e.board.Contains(p) {
		return fmt.Errorf("reveal %v: %w", p, ErrOutOfBounds)
	}
	if e.phase == PhaseEnded {
		return nil
	}

	if e.phase == PhaseNotStarted {
		e.phase = PhaseInProgress
		e.startTime = e.now()
		e.log.Info("game started")
		e.display.OnGameStart()
	}

	switch s := e.cells[e.board.index(p)]; {
	case s == Hidden || s == Questioned:
		e.openCell(p)
	case s.IsRevealed():
		e.openAllUnmarked(p)
	}

	if e.phase != PhaseEnded && e.safeLeft == 0 {
		e.endGame(OutcomeWin)
	}

	e.flush()
	return nil
}

// ToggleMark applies a right click: Hidden -> Flagged -> Questioned -> Hidden.
// Opened cells are left alone.
func (e *Engine) ToggleMark(p Pos) error {
	if !e.board.Contains(p) {
		return fmt.Errorf("toggle mark %v: %w", p, ErrOutOfBounds)
	}
	if e.phase == PhaseEnded {
		return nil
	}

	switch e.cells[e.board.index(p)] {
	case Hidden:
		e.setCell(p, Flagged)
		e.remaining--
	case Flagged:
		e.setCell(p, Questioned)
		e.remaining++
	case Questioned:
		e.setCell(p, Hidden)
	default:
		return nil
	}

	e.log.WithFields(logrus.Fields{
		"pos":   p.String(),
		"state": e.cells[e.board.index(p)].String(),
	}).Debug("mark toggled")
	e.flush()
	return nil
}

// Claim ends a game in progress once every mine has a flag, letting the
// board decide the outcome: all flags on mines wins, any misplaced flag loses.
// It does nothing while flags and mines do not balance.
func (e *Engine) Claim() error {
	if e.phase != PhaseInProgress || e.remaining != 0 {
		return nil
	}

	e.log.Info("game claimed")
	e.endGame(OutcomeNone)
	e.flush()
	return nil
}

// openCell opens p. A mine ends the game; anything else is expanded
// breadth-first through contiguous zero-count cells.
func (e *Engine) openCell(p Pos) {
	if e.board.IsMine(p) {
		e.setCell(p, ExplodedMine)
		e.log.WithField("pos", p.String()).Info("mine detonated")
		e.endGame(OutcomeLoss)
		return
	}

	// A cell is written before it is queued, so it can never be queued twice.
	e.setCell(p, Revealed(e.board.Count(p)))
	queue := []Pos{p}
	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		e.safeLeft--
		if e.board.Count(cur) != 0 {
			continue
		}
		e.board.eachNeighbor(cur, func(q Pos) {
			if s := e.cells[e.board.index(q)]; s == Hidden || s == Questioned {
				e.setCell(q, Revealed(e.board.Count(q)))
				queue = append(queue, q)
			}
		})
	}

	e.log.WithFields(logrus.Fields{
		"pos":    p.String(),
		"opened": len(queue),
	}).Debug("cells opened")
}

// openAllUnmarked chords on an opened cell: when the flags around it match its
// count, every hidden or questioned neighbor is opened.
func (e *Engine) openAllUnmarked(p Pos) {
	n := e.cells[e.board.index(p)].Count()

	flags := 0
	e.board.eachNeighbor(p, func(q Pos) {
		if e.cells[e.board.index(q)] == Flagged {
			flags++
		}
	})
	if flags != n {
		return
	}

	e.log.WithField("pos", p.String()).Debug("chord")
	e.board.eachNeighbor(p, func(q Pos) {
		if e.phase == PhaseEnded {
			return
		}
		if s := e.cells[e.board.index(q)]; s == Hidden || s == Questioned {
			e.openCell(q)
		}
	})
}

// endGame stops the clock and reconciles the whole board: unflagged mines are
// shown, wrong flags are marked. Any mistake turns the outcome into a loss
// unless forced is set.
func (e *Engine) endGame(forced Outcome) {
	e.phase = PhaseEnded
	e.endTime = e.now()

	outcome := OutcomeWin
	for row := 1; row <= e.board.Height(); row++ {
		for col := 1; col <= e.board.Width(); col++ {
			p := Pos{Row: row, Col: col}
			s := e.cells[e.board.index(p)]
			switch {
			case e.board.IsMine(p) && (s == Hidden || s == Questioned):
				e.setCell(p, RevealedMine)
				outcome = OutcomeLoss
			case !e.board.IsMine(p) && s == Flagged:
				e.setCell(p, MisflaggedMine)
				outcome = OutcomeLoss
			case s == ExplodedMine:
				outcome = OutcomeLoss
			}
		}
	}
	if forced != OutcomeNone {
		outcome = forced
	}
	e.outcome = outcome

	elapsed := elapsedSeconds(e.startTime, e.endTime, e.endTime)
	e.log.WithFields(logrus.Fields{
		"outcome": outcome.String(),
		"elapsed": elapsed,
	}).Info("game ended")
	e.display.OnGameEnd(outcome, elapsed)
}

func (e *Engine) setCell(p Pos, s CellState) {
	e.cells[e.board.index(p)] = s
	e.changed.Put(p)
}

// flush hands the changed cells to the display in row-major order.
func (e *Engine) flush() {
	changed := make([]Pos, 0, e.changed.Size())
	e.changed.Each(func(p Pos) {
		changed = append(changed, p)
	})
	slices.SortFunc(changed, func(a, b Pos) int {
		if c := cmp.Compare(a.Row, b.Row); c != 0 {
			return c
		}
		return cmp.Compare(a.Col, b.Col)
	})
	e.changed = mapset.New[Pos]()
	e.display.Refresh(changed)
}

// State returns the visible state of the cell at p.
func (e *Engine) State(p Pos) (CellState, error) {
	if !e.board.Contains(p) {
		return Hidden, fmt.Errorf("state %v: %w", p, ErrOutOfBounds)
	}
	return e.cells[e.board.index(p)], nil
}

// Width returns the number of columns.
func (e *Engine) Width() int { return e.board.Width() }

// Height returns the number of rows.
func (e *Engine) Height() int { return e.board.Height() }

// RemainingMines returns the mine total minus the flags placed.
func (e *Engine) RemainingMines() int { return e.remaining }

// SafeCellsLeft returns how many non-mine cells are still unopened.
func (e *Engine) SafeCellsLeft() int { return e.safeLeft }

// Phase returns where the game is in its lifecycle.
func (e *Engine) Phase() Phase { return e.phase }

// Outcome returns the result, OutcomeNone until the game has ended.
func (e *Engine) Outcome() Outcome { return e.outcome }

// StartTime returns when the first reveal happened, zero before that.
func (e *Engine) StartTime() time.Time { return e.startTime }

// EndTime returns when the game ended, zero while it runs.
func (e *Engine) EndTime() time.Time { return e.endTime }

// Seed returns the seed the current layout was generated from.
func (e *Engine) Seed() uint32 { return e.seed }

// ID returns the identifier of the current layout.
func (e *Engine) ID() uuid.UUID { return e.id }

// Elapsed returns whole seconds of play: zero before the first click, frozen
// once the game has ended.
func (e *Engine) Elapsed(now time.Time) int {
	return elapsedSeconds(e.startTime, e.endTime, now)
}

// Snapshot returns a deep copy of the visible state.
func (e *Engine) Snapshot() Snapshot {
	cells := make([][]CellState, e.board.Height())
	for row := range cells {
		start := row * e.board.Width()
		cells[row] = make([]CellState, e.board.Width())
		copy(cells[row], e.cells[start:start+e.board.Width()])
	}

	return Snapshot{
		ID:             e.id,
		Width:          e.board.Width(),
		Height:         e.board.Height(),
		Cells:          cells,
		Phase:          e.phase,
		Outcome:        e.outcome,
		RemainingMines: e.remaining,
		SafeCellsLeft:  e.safeLeft,
		StartTime:      e.startTime,
		EndTime:        e.endTime,
	}
}
