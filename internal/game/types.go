package game

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidConfig is wrapped by every board configuration error.
	ErrInvalidConfig = errors.New("invalid board config")
	// ErrOutOfBounds is returned for coordinates outside the playable grid.
	ErrOutOfBounds = errors.New("position out of bounds")
	// ErrUnknownClick is returned by OnClick for an unrecognized click kind.
	ErrUnknownClick = errors.New("unknown click kind")
)

// Pos is a 1-indexed cell coordinate.
type Pos struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// CellState is what the player sees on a cell. Values 0 through 8 are an
// opened cell showing its neighbor mine count.
type CellState int8

const (
	Hidden         CellState = -1
	ExplodedMine   CellState = 9  // The mine the player detonated
	Flagged        CellState = 10 // Marked as a mine
	Questioned     CellState = 11 // Marked as uncertain
	RevealedMine   CellState = 12 // Unflagged mine shown at game end
	MisflaggedMine CellState = 13 // Flag on a safe cell shown at game end
)

// Revealed returns the state of an opened cell with n neighboring mines.
func Revealed(n int) CellState {
	return CellState(n)
}

// IsRevealed reports whether the cell has been opened and shows a count.
func (s CellState) IsRevealed() bool {
	return s >= 0 && s <= 8
}

// Count returns the neighbor mine count of an opened cell, or -1.
func (s CellState) Count() int {
	if !s.IsRevealed() {
		return -1
	}
	return int(s)
}

func (s CellState) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case ExplodedMine:
		return "exploded"
	case Flagged:
		return "flagged"
	case Questioned:
		return "questioned"
	case RevealedMine:
		return "mine"
	case MisflaggedMine:
		return "misflagged"
	}
	if s.IsRevealed() {
		return strconv.Itoa(int(s))
	}
	return fmt.Sprintf("CellState(%d)", int8(s))
}

// ClickKind is the kind of user gesture forwarded by the presentation layer.
type ClickKind int

const (
	ClickLeft  ClickKind = iota // Open or chord
	ClickRight                  // Cycle flag / question mark
)

// Phase is the coarse game lifecycle.
type Phase int

const (
	PhaseNotStarted Phase = iota // Waiting for the first left click
	PhaseInProgress              // Clock running
	PhaseEnded                   // Won or lost
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not started"
	case PhaseInProgress:
		return "in progress"
	case PhaseEnded:
		return "ended"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Outcome is the result of an ended game.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeWin
	OutcomeLoss
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "win"
	case OutcomeLoss:
		return "loss"
	}
	return "none"
}

// Snapshot is a deep copy of the visible game state, safe to hand to a renderer.
type Snapshot struct {
	ID             uuid.UUID     `json:"id"`
	Width          int           `json:"width"`
	Height         int           `json:"height"`
	Cells          [][]CellState `json:"cells"` // Cells[row-1][col-1]
	Phase          Phase         `json:"phase"`
	Outcome        Outcome       `json:"outcome"`
	RemainingMines int           `json:"remaining_mines"`
	SafeCellsLeft  int           `json:"safe_cells_left"`
	StartTime      time.Time     `json:"start_time"`
	EndTime        time.Time     `json:"end_time"`
}

// At returns the state of the cell at p. p must be inside the grid.
func (s *Snapshot) At(p Pos) CellState {
	return s.Cells[p.Row-1][p.Col-1]
}

// Elapsed returns whole seconds of play as of now.
func (s *Snapshot) Elapsed(now time.Time) int {
	return elapsedSeconds(s.StartTime, s.EndTime, now)
}

// GameConfig holds the parameters of a board.
type GameConfig struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Mines  int     `json:"mines"`
	Seed   *uint32 `json:"seed,omitempty"` // nil means derive from the clock
}

// DefaultConfig returns the classic intermediate board.
func DefaultConfig() GameConfig {
	return GameConfig{
		Width:  16,
		Height: 16,
		Mines:  40,
	}
}

// Validate checks the dimensions and mine count.
func (c GameConfig) Validate() error {
	return validateBoard(c.Width, c.Height, c.Mines)
}

// MaxCells bounds the board area.
const MaxCells = 1 << 20

func validateBoard(width, height, mines int) error {
	if width < 1 || height < 1 {
		return fmt.Errorf("%w: dimensions %dx%d must be at least 1x1", ErrInvalidConfig, width, height)
	}
	// Each side is checked first so the product cannot overflow.
	if width > MaxCells || height > MaxCells || width*height > MaxCells {
		return fmt.Errorf("%w: %dx%d board exceeds %d cells", ErrInvalidConfig, width, height, MaxCells)
	}
	if mines < 0 {
		return fmt.Errorf("%w: mine count %d is negative", ErrInvalidConfig, mines)
	}
	if mines >= width*height {
		return fmt.Errorf("%w: %d mines do not fit a %dx%d board", ErrInvalidConfig, mines, width, height)
	}
	return nil
}

func elapsedSeconds(start, end, now time.Time) int {
	if start.IsZero() {
		return 0
	}
	if !end.IsZero() {
		now = end
	}
	return int(now.Sub(start) / time.Second)
}
