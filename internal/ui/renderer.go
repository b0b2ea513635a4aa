package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/amalg/go-shellsweeper/internal/game"
)

// cellWidth is the number of terminal columns one board cell takes.
const cellWidth = 2

// Color palette
var (
	// Cell styles
	hiddenStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#3a3a3a")).
			Foreground(lipgloss.Color("#555555"))

	openStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1a1a2e")).
			Bold(true)

	flagStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#3a3a3a")).
			Foreground(lipgloss.Color("#ff4444")).
			Bold(true)

	questionStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#3a3a3a")).
			Foreground(lipgloss.Color("#ffcc00")).
			Bold(true)

	explodedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#ff0000")).
			Foreground(lipgloss.Color("#000000")).
			Bold(true)

	mineStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1a1a2e")).
			Foreground(lipgloss.Color("#dddddd")).
			Bold(true)

	misflagStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1a1a2e")).
			Foreground(lipgloss.Color("#ff8844")).
			Strikethrough(true)

	cursorStyle = lipgloss.NewStyle().Reverse(true)

	// Classic digit colors for counts 1 through 8
	countColors = []lipgloss.Color{
		lipgloss.Color("#4488ff"), // 1 blue
		lipgloss.Color("#00cc66"), // 2 green
		lipgloss.Color("#ff4444"), // 3 red
		lipgloss.Color("#8888ff"), // 4 navy
		lipgloss.Color("#cc6633"), // 5 maroon
		lipgloss.Color("#00cccc"), // 6 teal
		lipgloss.Color("#eeeeee"), // 7 black on a dark board
		lipgloss.Color("#999999"), // 8 gray
	}

	boardBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#444466"))

	// HUD styles
	hudBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff8844")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

	counterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff4444")).
			Background(lipgloss.Color("#000000")).
			Bold(true)

	waitingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#44aaff")).
			Bold(true)

	winnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ff88")).
			Bold(true).
			Blink(true)

	loserStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff4444")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))
)

// RenderBoard converts a snapshot into a bordered grid of styled cells.
func RenderBoard(snap *game.Snapshot, cursor game.Pos) string {
	if snap == nil || len(snap.Cells) == 0 {
		return "Waiting for board..."
	}

	rows := make([]string, 0, snap.Height)
	for row := 1; row <= snap.Height; row++ {
		var sb strings.Builder
		for col := 1; col <= snap.Width; col++ {
			p := game.Pos{Row: row, Col: col}
			sb.WriteString(renderCell(snap.At(p), p == cursor))
		}
		rows = append(rows, sb.String())
	}

	return boardBorderStyle.Render(strings.Join(rows, "\n"))
}

// renderCell renders a single cell, cellWidth characters wide.
func renderCell(state game.CellState, isCursor bool) string {
	style, label := cellLook(state)
	if isCursor {
		style = cursorStyle.Inherit(style)
	}
	return style.Render(label)
}

func cellLook(state game.CellState) (lipgloss.Style, string) {
	switch state {
	case game.Hidden:
		return hiddenStyle, "▒▒"
	case game.Flagged:
		return flagStyle, "⚑ "
	case game.Questioned:
		return questionStyle, "? "
	case game.ExplodedMine:
		return explodedStyle, "✱ "
	case game.RevealedMine:
		return mineStyle, "✱ "
	case game.MisflaggedMine:
		return misflagStyle, "✗ "
	}

	n := state.Count()
	if n <= 0 {
		return openStyle, "  "
	}
	return openStyle.Foreground(countColors[n-1]), fmt.Sprintf("%d ", n)
}

// cellAt translates a terminal coordinate inside the rendered board to a
// cell. The board starts one row and one column in, after the border.
func cellAt(x, y, width, height int) (game.Pos, bool) {
	if x < 1 || y < 1 {
		return game.Pos{}, false
	}
	p := game.Pos{Row: y, Col: (x-1)/cellWidth + 1}
	if p.Row > height || p.Col > width {
		return game.Pos{}, false
	}
	return p, true
}

// RenderHUD renders the mine counter, clock and game status.
func RenderHUD(snap *game.Snapshot, elapsed int, message string) string {
	if snap == nil {
		return ""
	}

	var parts []string

	// Title
	parts = append(parts, titleStyle.Render("💣 SHELLSWEEPER"))
	parts = append(parts, "")

	parts = append(parts, labelStyle.Render("Mines ")+counterStyle.Render(formatCounter(snap.RemainingMines)))
	parts = append(parts, labelStyle.Render("Time  ")+counterStyle.Render(formatCounter(elapsed)))
	parts = append(parts, "")

	// Game status
	switch snap.Phase {
	case game.PhaseNotStarted:
		parts = append(parts, waitingStyle.Render("⏳ Click a cell to start"))
	case game.PhaseInProgress:
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color("#ff8844")).Render("🔥 GAME IN PROGRESS"))
	case game.PhaseEnded:
		if snap.Outcome == game.OutcomeWin {
			parts = append(parts, winnerStyle.Render("🏆 YOU WIN!"))
		} else {
			parts = append(parts, loserStyle.Render("💥 GAME OVER"))
		}
	}
	if message != "" {
		parts = append(parts, "   "+message)
	}

	parts = append(parts, "")
	parts = append(parts, helpStyle.Render("Arrows/HJKL: Move | Space: Open | F: Flag"))
	parts = append(parts, helpStyle.Render("C: Claim | R: Retry | N: New board | Q: Quit"))

	return hudBorderStyle.Render(strings.Join(parts, "\n"))
}

// formatCounter renders a three character seven-segment style counter:
// 000 to 999, or -99 to -01 for negative values.
func formatCounter(n int) string {
	if n < 0 {
		return fmt.Sprintf("-%02d", clamp(-n, 0, 99))
	}
	return fmt.Sprintf("%03d", clamp(n, 0, 999))
}
