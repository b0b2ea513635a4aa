package game

import "strings"

// Mine marks a mine cell in a MineMap.
const Mine = 9

// Source is the random stream mine placement draws from.
type Source interface {
	Uint32() uint32
}

// MineMap is the immutable layout of a board: for every cell either Mine or
// the number of mines among its 8 neighbors. Storage is row-major.
type MineMap struct {
	width  int
	height int
	mines  int
	cells  []int8
}

// Generate places mines by drawing a row then a column from src until the
// requested number of distinct cells is mined, then computes neighbor counts.
//
// Layout rules:
//   - row = 1 + src.Uint32() % height, col = 1 + src.Uint32() % width
//   - duplicate draws are retried
//   - cells outside the grid never count as mines
func Generate(width, height, mines int, src Source) (*MineMap, error) {
	if err := validateBoard(width, height, mines); err != nil {
		return nil, err
	}

	m := &MineMap{
		width:  width,
		height: height,
		mines:  mines,
		cells:  make([]int8, width*height),
	}

	for placed := 0; placed < mines; {
		row := 1 + int(src.Uint32()%uint32(height))
		col := 1 + int(src.Uint32()%uint32(width))
		i := m.index(Pos{Row: row, Col: col})
		if m.cells[i] != Mine {
			m.cells[i] = Mine
			placed++
		}
	}

	for row := 1; row <= height; row++ {
		for col := 1; col <= width; col++ {
			p := Pos{Row: row, Col: col}
			i := m.index(p)
			if m.cells[i] == Mine {
				continue
			}
			var n int8
			m.eachNeighbor(p, func(q Pos) {
				if m.cells[m.index(q)] == Mine {
					n++
				}
			})
			m.cells[i] = n
		}
	}

	return m, nil
}

// Width returns the number of columns.
func (m *MineMap) Width() int { return m.width }

// Height returns the number of rows.
func (m *MineMap) Height() int { return m.height }

// Mines returns the number of mines on the board.
func (m *MineMap) Mines() int { return m.mines }

// Contains reports whether p lies inside the grid.
func (m *MineMap) Contains(p Pos) bool {
	return p.Row >= 1 && p.Row <= m.height && p.Col >= 1 && p.Col <= m.width
}

// IsMine reports whether p holds a mine. p must be inside the grid.
func (m *MineMap) IsMine(p Pos) bool {
	return m.cells[m.index(p)] == Mine
}

// Count returns the neighbor mine count at p, or Mine.
func (m *MineMap) Count(p Pos) int {
	return int(m.cells[m.index(p)])
}

// String renders the layout one row per line: '*' for mines, '.' for zero
// and the digit otherwise.
func (m *MineMap) String() string {
	var sb strings.Builder
	sb.Grow((m.width + 1) * m.height)
	for row := 1; row <= m.height; row++ {
		for col := 1; col <= m.width; col++ {
			switch n := m.cells[m.index(Pos{Row: row, Col: col})]; n {
			case Mine:
				sb.WriteByte('*')
			case 0:
				sb.WriteByte('.')
			default:
				sb.WriteByte('0' + byte(n))
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (m *MineMap) index(p Pos) int {
	return (p.Row-1)*m.width + (p.Col - 1)
}

// eachNeighbor calls fn for every in-bounds cell of the 8-neighborhood of p.
func (m *MineMap) eachNeighbor(p Pos, fn func(Pos)) {
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			q := Pos{Row: p.Row + dr, Col: p.Col + dc}
			if m.Contains(q) {
				fn(q)
			}
		}
	}
}
