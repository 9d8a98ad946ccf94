package mines

import (
	"fmt"
	"iter"
	"strings"
)

// Board is a fixed rows×cols grid of cells stored row-major. A Board is a
// value: operations in this package never modify a board in place, they
// return a new one. Operations that do nothing return their input, sharing
// its cells.
type Board struct {
	rows, cols int
	cells      []Cell
}

// NewBoard returns a board with every cell hidden and free of mines.
func NewBoard(rows, cols int) Board {
	return Board{
		rows:  rows,
		cols:  cols,
		cells: make([]Cell, rows*cols),
	}
}

func (b Board) Rows() int { return b.rows }
func (b Board) Cols() int { return b.cols }

func (b Board) InBounds(row, col int) bool {
	return 0 <= row && row < b.rows && 0 <= col && col < b.cols
}

// At panics if row, col is out of bounds.
func (b Board) At(row, col int) Cell {
	if !b.InBounds(row, col) {
		panic(fmt.Sprintf("mines: cell %d:%d out of %dx%d board", row, col, b.rows, b.cols))
	}
	return b.cells[b.index(row, col)]
}

func (b Board) index(row, col int) int {
	return row*b.cols + col
}

func (b Board) clone() Board {
	c := b
	c.cells = make([]Cell, len(b.cells))
	copy(c.cells, b.cells)
	return c
}

// neighbors yields the coordinates of the up to 8 cells adjacent to
// row, col, clipped at the board edges.
func (b Board) neighbors(row, col int) iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				if dr == 0 && dc == 0 {
					continue
				}
				r, c := row+dr, col+dc
				if b.InBounds(r, c) && !yield(r, c) {
					return
				}
			}
		}
	}
}

// Count returns the number of cells in the given state.
func (b Board) Count(state CellState) int {
	n := 0
	for _, c := range b.cells {
		if c.State == state {
			n++
		}
	}
	return n
}

func (b Board) MineCount() int {
	n := 0
	for _, c := range b.cells {
		if c.IsMine {
			n++
		}
	}
	return n
}

// View returns the player's knowledge of the board, row-major.
func (b Board) View() []CellView {
	view := make([]CellView, len(b.cells))
	for i, c := range b.cells {
		view[i] = c.View()
	}
	return view
}

func (b Board) String() string {
	var sb strings.Builder
	for row := range b.rows {
		for col := range b.cols {
			sb.WriteString(b.cells[b.index(row, col)].View().String())
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
