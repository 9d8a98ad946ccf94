package mines

import (
	"strconv"
)

type CellState int8

const (
	Hidden CellState = iota
	Flagged
	Revealed
)

func (s CellState) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Flagged:
		return "flagged"
	case Revealed:
		return "revealed"
	default:
		return "CellState(" + strconv.Itoa(int(s)) + ")"
	}
}

type Cell struct {
	IsMine        bool
	NeighborCount int
	State         CellState
}

// CellView is what a player is allowed to know about a cell.
type CellView int8

const (
	ViewHidden  CellView = -2
	ViewFlagged CellView = -1
	ViewMine    CellView = 64
	/*
	 * 0 to 8 mean the cell is revealed and show the number of
	 * neighbouring mines.
	 */
)

func (v CellView) String() string {
	switch {
	case v == ViewHidden:
		return " "
	case v == ViewFlagged:
		return "*"
	case v == ViewMine:
		return "!"
	case 0 <= v && v <= 8:
		return strconv.Itoa(int(v))
	default:
		return "?"
	}
}

func (c Cell) View() CellView {
	switch c.State {
	case Flagged:
		return ViewFlagged
	case Revealed:
		if c.IsMine {
			return ViewMine
		}
		return CellView(c.NeighborCount)
	default:
		return ViewHidden
	}
}
