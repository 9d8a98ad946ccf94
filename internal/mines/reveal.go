package mines

// Reveal opens the cell at row, col and reports whether it was a mine.
//
// Revealing a mine exposes every mine on the board. Revealing a cell with
// no neighbouring mines also opens the connected region of such cells
// together with their numbered border. Out of range coordinates and cells
// that are not hidden leave the board untouched.
func Reveal(b Board, row, col int) (Board, bool) {
	if !b.InBounds(row, col) || b.cells[b.index(row, col)].State != Hidden {
		return b, false
	}

	opened := b.clone()
	target := &opened.cells[b.index(row, col)]

	if target.IsMine {
		for i := range opened.cells {
			if opened.cells[i].IsMine {
				opened.cells[i].State = Revealed
			}
		}
		return opened, true
	}

	target.State = Revealed
	if target.NeighborCount != 0 {
		return opened, false
	}

	/*
	 * Flood fill with an explicit stack. A cell is only opened while
	 * it is still hidden, so every cell is pushed by at most its 8
	 * neighbours and opened at most once.
	 */
	var todo cellStack
	for r, c := range opened.neighbors(row, col) {
		todo.push(opened.index(r, c))
	}
	for {
		i, ok := todo.pop()
		if !ok {
			break
		}
		cell := &opened.cells[i]
		if cell.State != Hidden {
			continue
		}
		cell.State = Revealed
		if cell.NeighborCount == 0 {
			for r, c := range opened.neighbors(i/opened.cols, i%opened.cols) {
				todo.push(opened.index(r, c))
			}
		}
	}

	return opened, false
}
