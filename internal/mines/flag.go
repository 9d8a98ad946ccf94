package mines

// ToggleFlag flips the cell at row, col between hidden and flagged.
// Revealed cells and out of range coordinates are left alone.
func ToggleFlag(b Board, row, col int) Board {
	if !b.InBounds(row, col) {
		return b
	}
	i := b.index(row, col)
	var next CellState
	switch b.cells[i].State {
	case Hidden:
		next = Flagged
	case Flagged:
		next = Hidden
	default:
		return b
	}
	flagged := b.clone()
	flagged.cells[i].State = next
	return flagged
}

// RemainingMines is the counter shown to the player. Flags are not checked
// against the real mines, so the result goes negative once the player has
// placed more flags than there are mines.
func RemainingMines(b Board, mineCount int) int {
	return mineCount - b.Count(Flagged)
}
