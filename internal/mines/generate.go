package mines

import (
	"math/rand/v2"

	"github.com/sirupsen/logrus"
)

func inSafeZone(row, col, safeRow, safeCol int) bool {
	return absDiff(row, safeRow) <= 1 && absDiff(col, safeCol) <= 1
}

// SafeZone returns the coordinates of the 3x3 block centred on row, col,
// clipped at the board edges.
func SafeZone(b Board, row, col int) [][2]int {
	zone := make([][2]int, 0, 9)
	for r := row - 1; r <= row+1; r++ {
		for c := col - 1; c <= col+1; c++ {
			if b.InBounds(r, c) {
				zone = append(zone, [2]int{r, c})
			}
		}
	}
	return zone
}

// PlaceMines returns a copy of b with exactly mineCount mines spread
// uniformly over the cells outside the safe zone around safeRow, safeCol.
func PlaceMines(b Board, safeRow, safeCol, mineCount int, r *rand.Rand) (Board, error) {
	if mineCount < 0 {
		return b, &ConfigError{
			Config: Config{Rows: b.rows, Cols: b.cols, MineCount: mineCount},
			reason: "negative mine count",
		}
	}

	/*
	 * Write down the list of possible mine locations.
	 */
	candidates := make([]int, 0, len(b.cells))
	for i := range b.cells {
		if !inSafeZone(i/b.cols, i%b.cols, safeRow, safeCol) {
			candidates = append(candidates, i)
		}
	}

	if mineCount > len(candidates) {
		return b, &PlacementError{
			MineCount: mineCount,
			Eligible:  len(candidates),
			Row:       safeRow,
			Col:       safeCol,
		}
	}

	/*
	 * Now pick mineCount off the list at random: a partial
	 * Fisher-Yates shuffle whose prefix holds the mines.
	 */
	placed := b.clone()
	for i := range mineCount {
		j := i + r.IntN(len(candidates)-i)
		candidates[i], candidates[j] = candidates[j], candidates[i]
		placed.cells[candidates[i]].IsMine = true
	}

	Log.WithFields(logrus.Fields{
		"rows":     b.rows,
		"cols":     b.cols,
		"mines":    mineCount,
		"eligible": len(candidates),
		"safe":     [2]int{safeRow, safeCol},
	}).Debug("placed mines")

	return placed, nil
}

// ComputeNeighborCounts returns a copy of b in which every non-mine cell
// holds the number of mines adjacent to it. Mine cells keep a zero count.
func ComputeNeighborCounts(b Board) Board {
	counted := b.clone()
	for row := range b.rows {
		for col := range b.cols {
			i := b.index(row, col)
			if b.cells[i].IsMine {
				counted.cells[i].NeighborCount = 0
				continue
			}
			n := 0
			for r, c := range b.neighbors(row, col) {
				if b.cells[b.index(r, c)].IsMine {
					n++
				}
			}
			counted.cells[i].NeighborCount = n
		}
	}
	return counted
}
