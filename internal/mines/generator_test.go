package mines

import (
	"errors"
	"math/rand/v2"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Log.SetLevel(logrus.DebugLevel)
	Log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	os.Exit(m.Run())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		valid  bool
	}{
		{"1x1(0)", Config{1, 1, 0}, true},
		{"9x9(10)", Config{9, 9, 10}, true},
		{"3x3(8)", Config{3, 3, 8}, true},
		{"zero rows", Config{0, 9, 1}, false},
		{"negative cols", Config{9, -1, 1}, false},
		{"negative mines", Config{9, 9, -1}, false},
		{"mines fill board", Config{3, 3, 9}, false},
		{"largest board", Config{MaxRows, MaxCols, 1}, true},
		{"too many rows", Config{MaxRows + 1, 1, 0}, false},
		{"too many cols", Config{1, MaxCols + 1, 0}, false},
		{"huge square", Config{100000, 100000, 1}, false},
		{"area overflows", Config{1<<62 + 1, 4, 0}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.config.Validate()
			if test.valid {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidConfig)
			var ce *ConfigError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, test.config, ce.Config)
		})
	}
}

func TestDifficultyPresets(t *testing.T) {
	for _, d := range []Difficulty{Easy, Medium, Hard} {
		c, ok := d.Config()
		require.True(t, ok, d)
		assert.NoError(t, c.Validate())
		assert.Equal(t, d, DifficultyOf(c))
	}

	_, ok := Custom.Config()
	assert.False(t, ok)
	assert.Equal(t, Custom, DifficultyOf(Config{4, 4, 2}))

	d, err := ParseDifficulty(" Hard ")
	require.NoError(t, err)
	assert.Equal(t, Hard, d)

	_, err = ParseDifficulty("nightmare")
	assert.Error(t, err)
}

func TestPlaceMinesExactCount(t *testing.T) {
	t.Parallel()

	configs := []Config{
		{9, 9, 10},
		{9, 9, 35},
		{16, 16, 40},
		{16, 16, 99},
		{16, 30, 170},
		{4, 4, 7},
	}

	for _, config := range configs {
		t.Run(config.String(), func(t *testing.T) {
			t.Parallel()
			r := rand.New(rand.NewPCG(1, 2))
			for sr := range config.Rows {
				for sc := range config.Cols {
					b := NewBoard(config.Rows, config.Cols)
					placed, err := PlaceMines(b, sr, sc, config.MineCount, r)
					require.NoError(t, err, "%s @ %d:%d", config, sr, sc)
					assert.Equal(t, config.MineCount, placed.MineCount())
					for _, p := range SafeZone(placed, sr, sc) {
						assert.False(t, placed.At(p[0], p[1]).IsMine,
							"mine in safe zone %v of %s @ %d:%d", p, config, sr, sc)
					}
				}
			}
		})
	}
}

func TestPlaceMinesDoesNotTouchInput(t *testing.T) {
	b := NewBoard(5, 5)
	placed, err := PlaceMines(b, 2, 2, 10, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	assert.Equal(t, 0, b.MineCount())
	assert.Equal(t, 10, placed.MineCount())
}

func TestPlaceMinesDeterministic(t *testing.T) {
	a, err := PlaceMines(NewBoard(9, 9), 4, 4, 10, rand.New(rand.NewPCG(7, 8)))
	require.NoError(t, err)
	b, err := PlaceMines(NewBoard(9, 9), 4, 4, 10, rand.New(rand.NewPCG(7, 8)))
	require.NoError(t, err)
	assert.Equal(t, a.cells, b.cells)
}

func TestPlaceMinesCornerSafeZone(t *testing.T) {
	b := NewBoard(4, 4)
	zone := SafeZone(b, 0, 0)
	assert.ElementsMatch(t, [][2]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}}, zone)

	r := rand.New(rand.NewPCG(1, 2))
	seen := make(map[[2]int]bool)
	for range 500 {
		placed, err := PlaceMines(b, 0, 0, 2, r)
		require.NoError(t, err)
		require.Equal(t, 2, placed.MineCount())
		for row := range 4 {
			for col := range 4 {
				if placed.At(row, col).IsMine {
					seen[[2]int{row, col}] = true
				}
			}
		}
	}
	for _, p := range zone {
		assert.False(t, seen[p], "mine placed in safe zone at %v", p)
	}
	// Every one of the 12 eligible cells is reachable.
	assert.Len(t, seen, 12)
}

func TestPlaceMinesInfeasible(t *testing.T) {
	tests := []struct {
		name            string
		rows, cols      int
		row, col, mines int
		eligible        int
	}{
		{"3x3 centre", 3, 3, 1, 1, 1, 0},
		{"4x4 corner", 4, 4, 0, 0, 13, 12},
		{"4x4 centre", 4, 4, 1, 1, 8, 7},
		{"2x2", 2, 2, 0, 1, 1, 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b := NewBoard(test.rows, test.cols)
			got, err := PlaceMines(b, test.row, test.col, test.mines, rand.New(rand.NewPCG(1, 2)))
			require.ErrorIs(t, err, ErrInfeasiblePlacement)
			var pe *PlacementError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, test.eligible, pe.Eligible)
			assert.Equal(t, 0, got.MineCount())
		})
	}
}

func TestPlaceMinesNegativeCount(t *testing.T) {
	_, err := PlaceMines(NewBoard(3, 3), 0, 0, -1, rand.New(rand.NewPCG(1, 2)))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func naiveNeighborCount(b Board, row, col int) int {
	n := 0
	for r := row - 1; r <= row+1; r++ {
		for c := col - 1; c <= col+1; c++ {
			if (r != row || c != col) && b.InBounds(r, c) && b.At(r, c).IsMine {
				n++
			}
		}
	}
	return n
}

func TestComputeNeighborCounts(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewPCG(1, 2))
	for _, config := range []Config{{9, 9, 10}, {16, 30, 99}, {1, 5, 2}, {5, 1, 2}} {
		for range 20 {
			placed, err := PlaceMines(NewBoard(config.Rows, config.Cols), 0, 0, config.MineCount, r)
			require.NoError(t, err)
			counted := ComputeNeighborCounts(placed)
			for row := range config.Rows {
				for col := range config.Cols {
					cell := counted.At(row, col)
					if cell.IsMine {
						assert.Equal(t, 0, cell.NeighborCount)
						continue
					}
					assert.Equal(t, naiveNeighborCount(counted, row, col), cell.NeighborCount,
						"%s @ %d:%d\n%v", config, row, col, counted)
				}
			}
		}
	}
}
