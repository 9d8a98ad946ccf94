package mines

import (
	"fmt"
	"math"
	"strings"
)

// Largest board a [Config] may describe.
const (
	MaxRows = 1000
	MaxCols = 1000
)

type Config struct {
	Rows, Cols, MineCount int
}

func (c Config) Unpack() (rows int, cols int, mineCount int) {
	return c.Rows, c.Cols, c.MineCount
}

func (c Config) String() string {
	return fmt.Sprintf("%dx%d(%d)", c.Rows, c.Cols, c.MineCount)
}

// Validate checks 0 < Rows <= MaxRows, 0 < Cols <= MaxCols and
// 0 <= MineCount < Rows*Cols.
// A valid config may still be infeasible for a particular first click,
// see [PlaceMines].
func (c Config) Validate() error {
	switch {
	case c.Rows <= 0:
		return &ConfigError{Config: c, reason: "rows must be positive"}
	case c.Cols <= 0:
		return &ConfigError{Config: c, reason: "cols must be positive"}
	case c.Rows > MaxRows:
		return &ConfigError{Config: c, reason: fmt.Sprintf("rows must not exceed %d", MaxRows)}
	case c.Cols > MaxCols:
		return &ConfigError{Config: c, reason: fmt.Sprintf("cols must not exceed %d", MaxCols)}
	case c.Rows > math.MaxInt/c.Cols:
		return &ConfigError{Config: c, reason: "board too large"}
	case c.MineCount < 0:
		return &ConfigError{Config: c, reason: "mine count must not be negative"}
	case c.MineCount >= c.Rows*c.Cols:
		return &ConfigError{Config: c, reason: "mine count must be less than the number of cells"}
	}
	return nil
}

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
	Custom Difficulty = "custom"
)

var presets = map[Difficulty]Config{
	Easy:   {Rows: 9, Cols: 9, MineCount: 10},
	Medium: {Rows: 15, Cols: 12, MineCount: 27},
	Hard:   {Rows: 20, Cols: 15, MineCount: 48},
}

func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case Easy, Medium, Hard, Custom:
		return d, nil
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

// Config returns the preset board for d. Custom has no preset.
func (d Difficulty) Config() (Config, bool) {
	c, ok := presets[d]
	return c, ok
}

// DifficultyOf names the preset matching c, or Custom.
func DifficultyOf(c Config) Difficulty {
	for d, p := range presets {
		if p == c {
			return d
		}
	}
	return Custom
}

// Outcome is handed to the statistics collaborator once a game ends.
type Outcome struct {
	Difficulty     Difficulty `json:"difficulty"`
	Won            bool       `json:"won"`
	ElapsedSeconds int        `json:"elapsed_seconds"`
}
