package mines

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

type GameState int8

const (
	Playing GameState = iota
	Won
	Lost
)

func (s GameState) String() string {
	switch s {
	case Playing:
		return "playing"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return fmt.Sprintf("GameState(%d)", int8(s))
	}
}

func (s GameState) Terminal() bool {
	return s == Won || s == Lost
}

// [GameState] implements [encoding.TextMarshaler]
func (s GameState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *GameState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "playing":
		*s = Playing
	case "won":
		*s = Won
	case "lost":
		*s = Lost
	default:
		return fmt.Errorf("unknown game state %q", text)
	}
	return nil
}

// Snapshot is the complete, immutable result of a game operation.
type Snapshot struct {
	Config         Config
	Board          Board
	State          GameState
	RemainingMines int
	FirstClick     bool
}

// Game owns the authoritative state of one minesweeper game. Mines are
// placed lazily on the first reveal so that the first click is always safe.
//
// A Game is not safe for concurrent use.
type Game struct {
	config     Config
	board      Board
	state      GameState
	firstClick bool
	rnd        *rand.Rand
}

func NewGame(config Config, r *rand.Rand) (*Game, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	g := &Game{rnd: r}
	g.restart(config)
	return g, nil
}

func (g *Game) restart(config Config) {
	g.config = config
	g.board = NewBoard(config.Rows, config.Cols)
	g.state = Playing
	g.firstClick = true
}

func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Config:         g.config,
		Board:          g.board,
		State:          g.state,
		RemainingMines: RemainingMines(g.board, g.config.MineCount),
		FirstClick:     g.firstClick,
	}
}

func (g *Game) Config() Config { return g.config }
func (g *Game) State() GameState { return g.state }

// Reveal opens the cell at row, col. The first successful reveal places
// the mines around it; if they do not fit, the error matches
// [ErrInfeasiblePlacement] and the game is left as it was.
func (g *Game) Reveal(row, col int) (Snapshot, error) {
	if g.state != Playing ||
		!g.board.InBounds(row, col) ||
		g.board.At(row, col).State != Hidden {
		return g.Snapshot(), nil
	}

	board := g.board
	if g.firstClick {
		placed, err := PlaceMines(board, row, col, g.config.MineCount, g.rnd)
		if err != nil {
			return g.Snapshot(), err
		}
		board = ComputeNeighborCounts(placed)
	}

	board, hitMine := Reveal(board, row, col)
	g.board = board
	g.firstClick = false

	if hitMine {
		g.state = Lost
	} else {
		g.checkWin()
	}
	return g.Snapshot(), nil
}

func (g *Game) ToggleFlag(row, col int) Snapshot {
	if g.state != Playing {
		return g.Snapshot()
	}
	g.board = ToggleFlag(g.board, row, col)
	g.checkWin()
	return g.Snapshot()
}

// Reset discards the board and starts over. A nil config keeps the current
// one.
func (g *Game) Reset(config *Config) (Snapshot, error) {
	c := g.config
	if config != nil {
		c = *config
	}
	if err := c.Validate(); err != nil {
		return g.Snapshot(), err
	}
	g.restart(c)
	return g.Snapshot(), nil
}

/*
 * The game is won once exactly as many cells are still covered,
 * flagged or not, as there are mines. Whether the flags sit on the
 * mines does not matter.
 */
func (g *Game) checkWin() {
	if g.firstClick {
		return
	}
	if g.board.Count(Hidden)+g.board.Count(Flagged) == g.config.MineCount {
		g.state = Won
	}
}

type gameRecord struct {
	Config     Config
	Cells      []Cell
	State      GameState
	FirstClick bool
}

// Bytes encodes the game for storage. The random source is not part of the
// encoding.
func (g *Game) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(gameRecord{
		Config:     g.config,
		Cells:      g.board.cells,
		State:      g.state,
		FirstClick: g.firstClick,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeGame restores a game produced by [Game.Bytes], drawing any future
// mine placement from r.
func DecodeGame(buf []byte, r *rand.Rand) (*Game, error) {
	var rec gameRecord
	if err := gob.NewDecoder(bytes.NewReader(buf)).Decode(&rec); err != nil {
		return nil, fmt.Errorf("unable to decode game: %w", err)
	}
	if err := rec.Config.Validate(); err != nil {
		return nil, err
	}
	if len(rec.Cells) != rec.Config.Rows*rec.Config.Cols {
		return nil, fmt.Errorf(
			"decoded board has %d cells, want %d", len(rec.Cells), rec.Config.Rows*rec.Config.Cols,
		)
	}
	if rec.State < Playing || rec.State > Lost {
		return nil, fmt.Errorf("decoded invalid game state %d", rec.State)
	}
	for i, cell := range rec.Cells {
		if cell.State < Hidden || cell.State > Revealed {
			return nil, fmt.Errorf("decoded invalid state %d for cell %d", cell.State, i)
		}
		if cell.NeighborCount < 0 || cell.NeighborCount > 8 {
			return nil, fmt.Errorf("decoded invalid neighbour count %d for cell %d", cell.NeighborCount, i)
		}
	}
	g := &Game{
		config: rec.Config,
		board: Board{
			rows:  rec.Config.Rows,
			cols:  rec.Config.Cols,
			cells: rec.Cells,
		},
		state:      rec.State,
		firstClick: rec.FirstClick,
		rnd:        r,
	}
	return g, nil
}
