package handlers

import (
	"net/url"
	"strconv"
	"time"

	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/repository"
)

type ConfigDTO struct {
	Difficulty string `schema:"difficulty"`
	Rows       int    `schema:"rows"`
	Cols       int    `schema:"cols"`
	MineCount  int    `schema:"mine_count"`
}

func ParseConfigDTO(src url.Values) (ConfigDTO, error) {
	var dto ConfigDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

func (dto ConfigDTO) empty() bool {
	return dto == ConfigDTO{}
}

// Config resolves the requested board. A named preset wins; otherwise
// rows, cols and mine_count describe a custom board. An empty query means
// easy.
func (dto ConfigDTO) Config() (mines.Difficulty, mines.Config, error) {
	if dto.Difficulty != "" {
		d, err := mines.ParseDifficulty(dto.Difficulty)
		if err != nil {
			return "", mines.Config{}, err
		}
		if c, ok := d.Config(); ok {
			return d, c, nil
		}
	}
	if dto.empty() {
		c, _ := mines.Easy.Config()
		return mines.Easy, c, nil
	}
	c := mines.Config{Rows: dto.Rows, Cols: dto.Cols, MineCount: dto.MineCount}
	if err := c.Validate(); err != nil {
		return "", c, err
	}
	return mines.DifficultyOf(c), c, nil
}

type CellDTO struct {
	Row int `schema:"row,required"`
	Col int `schema:"col,required"`
}

func ParseCellDTO(src url.Values) (CellDTO, error) {
	var dto CellDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

type GameSessionDTO struct {
	SessionId      string           `json:"session_id"`
	Difficulty     string           `json:"difficulty"`
	Rows           int              `json:"rows"`
	Cols           int              `json:"cols"`
	MineCount      int              `json:"mine_count"`
	State          mines.GameState  `json:"state"`
	FirstClick     bool             `json:"first_click"`
	RemainingMines int              `json:"remaining_mines"`
	Grid           []mines.CellView `json:"grid"`
	StartedAt      *int64           `json:"started_at,omitempty"`
	EndedAt        *int64           `json:"ended_at,omitempty"`
}

func unixMilli(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

func NewGameSessionDTO(session *repository.GameSession, s mines.Snapshot) *GameSessionDTO {
	return &GameSessionDTO{
		SessionId:      strconv.FormatInt(session.GameSessionId, 10),
		Difficulty:     session.Difficulty,
		Rows:           s.Config.Rows,
		Cols:           s.Config.Cols,
		MineCount:      s.Config.MineCount,
		State:          s.State,
		FirstClick:     s.FirstClick,
		RemainingMines: s.RemainingMines,
		Grid:           s.Board.View(),
		StartedAt:      unixMilli(session.StartedAt),
		EndedAt:        unixMilli(session.EndedAt),
	}
}
