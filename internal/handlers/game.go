package handlers

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-engine/internal/middleware"
	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/repository"
)

var (
	ErrBadSessionId = errors.New("invalid game session id")
	ErrNotYourGame  = errors.New("game session belongs to another player")
)

type GameStore interface {
	CreateGameSession(ctx context.Context, params repository.CreateGameSessionParams) (*repository.GameSession, error)
	GetGameSession(ctx context.Context, gameSessionId int64) (*repository.GameSession, error)
	UpdateGameSession(ctx context.Context, session *repository.GameSession) error
}

// OutcomeRecorder receives every finished game. Statistics are kept
// outside of this service.
type OutcomeRecorder interface {
	RecordOutcome(ctx context.Context, gameSessionId int64, outcome mines.Outcome)
}

type LogOutcomes struct {
	Log logrus.FieldLogger
}

func (l LogOutcomes) RecordOutcome(ctx context.Context, gameSessionId int64, o mines.Outcome) {
	l.Log.WithFields(logrus.Fields{
		"game_session_id": gameSessionId,
		"difficulty":      o.Difficulty,
		"won":             o.Won,
		"elapsed_seconds": o.ElapsedSeconds,
	}).Info("game over")
}

type GameHandler struct {
	log      logrus.FieldLogger
	store    GameStore
	outcomes OutcomeRecorder
	newRand  func() *rand.Rand
	now      func() time.Time
	upgrader websocket.Upgrader
}

func NewGameHandler(
	log logrus.FieldLogger,
	store GameStore,
	outcomes OutcomeRecorder,
	newRand func() *rand.Rand,
) *GameHandler {
	return &GameHandler{
		log:      log,
		store:    store,
		outcomes: outcomes,
		newRand:  newRand,
		now:      func() time.Time { return time.Now().UTC() },
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (g *GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseConfigDTO(r.URL.Query())
	if err != nil {
		sendError(w, g.log, http.StatusBadRequest, err)
		return
	}
	difficulty, config, err := dto.Config()
	if err != nil {
		sendError(w, g.log, http.StatusBadRequest, err)
		return
	}

	game, err := mines.NewGame(config, g.newRand())
	if err != nil {
		sendError(w, g.log, http.StatusBadRequest, err)
		return
	}
	state, err := game.Bytes()
	if err != nil {
		internalError(w, g.log, "unable to encode game state", err)
		return
	}

	params := repository.CreateGameSessionParams{
		Difficulty: string(difficulty),
		Rows:       config.Rows,
		Cols:       config.Cols,
		MineCount:  config.MineCount,
		Status:     game.State().String(),
		State:      state,
	}
	if claims, ok := middleware.PlayerClaims(r.Context()); ok {
		g.log.WithField("player", claims.Username).Debug("creating player session")
		params.PlayerId = &claims.PlayerId
	} else {
		g.log.Debug("creating anonymous session")
	}

	session, err := g.store.CreateGameSession(r.Context(), params)
	if err != nil {
		internalError(w, g.log, "unable to create game session", err)
		return
	}

	sendJSONOrLog(w, g.log, NewGameSessionDTO(session, game.Snapshot()))
}

func (g *GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	session, game, ok := g.load(w, r, false)
	if !ok {
		return
	}
	sendJSONOrLog(w, g.log, NewGameSessionDTO(session, game.Snapshot()))
}

func (g *GameHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	g.move(w, r, func(game *mines.Game, cell CellDTO) (mines.Snapshot, error) {
		return game.Reveal(cell.Row, cell.Col)
	})
}

func (g *GameHandler) Flag(w http.ResponseWriter, r *http.Request) {
	g.move(w, r, func(game *mines.Game, cell CellDTO) (mines.Snapshot, error) {
		return game.ToggleFlag(cell.Row, cell.Col), nil
	})
}

func (g *GameHandler) move(
	w http.ResponseWriter, r *http.Request,
	apply func(*mines.Game, CellDTO) (mines.Snapshot, error),
) {
	cell, err := ParseCellDTO(r.URL.Query())
	if err != nil {
		sendError(w, g.log, http.StatusBadRequest, err)
		return
	}
	session, game, ok := g.load(w, r, true)
	if !ok {
		return
	}

	before := game.Snapshot()
	after, err := apply(game, cell)
	if errors.Is(err, mines.ErrInfeasiblePlacement) {
		sendError(w, g.log, http.StatusUnprocessableEntity, err)
		return
	}
	if err != nil {
		internalError(w, g.log, "unable to apply move", err)
		return
	}

	if err := g.save(r.Context(), session, game, before); err != nil {
		internalError(w, g.log, "unable to update game session", err)
		return
	}
	sendJSONOrLog(w, g.log, NewGameSessionDTO(session, after))
}

func (g *GameHandler) Reset(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseConfigDTO(r.URL.Query())
	if err != nil {
		sendError(w, g.log, http.StatusBadRequest, err)
		return
	}
	session, game, ok := g.load(w, r, true)
	if !ok {
		return
	}

	s, err := g.reset(session, game, dto)
	if err != nil {
		sendError(w, g.log, http.StatusBadRequest, err)
		return
	}

	if err := g.save(r.Context(), session, game, s); err != nil {
		internalError(w, g.log, "unable to update game session", err)
		return
	}
	sendJSONOrLog(w, g.log, NewGameSessionDTO(session, s))
}

func (g *GameHandler) reset(
	session *repository.GameSession, game *mines.Game, dto ConfigDTO,
) (mines.Snapshot, error) {
	var config *mines.Config
	difficulty := mines.Difficulty(session.Difficulty)
	if !dto.empty() {
		d, c, err := dto.Config()
		if err != nil {
			return game.Snapshot(), err
		}
		difficulty, config = d, &c
	}
	s, err := game.Reset(config)
	if err != nil {
		return s, err
	}
	session.Difficulty = string(difficulty)
	session.StartedAt = nil
	session.EndedAt = nil
	return s, nil
}

func parseSessionId(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, ErrBadSessionId
	}
	return id, nil
}

func (g *GameHandler) canPlay(r *http.Request, session *repository.GameSession) bool {
	if session.PlayerId == nil {
		return true
	}
	claims, ok := middleware.PlayerClaims(r.Context())
	return ok && claims.PlayerId == *session.PlayerId
}

// load fetches the session named in the path and decodes its game. On
// failure the response has been written.
func (g *GameHandler) load(
	w http.ResponseWriter, r *http.Request, mutate bool,
) (*repository.GameSession, *mines.Game, bool) {
	id, err := parseSessionId(r)
	if err != nil {
		sendError(w, g.log, http.StatusBadRequest, err)
		return nil, nil, false
	}
	session, game, err := g.fetch(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return nil, nil, false
	}
	if err != nil {
		internalError(w, g.log, "unable to load game session", err)
		return nil, nil, false
	}
	if mutate && !g.canPlay(r, session) {
		sendError(w, g.log, http.StatusForbidden, ErrNotYourGame)
		return nil, nil, false
	}
	return session, game, true
}

func (g *GameHandler) fetch(ctx context.Context, id int64) (*repository.GameSession, *mines.Game, error) {
	session, err := g.store.GetGameSession(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	game, err := mines.DecodeGame(session.State, g.newRand())
	if err != nil {
		return nil, nil, fmt.Errorf("db returned invalid game_session.state: %w", err)
	}
	return session, game, nil
}

// save writes the game back to its session. The clock starts with the
// first reveal and stops when the game ends; a finished game is reported
// to the outcome recorder exactly once.
func (g *GameHandler) save(
	ctx context.Context, session *repository.GameSession, game *mines.Game, before mines.Snapshot,
) error {
	s := game.Snapshot()
	now := g.now()

	if !s.FirstClick && session.StartedAt == nil {
		session.StartedAt = &now
	}
	finished := s.State.Terminal() && !before.State.Terminal()
	if finished && session.EndedAt == nil {
		session.EndedAt = &now
	}

	state, err := game.Bytes()
	if err != nil {
		return fmt.Errorf("unable to encode game state: %w", err)
	}
	session.State = state
	session.Status = s.State.String()
	session.Rows, session.Cols, session.MineCount = s.Config.Unpack()

	if err := g.store.UpdateGameSession(ctx, session); err != nil {
		return err
	}

	if finished {
		elapsed := 0
		if session.StartedAt != nil {
			elapsed = int(session.EndedAt.Sub(*session.StartedAt) / time.Second)
		}
		g.outcomes.RecordOutcome(ctx, session.GameSessionId, mines.Outcome{
			Difficulty:     mines.Difficulty(session.Difficulty),
			Won:            s.State == mines.Won,
			ElapsedSeconds: elapsed,
		})
	}
	return nil
}
