package handlers

import (
	"context"
	"encoding/json"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/repository"
)

type memoryStore struct {
	mu       sync.Mutex
	nextId   int64
	sessions map[int64]repository.GameSession
	players  map[string]repository.Player
	updates  int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		sessions: make(map[int64]repository.GameSession),
		players:  make(map[string]repository.Player),
	}
}

func (m *memoryStore) CreateGameSession(
	ctx context.Context, params repository.CreateGameSessionParams,
) (*repository.GameSession, error) {
	return m.put(repository.GameSession{
		PlayerId:   params.PlayerId,
		Difficulty: params.Difficulty,
		Rows:       params.Rows,
		Cols:       params.Cols,
		MineCount:  params.MineCount,
		Status:     params.Status,
		State:      params.State,
	}), nil
}

func (m *memoryStore) put(s repository.GameSession) *repository.GameSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextId++
	s.GameSessionId = m.nextId
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	m.sessions[s.GameSessionId] = s
	return &s
}

func (m *memoryStore) GetGameSession(ctx context.Context, id int64) (*repository.GameSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (m *memoryStore) UpdateGameSession(ctx context.Context, s *repository.GameSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.GameSessionId]; !ok {
		return repository.ErrNotFound
	}
	s.UpdatedAt = time.Now()
	m.sessions[s.GameSessionId] = *s
	m.updates++
	return nil
}

func (m *memoryStore) CreatePlayer(ctx context.Context, username string, hash []byte) (*repository.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.players[username]; ok {
		return nil, repository.ErrUsernameTaken
	}
	m.nextId++
	p := repository.Player{
		PlayerId:     m.nextId,
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	m.players[username] = p
	return &p, nil
}

func (m *memoryStore) GetPlayer(ctx context.Context, username string) (*repository.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.players[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

type outcomeLog struct {
	mu  sync.Mutex
	got []mines.Outcome
}

func (o *outcomeLog) RecordOutcome(ctx context.Context, id int64, outcome mines.Outcome) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.got = append(o.got, outcome)
}

func (o *outcomeLog) outcomes() []mines.Outcome {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]mines.Outcome(nil), o.got...)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func seededRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

type fixture struct {
	store    *memoryStore
	outcomes *outcomeLog
	game     *GameHandler
	mux      *http.ServeMux
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    newMemoryStore(),
		outcomes: &outcomeLog{},
	}
	f.game = NewGameHandler(quietLogger(), f.store, f.outcomes, seededRand)

	f.mux = http.NewServeMux()
	f.mux.HandleFunc("POST /v1/game", f.game.NewGame)
	f.mux.HandleFunc("GET /v1/game/{id}", f.game.Fetch)
	f.mux.HandleFunc("POST /v1/game/{id}/reveal", f.game.Reveal)
	f.mux.HandleFunc("POST /v1/game/{id}/flag", f.game.Flag)
	f.mux.HandleFunc("POST /v1/game/{id}/reset", f.game.Reset)
	f.mux.HandleFunc("GET /v1/game/{id}/connect", f.game.ConnectWS)
	return f
}

func (f *fixture) do(r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, r)
	return rec
}

// startedSession stores a game on rows×cols with mineCount mines that had
// its first click at (0, 0) and is still being played.
func (f *fixture) startedSession(
	t *testing.T, rows, cols, mineCount int, playerId *int64,
) (*repository.GameSession, mines.Snapshot) {
	t.Helper()
	config := mines.Config{Rows: rows, Cols: cols, MineCount: mineCount}
	for seed := uint64(0); seed < 100; seed++ {
		game, err := mines.NewGame(config, rand.New(rand.NewPCG(seed, seed)))
		require.NoError(t, err)
		s, err := game.Reveal(0, 0)
		require.NoError(t, err)
		if s.State != mines.Playing {
			continue
		}
		state, err := game.Bytes()
		require.NoError(t, err)
		started := time.Now().UTC().Add(-5 * time.Second)
		session := f.store.put(repository.GameSession{
			PlayerId:   playerId,
			Difficulty: string(mines.DifficultyOf(config)),
			Rows:       rows,
			Cols:       cols,
			MineCount:  mineCount,
			Status:     s.State.String(),
			State:      state,
			StartedAt:  &started,
		})
		return session, s
	}
	t.Fatal("no seed left the game in play")
	return nil, mines.Snapshot{}
}

func findCell(b mines.Board, match func(mines.Cell) bool) (int, int) {
	for row := range b.Rows() {
		for col := range b.Cols() {
			if match(b.At(row, col)) {
				return row, col
			}
		}
	}
	return -1, -1
}

func decodeSession(t *testing.T, rec *httptest.ResponseRecorder) GameSessionDTO {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var dto GameSessionDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	return dto
}
