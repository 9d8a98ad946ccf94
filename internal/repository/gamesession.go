package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

type GameSession struct {
	GameSessionId int64      `db:"game_session_id"`
	PlayerId      *int64     `db:"player_id"`
	Difficulty    string     `db:"difficulty"`
	Rows          int        `db:"board_rows"`
	Cols          int        `db:"board_cols"`
	MineCount     int        `db:"mine_count"`
	Status        string     `db:"status"`
	State         []byte     `db:"state"`
	StartedAt     *time.Time `db:"started_at"`
	EndedAt       *time.Time `db:"ended_at"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

const gameSessionColumns = `game_session_id, player_id, difficulty, board_rows, board_cols,
	mine_count, status, state, started_at, ended_at, created_at, updated_at`

type CreateGameSessionParams struct {
	PlayerId   *int64
	Difficulty string
	Rows       int
	Cols       int
	MineCount  int
	Status     string
	State      []byte
}

func (q *Queries) CreateGameSession(
	ctx context.Context, params CreateGameSessionParams,
) (*GameSession, error) {
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO game_session (
			player_id, difficulty, board_rows, board_cols, mine_count, status, state
		)
		VALUES (
			@player_id, @difficulty, @board_rows, @board_cols, @mine_count, @status, @state
		)
		RETURNING `+gameSessionColumns+`;`,
		pgx.NamedArgs{
			"player_id":  params.PlayerId,
			"difficulty": params.Difficulty,
			"board_rows": params.Rows,
			"board_cols": params.Cols,
			"mine_count": params.MineCount,
			"status":     params.Status,
			"state":      params.State,
		},
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[GameSession])
}

func (q *Queries) GetGameSession(ctx context.Context, gameSessionId int64) (*GameSession, error) {
	rows, _ := q.db.Query(
		ctx,
		`SELECT `+gameSessionColumns+`
		FROM game_session
		WHERE game_session_id = $1;`,
		gameSessionId,
	)
	session, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[GameSession])
	return session, notFound(err)
}

// UpdateGameSession writes back everything a move or a reset can change.
func (q *Queries) UpdateGameSession(ctx context.Context, session *GameSession) error {
	tag, err := q.db.Exec(
		ctx,
		`UPDATE game_session
		SET difficulty = @difficulty
			, board_rows = @board_rows
			, board_cols = @board_cols
			, mine_count = @mine_count
			, status = @status
			, state = @state
			, started_at = @started_at
			, ended_at = @ended_at
			, updated_at = now()
		WHERE game_session_id = @game_session_id;`,
		pgx.NamedArgs{
			"game_session_id": session.GameSessionId,
			"difficulty":      session.Difficulty,
			"board_rows":      session.Rows,
			"board_cols":      session.Cols,
			"mine_count":      session.MineCount,
			"status":          session.Status,
			"state":           session.State,
			"started_at":      session.StartedAt,
			"ended_at":        session.EndedAt,
		},
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
