package handlers

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/repository"
)

// Maps known commands to number of arguments
var commandNargs = map[string]int{
	"g": 0,
	"r": 2,
	"f": 2,
	"n": 0,
}

type command struct {
	name     string
	row, col int
}

func iterBySep(s string, sep string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		i := 0
		found := true
		var piece string
		for found {
			piece, s, found = strings.Cut(s, sep)
			if !yield(i, piece) {
				return
			}
			i += 1
		}
	}
}

func parseRowCol(twoStrings []string) (row int, col int, err error) {
	if row, err = strconv.Atoi(twoStrings[0]); err != nil {
		err = fmt.Errorf("first argument must be an int")
		return
	}
	if col, err = strconv.Atoi(twoStrings[1]); err != nil {
		err = fmt.Errorf("second argument must be an int")
		return
	}
	return
}

func parseCommand(line string) (command, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return command{}, fmt.Errorf("empty command")
	}
	nargs, ok := commandNargs[parts[0]]
	if !ok {
		return command{}, fmt.Errorf("unknown command %q", parts[0])
	}
	if nargs != len(parts)-1 {
		return command{}, fmt.Errorf("invalid number of arguments for %q", parts[0])
	}
	c := command{name: parts[0]}
	if nargs == 2 {
		row, col, err := parseRowCol(parts[1:])
		if err != nil {
			return command{}, err
		}
		c.row, c.col = row, col
	}
	return c, nil
}

func (g *GameHandler) execute(
	session *repository.GameSession, game *mines.Game, c command,
) error {
	switch c.name {
	case "g":
		return nil
	case "r":
		_, err := game.Reveal(c.row, c.col)
		return err
	case "f":
		game.ToggleFlag(c.row, c.col)
		return nil
	case "n":
		_, err := g.reset(session, game, ConfigDTO{})
		return err
	}
	return fmt.Errorf("invalid command")
}

// play runs the lines of one message in order. Every move is saved on its
// own, so a game that ends halfway through a message is still recorded.
// A rejected command stops the message; err reports a failed save.
func (g *GameHandler) play(
	ctx context.Context, session *repository.GameSession, game *mines.Game, text string,
) (rejected error, err error) {
	for _, line := range iterBySep(text, "\n") {
		cmd, err := parseCommand(line)
		if err != nil {
			return err, nil
		}
		if cmd.name == "g" {
			continue
		}
		before := game.Snapshot()
		if err := g.execute(session, game, cmd); err != nil {
			return err, nil
		}
		if err := g.save(ctx, session, game, before); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// ConnectWS plays a session over a websocket. Every text message holds one
// command per line and is answered with the session. The session is read
// again for each message, so moves made over HTTP meanwhile are kept.
func (g *GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	session, _, ok := g.load(w, r, true)
	if !ok {
		return
	}
	id := session.GameSessionId

	c, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.WithError(err).Error("unable to upgrade")
		return
	}
	defer c.Close()

	log := g.log.WithField("game_session_id", id)
	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Warn("abnormal ws break")
			}
			break
		}
		if mt != websocket.TextMessage {
			break
		}
		text := strings.TrimSpace(string(message))
		log.Debugf("\t> %s", text)

		session, game, err := g.fetch(r.Context(), id)
		if err != nil {
			log.WithError(err).Error("unable to load game session")
			break
		}

		rejected, err := g.play(r.Context(), session, game, text)
		if err != nil {
			log.WithError(err).Error("unable to update game session")
			break
		}

		var reply any = NewGameSessionDTO(session, game.Snapshot())
		if rejected != nil {
			if !errors.Is(rejected, mines.ErrInfeasiblePlacement) {
				log.WithError(rejected).Debug("rejected command")
			}
			reply = wrapError(rejected)
		}
		if err := c.WriteJSON(reply); err != nil {
			log.WithError(err).Error("unable to write")
			break
		}
	}
}
