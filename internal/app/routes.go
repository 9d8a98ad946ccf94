package app

import (
	"hash/maphash"
	"math/rand/v2"

	"github.com/vancomm/minesweeper-engine/internal/handlers"
)

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

// randSource hands every request its own generator. A configured seed makes
// mine placement reproducible.
func (a *App) randSource() func() *rand.Rand {
	if seed := a.config.Game.Seed; seed != nil {
		return func() *rand.Rand {
			return rand.New(rand.NewPCG(*seed, *seed))
		}
	}
	return createRand
}

func (a *App) loadRoutes() {
	game := handlers.NewGameHandler(
		a.log, a.queries, handlers.LogOutcomes{Log: a.log}, a.randSource(),
	)
	players := handlers.NewAuthHandler(a.log, a.queries, a.cookies)

	a.router.HandleFunc("POST /v1/game", game.NewGame)
	a.router.HandleFunc("GET /v1/game/{id}", game.Fetch)
	a.router.HandleFunc("POST /v1/game/{id}/reveal", game.Reveal)
	a.router.HandleFunc("POST /v1/game/{id}/flag", game.Flag)
	a.router.HandleFunc("POST /v1/game/{id}/reset", game.Reset)
	a.router.HandleFunc("GET /v1/game/{id}/connect", game.ConnectWS)

	a.router.HandleFunc("POST /v1/register", players.Register)
	a.router.HandleFunc("POST /v1/login", players.Login)
	a.router.HandleFunc("POST /v1/logout", players.Logout)
	a.router.HandleFunc("GET /v1/status", players.Status)
}
