package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-engine/internal/auth"
)

type CtxKey int

const (
	CtxPlayerClaims CtxKey = iota
)

// Auth puts the claims of a logged in player into the request context.
// Requests with broken or expired cookies continue anonymously and get
// their cookies cleared.
func Auth(log logrus.FieldLogger, cookies *auth.Cookies) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := cookies.ParsePlayerClaims(r)
			if errors.Is(err, http.ErrNoCookie) {
				h.ServeHTTP(w, r)
				return
			}
			if err != nil {
				log.WithError(err).Debug("dropping player cookies")
				cookies.Clear(w)
				h.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), CtxPlayerClaims, claims)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func PlayerClaims(ctx context.Context) (*auth.PlayerClaims, bool) {
	claims, ok := ctx.Value(CtxPlayerClaims).(*auth.PlayerClaims)
	return claims, ok
}

// WithPlayerClaims is used by tests and handlers that authenticate a player
// within the request.
func WithPlayerClaims(ctx context.Context, claims *auth.PlayerClaims) context.Context {
	return context.WithValue(ctx, CtxPlayerClaims, claims)
}
