package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-engine/internal/auth"
	"github.com/vancomm/minesweeper-engine/internal/middleware"
	"github.com/vancomm/minesweeper-engine/internal/repository"
)

var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrBadCredentials     = errors.New("invalid username or password")
)

type PlayerStore interface {
	CreatePlayer(ctx context.Context, username string, passwordHash []byte) (*repository.Player, error)
	GetPlayer(ctx context.Context, username string) (*repository.Player, error)
}

type AuthHandler struct {
	log     logrus.FieldLogger
	store   PlayerStore
	cookies *auth.Cookies
}

func NewAuthHandler(log logrus.FieldLogger, store PlayerStore, cookies *auth.Cookies) *AuthHandler {
	return &AuthHandler{log: log, store: store, cookies: cookies}
}

type credentials struct {
	Username string `schema:"username,required"`
	Password string `schema:"password,required"`
}

func parseCredentials(r *http.Request) (credentials, error) {
	var c credentials
	if err := r.ParseForm(); err != nil {
		return c, err
	}
	if err := decoder.Decode(&c, r.Form); err != nil {
		return c, ErrMissingCredentials
	}
	if c.Username == "" || c.Password == "" {
		return c, ErrMissingCredentials
	}
	return c, nil
}

type statusDTO struct {
	LoggedIn bool   `json:"logged_in"`
	PlayerId *int64 `json:"player_id,omitempty"`
	Username string `json:"username,omitempty"`
}

func (a *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	creds, err := parseCredentials(r)
	if err != nil {
		sendError(w, a.log, http.StatusBadRequest, err)
		return
	}

	hash, err := auth.HashPassword(creds.Password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		sendError(w, a.log, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		internalError(w, a.log, "unable to hash password", err)
		return
	}

	player, err := a.store.CreatePlayer(r.Context(), creds.Username, hash)
	if errors.Is(err, repository.ErrUsernameTaken) {
		sendError(w, a.log, http.StatusConflict, err)
		return
	}
	if err != nil {
		internalError(w, a.log, "unable to insert player", err)
		return
	}

	a.issue(w, player)
}

func (a *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	creds, err := parseCredentials(r)
	if err != nil {
		sendError(w, a.log, http.StatusBadRequest, err)
		return
	}

	player, err := a.store.GetPlayer(r.Context(), creds.Username)
	if errors.Is(err, repository.ErrNotFound) {
		sendError(w, a.log, http.StatusUnauthorized, ErrBadCredentials)
		return
	}
	if err != nil {
		internalError(w, a.log, "unable to fetch player", err)
		return
	}
	if !auth.CheckPassword(player.PasswordHash, creds.Password) {
		sendError(w, a.log, http.StatusUnauthorized, ErrBadCredentials)
		return
	}

	a.issue(w, player)
}

func (a *AuthHandler) issue(w http.ResponseWriter, player *repository.Player) {
	if err := a.cookies.Issue(w, player.PlayerId, player.Username); err != nil {
		internalError(w, a.log, "unable to set auth cookies", err)
		return
	}
	a.log.WithField("player", player.Username).Debug("issued player cookies")
	sendJSONOrLog(w, a.log, statusDTO{
		LoggedIn: true,
		PlayerId: &player.PlayerId,
		Username: player.Username,
	})
}

func (a *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	a.cookies.Clear(w)
	sendJSONOrLog(w, a.log, statusDTO{})
}

func (a *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.PlayerClaims(r.Context())
	if !ok {
		sendJSONOrLog(w, a.log, statusDTO{})
		return
	}
	sendJSONOrLog(w, a.log, statusDTO{
		LoggedIn: true,
		PlayerId: &claims.PlayerId,
		Username: claims.Username,
	})
}
