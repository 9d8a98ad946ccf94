package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper-engine/internal/auth"
	"github.com/vancomm/minesweeper-engine/internal/config"
	"github.com/vancomm/minesweeper-engine/internal/middleware"
	"github.com/vancomm/minesweeper-engine/internal/repository"
)

const shutdownTimeout = 30 * time.Second

type App struct {
	log     *logrus.Logger
	config  *config.Config
	queries *repository.Queries
	cookies *auth.Cookies
	router  *http.ServeMux
}

func New(log *logrus.Logger, c *config.Config, db repository.DBTX, j *auth.JWT) *App {
	a := &App{
		log:     log,
		config:  c,
		queries: repository.New(db),
		cookies: auth.NewCookies(j, c.Domain, c.Production(), c.HttpCookieSameSite()),
		router:  http.NewServeMux(),
	}
	a.loadRoutes()
	return a
}

func (a *App) Handler() http.Handler {
	return middleware.Wrap(
		a.router,
		middleware.Auth(a.log, a.cookies),
		middleware.Cors(a.config.Development(), a.config.Domain),
		middleware.Logging(a.log),
	)
}

// Run serves until ctx is done, then gives open requests a grace period to
// finish.
func (a *App) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    a.config.Addr,
		Handler: a.Handler(),
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.WithField("addr", a.config.Addr).Info("server listening")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(ctx)
	})
	return g.Wait()
}
