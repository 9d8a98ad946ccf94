package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-engine/internal/app"
	"github.com/vancomm/minesweeper-engine/internal/auth"
	"github.com/vancomm/minesweeper-engine/internal/config"
	"github.com/vancomm/minesweeper-engine/internal/database"
	"github.com/vancomm/minesweeper-engine/internal/logging"
	"github.com/vancomm/minesweeper-engine/internal/mines"
)

var (
	configPath string
	migrate    bool
)

func init() {
	const (
		defaultConfigPath = "/run/config.json"
		usage             = "config file path"
	)
	flag.StringVar(&configPath, "config", defaultConfigPath, usage)
	flag.StringVar(&configPath, "c", defaultConfigPath, usage+" (shorthand)")
	flag.BoolVar(&migrate, "migrate", true, "apply database migrations on start")
}

func main() {
	flag.Parse()

	log := logrus.New()

	c, err := config.Read(configPath)
	if err != nil {
		log.Fatal(err)
	}

	log, err = logging.New(c.Log, c.Development())
	if err != nil {
		logrus.Fatal(err)
	}
	log.WithFields(c.Fields()).Debug("loaded config")
	mines.Log = log

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	j, err := auth.LoadJWT(c.Jwt)
	if err != nil {
		log.Fatal(err)
	}

	url, err := c.Postgres.DbUrl()
	if err != nil {
		log.Fatal("unable to build database url: ", err)
	}
	connect := database.Connect
	if migrate {
		connect = database.ConnectAndMigrate
	}
	pool, err := connect(ctx, url)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	if err := app.New(log, c, pool, j).Run(ctx); err != nil {
		log.Error("server stopped: ", err)
	}
}
