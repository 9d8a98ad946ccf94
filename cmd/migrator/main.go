package main

import (
	"flag"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-engine/internal/config"
	"github.com/vancomm/minesweeper-engine/internal/database"
	"github.com/vancomm/minesweeper-engine/internal/logging"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "c", "/run/config.json", "config file path")
	flag.Parse()

	c, err := config.Read(configPath)
	if err != nil {
		logrus.Fatal(err)
	}
	log, err := logging.New(c.Log, c.Development())
	if err != nil {
		logrus.Fatal(err)
	}

	url, err := c.Postgres.DbUrl()
	if err != nil {
		log.Fatal("unable to build database url: ", err)
	}
	migrator, err := database.Migrate(url)
	if err != nil {
		log.Fatal(err)
	}
	defer migrator.Close()

	version, dirty, err := migrator.Version()
	if err != nil {
		log.WithError(err).Error("failed to check migration version")
		return
	}
	log.WithFields(logrus.Fields{
		"version": version,
		"dirty":   dirty,
	}).Info("migration successful")
}
