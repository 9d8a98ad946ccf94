package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

type PostgresConfig struct {
	Host         string `json:"host"`
	Port         uint16 `json:"port"`
	User         string `json:"user"`
	Password     string `json:"password"`
	PasswordFile string `json:"password_file"`
	DbName       string `json:"db_name"`
	SSLMode      string `json:"ssl_mode"`
}

func (p PostgresConfig) password() (string, error) {
	if p.Password != "" || p.PasswordFile == "" {
		return p.Password, nil
	}
	data, err := os.ReadFile(p.PasswordFile)
	if err != nil {
		return "", fmt.Errorf("unable to read from password file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// DbUrl prefers the DATABASE_URL env variable over the postgres section.
func (p PostgresConfig) DbUrl() (string, error) {
	if dbURL, ok := os.LookupEnv("DATABASE_URL"); ok {
		return dbURL, nil
	}
	if p.Host == "" || p.User == "" || p.DbName == "" {
		return "", fmt.Errorf("no DATABASE_URL env variable set and postgres config is incomplete")
	}
	password, err := p.password()
	if err != nil {
		return "", err
	}
	sslMode := p.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	port := p.Port
	if port == 0 {
		port = 5432
	}
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(p.User),
		url.QueryEscape(password),
		p.Host,
		port,
		p.DbName,
		sslMode,
	), nil
}
