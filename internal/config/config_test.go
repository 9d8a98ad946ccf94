package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadDefaults(t *testing.T) {
	config, err := Read(writeConfig(t, `{}`))
	require.NoError(t, err)
	assert.Equal(t, ":8080", config.Addr)
	assert.True(t, config.Production())
	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, 24*time.Hour, config.Jwt.TokenLifetime.Duration)
	assert.Nil(t, config.Game.Seed)
}

func TestRead(t *testing.T) {
	config, err := Read(writeConfig(t, `{
		"mode": "development",
		"addr": "localhost:8000",
		"log": {"level": "debug", "file": "/tmp/mines.log"},
		"postgres": {"host": "db", "port": 5433, "user": "mines", "password": "p@ss", "db_name": "mines"},
		"jwt": {"token_lifetime": "1h30m", "private_key_path": "a.pem", "public_key_path": "b.pem"},
		"game": {"seed": 42}
	}`))
	require.NoError(t, err)
	assert.True(t, config.Development())
	assert.Equal(t, "localhost:8000", config.Addr)
	assert.Equal(t, 90*time.Minute, config.Jwt.TokenLifetime.Duration)
	require.NotNil(t, config.Game.Seed)
	assert.Equal(t, uint64(42), *config.Game.Seed)
	assert.Equal(t, 3, config.Log.MaxBackups, "unset fields keep defaults")

	fields := config.Fields()
	assert.Equal(t, "db", fields["pg_host"])
	assert.NotContains(t, fields, "pg_password")
}

func TestReadErrors(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = Read(writeConfig(t, `{"addr": 8080}`))
	assert.Error(t, err)

	_, err = Read(writeConfig(t, `{"addr": ""}`))
	assert.Error(t, err)

	_, err = Read(writeConfig(t, `{"jwt": {"token_lifetime": true}}`))
	assert.Error(t, err)
}

func TestDuration(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`"2s"`), &d))
	assert.Equal(t, 2*time.Second, d.Duration)

	require.NoError(t, json.Unmarshal([]byte(`1000`), &d))
	assert.Equal(t, time.Microsecond, d.Duration)

	b, err := json.Marshal(Duration{time.Minute})
	require.NoError(t, err)
	assert.Equal(t, `"1m0s"`, string(b))
}

func TestDbUrl(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	os.Unsetenv("DATABASE_URL")

	p := PostgresConfig{Host: "db", User: "mines", Password: "p@ss word", DbName: "mines"}
	u, err := p.DbUrl()
	require.NoError(t, err)
	assert.Equal(t, "postgresql://mines:p%40ss+word@db:5432/mines?sslmode=disable", u)

	_, err = PostgresConfig{Host: "db"}.DbUrl()
	assert.Error(t, err)

	passwordFile := filepath.Join(t.TempDir(), "pw")
	require.NoError(t, os.WriteFile(passwordFile, []byte("secret\n"), 0o600))
	p = PostgresConfig{Host: "db", Port: 6543, User: "u", PasswordFile: passwordFile, DbName: "d", SSLMode: "require"}
	u, err = p.DbUrl()
	require.NoError(t, err)
	assert.Equal(t, "postgresql://u:secret@db:6543/d?sslmode=require", u)

	t.Setenv("DATABASE_URL", "postgres://override")
	u, err = p.DbUrl()
	require.NoError(t, err)
	assert.Equal(t, "postgres://override", u)
}
