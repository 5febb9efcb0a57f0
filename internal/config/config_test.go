package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  host: localhost
  name: attendance
  user: att
  password: secret
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, 5432, cfg.Database.Port)
	require.Equal(t, 0.5, cfg.Vision.MatchTolerance)
	require.Equal(t, 0.25, cfg.Liveness.EARThreshold)
	require.Equal(t, 3, cfg.Liveness.ConsecFrames)
	require.Equal(t, 5*time.Second, cfg.Liveness.Timeout)
	require.Equal(t, 5*time.Second, cfg.Attendance.Cooldown)
	require.Equal(t, 24*time.Hour, cfg.Attendance.Lookback)
	require.Equal(t, 10*time.Minute, cfg.Attendance.MinPresence)
	require.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadParsesValues(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  api_key: sekrit
attendance:
  cooldown: 10s
  min_presence: 15m
liveness:
  ear_threshold: 0.3
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "sekrit", cfg.Server.APIKey)
	require.Equal(t, 10*time.Second, cfg.Attendance.Cooldown)
	require.Equal(t, 15*time.Minute, cfg.Attendance.MinPresence)
	require.Equal(t, 0.3, cfg.Liveness.EARThreshold)
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
database:
  host: confighost
`)

	t.Setenv("ATT_SERVER_PORT", "7070")
	t.Setenv("ATT_DB_HOST", "envhost")
	t.Setenv("ATT_COOLDOWN", "30s")

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 7070, cfg.Server.Port)
	require.Equal(t, "envhost", cfg.Database.Host)
	require.Equal(t, 30*time.Second, cfg.Attendance.Cooldown)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5433, Name: "att", User: "u", Password: "p"}
	require.Equal(t, "postgres://u:p@db:5433/att?sslmode=disable", d.DSN())
}
