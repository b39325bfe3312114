package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("DB_USER", "prospector")
	t.Setenv("DB_NAME", "leads")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "remodeling_colorado", cfg.Profile.Name)
	assert.Equal(t, 30, cfg.Scanner.IntervalMinutes)
	assert.Equal(t, 5*time.Minute, cfg.Dispatcher.BaseDelay)
	assert.Equal(t, 60*time.Second, cfg.Dispatcher.Jitter)
	assert.Equal(t, 30*time.Second, cfg.Dispatcher.IdleInterval)
	assert.Contains(t, cfg.Scanner.Collectors, "reddit")
}

func TestLoadConfigFileAndEnvOverride(t *testing.T) {
	dir := chdirTemp(t)
	doc := `
database:
  driver: sqlite
  path: test.db
profile:
  name: precious_metals
dispatcher:
  base_delay: 2m
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(doc), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SERVER_PORT=9090\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("SERVER_PORT") })
	t.Setenv("INDUSTRY_PROFILE", "remodeling_colorado")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "test.db", cfg.Database.GetDSN())
	assert.Equal(t, "remodeling_colorado", cfg.Profile.Name)
	assert.Equal(t, 2*time.Minute, cfg.Dispatcher.BaseDelay)
	assert.Equal(t, "9090", cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:     ServerConfig{Port: "8080"},
			Database:   DatabaseConfig{Driver: "sqlite", Path: ":memory:"},
			Log:        LogConfig{Level: "info", Format: "json"},
			Profile:    ProfileConfig{Name: "precious_metals"},
			Scanner:    ScannerConfig{IntervalMinutes: 10},
			Dispatcher: DispatcherConfig{IdleInterval: time.Second, PostTimeout: time.Second},
		}
	}

	cfg := valid()
	assert.NoError(t, cfg.Validate())

	cfg = valid()
	cfg.Database.Driver = "postgres"
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Database = DatabaseConfig{Driver: "mysql", Host: "localhost"}
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Scanner.IntervalMinutes = 0
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Mailbox.Enabled = true
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Dispatcher.BaseDelay = -time.Second
	assert.Error(t, cfg.Validate())
}

func TestGetDSNMySQL(t *testing.T) {
	c := DatabaseConfig{Driver: "mysql", User: "u", Password: "p", Host: "db", Port: 3306, DBName: "leads"}
	assert.Equal(t, "u:p@tcp(db:3306)/leads?charset=utf8mb4&parseTime=True&loc=Local", c.GetDSN())
}

func TestRedditHasCredentials(t *testing.T) {
	assert.False(t, RedditConfig{ClientID: "id"}.HasCredentials())
	assert.True(t, RedditConfig{ClientID: "id", ClientSecret: "s", Username: "u", Password: "p"}.HasCredentials())
}
