package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("USERDESK_CONFIG", "")
	t.Setenv("USERDESK_DB_PATH", filepath.Join(t.TempDir(), "userdesk.db"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/", cfg.BasePath)
	assert.Equal(t, SessionStoreCookie, cfg.Session.Store)
	assert.Equal(t, DatabaseTypeSQLite, cfg.Database.Type)
	assert.Equal(t, ":8080", cfg.ListenAddr())
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "userdesk.toml")
	content := `
port = 9000
base_path = "api"
log_level = "warn"

[session]
store = "redis"
cookie_key = "0123456789abcdef0123456789abcdef"

[database]
type = "postgres"

[database.postgres]
host = "db.internal"
port = 5433
database = "users"
username = "svc"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("USERDESK_CONFIG", path)
	t.Setenv("USERDESK_PORT", "9100")
	t.Setenv("POSTGRES_PASSWORD", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "/api/", cfg.BasePath)
	assert.Equal(t, Warn, cfg.LogLevel)
	assert.Equal(t, SessionStoreRedis, cfg.Session.Store)
	assert.True(t, cfg.Database.IsPostgreSQL())
	assert.Equal(t, "db.internal", cfg.Database.Postgres.Host)
	assert.Equal(t, 5433, cfg.Database.Postgres.Port)
	assert.Equal(t, "secret", cfg.Database.Postgres.Password)
	assert.Contains(t, cfg.Database.GetDSN(), "host=db.internal")
	assert.Contains(t, cfg.Database.GetDSN(), "dbname=users")
}

func TestUsesDefaultCookieKey(t *testing.T) {
	t.Setenv("USERDESK_CONFIG", "")
	t.Setenv("USERDESK_COOKIE_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.UsesDefaultCookieKey())

	t.Setenv("USERDESK_COOKIE_KEY", "0123456789abcdef0123456789abcdef")
	cfg, err = Load()
	require.NoError(t, err)
	assert.False(t, cfg.UsesDefaultCookieKey())
	assert.Equal(t, "0123456789abcdef0123456789abcdef", cfg.Session.CookieKey)
}

func TestLoadRejectsBadInt(t *testing.T) {
	t.Setenv("USERDESK_CONFIG", "")
	t.Setenv("USERDESK_PORT", "eighty")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{
			name:    "defaults",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "short cookie key",
			modify:  func(c *Config) { c.Session.CookieKey = "short" },
			wantErr: true,
		},
		{
			name:    "unknown session store",
			modify:  func(c *Config) { c.Session.Store = "memcached" },
			wantErr: true,
		},
		{
			name:    "port out of range",
			modify:  func(c *Config) { c.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "unknown log level",
			modify:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: true,
		},
		{
			name:    "too few hash rounds",
			modify:  func(c *Config) { c.HashRounds = 10 },
			wantErr: true,
		},
		{
			name:    "unknown database",
			modify:  func(c *Config) { c.Database.Type = "mysql" },
			wantErr: true,
		},
		{
			name: "postgres without host",
			modify: func(c *Config) {
				c.Database.Type = DatabaseTypePostgreSQL
				c.Database.Postgres.Host = ""
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBuildInfo(t *testing.T) {
	assert.Equal(t, "userdesk", GetName())
	assert.NotEmpty(t, GetVersion())
}
