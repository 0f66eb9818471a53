package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FromYAML(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
  read_timeout: 5
database:
  driver: sqlite
  database: conduit.db
jwt:
  secret: yaml-secret
  expire_time: 2
`)

	conf, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, conf.Server.Port)
	assert.Equal(t, 5*time.Second, conf.Server.ReadTimeout)
	assert.Equal(t, "sqlite", conf.Database.Driver)
	assert.Equal(t, "conduit.db", conf.Database.Database)
	assert.Equal(t, "yaml-secret", conf.JWT.Secret)
	assert.Equal(t, 2, conf.JWT.ExpireTime)
	assert.Equal(t, 1000, conf.Article.MaxListLimit)
	assert.Equal(t, "json", conf.Log.Format)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: sqlite
  max_open_conns: 5
jwt:
  secret: yaml-secret
`)
	t.Setenv("CONDUIT_JWT_SECRET", "env-secret")
	t.Setenv("CONDUIT_DATABASE_MAX_OPEN_CONNS", "42")
	t.Setenv("CONDUIT_ARTICLE_MAX_LIST_LIMIT", "50")

	conf, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-secret", conf.JWT.Secret)
	assert.Equal(t, 42, conf.Database.MaxOpenConns)
	assert.Equal(t, 50, conf.Article.MaxListLimit)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
jwt:
  secret: s
`)

	conf, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, conf.Server.Port)
	assert.Equal(t, "postgres", conf.Database.Driver)
	assert.Equal(t, 24, conf.JWT.ExpireTime)
	assert.Equal(t, ":8080", conf.Addr())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "缺少 jwt.secret", content: "server:\n  port: 1\n"},
		{name: "未知数据库驱动", content: "jwt:\n  secret: s\ndatabase:\n  driver: oracle\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
