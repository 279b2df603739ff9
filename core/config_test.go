package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("TEST_DATABASE_ENGINE", EnginePostgres)
	t.Setenv("TEST_DATABASE_PORT", "6543")
	t.Setenv("TEST_SERVER_ADDRESS", ":9000")

	conf := NewConfig()
	assert.Equal(t, "TEST", conf.Env)
	assert.True(t, conf.TestMode)
	assert.Equal(t, ":9000", conf.Server.Address)
	assert.Equal(t, 5*time.Second, conf.Server.ShutdownTimeout)
	assert.Equal(t, EnginePostgres, conf.Database.Engine)
	assert.Equal(t, "localhost:6543", conf.Database.Address())
	assert.Equal(t, "Gradebook[env=TEST build=develop db=postgres]", conf.String())
}

func TestNewConfig_defaults(t *testing.T) {
	t.Setenv("ENV", "")

	conf := NewConfig()
	assert.Equal(t, "DEV", conf.Env)
	assert.True(t, conf.Debug)
	assert.False(t, conf.TestMode)
	assert.Equal(t, EngineSQLite, conf.Database.Engine)
	assert.Equal(t, "data/results.db", conf.Database.Path)
}
