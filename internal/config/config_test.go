package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_HOST", "")
	t.Setenv("EVENTS_SINK", "")
	t.Setenv("OCCUPANCY_MAX_ACTIVE", "")

	cfg := Load()

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, EventSinkNone, cfg.Events.Sink)
	assert.Equal(t, 5, cfg.Occupancy.MaxActive)
	assert.Equal(t, byte(1), cfg.MQTT.QoS)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("DB_ENABLED", "false")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("EVENTS_SINK", EventSinkRedis)
	t.Setenv("OCCUPANCY_MAX_ACTIVE", "3")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.False(t, cfg.DBEnabled)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, EventSinkRedis, cfg.Events.Sink)
	assert.Equal(t, 3, cfg.Occupancy.MaxActive)
}

func TestLoad_InvalidOccupancyFallsBack(t *testing.T) {
	t.Setenv("OCCUPANCY_MAX_ACTIVE", "-2")
	assert.Equal(t, 5, Load().Occupancy.MaxActive)

	t.Setenv("OCCUPANCY_MAX_ACTIVE", "lots")
	assert.Equal(t, 5, Load().Occupancy.MaxActive)
}
