package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseConfig_LoadFromEnv(t *testing.T) {
	t.Setenv("TESTDB_HOST", "db")
	t.Setenv("TESTDB_PORT", "6000")
	t.Setenv("TESTDB_NAME", "apartments")
	t.Setenv("TESTDB_MAX_CONNS", "not-a-number")

	cfg := &DatabaseConfig{Host: "localhost", Port: 5432, SSLMode: "disable", MaxConns: 10}
	cfg.LoadFromEnv("TESTDB")

	assert.Equal(t, "db", cfg.Host)
	assert.Equal(t, 6000, cfg.Port)
	assert.Equal(t, "apartments", cfg.Database)
	assert.Equal(t, 10, cfg.MaxConns)
	assert.Equal(t, "host=db port=6000 user= password= dbname=apartments sslmode=disable", cfg.GetDSN())
}

func TestMQTTConfig_LoadFromEnv_RejectsBadQoS(t *testing.T) {
	t.Setenv("TESTMQTT_BROKER", "tcp://broker:1883")
	t.Setenv("TESTMQTT_QOS", "7")

	cfg := &MQTTConfig{QoS: 1}
	cfg.LoadFromEnv("TESTMQTT")

	assert.Equal(t, "tcp://broker:1883", cfg.Broker)
	assert.Equal(t, byte(1), cfg.QoS)
}
