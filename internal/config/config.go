package config

import (
	"os"
	"strconv"

	commoncfg "apartment-data/common/config"

	"github.com/joho/godotenv"
)

// Event sinks
const (
	EventSinkNone  = "none"
	EventSinkRedis = "redis"
	EventSinkMQTT  = "mqtt"
)

// Config apartment-data (HTTP API) settings
type Config struct {
	HTTP struct {
		Addr string
	}
	DBEnabled bool
	Database  commoncfg.DatabaseConfig
	Redis     commoncfg.RedisConfig
	MQTT      commoncfg.MQTTConfig
	Events    struct {
		Sink         string // none | redis | mqtt
		Stream       string
		StreamMaxLen int64
		TopicPrefix  string
	}
	Log struct {
		Level  string
		Format string
	}
	Occupancy struct {
		MaxActive int
	}
}

// Load reads the environment, primed from .env when one exists.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	// Without a reachable database the server falls back to the in-memory store.
	cfg.DBEnabled = getEnv("DB_ENABLED", "true") == "true"
	cfg.Database.Host = "localhost"
	cfg.Database.Port = 5432
	cfg.Database.User = "postgres"
	cfg.Database.Password = "postgres"
	cfg.Database.Database = "apartments"
	cfg.Database.SSLMode = "disable"
	cfg.Database.MaxConns = 10
	cfg.Database.MaxIdle = 5
	cfg.Database.LoadFromEnv("DB")

	cfg.Redis.Addr = "localhost:6379"
	cfg.Redis.LoadFromEnv("REDIS")

	cfg.MQTT.Broker = "tcp://localhost:1883"
	cfg.MQTT.ClientID = "apartment-data"
	cfg.MQTT.QoS = 1
	cfg.MQTT.LoadFromEnv("MQTT")

	cfg.Events.Sink = getEnv("EVENTS_SINK", EventSinkNone)
	cfg.Events.Stream = getEnv("EVENTS_STREAM", "apartment:events")
	cfg.Events.StreamMaxLen = int64(parseInt(getEnv("EVENTS_STREAM_MAXLEN", "10000"), 10000))
	cfg.Events.TopicPrefix = getEnv("EVENTS_TOPIC_PREFIX", "apartment-data/events")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.Occupancy.MaxActive = parseInt(getEnv("OCCUPANCY_MAX_ACTIVE", "5"), 5)
	if cfg.Occupancy.MaxActive <= 0 {
		cfg.Occupancy.MaxActive = 5
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
