package main

import (
	"context"
	"database/sql"
	"os/signal"
	"syscall"
	"time"

	"apartment-data/common/database"
	"apartment-data/common/logger"
	mqttcommon "apartment-data/common/mqtt"
	rediscommon "apartment-data/common/redis"
	"apartment-data/internal/config"
	"apartment-data/internal/events"
	httpapi "apartment-data/internal/http"
	"apartment-data/internal/repository"
	"apartment-data/internal/service"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "apartment-data")
	if err != nil {
		log = zap.NewExample()
		log.Warn("Falling back to example logger", zap.Error(err))
	}
	defer log.Sync()

	var (
		apartments repository.ApartmentsRepository
		flats      repository.FlatsRepository
		residents  repository.ResidentsRepository
		db         *sql.DB
	)
	if cfg.DBEnabled {
		if d, err := database.NewPostgresDB(&cfg.Database); err == nil {
			db = d
			log.Info("DB enabled for apartment-data", zap.String("host", cfg.Database.Host), zap.String("database", cfg.Database.Database))
		} else {
			log.Warn("DB enabled but connection failed, falling back to memory store", zap.Error(err))
		}
	}
	if db != nil {
		apartments = repository.NewPostgresApartmentsRepository(db)
		flats = repository.NewPostgresFlatsRepository(db)
		residents = repository.NewPostgresResidentsRepository(db)
	} else {
		mem := repository.NewMemoryRepo()
		apartments, flats, residents = mem, mem, mem
	}

	publisher, closePublisher := newPublisher(cfg, log)
	defer closePublisher()

	opts := []service.Option{
		service.WithPublisher(publisher),
		service.WithMaxActiveResidents(cfg.Occupancy.MaxActive),
	}
	apartmentSvc := service.NewApartmentService(apartments, flats, log, opts...)
	flatSvc := service.NewFlatService(flats, apartments, log, opts...)
	residentSvc := service.NewResidentService(residents, flats, log, opts...)

	router := httpapi.NewRouter(log)
	router.RegisterApartmentRoutes(httpapi.NewApartmentHandler(apartmentSvc, flatSvc, log))
	router.RegisterFlatRoutes(httpapi.NewFlatHandler(flatSvc, log))
	router.RegisterResidentRoutes(httpapi.NewResidentHandler(residentSvc, log))

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	_ = waitForShutdown(ctx, errCh, log)
	stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	if db != nil {
		_ = database.Close(db)
	}
}

// waitForShutdown blocks until ctx is cancelled or the server exits and
// returns the server error, if any.
func waitForShutdown(ctx context.Context, errCh <-chan error, log *zap.Logger) error {
	select {
	case <-ctx.Done():
		log.Info("Shutting down")
		return nil
	case err := <-errCh:
		if err != nil {
			log.Error("HTTP server failed", zap.Error(err))
		}
		return err
	}
}

// newPublisher builds the configured event sink. A sink that cannot be
// reached degrades to dropping events rather than blocking startup.
func newPublisher(cfg *config.Config, log *zap.Logger) (events.Publisher, func()) {
	switch cfg.Events.Sink {
	case config.EventSinkRedis:
		client := rediscommon.NewRedisClient(&cfg.Redis)
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rediscommon.Ping(pingCtx, client); err != nil {
			log.Warn("Redis unavailable, events disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			_ = rediscommon.Close(client)
			return events.NopPublisher{}, func() {}
		}
		log.Info("Publishing events to Redis Streams", zap.String("stream", cfg.Events.Stream))
		return events.NewRedisStreamPublisher(client, cfg.Events.Stream, cfg.Events.StreamMaxLen, log),
			func() { _ = rediscommon.Close(client) }
	case config.EventSinkMQTT:
		client, err := mqttcommon.NewClient(&cfg.MQTT, log)
		if err != nil {
			log.Warn("MQTT unavailable, events disabled", zap.String("broker", cfg.MQTT.Broker), zap.Error(err))
			return events.NopPublisher{}, func() {}
		}
		log.Info("Publishing events to MQTT",
			zap.String("topic_prefix", cfg.Events.TopicPrefix), zap.Bool("connected", client.IsConnected()))
		return events.NewMQTTPublisher(client, cfg.Events.TopicPrefix, log), client.Disconnect
	default:
		return events.NopPublisher{}, func() {}
	}
}
