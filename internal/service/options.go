package service

import (
	"context"
	"fmt"
	"time"

	"apartment-data/internal/domain"
	"apartment-data/internal/events"

	"go.uber.org/zap"
)

// Option customizes a service at construction.
type Option func(*options)

type options struct {
	now       func() time.Time
	publisher events.Publisher
	maxActive int
}

func defaultOptions() options {
	return options{
		now:       time.Now,
		publisher: events.NopPublisher{},
		maxActive: domain.MaxActiveResidentsPerFlat,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithPublisher sets the sink for lifecycle events.
func WithPublisher(p events.Publisher) Option {
	return func(o *options) {
		if p != nil {
			o.publisher = p
		}
	}
}

// WithMaxActiveResidents overrides the occupancy limit; n <= 0 is ignored.
func WithMaxActiveResidents(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxActive = n
		}
	}
}

// publish never fails the caller: the mutation has already been stored.
func (o options) publish(ctx context.Context, logger *zap.Logger, t events.Type, entityID int64, payload interface{}) {
	ev := events.New(t, entityID, payload, o.now())
	if err := o.publisher.Publish(ctx, ev); err != nil {
		logger.Warn("Failed to publish event",
			zap.String("event_type", string(t)),
			zap.Int64("entity_id", entityID),
			zap.Error(err),
		)
	}
}

// storageError passes domain errors through and wraps everything else.
func storageError(action string, err error) error {
	if domain.KindOf(err) != "" {
		return err
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
