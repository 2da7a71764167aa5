package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	rediscommon "apartment-data/common/redis"

	"go.uber.org/zap"
)

// Publisher delivers lifecycle events to a sink.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// RedisStreamPublisher appends events to a Redis stream (XADD).
type RedisStreamPublisher struct {
	client *rediscommon.Client
	stream string
	maxLen int64
	logger *zap.Logger
}

func NewRedisStreamPublisher(client *rediscommon.Client, stream string, maxLen int64, logger *zap.Logger) *RedisStreamPublisher {
	return &RedisStreamPublisher{client: client, stream: stream, maxLen: maxLen, logger: logger}
}

func (p *RedisStreamPublisher) Publish(ctx context.Context, event Event) error {
	streamID, err := rediscommon.PublishJSONToStream(ctx, p.client, p.stream, p.maxLen, event)
	if err != nil {
		return fmt.Errorf("failed to publish to stream %s: %w", p.stream, err)
	}
	p.logger.Debug("Published event to Redis Streams",
		zap.String("stream", p.stream),
		zap.String("stream_id", streamID),
		zap.String("event_type", string(event.Type)),
		zap.Int64("entity_id", event.EntityID),
	)
	return nil
}

// MQTTSender is the subset of the MQTT client the publisher needs.
type MQTTSender interface {
	Publish(topic string, retained bool, payload []byte) error
}

// MQTTPublisher publishes each event on <prefix>/<type>.
type MQTTPublisher struct {
	sender      MQTTSender
	topicPrefix string
	logger      *zap.Logger
}

func NewMQTTPublisher(sender MQTTSender, topicPrefix string, logger *zap.Logger) *MQTTPublisher {
	return &MQTTPublisher{sender: sender, topicPrefix: strings.TrimRight(topicPrefix, "/"), logger: logger}
}

func (p *MQTTPublisher) Topic(t Type) string {
	if p.topicPrefix == "" {
		return string(t)
	}
	return p.topicPrefix + "/" + string(t)
}

func (p *MQTTPublisher) Publish(_ context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	topic := p.Topic(event.Type)
	if err := p.sender.Publish(topic, false, payload); err != nil {
		return err
	}
	p.logger.Debug("Published event to MQTT",
		zap.String("topic", topic),
		zap.String("event_type", string(event.Type)),
	)
	return nil
}
