package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const channelPrefix = "contentflow:fanout:"

type bridgeMessage struct {
	Origin string   `json:"origin"`
	Topic  string   `json:"topic"`
	Event  Envelope `json:"event"`
}

// RedisBridge shares fan-out events between API replicas. Local subscribers
// are served by the hub directly; Redis only carries events to other replicas.
type RedisBridge struct {
	client *redis.Client
	hub    *Hub
	origin string
	logger *slog.Logger
}

func NewRedisBridge(client *redis.Client, hub *Hub, logger *slog.Logger) *RedisBridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisBridge{
		client: client,
		hub:    hub,
		origin: uuid.NewString(),
		logger: logger,
	}
}

// NewRedisClient accepts a redis:// URL or a bare host:port.
func NewRedisClient(raw string) (*redis.Client, error) {
	if strings.Contains(raw, "://") {
		opts, err := redis.ParseURL(raw)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return redis.NewClient(opts), nil
	}
	return redis.NewClient(&redis.Options{Addr: raw}), nil
}

func ChannelFor(scope string) string {
	return channelPrefix + scope
}

func (b *RedisBridge) Publish(ctx context.Context, topic string, event Envelope) error {
	if err := b.hub.Publish(ctx, topic, event); err != nil {
		return err
	}
	payload, err := json.Marshal(bridgeMessage{Origin: b.origin, Topic: topic, Event: event})
	if err != nil {
		return fmt.Errorf("encode bridged event: %w", err)
	}
	if err := b.client.Publish(ctx, ChannelFor(event.PartitionKey), payload).Err(); err != nil {
		return fmt.Errorf("publish bridged event: %w", err)
	}
	return nil
}

// Run relays events from other replicas into the local hub until ctx ends.
func (b *RedisBridge) Run(ctx context.Context) error {
	pubsub := b.client.PSubscribe(ctx, channelPrefix+"*")
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe fan-out channels: %w", err)
	}
	b.logger.Info("fan-out bridge subscribed",
		"event", "fanout_bridge_started",
		"module", "internal/platform/messaging",
		"layer", "platform",
		"pattern", channelPrefix+"*",
	)

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			b.relay(msg.Payload)
		}
	}
}

func (b *RedisBridge) relay(payload string) bool {
	var msg bridgeMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		b.logger.Warn("bridged event discarded",
			"event", "fanout_bridge_decode_failed",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"error", err.Error(),
		)
		return false
	}
	if msg.Origin == b.origin || msg.Event.PartitionKey == "" {
		return false
	}
	b.hub.Deliver(msg.Topic, msg.Event)
	return true
}

func (b *RedisBridge) IsReady(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}
