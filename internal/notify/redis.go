package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hyunhan-cho/LT-GDG/internal/domain"
	"github.com/hyunhan-cho/LT-GDG/internal/logger"
)

// connectionTimeout bounds the startup ping.
const connectionTimeout = 5 * time.Second

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Address  string
	Password string
	DB       int
	Channel  string
}

// NewRedisClient creates a Redis client and verifies the connection.
func NewRedisClient(cfg RedisConfig) (*redis.Client, error) {
	if cfg.Address == "" {
		return nil, ErrEmptyAddress
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

// RedisNotifier publishes events as JSON on a pub/sub channel.
type RedisNotifier struct {
	client  *redis.Client
	channel string
	log     logger.Logger
}

// NewRedisNotifier creates a notifier publishing on channel.
func NewRedisNotifier(client *redis.Client, channel string, log logger.Logger) *RedisNotifier {
	if log == nil {
		log = logger.NewNop()
	}
	return &RedisNotifier{client: client, channel: channel, log: log}
}

// Name implements filtering.Notifier.
func (n *RedisNotifier) Name() string { return "redis" }

// Notify implements filtering.Notifier.
func (n *RedisNotifier) Notify(ctx context.Context, ev domain.FilteringEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	receivers, err := n.client.Publish(ctx, n.channel, payload).Result()
	if err != nil {
		return fmt.Errorf("publish to %s: %w", n.channel, err)
	}

	n.log.Debug("Published alert",
		logger.String("channel", n.channel),
		logger.String("event_id", ev.ID),
		logger.Int64("receivers", receivers),
	)
	return nil
}

// Close closes the underlying client.
func (n *RedisNotifier) Close() error {
	return n.client.Close()
}
