package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/streadway/amqp"

	"github.com/hyunhan-cho/LT-GDG/internal/domain"
	"github.com/hyunhan-cho/LT-GDG/internal/logger"
)

const jsonContentType = "application/json"

// AMQPNotifier publishes events to a durable queue on the default exchange.
type AMQPNotifier struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	log     logger.Logger
}

// NewAMQPNotifier dials url and declares queue.
func NewAMQPNotifier(url, queue string, log logger.Logger) (*AMQPNotifier, error) {
	if url == "" || queue == "" {
		return nil, ErrEmptyAddress
	}
	if log == nil {
		log = logger.NewNop()
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to AMQP server: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open AMQP channel: %w", err)
	}

	// durable, not auto-deleted
	if _, err = channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	log.Info("AMQP alert queue ready", logger.String("queue", queue))

	return &AMQPNotifier{conn: conn, channel: channel, queue: queue, log: log}, nil
}

// Name implements filtering.Notifier.
func (n *AMQPNotifier) Name() string { return "amqp" }

// Notify implements filtering.Notifier. The publish itself takes no context,
// so Notify returns when ctx ends even if the broker has not answered.
func (n *AMQPNotifier) Notify(ctx context.Context, ev domain.FilteringEvent) error {
	msg, err := newPublishing(ev)
	if err != nil {
		return err
	}

	published := make(chan error, 1)
	go func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		published <- n.channel.Publish("", n.queue, false, false, msg)
	}()

	select {
	case err = <-published:
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("publish to %s: %w", n.queue, err)
	}
	return nil
}

// Close closes the channel and the connection.
func (n *AMQPNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.channel.Close(); err != nil {
		n.log.Warn("Failed to close AMQP channel", logger.Error(err))
	}
	return n.conn.Close()
}

func newPublishing(ev domain.FilteringEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal event: %w", err)
	}
	return amqp.Publishing{
		ContentType:  jsonContentType,
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID,
		Timestamp:    ev.Timestamp,
		Type:         string(ev.Label),
		Body:         body,
	}, nil
}
