// Package queue_publisher publishes pin lifecycle events to RabbitMQ.
// Errors are logged and returned so callers can ignore failures without
// interrupting the request that caused the event.
package queue_publisher

import (
    "context"
    "encoding/json"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "go.uber.org/zap"

    q "github.com/iliyamo/skate-pins/internal/queue"
)

// Publisher dials the broker per event.  Pin writes are rare enough that a
// long-lived channel is not worth its reconnect bookkeeping.
type Publisher struct {
    URL    string
    Logger *zap.Logger
}

// New returns nil when url is empty so callers can treat events as disabled.
func New(url string, logger *zap.Logger) *Publisher {
    if url == "" {
        return nil
    }
    return &Publisher{URL: url, Logger: logger}
}

// PublishPinEvent sends ev to the pins.events queue as a persistent message.
// OccurredAt is stamped when empty.
func (p *Publisher) PublishPinEvent(ctx context.Context, ev q.PinEvent) error {
    if ev.OccurredAt == "" {
        ev.OccurredAt = time.Now().UTC().Format(time.RFC3339)
    }
    conn, err := amqp.Dial(p.URL)
    if err != nil {
        p.Logger.Warn("rabbitmq: dial failed", zap.Error(err))
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        p.Logger.Warn("rabbitmq: channel open failed", zap.Error(err))
        return err
    }
    defer func() { _ = ch.Close() }()

    // Idempotent; durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(q.PinEventsQueue, true, false, false, false, nil); err != nil {
        p.Logger.Warn("rabbitmq: queue declare failed", zap.Error(err))
        return err
    }

    body, err := json.Marshal(ev)
    if err != nil {
        return err
    }
    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        Type:         ev.Kind,
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", q.PinEventsQueue, false, false, pub); err != nil {
        p.Logger.Warn("rabbitmq: publish failed", zap.Error(err), zap.String("kind", ev.Kind))
        return err
    }
    return nil
}
