package queue

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/tazhibayda/family-gallery/internal/log"
	"go.uber.org/zap"
)

// Message is what a handler sees of a delivery.
type Message struct {
	Key       string
	Body      []byte
	RequestID string
}

// Handler returning an error gets the delivery requeued.
type Handler func(ctx context.Context, m Message) error

type Consumer struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	q    string
}

func NewConsumer(url, exchange, queue, key string) (*Consumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbit: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	qd, err := ch.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(qd.Name, key, exchange, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	return &Consumer{conn: conn, ch: ch, q: qd.Name}, nil
}

func (c *Consumer) Close() {
	if c == nil {
		return
	}
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// Consume blocks until ctx is cancelled, feeding deliveries to workers goroutines.
func (c *Consumer) Consume(ctx context.Context, workers int, handle Handler) error {
	if c == nil || c.ch == nil {
		return fmt.Errorf("consumer is not initialized")
	}

	// bounded prefetch keeps memory flat
	if err := c.ch.Qos(50, 0, false); err != nil {
		return fmt.Errorf("qos: %w", err)
	}
	msgs, err := c.ch.Consume(c.q, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}
	serve(ctx, msgs, workers, handle)
	return nil
}

func serve(ctx context.Context, msgs <-chan amqp.Delivery, workers int, handle Handler) {
	if workers <= 0 {
		workers = 1
	}
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case d, ok := <-msgs:
					if !ok {
						return
					}
					rid, _ := d.Headers[headerRequestID].(string)
					if err := handle(ctx, Message{Key: d.RoutingKey, Body: d.Body, RequestID: rid}); err != nil {
						log.L().Warn("handler failed, requeueing",
							zap.String("key", d.RoutingKey), zap.String("request_id", rid), zap.Error(err))
						_ = d.Nack(false, true)
						continue
					}
					_ = d.Ack(false)
				case <-ctx.Done():
					return
				}
			}
		}()
	}
	wg.Wait()
}
