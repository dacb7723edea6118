package queue

import (
	"context"
	"errors"
	"sync"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type acker struct {
	mu     sync.Mutex
	acks   []uint64
	nacks  []uint64
	requeu []bool
}

func (a *acker) Ack(tag uint64, _ bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acks = append(a.acks, tag)
	return nil
}

func (a *acker) Nack(tag uint64, _ bool, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nacks = append(a.nacks, tag)
	a.requeu = append(a.requeu, requeue)
	return nil
}

func (a *acker) Reject(tag uint64, requeue bool) error { return a.Nack(tag, false, requeue) }

func TestServe_AcksAndRequeues(t *testing.T) {
	ack := &acker{}
	msgs := make(chan amqp.Delivery, 3)
	for i, body := range []string{"ok", "bad", "ok"} {
		msgs <- amqp.Delivery{
			Acknowledger: ack,
			DeliveryTag:  uint64(i + 1),
			RoutingKey:   KeyFamilyRegistered,
			Body:         []byte(body),
			Headers:      amqp.Table{headerRequestID: "rid"},
		}
	}
	close(msgs)

	var mu sync.Mutex
	var seen []Message
	serve(context.Background(), msgs, 2, func(_ context.Context, m Message) error {
		mu.Lock()
		seen = append(seen, m)
		mu.Unlock()
		if string(m.Body) == "bad" {
			return errors.New("boom")
		}
		return nil
	})

	require.Len(t, seen, 3)
	assert.Equal(t, "rid", seen[0].RequestID)
	assert.Equal(t, KeyFamilyRegistered, seen[0].Key)
	assert.ElementsMatch(t, []uint64{1, 3}, ack.acks)
	assert.Equal(t, []uint64{2}, ack.nacks)
	assert.Equal(t, []bool{true}, ack.requeu)
}

func TestServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	done := make(chan struct{})
	go func() {
		serve(ctx, make(chan amqp.Delivery), 3, func(context.Context, Message) error { return nil })
		close(done)
	}()
	<-done
}

func TestNoop(t *testing.T) {
	p := NewNoop()
	assert.NoError(t, p.Publish(context.Background(), KeyGalleryCreated, GalleryCreated{}, ""))
	assert.NoError(t, p.Close())
}
