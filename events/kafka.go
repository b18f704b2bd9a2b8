package events

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

var ErrPublisherClosed = errors.New("publisher closed")

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher queues events in memory and writes them from one goroutine,
// keyed by booking id so a booking's events stay ordered in a partition.
type KafkaPublisher struct {
	w     messageWriter
	inbox chan kafka.Message

	mu      sync.RWMutex
	closed  bool
	closeCh chan struct{}
}

func NewKafkaPublisher(brokers []string, topic string, buf int) *KafkaPublisher {
	return newKafkaPublisher(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}, buf)
}

func newKafkaPublisher(w messageWriter, buf int) *KafkaPublisher {
	p := &KafkaPublisher{
		w:       w,
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
	}
	go p.loop()
	return p
}

func (p *KafkaPublisher) loop() {
	defer close(p.closeCh)
	for m := range p.inbox {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := p.w.WriteMessages(ctx, m); err != nil {
			log.Printf("[events] kafka write %s failed: %v", m.Key, err)
		}
		cancel()
	}
	if err := p.w.Close(); err != nil {
		log.Printf("[events] kafka writer close: %v", err)
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(ev.BookingID),
		Value: b,
		Time:  ev.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(ev.Type)},
			{Key: "event_id", Value: []byte(ev.ID)},
		},
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}
	select {
	case p.inbox <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close flushes queued messages and waits for the writer to stop.
func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.inbox)
	}
	p.mu.Unlock()
	<-p.closeCh
	return nil
}
