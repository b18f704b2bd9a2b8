package events

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"royal-dine/models"
)

// Event announces a booking state change to other systems.
type Event struct {
	ID         string         `json:"event_id"`
	Type       string         `json:"type"`
	BookingID  string         `json:"booking_id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Booking    models.Booking `json:"booking"`
}

// Publisher fans booking events out. Publish must not block past ctx.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

const (
	DriverLog   = "log"
	DriverAMQP  = "amqp"
	DriverKafka = "kafka"
	DriverNone  = "none"
)

type Options struct {
	AMQPURL      string
	Exchange     string
	KafkaBrokers []string
	KafkaTopic   string
}

// New builds the publisher for driver.
func New(driver string, opts Options) (Publisher, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverLog:
		return LogPublisher{}, nil
	case DriverNone:
		return NopPublisher{}, nil
	case DriverAMQP:
		return NewAMQPPublisher(opts.AMQPURL, opts.Exchange)
	case DriverKafka:
		return NewKafkaPublisher(opts.KafkaBrokers, opts.KafkaTopic, 256), nil
	default:
		return nil, fmt.Errorf("unsupported EVENTS_DRIVER %q", driver)
	}
}

// LogPublisher writes events to the process log.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, ev Event) error {
	log.Printf("[events] %s %s status=%s", ev.Type, ev.BookingID, ev.Booking.Status)
	return nil
}

func (LogPublisher) Close() error { return nil }

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
