// Package events publishes served geometry operations to Kafka.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/IBM/sarama"

	"github.com/mohammed-shakir/georelate/internal/observability"
)

type Event struct {
	Op         string    `json:"op"`
	From       string    `json:"from,omitempty"`
	To         string    `json:"to,omitempty"`
	Kinds      []string  `json:"kinds,omitempty"`
	Result     *bool     `json:"result,omitempty"`
	Cached     bool      `json:"cached"`
	DurationMS float64   `json:"duration_ms"`
	TS         time.Time `json:"ts"`
}

// Sink receives events; the API depends on this rather than on Kafka.
type Sink interface {
	Publish(ev Event)
}

type Nop struct{}

func (Nop) Publish(Event) {}

type Publisher struct {
	topic   string
	events  chan Event
	prod    sarama.AsyncProducer
	log     *slog.Logger
	stopped chan struct{}
	once    sync.Once
}

// Dial connects an async producer to brokers and wraps it in a Publisher.
func Dial(brokers []string, topic string, queueSize int, log *slog.Logger) (*Publisher, error) {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V2_5_0_0
	cfg.ClientID = "georelate"
	cfg.Producer.RequiredAcks = sarama.WaitForLocal
	cfg.Producer.Return.Errors = true
	cfg.Producer.Return.Successes = false

	prod, err := sarama.NewAsyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("events: create async producer: %w", err)
	}
	return NewPublisher(prod, topic, queueSize, log), nil
}

// NewPublisher starts the goroutines feeding prod from a bounded queue.
func NewPublisher(prod sarama.AsyncProducer, topic string, queueSize int, log *slog.Logger) *Publisher {
	if queueSize <= 0 {
		queueSize = 1024
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	p := &Publisher{
		topic:   topic,
		events:  make(chan Event, queueSize),
		prod:    prod,
		log:     log,
		stopped: make(chan struct{}),
	}

	go func() {
		defer close(p.stopped)
		for ev := range p.events {
			b, err := json.Marshal(ev)
			if err != nil {
				p.log.Warn("events: marshal", "err", err)
				continue
			}
			p.prod.Input() <- &sarama.ProducerMessage{
				Topic: p.topic,
				Key:   sarama.StringEncoder(ev.Op),
				Value: sarama.ByteEncoder(b),
			}
		}
	}()

	go func() {
		for err := range p.prod.Errors() {
			if err != nil {
				observability.IncEvent("failed")
				p.log.Warn("events: producer error", "err", err.Err, "topic", p.topic)
			}
		}
	}()

	return p
}

// Publish enqueues ev without blocking; a full queue drops it.
func (p *Publisher) Publish(ev Event) {
	if ev.TS.IsZero() {
		ev.TS = time.Now().UTC()
	}
	select {
	case p.events <- ev:
		observability.IncEvent("queued")
	default:
		observability.IncEvent("dropped")
	}
}

// Close drains the queue and closes the producer. Publish must not be
// called afterwards.
func (p *Publisher) Close() error {
	var err error
	p.once.Do(func() {
		close(p.events)
		<-p.stopped
		if cerr := p.prod.Close(); cerr != nil {
			err = fmt.Errorf("events: close producer: %w", cerr)
		}
	})
	return err
}
