package messaging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

var (
	// ErrKafkaTopicRequired is returned when the topic is empty.
	ErrKafkaTopicRequired = errors.New("pkgmessage: kafka topic is required")
	// ErrKafkaBrokersRequired is returned when no Kafka brokers are configured.
	ErrKafkaBrokersRequired = errors.New("pkgmessage: kafka brokers are required")
)

// KafkaConfig configures the Kafka implementation.
type KafkaConfig struct {
	// Brokers lists Kafka broker addresses.
	Brokers []string

	// WriterConfig overrides the default writer configuration.
	WriterConfig *kafka.WriterConfig
}

// Kafka is a messaging implementation backed by kafka-go.
type Kafka struct {
	brokers      []string
	writerConfig *kafka.WriterConfig

	mu      sync.Mutex
	writers map[string]*kafka.Writer
	closed  bool
}

// NewKafka constructs a Kafka messaging client.
func NewKafka(cfg KafkaConfig) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrKafkaBrokersRequired
	}

	return &Kafka{
		brokers:      append([]string{}, cfg.Brokers...),
		writerConfig: cfg.WriterConfig,
		writers:      map[string]*kafka.Writer{},
	}, nil
}

// Close shuts down all Kafka writers.
func (k *Kafka) Close() error {
	k.mu.Lock()
	if k.closed {
		k.mu.Unlock()
		return nil
	}
	k.closed = true
	writers := make([]*kafka.Writer, 0, len(k.writers))
	for _, w := range k.writers {
		writers = append(writers, w)
	}
	k.writers = nil
	k.mu.Unlock()

	var closeErr error
	for _, w := range writers {
		closeErr = errors.Join(closeErr, w.Close())
	}
	return closeErr
}

// Publish sends a message to a Kafka topic.
func (k *Kafka) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return PublishResult{}, err
	}
	if destination == "" {
		return PublishResult{}, ErrKafkaTopicRequired
	}

	writer, err := k.getWriter(destination)
	if err != nil {
		return PublishResult{}, err
	}

	kmsg := kafka.Message{
		Key:   msg.Key,
		Value: msg.Body,
		Time:  time.Now(),
	}

	for _, h := range msg.Headers {
		if h.Key == "" {
			continue
		}
		kmsg.Headers = append(kmsg.Headers, kafka.Header{
			Key:   h.Key,
			Value: h.Value,
		})
	}

	if err := writer.WriteMessages(ctx, kmsg); err != nil {
		return PublishResult{}, fmt.Errorf("pkgmessage: kafka publish: %w", err)
	}

	return PublishResult{
		Topic:     destination,
		Timestamp: kmsg.Time,
	}, nil
}

func (k *Kafka) getWriter(topic string) (*kafka.Writer, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.closed {
		return nil, io.ErrClosedPipe
	}

	if w, ok := k.writers[topic]; ok {
		return w, nil
	}

	var w *kafka.Writer
	if k.writerConfig != nil {
		cfg := *k.writerConfig
		cfg.Brokers = k.brokers
		cfg.Topic = topic
		w = kafka.NewWriter(cfg)
	} else {
		w = &kafka.Writer{
			Addr:     kafka.TCP(k.brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		}
	}

	k.writers[topic] = w
	return w, nil
}
