package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

var (
	// ErrNATSSubjectRequired is returned when the subject is empty.
	ErrNATSSubjectRequired = errors.New("pkgmessage: nats subject is required")
	// ErrNATSURLRequired is returned when the NATS server URL is missing.
	ErrNATSURLRequired = errors.New("pkgmessage: nats url is required")
)

// NATSConfig configures the NATS implementation.
type NATSConfig struct {
	// URL is the NATS server address.
	URL string

	// Options are passed to the NATS client.
	Options []nats.Option
}

// NATS is a messaging implementation backed by NATS.
type NATS struct {
	conn *nats.Conn

	mu     sync.Mutex
	closed bool
}

// NewNATS constructs a NATS messaging client.
func NewNATS(cfg NATSConfig) (*NATS, error) {
	if cfg.URL == "" {
		return nil, ErrNATSURLRequired
	}

	conn, err := nats.Connect(cfg.URL, cfg.Options...)
	if err != nil {
		return nil, fmt.Errorf("pkgmessage: nats connect: %w", err)
	}

	return &NATS{
		conn: conn,
	}, nil
}

// Close drains and closes the NATS connection.
func (n *NATS) Close() error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil
	}
	n.closed = true
	n.mu.Unlock()

	err := n.conn.Drain()
	n.conn.Close()
	return err
}

// Publish sends a message to a NATS subject.
func (n *NATS) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return PublishResult{}, err
	}
	if destination == "" {
		return PublishResult{}, ErrNATSSubjectRequired
	}

	nmsg := nats.NewMsg(destination)
	nmsg.Data = msg.Body

	for _, h := range msg.Headers {
		if h.Key == "" {
			continue
		}
		nmsg.Header.Add(h.Key, string(h.Value))
	}

	if err := n.conn.PublishMsg(nmsg); err != nil {
		return PublishResult{}, fmt.Errorf("pkgmessage: nats publish: %w", err)
	}
	if err := n.conn.Flush(); err != nil {
		return PublishResult{}, fmt.Errorf("pkgmessage: nats flush: %w", err)
	}

	return PublishResult{
		Topic:     destination,
		Timestamp: time.Now(),
	}, nil
}
