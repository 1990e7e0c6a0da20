package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/fivetwenty-io/proposify/pkg/proposify"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// EventSink receives accepted webhook events.
type EventSink interface {
	Emit(ctx context.Context, deliveryID string, event proposify.Record) error
}

// WriterSink writes each event as one JSON line.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Emit(_ context.Context, _ string, event proposify.Record) error {
	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not encode event: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.w.Write(append(line, '\n'))
	if err != nil {
		return fmt.Errorf("could not write event: %w", err)
	}

	return nil
}

// Publisher is the part of *nats.Conn used by NATSSink.
type Publisher interface {
	PublishMsg(msg *nats.Msg) error
}

const msgIDHeader = "Nats-Msg-Id"

// NATSSink publishes events to a subject. The receiver's delivery id travels
// as the message id. It is minted per HTTP request, so a provider retry of the
// same event is published again under a new id.
type NATSSink struct {
	publisher Publisher
	subject   string
}

func NewNATSSink(publisher Publisher, subject string) *NATSSink {
	return &NATSSink{publisher: publisher, subject: subject}
}

func (s *NATSSink) Emit(_ context.Context, deliveryID string, event proposify.Record) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not encode event: %w", err)
	}

	if deliveryID == "" {
		deliveryID = uuid.NewString()
	}

	msg := nats.NewMsg(s.subject)
	msg.Data = data
	msg.Header.Set(msgIDHeader, deliveryID)

	if name, ok := event["event"].(string); ok {
		msg.Header.Set("Proposify-Event", name)
	}

	err = s.publisher.PublishMsg(msg)
	if err != nil {
		return fmt.Errorf("could not publish event to %s: %w", s.subject, err)
	}

	return nil
}
