package kafka

import (
	"context"
	"testing"
	"time"

	"vestiaire/internal/config"
)

// SendMessage must return once the message is queued locally. A dead broker
// or a caller that has already gone away cannot stall or break dispatch.
func TestSendMessageReturnsWithoutDeliveryReport(t *testing.T) {
	p, err := NewConfluentKafkaProducer(config.KafkaConfig{
		Brokers:  []string{"localhost:1"},
		Protocol: "plaintext",
	})
	if err != nil {
		t.Fatalf("NewConfluentKafkaProducer() error = %v", err)
	}
	t.Cleanup(p.Close)

	// A disconnected caller: the context is already canceled.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	if err := p.SendMessage(ctx, "relation-events", []byte("7"), []byte(`{"type":"PENDING_CREATED"}`)); err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("SendMessage() took %v, expected an immediate local enqueue", elapsed)
	}
}
