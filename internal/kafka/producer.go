package kafka

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"vestiaire/internal/config"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// MessageProducer defines the interface for a Kafka message producer.
type MessageProducer interface {
	SendMessage(ctx context.Context, topic string, key []byte, payload []byte) error
	Close()
}

// confluentKafkaProducer implements MessageProducer using confluent-kafka-go.
type confluentKafkaProducer struct {
	producer *kafka.Producer
	cfg      config.KafkaConfig
}

// NewConfluentKafkaProducer creates a new Kafka producer instance.
func NewConfluentKafkaProducer(cfg config.KafkaConfig) (MessageProducer, error) {
	configMap := &kafka.ConfigMap{
		"bootstrap.servers": strings.Join(cfg.Brokers, ","),
		"security.protocol": cfg.Protocol,
	}
	if cfg.ClientID != "" {
		_ = configMap.SetKey("client.id", cfg.ClientID)
	}

	p, err := kafka.NewProducer(configMap)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	cp := &confluentKafkaProducer{producer: p, cfg: cfg}
	go cp.handleDeliveryReports()
	return cp, nil
}

// SendMessage enqueues a single message and returns as soon as it is in the
// local queue. Delivery is asynchronous; failed deliveries surface on the
// producer's event channel and are logged there, never to the caller.
func (p *confluentKafkaProducer) SendMessage(_ context.Context, topic string, key []byte, payload []byte) error {
	kafkaMsg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            key,
		Value:          payload,
		Timestamp:      time.Now(),
	}

	if err := p.producer.Produce(kafkaMsg, nil); err != nil {
		// Produce only fails locally, e.g. when the queue is full; delivery
		// errors arrive on the event channel.
		return fmt.Errorf("kafka producer failed to enqueue message for topic %s: %w", topic, err)
	}
	return nil
}

// handleDeliveryReports drains the producer's event channel so delivery
// failures are logged. The channel closes when the producer closes.
func (p *confluentKafkaProducer) handleDeliveryReports() {
	for e := range p.producer.Events() {
		switch ev := e.(type) {
		case *kafka.Message:
			if ev.TopicPartition.Error != nil {
				log.Printf("Kafka delivery failed for topic %s: %v", *ev.TopicPartition.Topic, ev.TopicPartition.Error)
			}
		case kafka.Error:
			log.Printf("Kafka producer error: %v", ev)
		}
	}
}

// Close flushes outstanding messages and closes the producer.
func (p *confluentKafkaProducer) Close() {
	if p.producer != nil {
		log.Println("Closing Kafka producer...")
		remaining := p.producer.Flush(15 * 1000)
		if remaining > 0 {
			log.Printf("Warning: %d messages still outstanding after flush, producer closing.", remaining)
		}
		p.producer.Close()
	}
}
