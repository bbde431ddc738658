// File: internal/events/kafka/producer.go
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Shopify/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/matchbook-rentals/verification-service/internal/events"
)

// CloudEventSource identifies this service in emitted events.
const CloudEventSource = "/verification-service"

// Producer publishes CloudEvents to a Kafka topic with a sync producer.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	logger   *zap.Logger
}

// NewProducer creates a new Kafka producer.
func NewProducer(brokers []string, topic string, logger *zap.Logger) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Idempotent = true
	config.Net.MaxOpenRequests = 1

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &Producer{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}, nil
}

// Publish wraps the payload in a CloudEvent envelope and sends it keyed by
// subject so events for one verification stay ordered within a partition.
func (p *Producer) Publish(ctx context.Context, eventType events.EventType, subject string, data interface{}) error {
	contentType := events.CloudEventDataContentType
	event := events.CloudEvent{
		SpecVersion:     events.CloudEventSpecVersion,
		Type:            string(eventType),
		Source:          CloudEventSource,
		Subject:         &subject,
		ID:              uuid.New().String(),
		Time:            time.Now().UTC(),
		DataContentType: &contentType,
		Data:            data,
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal CloudEvent: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(subject),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte("ce_type"), Value: []byte(eventType)},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to send event to Kafka: %w", err)
	}

	p.logger.Debug("published event",
		zap.String("type", string(eventType)),
		zap.String("subject", subject),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
	)
	return nil
}

// Close shuts the underlying producer down.
func (p *Producer) Close() error {
	return p.producer.Close()
}

var _ events.Publisher = (*Producer)(nil)
