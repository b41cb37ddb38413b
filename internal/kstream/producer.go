package kstream

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"

	"decision-review-api/internal/model"
)

// Topics carrying intake events.
const (
	TopicIntakeCompleted = "decision_review.intake.completed"
	TopicIntakeRejected  = "decision_review.intake.rejected"
)

// kafkaWriter constructs a Kafka producer for one topic.
func kafkaWriter(broker, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(broker),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // same veteran → same partition
		RequiredAcks: kafka.RequireOne,
		Async:        true,
	}
}

// Producer publishes intake lifecycle events.
type Producer struct {
	completed *kafka.Writer
	rejected  *kafka.Writer
}

// NewProducer creates writers for the intake topics on broker.
func NewProducer(broker string) *Producer {
	return &Producer{
		completed: kafkaWriter(broker, TopicIntakeCompleted),
		rejected:  kafkaWriter(broker, TopicIntakeRejected),
	}
}

// PublishIntakeCompleted sends a completed intake to the completed topic.
func (p *Producer) PublishIntakeCompleted(ctx context.Context, evt model.IntakeCompleted) error {
	msg, err := completedMessage(evt)
	if err != nil {
		return err
	}
	return p.completed.WriteMessages(ctx, msg)
}

// PublishIntakeRejected sends a rejected submission to the rejected topic.
func (p *Producer) PublishIntakeRejected(ctx context.Context, evt model.IntakeRejected) error {
	msg, err := rejectedMessage(evt)
	if err != nil {
		return err
	}
	return p.rejected.WriteMessages(ctx, msg)
}

// Close flushes and closes both writers.
func (p *Producer) Close() error {
	return errors.Join(p.completed.Close(), p.rejected.Close())
}

// Messages are keyed by veteran file number so one veteran's events stay
// ordered on a single partition.
func completedMessage(evt model.IntakeCompleted) (kafka.Message, error) {
	data, err := json.Marshal(evt)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(evt.VeteranFileNumber),
		Value: data,
		Time:  time.Now(),
	}, nil
}

func rejectedMessage(evt model.IntakeRejected) (kafka.Message, error) {
	data, err := json.Marshal(evt)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(evt.VeteranFileNumber),
		Value: data,
		Time:  time.Now(),
	}, nil
}
