package kstream

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"decision-review-api/internal/model"
)

// KafkaReader creates a consumer-group reader for topic.
func KafkaReader(broker, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{broker},
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
	})
}

// RejectionWriter persists rejected submissions.
type RejectionWriter interface {
	WriteRejection(ctx context.Context, evt model.IntakeRejected) error
}

// ConsumeRejectedTopic reads rejected intakes and hands them to w until ctx
// is cancelled or the reader fails.
func ConsumeRejectedTopic(ctx context.Context, broker string, w RejectionWriter) error {
	reader := KafkaReader(broker, TopicIntakeRejected, "rejections-writer")
	defer reader.Close()

	log.Printf("Rejections consumer: consuming from %s", TopicIntakeRejected)

	for {
		// segmentio/kafka-go: ReadMessage blocks and commits offsets for the group.
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			return err
		}
		if err := handleRejected(ctx, w, msg.Value); err != nil {
			log.Printf("Rejections consumer: %v", err)
		}
	}
}

func handleRejected(ctx context.Context, w RejectionWriter, value []byte) error {
	var evt model.IntakeRejected
	if err := json.Unmarshal(value, &evt); err != nil {
		return fmt.Errorf("unmarshal rejected intake: %w", err)
	}
	if err := w.WriteRejection(ctx, evt); err != nil {
		return fmt.Errorf("write rejection for %s: %w", evt.VeteranFileNumber, err)
	}
	return nil
}
