package notifier

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"checkout-service/internal/pkg/config"
	"checkout-service/internal/pkg/errs"
	"checkout-service/internal/usecase/commands"
)

// KafkaPublisher fans payment lifecycle notifications out to the payments
// topic. Messages are keyed by transaction id so all notifications for one
// transaction land on the same partition in order.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireAll,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, msg commands.Notification) error {
	value, err := json.Marshal(msg)
	if err != nil {
		return errs.Wrap(err, "failed to marshal notification")
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.TransactionID),
		Value: value,
	})
	if err != nil {
		return errs.Wrap(err, "failed to publish notification")
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
