package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"ms-event-dashboard/internal/config"
	"ms-event-dashboard/internal/logger"
	"ms-event-dashboard/internal/models"
)

// Producer streams dashboard notifications. Disabled or mock-mode
// producers log instead of writing; callers never block on Kafka.
type Producer struct {
	Writer *kafka.Writer
	Config config.KafkaConfig
	Logger *logger.Logger
}

func NewProducer(cfg config.KafkaConfig, log *logger.Logger) *Producer {
	p := &Producer{Config: cfg, Logger: log}
	if cfg.Enabled && !cfg.MockMode {
		p.Writer = kafka.NewWriter(kafka.WriterConfig{
			Brokers: cfg.Brokers,
		})
	}
	return p
}

func (p *Producer) publish(topic, key string, value []byte) error {
	if !p.Config.Enabled {
		return nil
	}
	if p.Config.MockMode || p.Writer == nil {
		if p.Logger != nil {
			p.Logger.LogKafka("MOCK", topic, string(value))
		}
		return nil
	}

	err := p.Writer.WriteMessages(context.Background(), kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("kafka publish to %s: %w", topic, err)
	}
	if p.Logger != nil {
		p.Logger.LogKafka("PUBLISH", topic, key)
	}
	return nil
}

// PublishEventSaved streams a saved-event notification.
func (p *Producer) PublishEventSaved(ev models.Event) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.publish(p.Config.Topics.EventSaved, ev.ID, value)
}

// PublishEventDeleted streams a deleted-event notification.
func (p *Producer) PublishEventDeleted(eventID string) error {
	value, err := json.Marshal(map[string]string{"event_id": eventID})
	if err != nil {
		return err
	}
	return p.publish(p.Config.Topics.EventDeleted, eventID, value)
}

func (p *Producer) Close() error {
	if p.Writer != nil {
		return p.Writer.Close()
	}
	return nil
}
