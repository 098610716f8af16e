package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Job is a request for an external mailer to render and send a template.
type Job struct {
	ID        string            `json:"id"`
	To        string            `json:"to"`
	From      string            `json:"from"`
	Subject   string            `json:"subject"`
	Template  string            `json:"template"`
	Data      map[string]string `json:"data"`
	CreatedAt time.Time         `json:"created_at"`
}

// Outbox hands mail jobs to the delivery pipeline.
type Outbox interface {
	Enqueue(ctx context.Context, job Job) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaOutbox publishes jobs as JSON, keyed by recipient so one address stays ordered.
type KafkaOutbox struct {
	writer messageWriter
}

// NewKafkaOutbox builds an outbox writing to topic on brokers.
func NewKafkaOutbox(brokers []string, topic string) *KafkaOutbox {
	return &KafkaOutbox{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: 5 * time.Second,
	}}
}

// Enqueue publishes one job.
func (o *KafkaOutbox) Enqueue(ctx context.Context, job Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("kafka: marshal mail job: %w", err)
	}
	if err := o.writer.WriteMessages(ctx, kafka.Message{Key: []byte(job.To), Value: data}); err != nil {
		return fmt.Errorf("kafka: publish mail job: %w", err)
	}
	return nil
}

// Close flushes and closes the writer.
func (o *KafkaOutbox) Close() error {
	return o.writer.Close()
}

// LogOutbox only logs jobs; used when no broker is configured.
type LogOutbox struct {
	logger *zap.Logger
}

// NewLogOutbox builds a log-only outbox.
func NewLogOutbox(logger *zap.Logger) *LogOutbox {
	return &LogOutbox{logger: logger}
}

// Enqueue logs the job without its data, which carries link tokens.
func (o *LogOutbox) Enqueue(_ context.Context, job Job) error {
	o.logger.Info("mail job",
		zap.String("id", job.ID),
		zap.String("to", job.To),
		zap.String("template", job.Template))
	return nil
}

// Close is a no-op.
func (o *LogOutbox) Close() error { return nil }
