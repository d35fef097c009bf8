package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/sanspareilsmyn/orderlens/internal/config"
	"github.com/sanspareilsmyn/orderlens/internal/pipeline"
)

var (
	ErrInvalidKafkaConfig = errors.New("invalid Kafka configuration provided")
	ErrEncodeFailed       = errors.New("failed to encode report")
	ErrWriteFailed        = errors.New("failed to write report to Kafka")
)

type kafkaZapLogger struct {
	log *zap.Logger
}

func (l kafkaZapLogger) Printf(msg string, args ...interface{}) {
	l.log.Debug(fmt.Sprintf(msg, args...))
}

type kafkaZapErrorLogger struct {
	log *zap.Logger
}

func (l kafkaZapErrorLogger) Printf(msg string, args ...interface{}) {
	l.log.Error(fmt.Sprintf(msg, args...))
}

// messageWriter is the subset of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes report snapshots to a Kafka topic, keyed by report ID.
type Publisher struct {
	writer messageWriter
	topic  string
	logger *zap.Logger
}

// NewPublisher creates a Kafka-backed publisher.
func NewPublisher(cfg config.KafkaConfig, logger *zap.Logger) (*Publisher, error) {
	if len(cfg.Brokers) == 0 || cfg.Topic == "" {
		logger.Error("Kafka configuration validation failed",
			zap.Strings("brokers", cfg.Brokers),
			zap.String("topic", cfg.Topic),
		)
		return nil, ErrInvalidKafkaConfig
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		Logger:                 kafkaZapLogger{logger.Named("kafka-writer").WithOptions(zap.AddCallerSkip(1))},
		ErrorLogger:            kafkaZapErrorLogger{logger.Named("kafka-writer-error").WithOptions(zap.AddCallerSkip(1))},
	}

	logger.Info("Kafka publisher created",
		zap.String("topic", cfg.Topic),
		zap.Strings("brokers", cfg.Brokers),
	)
	return newPublisher(w, cfg.Topic, logger), nil
}

func newPublisher(w messageWriter, topic string, logger *zap.Logger) *Publisher {
	return &Publisher{writer: w, topic: topic, logger: logger}
}

// Publish encodes report as JSON and writes it. It blocks until the broker
// acknowledges the write or ctx is done.
func (p *Publisher) Publish(ctx context.Context, report *pipeline.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodeFailed, err)
	}

	msg := kafka.Message{
		Key:   []byte(report.ID),
		Value: payload,
		Time:  report.GeneratedAt,
		Headers: []kafka.Header{
			{Key: "source", Value: []byte(report.Source)},
			{Key: "range_start", Value: []byte(report.Range.Start.Format(time.RFC3339))},
			{Key: "range_end", Value: []byte(report.Range.End.Format(time.RFC3339))},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish report",
			zap.String("report_id", report.ID),
			zap.String("topic", p.topic),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	p.logger.Info("Report published",
		zap.String("report_id", report.ID),
		zap.String("topic", p.topic),
		zap.Int("bytes", len(payload)),
	)
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	p.logger.Debug("Closing Kafka publisher...")
	return p.writer.Close()
}
