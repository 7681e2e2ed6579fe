package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"

	"github.com/compsred/comps-engine/internal/infrastructure/monitoring/logging"
	"github.com/compsred/comps-engine/pkg/types/common"
)

type mockKafkaWriter struct {
	writeFunc func(ctx context.Context, msgs ...kafka.Message) error
	closeFunc func() error
	statsFunc func() kafka.WriterStats
}

func (m *mockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if m.writeFunc != nil {
		return m.writeFunc(ctx, msgs...)
	}
	return nil
}

func (m *mockKafkaWriter) Close() error {
	if m.closeFunc != nil {
		return m.closeFunc()
	}
	return nil
}

func (m *mockKafkaWriter) Stats() kafka.WriterStats {
	if m.statsFunc != nil {
		return m.statsFunc()
	}
	return kafka.WriterStats{}
}

func newTestProducerConfig() ProducerConfig {
	return ProducerConfig{
		Brokers:         []string{"localhost:9092"},
		MaxMessageBytes: 1024 * 1024,
	}
}

func newTestProducerMessage(topic, key, value string) *common.ProducerMessage {
	return &common.ProducerMessage{
		Topic: topic,
		Key:   []byte(key),
		Value: []byte(value),
	}
}

func newTestProducer(mockWriter WriterInterface) *Producer {
	return &Producer{
		writer:  mockWriter,
		config:  newTestProducerConfig(),
		logger:  logging.NewNopLogger(),
		metrics: &producerMetrics{},
	}
}

func TestValidateProducerConfig_Valid(t *testing.T) {
	cfg := newTestProducerConfig()
	err := ValidateProducerConfig(cfg)
	assert.NoError(t, err)
}

func TestValidateProducerConfig_EmptyBrokers(t *testing.T) {
	cfg := newTestProducerConfig()
	cfg.Brokers = nil
	err := ValidateProducerConfig(cfg)
	assert.Error(t, err)
}

func TestPublish_Success(t *testing.T) {
	var capturedMsgs []kafka.Message
	mock := &mockKafkaWriter{
		writeFunc: func(ctx context.Context, msgs ...kafka.Message) error {
			capturedMsgs = msgs
			return nil
		},
	}
	p := newTestProducer(mock)
	msg := newTestProducerMessage(TopicCardAdded, "deck-1", `{"card_id":"card-1"}`)
	err := p.Publish(context.Background(), msg)
	assert.NoError(t, err)
	assert.Len(t, capturedMsgs, 1)
	assert.Equal(t, TopicCardAdded, capturedMsgs[0].Topic)
	assert.Equal(t, "deck-1", string(capturedMsgs[0].Key))
	assert.Equal(t, int64(1), p.GetMetrics().MessagesSent)
}

func TestPublish_ValidatesMessage(t *testing.T) {
	p := newTestProducer(&mockKafkaWriter{})

	err := p.Publish(context.Background(), &common.ProducerMessage{Value: []byte("v")})
	assert.Error(t, err)

	err = p.Publish(context.Background(), &common.ProducerMessage{Topic: TopicCardAdded})
	assert.Error(t, err)
}

func TestPublish_Failure(t *testing.T) {
	mock := &mockKafkaWriter{
		writeFunc: func(ctx context.Context, msgs ...kafka.Message) error {
			return errors.New("write failed")
		},
	}
	p := newTestProducer(mock)
	msg := newTestProducerMessage(TopicCardAdded, "k", "v")
	err := p.Publish(context.Background(), msg)
	assert.Error(t, err)
	assert.Equal(t, int64(1), p.GetMetrics().MessagesFailed)
}

func TestPublishBatch_PartialFailure(t *testing.T) {
	mock := &mockKafkaWriter{
		writeFunc: func(ctx context.Context, msgs ...kafka.Message) error {
			errs := make(kafka.WriteErrors, len(msgs))
			errs[0] = nil
			errs[1] = errors.New("fail")
			return errs
		},
	}
	p := newTestProducer(mock)
	msgs := []*common.ProducerMessage{
		newTestProducerMessage(TopicCardAdded, "1", "1"),
		newTestProducerMessage(TopicCardAdded, "2", "2"),
	}
	res, err := p.PublishBatch(context.Background(), msgs)
	assert.NoError(t, err)
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, 1, res.Failed)
	assert.Len(t, res.Errors, 1)
	assert.Equal(t, 1, res.Errors[0].Index)
}

func TestPublishAsync_ReportsErrors(t *testing.T) {
	failed := make(chan error, 1)
	mock := &mockKafkaWriter{
		writeFunc: func(ctx context.Context, msgs ...kafka.Message) error {
			return errors.New("broker down")
		},
	}
	p := newTestProducer(mock)
	p.config.AsyncErrorHandler = func(err error, msg *common.ProducerMessage) {
		failed <- err
	}

	p.PublishAsync(context.Background(), newTestProducerMessage(TopicCardAdded, "k", "v"))

	select {
	case err := <-failed:
		assert.Error(t, err)
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for async error handler")
	}
}

func TestProducerClose(t *testing.T) {
	closed := false
	mock := &mockKafkaWriter{
		closeFunc: func() error {
			closed = true
			return nil
		},
	}
	p := newTestProducer(mock)
	assert.NoError(t, p.Close())
	assert.True(t, closed)

	err := p.Publish(context.Background(), newTestProducerMessage(TopicCardAdded, "k", "v"))
	assert.ErrorIs(t, err, ErrProducerClosed)
}
//Personal.AI order the ending
