package common

import (
	"context"
	"time"
)

// Message is a consumed event record, decoupled from the broker client.
type Message struct {
	Topic     string            `json:"topic"`
	Partition int               `json:"partition"`
	Offset    int64             `json:"offset"`
	Key       []byte            `json:"key,omitempty"`
	Value     []byte            `json:"value"`
	Headers   map[string]string `json:"headers,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// ProducerMessage is an event record to be published.
type ProducerMessage struct {
	Topic     string            `json:"topic"`
	Key       []byte            `json:"key,omitempty"`
	Value     []byte            `json:"value"`
	Headers   map[string]string `json:"headers,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Partition int               `json:"partition,omitempty"`
}

// MessageHandler processes a consumed message. Returning an error
// triggers the consumer's retry and dead-letter handling.
type MessageHandler func(ctx context.Context, msg *Message) error

// TopicConfig describes a topic to be ensured at startup.
type TopicConfig struct {
	Name              string            `json:"name"`
	NumPartitions     int               `json:"num_partitions"`
	ReplicationFactor int               `json:"replication_factor"`
	RetentionMs       int64             `json:"retention_ms,omitempty"`
	CleanupPolicy     string            `json:"cleanup_policy,omitempty"`
	MaxMessageBytes   int               `json:"max_message_bytes,omitempty"`
	Configs           map[string]string `json:"configs,omitempty"`
}

// BatchPublishResult reports per-message outcomes of a batch publish.
type BatchPublishResult struct {
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Errors    []BatchItemError `json:"errors,omitempty"`
}

type BatchItemError struct {
	Index int    `json:"index"`
	Topic string `json:"topic,omitempty"`
	Error error  `json:"-"`
}
//Personal.AI order the ending
