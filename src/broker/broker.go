// Package broker defines the interface for message brokers and provides
// in-memory and Redpanda/Kafka implementations.
package broker

import "context"

// Broker abstracts message publishing and consumption for the run event
// bridge.
type Broker interface {
	// Publish sends a message to a topic with an optional key.
	// The in-memory broker ignores the key; Redpanda/Kafka uses it for
	// partition assignment, which keeps events for one run in order.
	Publish(ctx context.Context, topic string, key string, value []byte) error

	// Subscribe returns a channel for consuming messages from a topic.
	// groupID is used for consumer group coordination in Kafka and is
	// ignored by the in-memory broker. The channel is closed when the
	// context ends or the broker closes.
	Subscribe(ctx context.Context, topic string, groupID string) (<-chan Message, error)

	// Close shuts down the broker connection gracefully.
	Close() error
}

// Message represents a consumed message from a broker.
type Message struct {
	Topic     string
	Key       string
	Value     []byte
	Offset    int64
	Partition int32
	Timestamp int64
}
