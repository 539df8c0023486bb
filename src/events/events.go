// Package events defines the run event wire format published by the
// watcher and consumed by the watch TUI and any external subscriber.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"flywheel-agent/src/broker"
)

// TopicRunEvents is the broker topic carrying workflow run events.
const TopicRunEvents = "flywheel.run.events"

// EventType discriminates run events.
type EventType string

const (
	// EventRunDiscovered fires the first time a run is seen, including
	// every run found on the initial poll.
	EventRunDiscovered EventType = "run_discovered"
	// EventRunStatusChanged fires when a known run moves between
	// non-terminal states, for example queued to in_progress.
	EventRunStatusChanged EventType = "run_status_changed"
	// EventRunCompleted fires once when a known run reaches the
	// completed status.
	EventRunCompleted EventType = "run_completed"
)

// RunEvent is one observation about a workflow run. Events are
// derived by diffing successive poll snapshots; nothing is persisted.
type RunEvent struct {
	Type           EventType `json:"type"`
	Owner          string    `json:"owner"`
	Repo           string    `json:"repo"`
	RunID          int64     `json:"run_id"`
	RunNumber      int       `json:"run_number"`
	WorkflowID     int64     `json:"workflow_id"`
	WorkflowName   string    `json:"workflow_name,omitempty"`
	HeadBranch     string    `json:"head_branch,omitempty"`
	TriggerEvent   string    `json:"trigger_event,omitempty"`
	Status         string    `json:"status"`
	Conclusion     string    `json:"conclusion,omitempty"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	Actor          string    `json:"actor,omitempty"`
	DisplayTitle   string    `json:"display_title,omitempty"`
	CreatedAt      string    `json:"created_at,omitempty"`
	HTMLURL        string    `json:"html_url,omitempty"`
	ObservedAt     time.Time `json:"observed_at"`
}

// Key returns the partition key for an event. Events for the same run
// always share a key so their order is preserved per partition.
func (e RunEvent) Key() string {
	return fmt.Sprintf("%s/%s/%d", e.Owner, e.Repo, e.RunID)
}

// Publisher serializes run events onto a broker topic.
type Publisher struct {
	broker broker.Broker
	topic  string
}

// NewPublisher wraps a broker for publishing run events on the standard
// topic.
func NewPublisher(b broker.Broker) *Publisher {
	return &Publisher{broker: b, topic: TopicRunEvents}
}

// Publish encodes the event and hands it to the broker.
func (p *Publisher) Publish(ctx context.Context, event RunEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode run event: %w", err)
	}
	return p.broker.Publish(ctx, p.topic, event.Key(), payload)
}

// Decode parses a run event from a broker message payload.
func Decode(payload []byte) (RunEvent, error) {
	var event RunEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return RunEvent{}, fmt.Errorf("decode run event: %w", err)
	}
	return event, nil
}
