package events

import (
	"context"
	"testing"
	"time"

	"flywheel-agent/src/broker"
)

func TestPublisher_RoundTrip(t *testing.T) {
	b := broker.NewInMemoryBroker()
	defer b.Close()

	ctx := context.Background()
	ch, err := b.Subscribe(ctx, TopicRunEvents, "test-group")
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	pub := NewPublisher(b)
	event := RunEvent{
		Type:           EventRunStatusChanged,
		Owner:          "octocat",
		Repo:           "widgets",
		RunID:          30433642,
		RunNumber:      562,
		WorkflowID:     159038,
		Status:         "in_progress",
		PreviousStatus: "queued",
		Actor:          "octocat",
		DisplayTitle:   "Bump deps",
		CreatedAt:      "2024-05-01T09:59:40Z",
		ObservedAt:     time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	if err := pub.Publish(ctx, event); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	select {
	case msg := <-ch:
		if msg.Key != "octocat/widgets/30433642" {
			t.Errorf("Key = %q, want owner/repo/run", msg.Key)
		}
		decoded, err := Decode(msg.Value)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if decoded.Type != EventRunStatusChanged {
			t.Errorf("Type = %s", decoded.Type)
		}
		if decoded.PreviousStatus != "queued" {
			t.Errorf("PreviousStatus = %s", decoded.PreviousStatus)
		}
		if decoded.Actor != "octocat" || decoded.DisplayTitle != "Bump deps" {
			t.Errorf("Actor/DisplayTitle = %q/%q", decoded.Actor, decoded.DisplayTitle)
		}
		if !decoded.ObservedAt.Equal(event.ObservedAt) {
			t.Errorf("ObservedAt = %s", decoded.ObservedAt)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("Timeout waiting for event")
	}
}

func TestDecode_Invalid(t *testing.T) {
	if _, err := Decode([]byte("not json")); err == nil {
		t.Error("Decode should fail on malformed payloads")
	}
}
