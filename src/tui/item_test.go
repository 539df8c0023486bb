package tui

import (
	"testing"
	"time"

	"flywheel-agent/src/events"
)

func TestStatusGlyph(t *testing.T) {
	tests := []struct {
		status     string
		conclusion string
		want       string
	}{
		{"queued", "", "○"},
		{"waiting", "", "○"},
		{"in_progress", "", "●"},
		{"action_required", "", "!"},
		{"completed", "success", "✓"},
		{"completed", "failure", "✗"},
		{"completed", "timed_out", "✗"},
		{"completed", "cancelled", "⊘"},
		{"completed", "skipped", "-"},
	}

	for _, tt := range tests {
		if got := statusGlyph(tt.status, tt.conclusion); got != tt.want {
			t.Errorf("statusGlyph(%q, %q) = %q, want %q", tt.status, tt.conclusion, got, tt.want)
		}
	}
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{-2 * time.Second, "0s"},
		{42 * time.Second, "42s"},
		{3 * time.Minute, "3m"},
		{90 * time.Minute, "1h"},
		{26 * time.Hour, "1d"},
	}

	for _, tt := range tests {
		if got := formatAge(tt.d); got != tt.want {
			t.Errorf("formatAge(%s) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestItem_Age(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 5, 0, 0, time.UTC)

	item := Item{Run: events.RunEvent{CreatedAt: "2024-05-01T10:00:00Z"}}
	if got := item.Age(now); got != "5m" {
		t.Errorf("Age() = %q, want 5m", got)
	}

	// Unparseable creation time falls back to the observation time.
	item = Item{Run: events.RunEvent{
		CreatedAt:  "not a timestamp",
		ObservedAt: now.Add(-30 * time.Second),
	}}
	if got := item.Age(now); got != "30s" {
		t.Errorf("Age() fallback = %q, want 30s", got)
	}

	if got := (Item{}).Age(now); got != "" {
		t.Errorf("Age() with no timestamps = %q, want empty", got)
	}
}
