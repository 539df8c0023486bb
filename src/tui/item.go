package tui

import (
	"fmt"
	"time"

	"flywheel-agent/src/events"
)

// Item represents one workflow run row in the watch list. It carries the
// most recent event observed for the run and implements bubbles/list.Item.
type Item struct {
	Run events.RunEvent
}

// FilterValue is the value used for fuzzy filtering.
func (i Item) FilterValue() string { return i.Run.WorkflowName }

// Title returns the primary text for the item (required by list.Item).
func (i Item) Title() string { return i.Run.DisplayTitle }

// Description returns the secondary text for the item (required by list.Item).
func (i Item) Description() string { return i.Run.HeadBranch }

// Completed reports whether the run reached its terminal status.
func (i Item) Completed() bool { return i.Run.Status == "completed" }

// Age renders how long ago the run was created, relative to now. Runs
// without a parseable creation time fall back to the observation time.
func (i Item) Age(now time.Time) string {
	created, err := time.Parse(time.RFC3339, i.Run.CreatedAt)
	if err != nil {
		created = i.Run.ObservedAt
	}
	if created.IsZero() {
		return ""
	}
	return formatAge(now.Sub(created))
}

// statusGlyph picks the single-character marker for a run state.
func statusGlyph(status, conclusion string) string {
	if status != "completed" {
		switch status {
		case "in_progress":
			return "●"
		case "action_required":
			return "!"
		default:
			return "○"
		}
	}
	switch conclusion {
	case "success":
		return "✓"
	case "failure", "timed_out", "startup_failure":
		return "✗"
	case "cancelled":
		return "⊘"
	default:
		return "-"
	}
}

// formatAge renders a duration in its largest sensible unit.
func formatAge(d time.Duration) string {
	switch {
	case d < 0:
		return "0s"
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
