// Demo program to showcase the Flywheel watch TUI with a rich, realistic dataset.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"flywheel-agent/src/broker"
	"flywheel-agent/src/events"
	"flywheel-agent/src/tui"
	"flywheel-agent/src/watch"
)

func main() {
	fmt.Println("Generating sample workflow runs...")
	seeds := generateSampleRuns()

	fmt.Printf("Loaded %d runs across %d workflows.\n", len(seeds), countUniqueWorkflows(seeds))
	fmt.Println("Launching TUI...")
	time.Sleep(500 * time.Millisecond) // Brief pause for effect

	ctx, cancel := context.WithCancel(context.Background())
	b := broker.NewInMemoryBroker()
	defer b.Close()
	defer cancel() // Runs first, stopping the simulated poll loop before Close.

	sub, err := b.Subscribe(ctx, events.TopicRunEvents, "flywheel-demo")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error subscribing: %v\n", err)
		os.Exit(1)
	}

	publisher := events.NewPublisher(b)
	for _, ev := range seeds {
		if err := publisher.Publish(ctx, ev); err != nil {
			fmt.Fprintf(os.Stderr, "Error publishing: %v\n", err)
			os.Exit(1)
		}
	}

	updates := make(chan watch.PollUpdate, 1)
	postUpdate := func() {
		select {
		case updates <- watch.PollUpdate{At: time.Now().UTC(), Runs: len(seeds)}:
		default:
		}
	}
	postUpdate()

	// Simulate the poll loop: a status update every five seconds, with two
	// staged run transitions so every event type shows up on screen.
	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		tick := 0
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			tick++
			switch tick {
			case 1:
				ev := seeds[4] // the queued lint run picks up a runner
				ev.Type = events.EventRunStatusChanged
				ev.PreviousStatus = ev.Status
				ev.Status = "in_progress"
				ev.ObservedAt = time.Now().UTC()
				_ = publisher.Publish(ctx, ev)
			case 2:
				ev := seeds[2] // the production deploy finishes
				ev.Type = events.EventRunCompleted
				ev.PreviousStatus = ev.Status
				ev.Status = "completed"
				ev.Conclusion = "success"
				ev.ObservedAt = time.Now().UTC()
				_ = publisher.Publish(ctx, ev)
			}
			postUpdate()
		}
	}()

	model := tui.New(tui.Options{
		Owner:    "acme",
		Repo:     "widgets",
		Interval: 5 * time.Second,
		Events:   sub,
		Updates:  updates,
		Poke:     postUpdate,
	})

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func countUniqueWorkflows(runs []events.RunEvent) int {
	names := make(map[string]bool)
	for _, r := range runs {
		names[r.WorkflowName] = true
	}
	return len(names)
}

// ago renders a creation timestamp the given duration in the past.
func ago(d time.Duration) string {
	return time.Now().UTC().Add(-d).Format(time.RFC3339)
}

func generateSampleRuns() []events.RunEvent {
	now := time.Now().UTC()
	return []events.RunEvent{
		// 1. CI on main - green
		{
			Type:         events.EventRunDiscovered,
			Owner:        "acme",
			Repo:         "widgets",
			RunID:        30433701,
			RunNumber:    412,
			WorkflowID:   161335,
			WorkflowName: "CI",
			HeadBranch:   "main",
			TriggerEvent: "push",
			Status:       "completed",
			Conclusion:   "success",
			Actor:        "octocat",
			DisplayTitle: "Bump golang.org/x/net to v0.27.1",
			CreatedAt:    ago(8 * time.Minute),
			HTMLURL:      "https://github.com/acme/widgets/actions/runs/30433701",
			ObservedAt:   now,
		},

		// 2. CI on a feature branch - red
		{
			Type:         events.EventRunDiscovered,
			Owner:        "acme",
			Repo:         "widgets",
			RunID:        30433712,
			RunNumber:    413,
			WorkflowID:   161335,
			WorkflowName: "CI",
			HeadBranch:   "fix/login-retry",
			TriggerEvent: "pull_request",
			Status:       "completed",
			Conclusion:   "failure",
			Actor:        "hubot",
			DisplayTitle: "Retry login on transient 503 responses",
			CreatedAt:    ago(3 * time.Minute),
			HTMLURL:      "https://github.com/acme/widgets/actions/runs/30433712",
			ObservedAt:   now,
		},

		// 3. Deploy in flight - completes live after ten seconds
		{
			Type:         events.EventRunDiscovered,
			Owner:        "acme",
			Repo:         "widgets",
			RunID:        30433720,
			RunNumber:    98,
			WorkflowID:   161418,
			WorkflowName: "Deploy",
			HeadBranch:   "main",
			TriggerEvent: "workflow_dispatch",
			Status:       "in_progress",
			Actor:        "release-bot",
			DisplayTitle: "Deploy 2026.08.2 to production",
			CreatedAt:    ago(1 * time.Minute),
			HTMLURL:      "https://github.com/acme/widgets/actions/runs/30433720",
			ObservedAt:   now,
		},

		// 4. Nightly soak that ran out of time
		{
			Type:         events.EventRunDiscovered,
			Owner:        "acme",
			Repo:         "widgets",
			RunID:        30433651,
			RunNumber:    211,
			WorkflowID:   161502,
			WorkflowName: "Nightly",
			HeadBranch:   "main",
			TriggerEvent: "schedule",
			Status:       "completed",
			Conclusion:   "timed_out",
			Actor:        "gh-cron",
			DisplayTitle: "Nightly soak test",
			CreatedAt:    ago(9 * time.Hour),
			HTMLURL:      "https://github.com/acme/widgets/actions/runs/30433651",
			ObservedAt:   now,
		},

		// 5. Lint waiting for a runner - goes in_progress live after five seconds
		{
			Type:         events.EventRunDiscovered,
			Owner:        "acme",
			Repo:         "widgets",
			RunID:        30433728,
			RunNumber:    414,
			WorkflowID:   161377,
			WorkflowName: "Lint",
			HeadBranch:   "chore/gofmt",
			TriggerEvent: "pull_request",
			Status:       "queued",
			Actor:        "monalisa",
			DisplayTitle: "Run gofmt across src",
			CreatedAt:    ago(30 * time.Second),
			HTMLURL:      "https://github.com/acme/widgets/actions/runs/30433728",
			ObservedAt:   now,
		},

		// 6. Cancelled release cut
		{
			Type:         events.EventRunDiscovered,
			Owner:        "acme",
			Repo:         "widgets",
			RunID:        30433688,
			RunNumber:    44,
			WorkflowID:   161460,
			WorkflowName: "Release",
			HeadBranch:   "release/v2.3",
			TriggerEvent: "workflow_dispatch",
			Status:       "completed",
			Conclusion:   "cancelled",
			Actor:        "octocat",
			DisplayTitle: "Cut v2.3.0",
			CreatedAt:    ago(2 * time.Hour),
			HTMLURL:      "https://github.com/acme/widgets/actions/runs/30433688",
			ObservedAt:   now,
		},

		// 7. Weekly CodeQL scan from yesterday
		{
			Type:         events.EventRunDiscovered,
			Owner:        "acme",
			Repo:         "widgets",
			RunID:        30433502,
			RunNumber:    71,
			WorkflowID:   161533,
			WorkflowName: "CodeQL",
			HeadBranch:   "main",
			TriggerEvent: "schedule",
			Status:       "completed",
			Conclusion:   "success",
			Actor:        "gh-cron",
			DisplayTitle: "Weekly scan",
			CreatedAt:    ago(26 * time.Hour),
			HTMLURL:      "https://github.com/acme/widgets/actions/runs/30433502",
			ObservedAt:   now,
		},

		// 8. E2E gated on a deployment approval
		{
			Type:         events.EventRunDiscovered,
			Owner:        "acme",
			Repo:         "widgets",
			RunID:        30433730,
			RunNumber:    156,
			WorkflowID:   161590,
			WorkflowName: "E2E",
			HeadBranch:   "main",
			TriggerEvent: "push",
			Status:       "waiting",
			Actor:        "hubot",
			DisplayTitle: "Awaiting approval for staging",
			CreatedAt:    ago(12 * time.Minute),
			HTMLURL:      "https://github.com/acme/widgets/actions/runs/30433730",
			ObservedAt:   now,
		},

		// 9. Build that never started
		{
			Type:         events.EventRunDiscovered,
			Owner:        "acme",
			Repo:         "widgets",
			RunID:        30433695,
			RunNumber:    307,
			WorkflowID:   161611,
			WorkflowName: "Build",
			HeadBranch:   "ci/pin-runner-image",
			TriggerEvent: "pull_request",
			Status:       "completed",
			Conclusion:   "startup_failure",
			Actor:        "monalisa",
			DisplayTitle: "ci: pin runner image to ubuntu-24.04",
			CreatedAt:    ago(45 * time.Minute),
			HTMLURL:      "https://github.com/acme/widgets/actions/runs/30433695",
			ObservedAt:   now,
		},
	}
}
