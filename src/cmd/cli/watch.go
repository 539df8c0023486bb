package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"flywheel-agent/src/broker"
	"flywheel-agent/src/events"
	"flywheel-agent/src/github"
	"flywheel-agent/src/logger"
	"flywheel-agent/src/tui"
	"flywheel-agent/src/watch"
)

// watchCmd launches the live run watch TUI
var watchCmd = &cobra.Command{
	Use:   "watch <owner>/<repo>",
	Short: "Watch a repository's workflow runs live",
	Long: `Polls the repository's workflow runs and renders them in a live
terminal view. New runs, status transitions and completions appear as
they are observed.

When REDPANDA_BROKERS is set, run events are additionally published to
that cluster on the ` + events.TopicRunEvents + ` topic, so external
consumers see the same stream the TUI renders.

With --detach: no TUI is launched; the watcher runs headless and logs
each run event to the console until interrupted. Useful when flywheel
only feeds the broker and the terminal output is piped or discarded.

Example:
  flywheel watch octocat/widgets --workflow ci.yml --branch main`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		owner, repo, err := splitRepo(args[0])
		if err != nil {
			fail(err)
		}

		workflow, _ := cmd.Flags().GetString("workflow")
		branch, _ := cmd.Flags().GetString("branch")
		interval, _ := cmd.Flags().GetDuration("interval")
		detach, _ := cmd.Flags().GetBool("detach")

		run := runWatch
		if detach {
			run = runWatchDetached
		}
		if err := run(owner, repo, workflow, branch, interval); err != nil {
			fail(err)
		}
	},
}

// selectBroker picks the event transport: Redpanda when brokers are
// configured, otherwise the in-process broker. The logger is silent in
// TUI mode and verbose in detach mode.
func selectBroker(log logger.Logger) (broker.Broker, error) {
	if len(appConfig.RedpandaBrokers) > 0 {
		return broker.NewRedpandaBroker(appConfig.RedpandaBrokers, log)
	}
	return broker.NewInMemoryBroker(), nil
}

// runWatch wires the watcher, the broker and the TUI together and blocks
// until the TUI exits.
func runWatch(owner, repo, workflow, branch string, interval time.Duration) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b, err := selectBroker(logger.NewSilentLogger())
	if err != nil {
		return err
	}
	defer b.Close()

	sub, err := b.Subscribe(ctx, events.TopicRunEvents, "flywheel-watch")
	if err != nil {
		return err
	}

	watcher := watch.NewWatcher(apiClient, events.NewPublisher(b), logger.NewSilentLogger(), watch.Options{
		Owner:      owner,
		Repo:       repo,
		WorkflowID: github.WorkflowID(workflow),
		Branch:     branch,
		Interval:   interval,
	})
	watcherDone := make(chan struct{})
	go func() {
		defer close(watcherDone)
		// Exits with ctx.Err() when the context tears down.
		_ = watcher.Run(ctx)
	}()

	model := tui.New(tui.Options{
		Owner:    owner,
		Repo:     repo,
		Workflow: workflow,
		Branch:   branch,
		Interval: interval,
		Events:   sub,
		Updates:  watcher.Updates(),
		Poke:     watcher.Poke,
	})

	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()

	// Stop the watcher before the deferred Close tears down the broker.
	cancel()
	<-watcherDone
	return err
}

// runWatchDetached runs the watcher without a TUI, logging every run
// event to the console until a shutdown signal arrives.
func runWatchDetached(owner, repo, workflow, branch string, interval time.Duration) error {
	log := logger.NewConsoleLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b, err := selectBroker(log)
	if err != nil {
		return err
	}
	defer b.Close()

	sub, err := b.Subscribe(ctx, events.TopicRunEvents, "flywheel-watch")
	if err != nil {
		return err
	}

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("[Watch] Shutdown signal received, stopping...")
		cancel()
	}()

	go func() {
		for msg := range sub {
			event, err := events.Decode(msg.Value)
			if err != nil {
				log.Error("[Watch] Undecodable event payload: %v", err)
				continue
			}
			state := event.Status
			if event.Conclusion != "" {
				state = event.Conclusion
			}
			log.Info("[Watch] %s: %s #%d (%s) %s", event.Type,
				event.WorkflowName, event.RunNumber, event.HeadBranch, state)
		}
	}()

	watcher := watch.NewWatcher(apiClient, events.NewPublisher(b), log, watch.Options{
		Owner:      owner,
		Repo:       repo,
		WorkflowID: github.WorkflowID(workflow),
		Branch:     branch,
		Interval:   interval,
	})
	if err := watcher.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	log.Info("[Watch] Stopped")
	return nil
}

func init() {
	watchCmd.Flags().StringP("workflow", "w", "", "Limit to one workflow (numeric ID or file name)")
	watchCmd.Flags().StringP("branch", "b", "", "Limit to runs on a branch")
	watchCmd.Flags().Duration("interval", 5*time.Second, "Poll interval")
	watchCmd.Flags().BoolP("detach", "d", false, "Detach mode: run headless and log run events instead of launching the TUI")
}
