// Package watch polls the runs of one repository and publishes run
// events derived from the differences between successive polls. State
// lives in memory only; a restarted watcher rediscovers current runs.
package watch

import (
	"context"
	"fmt"
	"time"

	"flywheel-agent/src/events"
	"flywheel-agent/src/github"
	"flywheel-agent/src/logger"
)

const (
	defaultInterval = 5 * time.Second
	defaultPerPage  = 30
)

// RunLister is the slice of the API client the watcher needs.
type RunLister interface {
	ListWorkflowRuns(ctx context.Context, owner, repo string, filters github.RunFilters) (*github.WorkflowRunList, error)
}

// Options scopes a watcher to a repository and optionally narrows it to
// one workflow or branch.
type Options struct {
	Owner      string
	Repo       string
	WorkflowID github.WorkflowID
	Branch     string
	Interval   time.Duration
	PerPage    int
}

// runSnapshot is the remembered state of one run between polls.
type runSnapshot struct {
	status     string
	conclusion string
}

// PollUpdate reports the outcome of one poll. The watch TUI renders it
// as the status line; Err is nil on success.
type PollUpdate struct {
	At   time.Time
	Runs int
	Err  error
}

// Watcher turns polled run listings into a stream of run events.
type Watcher struct {
	lister  RunLister
	pub     *events.Publisher
	log     logger.Logger
	opts    Options
	known   map[int64]runSnapshot
	poke    chan struct{}
	updates chan PollUpdate
}

// NewWatcher creates a watcher. A nil logger silences it.
func NewWatcher(lister RunLister, pub *events.Publisher, log logger.Logger, opts Options) *Watcher {
	if log == nil {
		log = logger.NewSilentLogger()
	}
	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}
	if opts.PerPage <= 0 {
		opts.PerPage = defaultPerPage
	}
	return &Watcher{
		lister:  lister,
		pub:     pub,
		log:     log,
		opts:    opts,
		known:   make(map[int64]runSnapshot),
		poke:    make(chan struct{}, 1),
		updates: make(chan PollUpdate, 1),
	}
}

// Poke requests an immediate poll ahead of the next tick. Requests
// arriving while a poke is already pending are coalesced.
func (w *Watcher) Poke() {
	select {
	case w.poke <- struct{}{}:
	default:
	}
}

// Updates returns the poll status feed. Only the most recent update is
// retained; slow readers see the latest state, not a backlog.
func (w *Watcher) Updates() <-chan PollUpdate {
	return w.updates
}

// Run polls until the context ends. Poll failures are logged and the next
// tick proceeds normally; only context cancellation stops the loop.
func (w *Watcher) Run(ctx context.Context) error {
	w.log.Info("[Watcher] Watching %s/%s every %s", w.opts.Owner, w.opts.Repo, w.opts.Interval)

	w.poll(ctx)

	ticker := time.NewTicker(w.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("[Watcher] Context cancelled, shutting down")
			return ctx.Err()
		case <-ticker.C:
			w.poll(ctx)
		case <-w.poke:
			w.poll(ctx)
		}
	}
}

// poll runs one poll cycle and pushes its outcome onto the updates feed,
// displacing any unread previous update.
func (w *Watcher) poll(ctx context.Context) {
	runs, err := w.pollOnce(ctx)
	if err != nil {
		w.log.Error("[Watcher] Poll failed: %v", err)
	}

	select {
	case <-w.updates:
	default:
	}
	w.updates <- PollUpdate{At: time.Now().UTC(), Runs: runs, Err: err}
}

// pollOnce lists current runs, emits events for anything new or changed,
// and updates the snapshot map. It returns the number of runs listed.
func (w *Watcher) pollOnce(ctx context.Context) (int, error) {
	list, err := w.lister.ListWorkflowRuns(ctx, w.opts.Owner, w.opts.Repo, github.RunFilters{
		WorkflowID: w.opts.WorkflowID,
		Branch:     w.opts.Branch,
		PerPage:    w.opts.PerPage,
	})
	if err != nil {
		return 0, err
	}

	observed := time.Now().UTC()
	present := make(map[int64]bool, len(list.WorkflowRuns))

	for _, run := range list.WorkflowRuns {
		present[run.ID] = true
		prev, seen := w.known[run.ID]

		switch {
		case !seen:
			if err := w.publish(ctx, events.EventRunDiscovered, run, "", observed); err != nil {
				return 0, err
			}
		case prev.status != run.Status:
			eventType := events.EventRunStatusChanged
			if run.Status == "completed" {
				eventType = events.EventRunCompleted
			}
			if err := w.publish(ctx, eventType, run, prev.status, observed); err != nil {
				return 0, err
			}
		}

		w.known[run.ID] = runSnapshot{status: run.Status, conclusion: run.Conclusion}
	}

	// Completed runs that fell off the listing can never change again.
	for id, snap := range w.known {
		if !present[id] && snap.status == "completed" {
			delete(w.known, id)
		}
	}
	return len(list.WorkflowRuns), nil
}

func (w *Watcher) publish(ctx context.Context, eventType events.EventType, run github.WorkflowRun, previousStatus string, observed time.Time) error {
	event := events.RunEvent{
		Type:           eventType,
		Owner:          w.opts.Owner,
		Repo:           w.opts.Repo,
		RunID:          run.ID,
		RunNumber:      run.RunNumber,
		WorkflowID:     run.WorkflowID,
		WorkflowName:   run.Name,
		HeadBranch:     run.HeadBranch,
		TriggerEvent:   run.Event,
		Status:         run.Status,
		Conclusion:     run.Conclusion,
		PreviousStatus: previousStatus,
		DisplayTitle:   run.DisplayTitle,
		HTMLURL:        run.HTMLURL,
		ObservedAt:     observed,
	}
	if !run.CreatedAt.IsZero() {
		event.CreatedAt = run.CreatedAt.Format(time.RFC3339)
	}
	if run.Actor != nil {
		event.Actor = run.Actor.Login
	}
	if err := w.pub.Publish(ctx, event); err != nil {
		return fmt.Errorf("publish %s for run %d: %w", eventType, run.ID, err)
	}
	w.log.Debug("[Watcher] %s run=%d status=%s", eventType, run.ID, run.Status)
	return nil
}
