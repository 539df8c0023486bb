package github

import (
	"context"
	"fmt"
	"net/url"
)

// RunFilters narrows a run listing. WorkflowID switches the request to
// the per-workflow endpoint; every other field maps onto one query
// parameter and is omitted when unset.
type RunFilters struct {
	WorkflowID          WorkflowID
	Actor               string
	Branch              string
	Event               string
	Status              string
	Created             string
	ExcludePullRequests *bool
	CheckSuiteID        int64
	Page                int
	PerPage             int
}

// JobsOptions narrows a job listing. Filter selects "latest" (jobs from
// the most recent attempt) or "all".
type JobsOptions struct {
	Filter  string
	Page    int
	PerPage int
}

// ListWorkflowRuns returns runs for a repository. When filters carry a
// WorkflowID the listing is scoped to that workflow; any WorkflowID value
// counts as set, including ones that merely look empty-ish like "0".
func (c *Client) ListWorkflowRuns(ctx context.Context, owner, repo string, filters RunFilters) (*WorkflowRunList, error) {
	var fe fieldErrors
	checkRepoRef(&fe, owner, repo)
	checkEnum(&fe, "status", filters.Status, runStatusValues)
	if err := fe.err(); err != nil {
		return nil, err
	}

	base := fmt.Sprintf("/repos/%s/%s/actions/runs", owner, repo)
	if filters.WorkflowID != "" {
		base = fmt.Sprintf("/repos/%s/%s/actions/workflows/%s/runs", owner, repo, url.PathEscape(string(filters.WorkflowID)))
	}

	q := &apiQuery{}
	q.addString("actor", filters.Actor)
	q.addString("branch", filters.Branch)
	q.addString("event", filters.Event)
	q.addString("status", filters.Status)
	q.addString("created", filters.Created)
	q.addBool("exclude_pull_requests", filters.ExcludePullRequests)
	q.addInt64("check_suite_id", filters.CheckSuiteID)
	q.addInt("page", filters.Page)
	q.addInt("per_page", filters.PerPage)

	var list WorkflowRunList
	if err := c.getJSON(ctx, q.appendTo(base), workflowRunListSchema, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetWorkflowRun returns one run by ID.
func (c *Client) GetWorkflowRun(ctx context.Context, owner, repo string, runID int64) (*WorkflowRun, error) {
	var fe fieldErrors
	checkRepoRef(&fe, owner, repo)
	checkPositiveID(&fe, "runId", runID)
	if err := fe.err(); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/repos/%s/%s/actions/runs/%d", owner, repo, runID)

	var run WorkflowRun
	if err := c.getJSON(ctx, path, workflowRunSchema, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// ListWorkflowRunJobs returns the jobs of one run.
func (c *Client) ListWorkflowRunJobs(ctx context.Context, owner, repo string, runID int64, opts JobsOptions) (*JobList, error) {
	var fe fieldErrors
	checkRepoRef(&fe, owner, repo)
	checkPositiveID(&fe, "runId", runID)
	checkEnum(&fe, "filter", opts.Filter, jobFilterValues)
	if err := fe.err(); err != nil {
		return nil, err
	}

	q := &apiQuery{}
	q.addString("filter", opts.Filter)
	q.addInt("page", opts.Page)
	q.addInt("per_page", opts.PerPage)
	path := q.appendTo(fmt.Sprintf("/repos/%s/%s/actions/runs/%d/jobs", owner, repo, runID))

	var list JobList
	if err := c.getJSON(ctx, path, jobListSchema, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// ListWorkflowRunArtifacts returns the artifacts a run produced.
func (c *Client) ListWorkflowRunArtifacts(ctx context.Context, owner, repo string, runID int64, opts ListOptions) (*ArtifactList, error) {
	var fe fieldErrors
	checkRepoRef(&fe, owner, repo)
	checkPositiveID(&fe, "runId", runID)
	if err := fe.err(); err != nil {
		return nil, err
	}

	q := &apiQuery{}
	q.addInt("page", opts.Page)
	q.addInt("per_page", opts.PerPage)
	path := q.appendTo(fmt.Sprintf("/repos/%s/%s/actions/runs/%d/artifacts", owner, repo, runID))

	var list ArtifactList
	if err := c.getJSON(ctx, path, artifactListSchema, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// CancelWorkflowRun asks the API to cancel an in-progress run. The API
// accepts with an empty response, so the Ack is synthesized here.
func (c *Client) CancelWorkflowRun(ctx context.Context, owner, repo string, runID int64) (*Ack, error) {
	var fe fieldErrors
	checkRepoRef(&fe, owner, repo)
	checkPositiveID(&fe, "runId", runID)
	if err := fe.err(); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/repos/%s/%s/actions/runs/%d/cancel", owner, repo, runID)
	if err := c.postEmpty(ctx, path, nil); err != nil {
		return nil, err
	}
	return &Ack{
		Success: true,
		Message: fmt.Sprintf("Cancellation requested for run %d", runID),
	}, nil
}

// RerunWorkflowRun asks the API to re-run a completed run.
func (c *Client) RerunWorkflowRun(ctx context.Context, owner, repo string, runID int64) (*Ack, error) {
	var fe fieldErrors
	checkRepoRef(&fe, owner, repo)
	checkPositiveID(&fe, "runId", runID)
	if err := fe.err(); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/repos/%s/%s/actions/runs/%d/rerun", owner, repo, runID)
	if err := c.postEmpty(ctx, path, nil); err != nil {
		return nil, err
	}
	return &Ack{
		Success: true,
		Message: fmt.Sprintf("Re-run requested for run %d", runID),
	}, nil
}
