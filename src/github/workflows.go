package github

import (
	"context"
	"fmt"
	"net/url"
)

// ListOptions is plain pagination. Zero values fall back to the API
// defaults and are omitted from the request.
type ListOptions struct {
	Page    int
	PerPage int
}

// DispatchRequest is the body for a workflow_dispatch trigger. Ref is the
// branch or tag to run on. Inputs are forwarded verbatim; the key is
// omitted entirely when no inputs were provided.
type DispatchRequest struct {
	Ref    string         `json:"ref"`
	Inputs map[string]any `json:"inputs,omitempty"`
}

// ListWorkflows returns the workflows defined in a repository.
func (c *Client) ListWorkflows(ctx context.Context, owner, repo string, opts ListOptions) (*WorkflowList, error) {
	var fe fieldErrors
	checkRepoRef(&fe, owner, repo)
	if err := fe.err(); err != nil {
		return nil, err
	}

	q := &apiQuery{}
	q.addInt("page", opts.Page)
	q.addInt("per_page", opts.PerPage)
	path := q.appendTo(fmt.Sprintf("/repos/%s/%s/actions/workflows", owner, repo))

	var list WorkflowList
	if err := c.getJSON(ctx, path, workflowListSchema, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetWorkflow returns one workflow by numeric ID or file name.
func (c *Client) GetWorkflow(ctx context.Context, owner, repo string, workflowID WorkflowID) (*Workflow, error) {
	var fe fieldErrors
	checkRepoRef(&fe, owner, repo)
	checkRequiredString(&fe, "workflowId", string(workflowID))
	if err := fe.err(); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/repos/%s/%s/actions/workflows/%s", owner, repo, url.PathEscape(string(workflowID)))

	var wf Workflow
	if err := c.getJSON(ctx, path, workflowSchema, &wf); err != nil {
		return nil, err
	}
	return &wf, nil
}

// GetWorkflowUsage returns billable time for one workflow, broken down by
// runner platform.
func (c *Client) GetWorkflowUsage(ctx context.Context, owner, repo string, workflowID WorkflowID) (*WorkflowUsage, error) {
	var fe fieldErrors
	checkRepoRef(&fe, owner, repo)
	checkRequiredString(&fe, "workflowId", string(workflowID))
	if err := fe.err(); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/repos/%s/%s/actions/workflows/%s/timing", owner, repo, url.PathEscape(string(workflowID)))

	var usage WorkflowUsage
	if err := c.getJSON(ctx, path, workflowUsageSchema, &usage); err != nil {
		return nil, err
	}
	return &usage, nil
}

// TriggerWorkflow requests a workflow_dispatch run. The API acknowledges
// with an empty 204 and does not report the new run's ID, so the returned
// Ack names the workflow and ref instead.
func (c *Client) TriggerWorkflow(ctx context.Context, owner, repo string, workflowID WorkflowID, req DispatchRequest) (*Ack, error) {
	var fe fieldErrors
	checkRepoRef(&fe, owner, repo)
	checkRequiredString(&fe, "workflowId", string(workflowID))
	checkRequiredString(&fe, "ref", req.Ref)
	if err := fe.err(); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/repos/%s/%s/actions/workflows/%s/dispatches", owner, repo, url.PathEscape(string(workflowID)))
	if err := c.postEmpty(ctx, path, req); err != nil {
		return nil, err
	}
	return &Ack{
		Success: true,
		Message: fmt.Sprintf("Workflow %s dispatched on ref %s", workflowID, req.Ref),
	}, nil
}
