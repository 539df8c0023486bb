package mcp

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"

	"flywheel-agent/src/github"
)

// registerTools declares every tool and binds its handler. Parameter
// names follow the upstream API's camelCase convention so agents can map
// tool arguments onto GitHub documentation directly.
func (s *Server) registerTools() {
	listWorkflowsTool := mcp.NewTool("list_workflows",
		mcp.WithDescription("List the workflows defined in a repository."),
		mcp.WithString("owner", mcp.Required(), mcp.Description("Repository owner (user or organization login)")),
		mcp.WithString("repo", mcp.Required(), mcp.Description("Repository name")),
		mcp.WithNumber("page", mcp.Description("Page number of results (starts at 1)")),
		mcp.WithNumber("perPage", mcp.Description("Results per page (max 100)")),
	)
	s.mcpServer.AddTool(listWorkflowsTool, s.handleListWorkflows)

	getWorkflowTool := mcp.NewTool("get_workflow",
		mcp.WithDescription("Get one workflow by numeric ID or workflow file name (e.g. ci.yml)."),
		mcp.WithString("owner", mcp.Required(), mcp.Description("Repository owner")),
		mcp.WithString("repo", mcp.Required(), mcp.Description("Repository name")),
		mcp.WithString("workflowId", mcp.Required(), mcp.Description("Workflow ID (number) or workflow file name")),
	)
	s.mcpServer.AddTool(getWorkflowTool, s.handleGetWorkflow)

	getWorkflowUsageTool := mcp.NewTool("get_workflow_usage",
		mcp.WithDescription("Get billable time for a workflow, broken down by runner platform."),
		mcp.WithString("owner", mcp.Required(), mcp.Description("Repository owner")),
		mcp.WithString("repo", mcp.Required(), mcp.Description("Repository name")),
		mcp.WithString("workflowId", mcp.Required(), mcp.Description("Workflow ID (number) or workflow file name")),
	)
	s.mcpServer.AddTool(getWorkflowUsageTool, s.handleGetWorkflowUsage)

	listRunsTool := mcp.NewTool("list_workflow_runs",
		mcp.WithDescription("List workflow runs for a repository, or for one workflow when workflowId is given. Supports filtering by actor, branch, event, status, and creation date."),
		mcp.WithString("owner", mcp.Required(), mcp.Description("Repository owner")),
		mcp.WithString("repo", mcp.Required(), mcp.Description("Repository name")),
		mcp.WithString("workflowId", mcp.Description("Workflow ID or file name; scopes the listing to that workflow")),
		mcp.WithString("actor", mcp.Description("Only runs triggered by this user login")),
		mcp.WithString("branch", mcp.Description("Only runs on this branch")),
		mcp.WithString("event", mcp.Description("Only runs triggered by this event, e.g. push or workflow_dispatch")),
		mcp.WithString("status", mcp.Description("Only runs with this status or conclusion"),
			mcp.Enum("completed", "action_required", "cancelled", "failure", "neutral", "skipped",
				"stale", "success", "timed_out", "in_progress", "queued", "requested", "waiting", "pending")),
		mcp.WithString("created", mcp.Description("Creation date filter, e.g. >=2024-01-01 or 2024-01-01..2024-01-31")),
		mcp.WithBoolean("excludePullRequests", mcp.Description("Omit pull request runs from the listing")),
		mcp.WithNumber("checkSuiteId", mcp.Description("Only runs belonging to this check suite")),
		mcp.WithNumber("page", mcp.Description("Page number of results (starts at 1)")),
		mcp.WithNumber("perPage", mcp.Description("Results per page (max 100)")),
	)
	s.mcpServer.AddTool(listRunsTool, s.handleListWorkflowRuns)

	getRunTool := mcp.NewTool("get_workflow_run",
		mcp.WithDescription("Get one workflow run by ID."),
		mcp.WithString("owner", mcp.Required(), mcp.Description("Repository owner")),
		mcp.WithString("repo", mcp.Required(), mcp.Description("Repository name")),
		mcp.WithNumber("runId", mcp.Required(), mcp.Description("Workflow run ID")),
	)
	s.mcpServer.AddTool(getRunTool, s.handleGetWorkflowRun)

	getRunJobsTool := mcp.NewTool("get_workflow_run_jobs",
		mcp.WithDescription("List the jobs of a workflow run, including their steps."),
		mcp.WithString("owner", mcp.Required(), mcp.Description("Repository owner")),
		mcp.WithString("repo", mcp.Required(), mcp.Description("Repository name")),
		mcp.WithNumber("runId", mcp.Required(), mcp.Description("Workflow run ID")),
		mcp.WithString("filter", mcp.Description("latest returns jobs from the most recent attempt only"),
			mcp.Enum("latest", "all")),
		mcp.WithNumber("page", mcp.Description("Page number of results (starts at 1)")),
		mcp.WithNumber("perPage", mcp.Description("Results per page (max 100)")),
	)
	s.mcpServer.AddTool(getRunJobsTool, s.handleGetWorkflowRunJobs)

	listArtifactsTool := mcp.NewTool("list_workflow_run_artifacts",
		mcp.WithDescription("List the artifacts a workflow run produced."),
		mcp.WithString("owner", mcp.Required(), mcp.Description("Repository owner")),
		mcp.WithString("repo", mcp.Required(), mcp.Description("Repository name")),
		mcp.WithNumber("runId", mcp.Required(), mcp.Description("Workflow run ID")),
		mcp.WithNumber("page", mcp.Description("Page number of results (starts at 1)")),
		mcp.WithNumber("perPage", mcp.Description("Results per page (max 100)")),
	)
	s.mcpServer.AddTool(listArtifactsTool, s.handleListRunArtifacts)

	triggerTool := mcp.NewTool("trigger_workflow",
		mcp.WithDescription("Trigger a workflow_dispatch run of a workflow on a branch or tag. The workflow must declare the workflow_dispatch event."),
		mcp.WithString("owner", mcp.Required(), mcp.Description("Repository owner")),
		mcp.WithString("repo", mcp.Required(), mcp.Description("Repository name")),
		mcp.WithString("workflowId", mcp.Required(), mcp.Description("Workflow ID (number) or workflow file name")),
		mcp.WithString("ref", mcp.Required(), mcp.Description("Branch or tag to run the workflow on")),
		mcp.WithObject("inputs", mcp.Description("workflow_dispatch inputs, forwarded verbatim")),
	)
	s.mcpServer.AddTool(triggerTool, s.handleTriggerWorkflow)

	cancelTool := mcp.NewTool("cancel_workflow_run",
		mcp.WithDescription("Cancel an in-progress workflow run."),
		mcp.WithString("owner", mcp.Required(), mcp.Description("Repository owner")),
		mcp.WithString("repo", mcp.Required(), mcp.Description("Repository name")),
		mcp.WithNumber("runId", mcp.Required(), mcp.Description("Workflow run ID")),
	)
	s.mcpServer.AddTool(cancelTool, s.handleCancelWorkflowRun)

	rerunTool := mcp.NewTool("rerun_workflow_run",
		mcp.WithDescription("Re-run a completed workflow run."),
		mcp.WithString("owner", mcp.Required(), mcp.Description("Repository owner")),
		mcp.WithString("repo", mcp.Required(), mcp.Description("Repository name")),
		mcp.WithNumber("runId", mcp.Required(), mcp.Description("Workflow run ID")),
	)
	s.mcpServer.AddTool(rerunTool, s.handleRerunWorkflowRun)
}

// repoArgs extracts the owner and repo parameters common to every tool.
func repoArgs(request mcp.CallToolRequest) (string, string) {
	return request.GetString("owner", ""), request.GetString("repo", "")
}

// workflowIDArg reads workflowId, accepting either a string or a number
// and carrying the value through without normalization.
func workflowIDArg(request mcp.CallToolRequest) github.WorkflowID {
	raw, ok := request.GetArguments()["workflowId"]
	if !ok || raw == nil {
		return ""
	}
	switch v := raw.(type) {
	case string:
		return github.WorkflowID(v)
	case float64:
		return github.WorkflowID(strconv.FormatInt(int64(v), 10))
	case json.Number:
		return github.WorkflowID(v.String())
	}
	return ""
}

func runIDArg(request mcp.CallToolRequest) int64 {
	return int64(request.GetInt("runId", 0))
}

func pageArgs(request mcp.CallToolRequest) github.ListOptions {
	return github.ListOptions{
		Page:    request.GetInt("page", 0),
		PerPage: request.GetInt("perPage", 0),
	}
}

// optionalBoolArg distinguishes an absent boolean from an explicit false.
func optionalBoolArg(request mcp.CallToolRequest, key string) *bool {
	raw, ok := request.GetArguments()[key]
	if !ok {
		return nil
	}
	b, ok := raw.(bool)
	if !ok {
		return nil
	}
	return &b
}

func (s *Server) handleListWorkflows(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	owner, repo := repoArgs(request)
	list, err := s.client.ListWorkflows(ctx, owner, repo, pageArgs(request))
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(list)
}

func (s *Server) handleGetWorkflow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	owner, repo := repoArgs(request)
	wf, err := s.client.GetWorkflow(ctx, owner, repo, workflowIDArg(request))
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(wf)
}

func (s *Server) handleGetWorkflowUsage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	owner, repo := repoArgs(request)
	usage, err := s.client.GetWorkflowUsage(ctx, owner, repo, workflowIDArg(request))
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(usage)
}

func (s *Server) handleListWorkflowRuns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	owner, repo := repoArgs(request)
	filters := github.RunFilters{
		WorkflowID:          workflowIDArg(request),
		Actor:               request.GetString("actor", ""),
		Branch:              request.GetString("branch", ""),
		Event:               request.GetString("event", ""),
		Status:              request.GetString("status", ""),
		Created:             request.GetString("created", ""),
		ExcludePullRequests: optionalBoolArg(request, "excludePullRequests"),
		CheckSuiteID:        int64(request.GetInt("checkSuiteId", 0)),
		Page:                request.GetInt("page", 0),
		PerPage:             request.GetInt("perPage", 0),
	}

	list, err := s.client.ListWorkflowRuns(ctx, owner, repo, filters)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(list)
}

func (s *Server) handleGetWorkflowRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	owner, repo := repoArgs(request)
	run, err := s.client.GetWorkflowRun(ctx, owner, repo, runIDArg(request))
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(run)
}

func (s *Server) handleGetWorkflowRunJobs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	owner, repo := repoArgs(request)
	opts := github.JobsOptions{
		Filter:  request.GetString("filter", ""),
		Page:    request.GetInt("page", 0),
		PerPage: request.GetInt("perPage", 0),
	}

	list, err := s.client.ListWorkflowRunJobs(ctx, owner, repo, runIDArg(request), opts)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(list)
}

func (s *Server) handleListRunArtifacts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	owner, repo := repoArgs(request)
	list, err := s.client.ListWorkflowRunArtifacts(ctx, owner, repo, runIDArg(request), pageArgs(request))
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(list)
}

func (s *Server) handleTriggerWorkflow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	owner, repo := repoArgs(request)

	req := github.DispatchRequest{Ref: request.GetString("ref", "")}
	if inputs, ok := request.GetArguments()["inputs"].(map[string]any); ok && len(inputs) > 0 {
		req.Inputs = inputs
	}

	ack, err := s.client.TriggerWorkflow(ctx, owner, repo, workflowIDArg(request), req)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(ack)
}

func (s *Server) handleCancelWorkflowRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	owner, repo := repoArgs(request)
	ack, err := s.client.CancelWorkflowRun(ctx, owner, repo, runIDArg(request))
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(ack)
}

func (s *Server) handleRerunWorkflowRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	owner, repo := repoArgs(request)
	ack, err := s.client.RerunWorkflowRun(ctx, owner, repo, runIDArg(request))
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(ack)
}
