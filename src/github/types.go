package github

import "time"

// WorkflowID addresses a workflow by numeric ID or by workflow file name
// (for example "ci.yml"). The value is carried into the request path
// verbatim; it is never parsed or normalized.
type WorkflowID string

// Workflow is one workflow definition in a repository.
type Workflow struct {
	ID        int64     `json:"id"`
	NodeID    string    `json:"node_id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	State     string    `json:"state"`
	URL       string    `json:"url"`
	HTMLURL   string    `json:"html_url"`
	BadgeURL  string    `json:"badge_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WorkflowList is the response for the workflow listing endpoint.
type WorkflowList struct {
	TotalCount int        `json:"total_count"`
	Workflows  []Workflow `json:"workflows"`
}

// Actor is the user that triggered a run.
type Actor struct {
	Login   string `json:"login"`
	ID      int64  `json:"id"`
	HTMLURL string `json:"html_url"`
}

// WorkflowRun is one execution of a workflow. Status moves through
// queued, in_progress, completed; Conclusion stays empty until the run
// completes.
type WorkflowRun struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	NodeID       string    `json:"node_id"`
	DisplayTitle string    `json:"display_title"`
	RunNumber    int       `json:"run_number"`
	RunAttempt   int       `json:"run_attempt"`
	Event        string    `json:"event"`
	Status       string    `json:"status"`
	Conclusion   string    `json:"conclusion"`
	WorkflowID   int64     `json:"workflow_id"`
	CheckSuiteID int64     `json:"check_suite_id"`
	HeadBranch   string    `json:"head_branch"`
	HeadSHA      string    `json:"head_sha"`
	URL          string    `json:"url"`
	HTMLURL      string    `json:"html_url"`
	Actor        *Actor    `json:"actor,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	RunStartedAt time.Time `json:"run_started_at"`
}

// WorkflowRunList is the response for both run listing endpoints.
type WorkflowRunList struct {
	TotalCount   int           `json:"total_count"`
	WorkflowRuns []WorkflowRun `json:"workflow_runs"`
}

// Step is one step within a job.
type Step struct {
	Name       string `json:"name"`
	Status     string `json:"status"`
	Conclusion string `json:"conclusion"`
	Number     int    `json:"number"`
}

// Job is one job within a workflow run.
type Job struct {
	ID          int64     `json:"id"`
	RunID       int64     `json:"run_id"`
	NodeID      string    `json:"node_id"`
	Name        string    `json:"name"`
	Status      string    `json:"status"`
	Conclusion  string    `json:"conclusion"`
	HTMLURL     string    `json:"html_url"`
	RunnerName  string    `json:"runner_name"`
	Labels      []string  `json:"labels"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	Steps       []Step    `json:"steps"`
}

// JobList is the response for the run jobs endpoint.
type JobList struct {
	TotalCount int   `json:"total_count"`
	Jobs       []Job `json:"jobs"`
}

// UsagePlatform is the billable time on one runner platform.
type UsagePlatform struct {
	TotalMS int64 `json:"total_ms"`
}

// UsageBillable breaks billable time down by runner platform. Platforms
// the workflow never ran on are absent.
type UsageBillable struct {
	Ubuntu  *UsagePlatform `json:"UBUNTU,omitempty"`
	MacOS   *UsagePlatform `json:"MACOS,omitempty"`
	Windows *UsagePlatform `json:"WINDOWS,omitempty"`
}

// WorkflowUsage is the response for the workflow usage endpoint.
type WorkflowUsage struct {
	Billable UsageBillable `json:"billable"`
}

// Artifact is one artifact produced by a workflow run.
type Artifact struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	SizeInBytes        int64     `json:"size_in_bytes"`
	ArchiveDownloadURL string    `json:"archive_download_url"`
	Expired            bool      `json:"expired"`
	CreatedAt          time.Time `json:"created_at"`
	ExpiresAt          time.Time `json:"expires_at"`
}

// ArtifactList is the response for the run artifacts endpoint.
type ArtifactList struct {
	TotalCount int        `json:"total_count"`
	Artifacts  []Artifact `json:"artifacts"`
}

// Ack is the synthetic result for write operations. The API answers those
// with an empty 204, so the acknowledgement and its message are built
// client-side.
type Ack struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
