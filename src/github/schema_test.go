package github

import (
	"strings"
	"testing"
)

func TestDecodeResponse_MissingRequiredField(t *testing.T) {
	body := []byte(`{"id": 1, "name": "CI", "path": ".github/workflows/ci.yml"}`)

	var wf Workflow
	err := decodeResponse(body, workflowSchema, &wf)
	if !IsKind(err, KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), `missing required field "state"`) {
		t.Errorf("error %q should name the missing field", err.Error())
	}
}

func TestDecodeResponse_NullRequiredFieldFails(t *testing.T) {
	body := []byte(`{"id": 1, "name": "CI", "path": ".github/workflows/ci.yml", "state": null}`)

	var wf Workflow
	err := decodeResponse(body, workflowSchema, &wf)
	if !IsKind(err, KindValidation) {
		t.Fatalf("expected validation error for null required field, got %v", err)
	}
}

func TestDecodeResponse_WrongType(t *testing.T) {
	body := []byte(`{"id": "1", "name": "CI", "path": ".github/workflows/ci.yml", "state": "active"}`)

	var wf Workflow
	err := decodeResponse(body, workflowSchema, &wf)
	if !IsKind(err, KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "expected number, got string") {
		t.Errorf("error %q should describe the type mismatch", err.Error())
	}
}

func TestDecodeResponse_OptionalNullAndAbsent(t *testing.T) {
	// conclusion is null while a run is in progress, run_started_at may be
	// absent entirely. Neither is a shape violation.
	body := []byte(`{
		"id": 42, "run_number": 7, "event": "push", "status": "in_progress",
		"workflow_id": 1, "html_url": "https://github.com/o/r/actions/runs/42",
		"created_at": "2024-05-01T10:00:00Z", "conclusion": null
	}`)

	var run WorkflowRun
	if err := decodeResponse(body, workflowRunSchema, &run); err != nil {
		t.Fatalf("decodeResponse() error = %v", err)
	}
	if run.Conclusion != "" {
		t.Errorf("Conclusion = %q, want empty while in progress", run.Conclusion)
	}
}

func TestDecodeResponse_UnknownFieldsIgnored(t *testing.T) {
	body := []byte(`{
		"id": 1, "name": "CI", "path": ".github/workflows/ci.yml", "state": "active",
		"some_future_field": {"nested": true}
	}`)

	var wf Workflow
	if err := decodeResponse(body, workflowSchema, &wf); err != nil {
		t.Fatalf("decodeResponse() error = %v", err)
	}
}

func TestDecodeResponse_ArrayElementViolation(t *testing.T) {
	body := []byte(`{
		"total_count": 2,
		"jobs": [
			{"id": 1, "run_id": 42, "name": "build", "status": "completed"},
			{"id": 2, "run_id": 42, "status": "completed"}
		]
	}`)

	var list JobList
	err := decodeResponse(body, jobListSchema, &list)
	if !IsKind(err, KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "jobs[1]") {
		t.Errorf("error %q should name the offending element", err.Error())
	}
}

func TestDecodeResponse_NonObjectBody(t *testing.T) {
	var wf Workflow
	err := decodeResponse([]byte(`[1, 2, 3]`), workflowSchema, &wf)
	if !IsKind(err, KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "expected a JSON object, got array") {
		t.Errorf("error %q", err.Error())
	}
}

func TestDecodeResponse_InvalidJSON(t *testing.T) {
	var wf Workflow
	err := decodeResponse([]byte(`{"id": `), workflowSchema, &wf)
	if !IsKind(err, KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeResponse_NestedUsage(t *testing.T) {
	body := []byte(`{
		"billable": {
			"UBUNTU": {"total_ms": 180000},
			"MACOS": {"total_ms": 240000}
		}
	}`)

	var usage WorkflowUsage
	if err := decodeResponse(body, workflowUsageSchema, &usage); err != nil {
		t.Fatalf("decodeResponse() error = %v", err)
	}
	if usage.Billable.Ubuntu == nil || usage.Billable.Ubuntu.TotalMS != 180000 {
		t.Errorf("Ubuntu = %+v, want total_ms 180000", usage.Billable.Ubuntu)
	}
	if usage.Billable.Windows != nil {
		t.Error("Windows should be nil when absent")
	}

	bad := []byte(`{"billable": {"UBUNTU": {"total_ms": "lots"}}}`)
	if err := decodeResponse(bad, workflowUsageSchema, &usage); !IsKind(err, KindValidation) {
		t.Fatalf("expected validation error for nested type mismatch, got %v", err)
	}
}
