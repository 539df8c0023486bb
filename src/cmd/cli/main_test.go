package main

import (
	"testing"

	"flywheel-agent/src/github"
)

// TestSplitRepo tests owner/repo argument parsing
func TestSplitRepo(t *testing.T) {
	tests := []struct {
		name      string
		arg       string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{
			name:      "valid repository",
			arg:       "octocat/widgets",
			wantOwner: "octocat",
			wantRepo:  "widgets",
		},
		{
			name:      "repo name containing a slash keeps the remainder",
			arg:       "octocat/widgets/extra",
			wantOwner: "octocat",
			wantRepo:  "widgets/extra",
		},
		{
			name:    "missing separator",
			arg:     "octocat",
			wantErr: true,
		},
		{
			name:    "empty owner",
			arg:     "/widgets",
			wantErr: true,
		},
		{
			name:    "empty repo",
			arg:     "octocat/",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, err := splitRepo(tt.arg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("splitRepo() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if owner != tt.wantOwner || repo != tt.wantRepo {
				t.Errorf("splitRepo() = %q/%q, want %q/%q", owner, repo, tt.wantOwner, tt.wantRepo)
			}
		})
	}
}

// TestParseRunID tests run identifier parsing
func TestParseRunID(t *testing.T) {
	if id, err := parseRunID("30433642"); err != nil || id != 30433642 {
		t.Errorf("parseRunID(30433642) = %d, %v", id, err)
	}

	for _, arg := range []string{"", "abc", "-5", "0", "12.5"} {
		if _, err := parseRunID(arg); err == nil {
			t.Errorf("parseRunID(%q) should fail", arg)
		}
	}
}

// TestResolveRunTarget tests run addressing for cancel and rerun
func TestResolveRunTarget(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantOwner string
		wantRepo  string
		wantRunID int64
		wantErr   bool
	}{
		{
			name:      "owner/repo pair with run id",
			args:      []string{"octocat/widgets", "30433642"},
			wantOwner: "octocat",
			wantRepo:  "widgets",
			wantRunID: 30433642,
		},
		{
			name:      "pasted run URL",
			args:      []string{"https://github.com/octocat/widgets/actions/runs/30433642"},
			wantOwner: "octocat",
			wantRepo:  "widgets",
			wantRunID: 30433642,
		},
		{
			name:      "run URL with a trailing job segment",
			args:      []string{"https://github.com/octocat/widgets/actions/runs/30433642/job/85066"},
			wantOwner: "octocat",
			wantRepo:  "widgets",
			wantRunID: 30433642,
		},
		{
			name:    "URL from another host",
			args:    []string{"https://example.com/octocat/widgets/actions/runs/30433642"},
			wantErr: true,
		},
		{
			name:    "single argument that is not a URL",
			args:    []string{"octocat/widgets"},
			wantErr: true,
		},
		{
			name:    "pair with a bad run id",
			args:    []string{"octocat/widgets", "abc"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, runID, err := resolveRunTarget(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolveRunTarget() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if owner != tt.wantOwner || repo != tt.wantRepo || runID != tt.wantRunID {
				t.Errorf("resolveRunTarget() = %q/%q run %d, want %q/%q run %d",
					owner, repo, runID, tt.wantOwner, tt.wantRepo, tt.wantRunID)
			}
		})
	}
}

// TestParseFields tests key=value input parsing
func TestParseFields(t *testing.T) {
	inputs, err := parseFields([]string{"environment=staging", "debug=true", "note=a=b"})
	if err != nil {
		t.Fatalf("parseFields() error = %v", err)
	}
	if inputs["environment"] != "staging" || inputs["debug"] != "true" {
		t.Errorf("inputs = %v", inputs)
	}
	// Only the first = separates key from value.
	if inputs["note"] != "a=b" {
		t.Errorf("note = %v, want a=b", inputs["note"])
	}

	if inputs, err := parseFields(nil); err != nil || inputs != nil {
		t.Errorf("parseFields(nil) = %v, %v; want nil, nil", inputs, err)
	}

	for _, field := range []string{"noequals", "=value"} {
		if _, err := parseFields([]string{field}); err == nil {
			t.Errorf("parseFields(%q) should fail", field)
		}
	}
}

// TestRunStateLabel tests the state column rendering
func TestRunStateLabel(t *testing.T) {
	tests := []struct {
		status     string
		conclusion string
		want       string
	}{
		{"completed", "success", "success"},
		{"completed", "failure", "failure"},
		{"completed", "", "completed"},
		{"in_progress", "", "in_progress"},
		{"queued", "", "queued"},
	}

	for _, tt := range tests {
		run := github.WorkflowRun{Status: tt.status, Conclusion: tt.conclusion}
		if got := runStateLabel(run); got != tt.want {
			t.Errorf("runStateLabel(%s/%s) = %q, want %q", tt.status, tt.conclusion, got, tt.want)
		}
	}
}
