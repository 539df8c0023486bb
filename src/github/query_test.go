package github

import "testing"

func TestAPIQuery_DeclarationOrder(t *testing.T) {
	q := &apiQuery{}
	q.addString("zeta", "1")
	q.addString("alpha", "2")
	q.addInt("mid", 3)

	if got := q.encode(); got != "zeta=1&alpha=2&mid=3" {
		t.Errorf("encode() = %q, want parameters in declaration order", got)
	}
}

func TestAPIQuery_OmitsAbsentValues(t *testing.T) {
	q := &apiQuery{}
	q.addString("actor", "")
	q.addInt("page", 0)
	q.addInt64("check_suite_id", 0)
	q.addBool("exclude_pull_requests", nil)

	if got := q.encode(); got != "" {
		t.Errorf("encode() = %q, want empty for all-absent parameters", got)
	}
	if got := q.appendTo("/repos/o/r/actions/runs"); got != "/repos/o/r/actions/runs" {
		t.Errorf("appendTo() = %q, want path unchanged", got)
	}
}

func TestAPIQuery_BooleanSerialization(t *testing.T) {
	yes, no := true, false

	q := &apiQuery{}
	q.addBool("exclude_pull_requests", &no)
	if got := q.encode(); got != "exclude_pull_requests=false" {
		t.Errorf("encode() = %q, explicit false must serialize", got)
	}

	q = &apiQuery{}
	q.addBool("exclude_pull_requests", &yes)
	if got := q.encode(); got != "exclude_pull_requests=true" {
		t.Errorf("encode() = %q", got)
	}
}

func TestAPIQuery_Escaping(t *testing.T) {
	q := &apiQuery{}
	q.addString("branch", "feature/fast path")
	q.addString("created", ">=2024-01-01")

	want := "branch=feature%2Ffast+path&created=%3E%3D2024-01-01"
	if got := q.encode(); got != want {
		t.Errorf("encode() = %q, want %q", got, want)
	}
}

func TestAPIQuery_AppendTo(t *testing.T) {
	q := &apiQuery{}
	q.addInt("page", 2)
	q.addInt("per_page", 50)

	if got := q.appendTo("/repos/o/r/actions/workflows"); got != "/repos/o/r/actions/workflows?page=2&per_page=50" {
		t.Errorf("appendTo() = %q", got)
	}
}
