package github

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"
)

func asAPIError(err error, target **APIError) bool {
	return errors.As(err, target)
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		header   http.Header
		body     string
		wantKind ErrorKind
	}{
		{
			name:     "401 is authentication",
			status:   401,
			body:     `{"message": "Bad credentials"}`,
			wantKind: KindAuthentication,
		},
		{
			name:     "403 without exhausted quota is permission",
			status:   403,
			header:   http.Header{"X-Ratelimit-Remaining": []string{"4999"}},
			body:     `{"message": "Resource not accessible by integration"}`,
			wantKind: KindPermission,
		},
		{
			name:     "403 with exhausted quota is rate limit",
			status:   403,
			header:   http.Header{"X-Ratelimit-Remaining": []string{"0"}, "X-Ratelimit-Reset": []string{"1700000000"}},
			body:     `{"message": "API rate limit exceeded"}`,
			wantKind: KindRateLimit,
		},
		{
			name:     "404 is not found",
			status:   404,
			body:     `{"message": "Not Found"}`,
			wantKind: KindNotFound,
		},
		{
			name:     "409 is conflict",
			status:   409,
			body:     `{"message": "Cannot cancel a completed run"}`,
			wantKind: KindConflict,
		},
		{
			name:     "422 is validation",
			status:   422,
			body:     `{"message": "Validation Failed", "errors": [{"resource": "WorkflowDispatch", "field": "ref", "code": "invalid"}]}`,
			wantKind: KindValidation,
		},
		{
			name:     "400 with validation-shaped body is validation",
			status:   400,
			body:     `{"message": "Invalid request", "errors": [{"field": "inputs", "message": "unexpected input"}]}`,
			wantKind: KindValidation,
		},
		{
			name:     "500 is the generic api kind",
			status:   500,
			body:     `{"message": "Server Error"}`,
			wantKind: KindAPI,
		},
		{
			name:     "non-JSON body is still classified",
			status:   502,
			body:     `Bad Gateway`,
			wantKind: KindAPI,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := tt.header
			if header == nil {
				header = http.Header{}
			}
			apiErr := classifyStatus(tt.status, header, []byte(tt.body))
			if apiErr.Kind != tt.wantKind {
				t.Errorf("Kind = %s, want %s", apiErr.Kind, tt.wantKind)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.status)
			}
			if apiErr.Body != tt.body {
				t.Errorf("Body = %q, want original body preserved", apiErr.Body)
			}
		})
	}
}

func TestClassifyStatus_RateLimitReset(t *testing.T) {
	header := http.Header{}
	header.Set("X-RateLimit-Remaining", "0")
	header.Set("X-RateLimit-Reset", "1700000000")

	apiErr := classifyStatus(403, header, []byte(`{"message": "API rate limit exceeded"}`))
	want := time.Unix(1700000000, 0).UTC()
	if !apiErr.ResetAt.Equal(want) {
		t.Errorf("ResetAt = %s, want %s", apiErr.ResetAt, want)
	}
}

func TestClassifyStatus_ValidationFields(t *testing.T) {
	body := `{"message": "Validation Failed", "errors": [
		{"resource": "WorkflowDispatch", "field": "ref", "code": "missing_field"},
		{"field": "inputs", "message": "Unexpected inputs provided"}
	]}`
	apiErr := classifyStatus(422, http.Header{}, []byte(body))
	if len(apiErr.Fields) != 2 {
		t.Fatalf("Fields = %d, want 2", len(apiErr.Fields))
	}
	if apiErr.Fields[0].Field != "WorkflowDispatch.ref" {
		t.Errorf("Fields[0].Field = %q", apiErr.Fields[0].Field)
	}
	if apiErr.Fields[0].Message != "missing_field" {
		t.Errorf("Fields[0].Message = %q", apiErr.Fields[0].Message)
	}
	if apiErr.Fields[1].Field != "inputs" {
		t.Errorf("Fields[1].Field = %q", apiErr.Fields[1].Field)
	}
}

func TestClassifyStatus_UsesWireMessage(t *testing.T) {
	apiErr := classifyStatus(404, http.Header{}, []byte(`{"message": "Not Found", "documentation_url": "https://docs.github.com"}`))
	if apiErr.Message != "Not Found" {
		t.Errorf("Message = %q, want wire message", apiErr.Message)
	}
}

func TestIsKind(t *testing.T) {
	err := &APIError{Kind: KindNotFound, Message: "Not Found"}
	if !IsKind(err, KindNotFound) {
		t.Error("IsKind should match the error's kind")
	}
	if IsKind(err, KindConflict) {
		t.Error("IsKind should not match a different kind")
	}
	if IsKind(errors.New("plain"), KindNotFound) {
		t.Error("IsKind should not match unclassified errors")
	}
}

func TestAPIError_Error(t *testing.T) {
	err := newValidationError([]FieldError{
		{Field: "owner", Message: "required"},
		{Field: "repo", Message: "required"},
	})
	msg := err.Error()
	if !strings.Contains(msg, "validation") {
		t.Errorf("error %q should name its kind", msg)
	}
	if !strings.Contains(msg, "owner: required") || !strings.Contains(msg, "repo: required") {
		t.Errorf("error %q should enumerate every field", msg)
	}
}

func TestWrapError(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		if WrapError(nil) != nil {
			t.Error("expected nil")
		}
	})

	t.Run("unclassified errors pass through", func(t *testing.T) {
		plain := errors.New("plain")
		if WrapError(plain) != plain {
			t.Error("expected the original error")
		}
	})

	t.Run("rate limit hint names the reset time", func(t *testing.T) {
		reset := time.Unix(1700000000, 0).UTC()
		wrapped := WrapError(&APIError{Kind: KindRateLimit, Message: "API rate limit exceeded", ResetAt: reset})
		var userErr *UserError
		if !errors.As(wrapped, &userErr) {
			t.Fatalf("expected *UserError, got %T", wrapped)
		}
		if !strings.Contains(userErr.Hint, reset.Format(time.RFC3339)) {
			t.Errorf("hint %q should contain the reset time", userErr.Hint)
		}
	})

	t.Run("wrapped error keeps the classified cause", func(t *testing.T) {
		cause := &APIError{Kind: KindAuthentication, Message: "Bad credentials"}
		wrapped := WrapError(cause)
		if !IsKind(wrapped, KindAuthentication) {
			t.Error("the classified kind should survive wrapping")
		}
	})
}
