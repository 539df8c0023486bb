package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient(ClientConfig{Token: "test-token", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func TestNewClient_RequiresToken(t *testing.T) {
	if _, err := NewClient(ClientConfig{}); err == nil {
		t.Fatal("expected error for missing token, got nil")
	}
}

func TestNewClient_Defaults(t *testing.T) {
	client, err := NewClient(ClientConfig{Token: "test-token"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if client.baseURL != defaultBaseURL {
		t.Errorf("baseURL = %s, want %s", client.baseURL, defaultBaseURL)
	}
	if client.timeout != defaultTimeout {
		t.Errorf("timeout = %s, want %s", client.timeout, defaultTimeout)
	}
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	client, err := NewClient(ClientConfig{Token: "test-token", BaseURL: "https://ghe.example.com/api/v3/"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if client.baseURL != "https://ghe.example.com/api/v3" {
		t.Errorf("baseURL = %s, want trailing slash removed", client.baseURL)
	}
}

func TestClient_RequestHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q, want Bearer test-token", got)
		}
		if got := r.Header.Get("Accept"); got != "application/vnd.github+json" {
			t.Errorf("Accept = %q", got)
		}
		if got := r.Header.Get("X-GitHub-Api-Version"); got != "2022-11-28" {
			t.Errorf("X-GitHub-Api-Version = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 1, "name": "CI", "path": ".github/workflows/ci.yml", "state": "active"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	if _, err := client.GetWorkflow(context.Background(), "owner", "repo", "1"); err != nil {
		t.Fatalf("GetWorkflow() error = %v", err)
	}
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	client, err := NewClient(ClientConfig{Token: "test-token", BaseURL: server.URL, Timeout: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	_, err = client.GetWorkflow(context.Background(), "owner", "repo", "1")
	if !IsKind(err, KindTimeout) {
		t.Fatalf("expected timeout error, got %v", err)
	}
	var apiErr *APIError
	if !asAPIError(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Timeout != 50*time.Millisecond {
		t.Errorf("Timeout = %s, want 50ms", apiErr.Timeout)
	}
}

func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listening anymore

	client, err := NewClient(ClientConfig{Token: "test-token", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	_, err = client.GetWorkflow(context.Background(), "owner", "repo", "1")
	if !IsKind(err, KindNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
	var apiErr *APIError
	if !asAPIError(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.ErrCode == "" {
		t.Error("expected a transport error code")
	}
}

func TestClient_CallerCancellationPassesThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetWorkflow(ctx, "owner", "repo", "1")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var apiErr *APIError
	if asAPIError(err, &apiErr) {
		t.Fatalf("caller cancellation should not be classified, got kind %s", apiErr.Kind)
	}
}

func TestClient_EmptySuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	ack, err := client.CancelWorkflowRun(context.Background(), "owner", "repo", 123)
	if err != nil {
		t.Fatalf("CancelWorkflowRun() error = %v", err)
	}
	if !ack.Success {
		t.Error("expected Success = true")
	}
}
