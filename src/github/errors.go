package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// ErrorKind identifies the failure category for one API call. Every error
// raised by this package carries exactly one kind; callers branch on the
// kind, never on message text.
type ErrorKind string

const (
	// KindValidation covers bad caller input and unprocessable upstream
	// payload shapes.
	KindValidation ErrorKind = "validation"
	// KindNotFound is a 404 from the API.
	KindNotFound ErrorKind = "not_found"
	// KindAuthentication is a 401 from the API (bad or expired credential).
	KindAuthentication ErrorKind = "authentication"
	// KindPermission is a 403 that is not rate limiting.
	KindPermission ErrorKind = "permission"
	// KindRateLimit is a 403 with the primary rate limit exhausted.
	KindRateLimit ErrorKind = "rate_limit"
	// KindConflict is a 409 from the API.
	KindConflict ErrorKind = "conflict"
	// KindTimeout means the bounded request window elapsed before a
	// response arrived.
	KindTimeout ErrorKind = "timeout"
	// KindNetwork is a transport failure before any response was received.
	KindNetwork ErrorKind = "network"
	// KindAPI is the residual kind for any other non-2xx response.
	KindAPI ErrorKind = "api"
)

// FieldError describes one invalid input field or one field-level
// validation failure reported by the API.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is the single classified error type for this package. Kind is
// the discriminator; only the fields relevant to that kind are populated
// (ResetAt for rate limits, Timeout for timeouts, ErrCode for transport
// failures, Fields and Body for validation failures, StatusCode and Body
// for HTTP-level failures).
type APIError struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
	Body       string
	Fields     []FieldError
	ResetAt    time.Time
	Timeout    time.Duration
	ErrCode    string
	Err        error
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "github: %s: %s", e.Kind, e.Message)
	for _, fe := range e.Fields {
		fmt.Fprintf(&b, "; %s: %s", fe.Field, fe.Message)
	}
	return b.String()
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is an *APIError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// newValidationError builds the single validation error raised for an
// operation's full set of input problems.
func newValidationError(fields []FieldError) *APIError {
	return &APIError{
		Kind:    KindValidation,
		Message: fmt.Sprintf("invalid input (%d problem(s))", len(fields)),
		Fields:  fields,
	}
}

// wireError is the JSON error envelope GitHub returns on non-2xx
// responses: a message, an optional documentation URL, and optional
// field-level validation errors.
type wireError struct {
	Message          string `json:"message"`
	DocumentationURL string `json:"documentation_url"`
	Errors           []struct {
		Resource string `json:"resource"`
		Field    string `json:"field"`
		Code     string `json:"code"`
		Message  string `json:"message"`
	} `json:"errors"`
}

// classifyStatus maps a non-2xx response onto one error kind. The 403
// branch applies the documented heuristic: when X-RateLimit-Remaining is
// zero the response is treated as rate limiting and the reset timestamp is
// parsed from X-RateLimit-Reset; otherwise it is a permission failure. A
// 403 issued for unrelated permission reasons while the quota happens to
// be exhausted is misclassified by this rule; that ambiguity is inherited
// from the upstream API, which signals both conditions the same way.
func classifyStatus(status int, header http.Header, body []byte) *APIError {
	var wire wireError
	message := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &wire) == nil && wire.Message != "" {
		message = wire.Message
	}

	switch status {
	case http.StatusUnauthorized:
		return &APIError{Kind: KindAuthentication, Message: message, StatusCode: status, Body: string(body)}
	case http.StatusForbidden:
		if header.Get("X-RateLimit-Remaining") == "0" {
			return &APIError{
				Kind:       KindRateLimit,
				Message:    message,
				StatusCode: status,
				Body:       string(body),
				ResetAt:    parseRateLimitReset(header),
			}
		}
		return &APIError{Kind: KindPermission, Message: message, StatusCode: status, Body: string(body)}
	case http.StatusNotFound:
		return &APIError{Kind: KindNotFound, Message: message, StatusCode: status, Body: string(body)}
	case http.StatusConflict:
		return &APIError{Kind: KindConflict, Message: message, StatusCode: status, Body: string(body)}
	}

	// 422 and any other 4xx carrying a validation-shaped body.
	if status == http.StatusUnprocessableEntity || (status >= 400 && status < 500 && len(wire.Errors) > 0) {
		apiErr := &APIError{Kind: KindValidation, Message: message, StatusCode: status, Body: string(body)}
		for _, we := range wire.Errors {
			detail := we.Message
			if detail == "" {
				detail = we.Code
			}
			apiErr.Fields = append(apiErr.Fields, FieldError{
				Field:   strings.TrimPrefix(we.Resource+"."+we.Field, "."),
				Message: detail,
			})
		}
		return apiErr
	}

	return &APIError{Kind: KindAPI, Message: message, StatusCode: status, Body: string(body)}
}

// parseRateLimitReset reads the X-RateLimit-Reset header (Unix seconds).
// Returns the zero time when the header is missing or malformed.
func parseRateLimitReset(header http.Header) time.Time {
	resetStr := header.Get("X-RateLimit-Reset")
	if resetStr == "" {
		return time.Time{}
	}
	resetUnix, err := strconv.ParseInt(resetStr, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(resetUnix, 0).UTC()
}

// classifyTransport maps a failure from http.Client.Do onto the timeout or
// network kind. Caller cancellation is passed through untouched so the
// caller sees its own context error.
func classifyTransport(err error, timeout time.Duration) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	if isTimeout(err) {
		return &APIError{
			Kind:    KindTimeout,
			Message: fmt.Sprintf("request timed out after %s", timeout),
			Timeout: timeout,
			Err:     err,
		}
	}
	return &APIError{
		Kind:    KindNetwork,
		Message: "network failure: " + err.Error(),
		ErrCode: transportCode(err),
		Err:     err,
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr) && urlErr.Timeout()
}

// transportCode reduces a transport failure to a stable short code so the
// boundary can report it without exposing Go error chains.
func transportCode(err error) string {
	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return "ECONNREFUSED"
	case errors.Is(err, syscall.ECONNRESET):
		return "ECONNRESET"
	case errors.Is(err, syscall.EHOSTUNREACH):
		return "EHOSTUNREACH"
	case errors.Is(err, syscall.ENETUNREACH):
		return "ENETUNREACH"
	case errors.Is(err, syscall.EPIPE):
		return "EPIPE"
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "ENOTFOUND"
	}
	return "ECONN"
}

// UserError wraps a classified error with a user-facing message and hint.
// The MCP handlers and the CLI render these; nothing below the boundary
// builds presentation text.
type UserError struct {
	Message string
	Hint    string
	Err     error
}

func (e *UserError) Error() string {
	msg := e.Message
	if e.Hint != "" {
		msg += "\n\nHint: " + e.Hint
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n\nDetails: %v", e.Err)
	}
	return msg
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// WrapError converts classified errors into user-facing messages with a
// kind-specific hint. Unclassified errors pass through unchanged.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	switch apiErr.Kind {
	case KindValidation:
		return &UserError{
			Message: "Invalid request",
			Hint:    "Check the reported fields and try again.",
			Err:     err,
		}
	case KindNotFound:
		return &UserError{
			Message: "Resource not found",
			Hint:    "Check the owner, repository, and identifier. Private repositories need a token with access.",
			Err:     err,
		}
	case KindAuthentication:
		return &UserError{
			Message: "Authentication failed",
			Hint:    "Check that GITHUB_TOKEN is set to a valid token with the actions scope.",
			Err:     err,
		}
	case KindPermission:
		return &UserError{
			Message: "Permission denied",
			Hint:    "The token does not have access to this resource. Fine-grained tokens need the Actions permission.",
			Err:     err,
		}
	case KindRateLimit:
		hint := "The API rate limit is exhausted."
		if !apiErr.ResetAt.IsZero() {
			hint = fmt.Sprintf("The API rate limit is exhausted. It resets at %s.", apiErr.ResetAt.Format(time.RFC3339))
		}
		return &UserError{Message: "Rate limit exceeded", Hint: hint, Err: err}
	case KindConflict:
		return &UserError{
			Message: "Conflict",
			Hint:    "The run is not in a state that allows this operation (for example cancelling a completed run).",
			Err:     err,
		}
	case KindTimeout:
		return &UserError{
			Message: "Request timed out",
			Hint:    fmt.Sprintf("No response within %s. The API may be slow or unreachable.", apiErr.Timeout),
			Err:     err,
		}
	case KindNetwork:
		return &UserError{
			Message: "Network failure",
			Hint:    fmt.Sprintf("Could not reach the API (%s). Check connectivity and GITHUB_API_URL.", apiErr.ErrCode),
			Err:     err,
		}
	default:
		return &UserError{
			Message: fmt.Sprintf("GitHub API error (HTTP %d)", apiErr.StatusCode),
			Hint:    "The API rejected the request. See details below.",
			Err:     err,
		}
	}
}
