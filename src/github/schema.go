package github

import (
	"encoding/json"
	"fmt"
)

// jsonKind is the JSON type a response field must carry.
type jsonKind int

const (
	kindString jsonKind = iota
	kindNumber
	kindBool
	kindObject
	kindArray
)

func (k jsonKind) String() string {
	switch k {
	case kindString:
		return "string"
	case kindNumber:
		return "number"
	case kindBool:
		return "boolean"
	case kindObject:
		return "object"
	case kindArray:
		return "array"
	}
	return "unknown"
}

// field describes one member of an upstream response object. Optional
// fields may be missing or null; required fields must be present,
// non-null, and of the declared kind. elem checks each element of an
// array field, props checks a nested object field; either may be nil to
// accept any content.
type field struct {
	name     string
	kind     jsonKind
	required bool
	elem     *objectSchema
	props    *objectSchema
}

// objectSchema is the declared shape of one upstream response object.
// Members not listed here are ignored, never rejected; the API adds
// fields freely and the contract only pins what the callers consume.
type objectSchema struct {
	name   string
	fields []field
}

// check walks a decoded JSON object against the schema and reports the
// first shape violation. Violations are hard failures; a missing required
// field is never substituted with a zero value.
func (s *objectSchema) check(obj map[string]any) error {
	for _, f := range s.fields {
		value, present := obj[f.name]
		if !present || value == nil {
			if f.required {
				return fmt.Errorf("%s: missing required field %q", s.name, f.name)
			}
			continue
		}
		if err := f.checkValue(s.name, value); err != nil {
			return err
		}
	}
	return nil
}

func (f *field) checkValue(parent string, value any) error {
	switch f.kind {
	case kindString:
		if _, ok := value.(string); !ok {
			return typeMismatch(parent, f.name, f.kind, value)
		}
	case kindNumber:
		if _, ok := value.(float64); !ok {
			return typeMismatch(parent, f.name, f.kind, value)
		}
	case kindBool:
		if _, ok := value.(bool); !ok {
			return typeMismatch(parent, f.name, f.kind, value)
		}
	case kindObject:
		nested, ok := value.(map[string]any)
		if !ok {
			return typeMismatch(parent, f.name, f.kind, value)
		}
		if f.props != nil {
			return f.props.check(nested)
		}
	case kindArray:
		elems, ok := value.([]any)
		if !ok {
			return typeMismatch(parent, f.name, f.kind, value)
		}
		if f.elem != nil {
			for i, e := range elems {
				obj, ok := e.(map[string]any)
				if !ok {
					return fmt.Errorf("%s.%s[%d]: expected object, got %s", parent, f.name, i, describeJSON(e))
				}
				if err := f.elem.check(obj); err != nil {
					return fmt.Errorf("%s.%s[%d]: %w", parent, f.name, i, err)
				}
			}
		}
	}
	return nil
}

func typeMismatch(parent, name string, want jsonKind, got any) error {
	return fmt.Errorf("%s.%s: expected %s, got %s", parent, name, want, describeJSON(got))
}

func describeJSON(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case nil:
		return "null"
	}
	return fmt.Sprintf("%T", v)
}

// decodeResponse validates a response body against the endpoint's schema
// and then unmarshals it into target. Shape violations surface as
// validation errors carrying the offending body; they are never coerced
// into partially filled structs.
func decodeResponse(body []byte, schema *objectSchema, target any) error {
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return &APIError{
			Kind:    KindValidation,
			Message: fmt.Sprintf("%s: response is not valid JSON: %v", schema.name, err),
			Body:    string(body),
			Err:     err,
		}
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return &APIError{
			Kind:    KindValidation,
			Message: fmt.Sprintf("%s: expected a JSON object, got %s", schema.name, describeJSON(raw)),
			Body:    string(body),
		}
	}
	if err := schema.check(obj); err != nil {
		return &APIError{
			Kind:    KindValidation,
			Message: "unexpected response shape: " + err.Error(),
			Body:    string(body),
			Err:     err,
		}
	}
	if err := json.Unmarshal(body, target); err != nil {
		return &APIError{
			Kind:    KindValidation,
			Message: fmt.Sprintf("%s: decode failed: %v", schema.name, err),
			Body:    string(body),
			Err:     err,
		}
	}
	return nil
}

// Response schemas, one per endpoint. Required fields are the ones every
// downstream consumer (tool results, CLI tables, the watch TUI) relies
// on; everything else stays optional because the API omits or nulls
// fields depending on run state and event type.
var (
	workflowSchema = &objectSchema{
		name: "workflow",
		fields: []field{
			{name: "id", kind: kindNumber, required: true},
			{name: "name", kind: kindString, required: true},
			{name: "path", kind: kindString, required: true},
			{name: "state", kind: kindString, required: true},
			{name: "node_id", kind: kindString},
			{name: "url", kind: kindString},
			{name: "html_url", kind: kindString},
			{name: "badge_url", kind: kindString},
			{name: "created_at", kind: kindString},
			{name: "updated_at", kind: kindString},
		},
	}

	workflowListSchema = &objectSchema{
		name: "workflow list",
		fields: []field{
			{name: "total_count", kind: kindNumber, required: true},
			{name: "workflows", kind: kindArray, required: true, elem: workflowSchema},
		},
	}

	workflowRunSchema = &objectSchema{
		name: "workflow run",
		fields: []field{
			{name: "id", kind: kindNumber, required: true},
			{name: "run_number", kind: kindNumber, required: true},
			{name: "event", kind: kindString, required: true},
			{name: "status", kind: kindString, required: true},
			{name: "workflow_id", kind: kindNumber, required: true},
			{name: "html_url", kind: kindString, required: true},
			{name: "created_at", kind: kindString, required: true},
			{name: "name", kind: kindString},
			{name: "display_title", kind: kindString},
			{name: "conclusion", kind: kindString},
			{name: "run_attempt", kind: kindNumber},
			{name: "head_branch", kind: kindString},
			{name: "head_sha", kind: kindString},
			{name: "updated_at", kind: kindString},
			{name: "run_started_at", kind: kindString},
			{name: "actor", kind: kindObject},
		},
	}

	workflowRunListSchema = &objectSchema{
		name: "workflow run list",
		fields: []field{
			{name: "total_count", kind: kindNumber, required: true},
			{name: "workflow_runs", kind: kindArray, required: true, elem: workflowRunSchema},
		},
	}

	usagePlatformSchema = &objectSchema{
		name: "usage platform",
		fields: []field{
			{name: "total_ms", kind: kindNumber, required: true},
		},
	}

	workflowUsageSchema = &objectSchema{
		name: "workflow usage",
		fields: []field{
			{name: "billable", kind: kindObject, required: true, props: &objectSchema{
				name: "billable",
				fields: []field{
					{name: "UBUNTU", kind: kindObject, props: usagePlatformSchema},
					{name: "MACOS", kind: kindObject, props: usagePlatformSchema},
					{name: "WINDOWS", kind: kindObject, props: usagePlatformSchema},
				},
			}},
		},
	}

	jobSchema = &objectSchema{
		name: "job",
		fields: []field{
			{name: "id", kind: kindNumber, required: true},
			{name: "run_id", kind: kindNumber, required: true},
			{name: "name", kind: kindString, required: true},
			{name: "status", kind: kindString, required: true},
			{name: "conclusion", kind: kindString},
			{name: "html_url", kind: kindString},
			{name: "runner_name", kind: kindString},
			{name: "started_at", kind: kindString},
			{name: "completed_at", kind: kindString},
			{name: "steps", kind: kindArray, elem: &objectSchema{
				name: "step",
				fields: []field{
					{name: "name", kind: kindString, required: true},
					{name: "status", kind: kindString, required: true},
					{name: "number", kind: kindNumber, required: true},
					{name: "conclusion", kind: kindString},
				},
			}},
		},
	}

	jobListSchema = &objectSchema{
		name: "job list",
		fields: []field{
			{name: "total_count", kind: kindNumber, required: true},
			{name: "jobs", kind: kindArray, required: true, elem: jobSchema},
		},
	}

	artifactSchema = &objectSchema{
		name: "artifact",
		fields: []field{
			{name: "id", kind: kindNumber, required: true},
			{name: "name", kind: kindString, required: true},
			{name: "size_in_bytes", kind: kindNumber, required: true},
			{name: "archive_download_url", kind: kindString},
			{name: "expired", kind: kindBool},
			{name: "created_at", kind: kindString},
			{name: "expires_at", kind: kindString},
		},
	}

	artifactListSchema = &objectSchema{
		name: "artifact list",
		fields: []field{
			{name: "total_count", kind: kindNumber, required: true},
			{name: "artifacts", kind: kindArray, required: true, elem: artifactSchema},
		},
	}
)
