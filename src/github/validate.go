package github

import (
	"fmt"
	"regexp"
)

const (
	maxOwnerLength = 39
	maxRepoLength  = 100
)

var (
	// Owner logins are alphanumeric with single interior hyphens. The
	// pattern alone rules out leading, trailing, and doubled hyphens.
	ownerPattern = regexp.MustCompile(`^[a-zA-Z0-9]+(-[a-zA-Z0-9]+)*$`)
	// Repository names allow dots and underscores on top of the owner
	// charset, with no positional restrictions.
	repoPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)
)

// fieldErrors accumulates every input problem found while validating one
// operation's parameters. Operations check the whole parameter set and
// fail once, reporting all problems together.
type fieldErrors []FieldError

func (fe *fieldErrors) add(field, message string) {
	*fe = append(*fe, FieldError{Field: field, Message: message})
}

// err returns nil when no problems were recorded, otherwise one
// validation error carrying every recorded field.
func (fe fieldErrors) err() error {
	if len(fe) == 0 {
		return nil
	}
	return newValidationError(fe)
}

// checkOwnerName validates a repository owner login: 1 to 39 characters,
// alphanumeric or hyphen, no leading or trailing hyphen.
func checkOwnerName(owner string) string {
	if owner == "" {
		return "required"
	}
	if len(owner) > maxOwnerLength {
		return fmt.Sprintf("must be at most %d characters", maxOwnerLength)
	}
	if !ownerPattern.MatchString(owner) {
		return "may only contain alphanumeric characters and single interior hyphens"
	}
	return ""
}

// checkRepoName validates a repository name: 1 to 100 characters from the
// allowed charset, and not the reserved names "." or "..".
func checkRepoName(repo string) string {
	if repo == "" {
		return "required"
	}
	if len(repo) > maxRepoLength {
		return fmt.Sprintf("must be at most %d characters", maxRepoLength)
	}
	if repo == "." || repo == ".." {
		return "is a reserved name"
	}
	if !repoPattern.MatchString(repo) {
		return "may only contain alphanumeric characters, hyphens, underscores, and dots"
	}
	return ""
}

// checkRepoRef applies the owner and repository validators, recording any
// problems under the given collector.
func checkRepoRef(fe *fieldErrors, owner, repo string) {
	if msg := checkOwnerName(owner); msg != "" {
		fe.add("owner", msg)
	}
	if msg := checkRepoName(repo); msg != "" {
		fe.add("repo", msg)
	}
}

// checkRequiredString records a problem when a required string parameter
// is empty.
func checkRequiredString(fe *fieldErrors, field, value string) {
	if value == "" {
		fe.add(field, "required")
	}
}

// checkPositiveID records a problem when a required numeric identifier is
// not a positive integer.
func checkPositiveID(fe *fieldErrors, field string, value int64) {
	if value <= 0 {
		fe.add(field, "must be a positive integer")
	}
}

// checkEnum records a problem when an optional parameter is set to a value
// outside its allowed set. Empty means unset and always passes.
func checkEnum(fe *fieldErrors, field, value string, allowed []string) {
	if value == "" {
		return
	}
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	fe.add(field, fmt.Sprintf("must be one of %v", allowed))
}

// runStatusValues are the status filters the runs endpoint accepts.
var runStatusValues = []string{
	"completed", "action_required", "cancelled", "failure", "neutral",
	"skipped", "stale", "success", "timed_out", "in_progress", "queued",
	"requested", "waiting", "pending",
}

// jobFilterValues are the filter values the run jobs endpoint accepts.
var jobFilterValues = []string{"latest", "all"}
