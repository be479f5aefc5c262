// Package patching proposes, polices, and applies structural resume edits.
package patching

import (
	"fmt"
	"strings"
)

// RoleNotFoundError indicates a patch or selector referenced an unknown role.
type RoleNotFoundError struct {
	RoleID string
}

func (e *RoleNotFoundError) Error() string {
	if e.RoleID == "" {
		return "role_id is required"
	}
	return fmt.Sprintf("role_id not found: %s", e.RoleID)
}

// OutOfRangeError indicates a patch index fell outside the bullet list.
type OutOfRangeError struct {
	Field string
	Index int
	Len   int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s out of range: %d (len %d)", e.Field, e.Index, e.Len)
}

// PolicyError indicates a patch used an operation the section forbids.
type PolicyError struct {
	Message string
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("policy error: %s", e.Message)
}

// ValidationError indicates malformed patch or request content.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// TruthModeError indicates the all-or-nothing truth-mode batch validation
// rejected a patch set. The first offending skill is named.
type TruthModeError struct {
	TruthMode string
	Skill     string
}

func (e *TruthModeError) Error() string {
	return fmt.Sprintf("truth mode %q blocks experience patch without direct or override evidence for skill: %s", e.TruthMode, e.Skill)
}

// AmbiguousRoleError indicates a company+dates selector matched several
// roles; the caller must disambiguate using one of the candidate IDs.
type AmbiguousRoleError struct {
	RoleIDs []string
}

func (e *AmbiguousRoleError) Error() string {
	return fmt.Sprintf("multiple roles matched: %s", strings.Join(e.RoleIDs, ", "))
}
