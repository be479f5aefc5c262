package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/resume-ats/internal/db"
	"github.com/jonathan/resume-ats/internal/patching"
	"github.com/jonathan/resume-ats/internal/schemas"
)

// HTTPStatus returns the appropriate HTTP status code for an error.
// Unknown role targets are 404, index and policy violations 422, role
// ambiguity 409, everything unrecognized 500.
func HTTPStatus(err error) int {
	if errors.Is(err, db.ErrNotFound) {
		return http.StatusNotFound
	}

	var (
		roleNotFound *patching.RoleNotFoundError
		outOfRange   *patching.OutOfRangeError
		policy       *patching.PolicyError
		validation   *patching.ValidationError
		truthMode    *patching.TruthModeError
		ambiguous    *patching.AmbiguousRoleError
		schemaErr    *schemas.ValidationError
	)
	switch {
	case errors.As(err, &roleNotFound):
		return http.StatusNotFound
	case errors.As(err, &ambiguous):
		return http.StatusConflict
	case errors.As(err, &outOfRange),
		errors.As(err, &policy),
		errors.As(err, &validation),
		errors.As(err, &truthMode),
		errors.As(err, &schemaErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
