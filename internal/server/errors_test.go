package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-ats/internal/db"
	"github.com/jonathan/resume-ats/internal/patching"
	"github.com/jonathan/resume-ats/internal/schemas"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found sentinel", db.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("load: %w", db.ErrNotFound), http.StatusNotFound},
		{"role not found", &patching.RoleNotFoundError{RoleID: "role-9"}, http.StatusNotFound},
		{"ambiguous role", &patching.AmbiguousRoleError{RoleIDs: []string{"role-1", "role-2"}}, http.StatusConflict},
		{"out of range", &patching.OutOfRangeError{Field: "after_index", Index: 9, Len: 2}, http.StatusUnprocessableEntity},
		{"policy", &patching.PolicyError{Message: "no"}, http.StatusUnprocessableEntity},
		{"validation", &patching.ValidationError{Message: "bad"}, http.StatusUnprocessableEntity},
		{"truth mode", &patching.TruthModeError{TruthMode: "strict", Skill: "Kafka"}, http.StatusUnprocessableEntity},
		{"schema validation", &schemas.ValidationError{}, http.StatusUnprocessableEntity},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
