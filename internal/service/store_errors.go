package service

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/noah-isme/class-admin/internal/validation"
	appErrors "github.com/noah-isme/class-admin/pkg/errors"
)

// Postgres SQLSTATE codes the API translates.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// Check constraints that map onto a request field.
var constraintIssues = map[string]validation.FieldIssue{
	"classes_start_before_end": {Path: "end", Message: "Start must be before end"},
}

// storeError maps a repository failure to an API error. notFound is used for
// sql.ErrNoRows, failure for anything unrecognised.
func storeError(err error, notFound, failure string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgUniqueViolation:
			return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, appErrors.ErrConflict.Message)
		case pgForeignKeyViolation:
			return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "Referenced record is missing or still in use")
		case pgCheckViolation:
			if issue, ok := constraintIssues[pqErr.Constraint]; ok {
				return invalid([]validation.FieldIssue{issue})
			}
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, appErrors.ErrValidation.Message)
		}
	}
	return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, failure)
}

// invalid builds the 400 error carrying per-field issues.
func invalid(issues []validation.FieldIssue) error {
	return appErrors.WithDetails(appErrors.ErrValidation, issues)
}
