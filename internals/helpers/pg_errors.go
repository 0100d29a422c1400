package helper

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const (
	PGForeignKeyViolation = "23503"
	PGUniqueViolation     = "23505"
	PGCheckViolation      = "23514"
	PGQueryCanceled       = "57014"
)

// PGError extracts the SQLSTATE and constraint name from a pgx or lib/pq error.
func PGError(err error) (code, constraint string, ok bool) {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code, pgxErr.ConstraintName, true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint, true
	}
	return "", "", false
}

func MapPGError(err error) (int, string) {
	code, constraint, ok := PGError(err)
	if !ok {
		return http.StatusInternalServerError, err.Error()
	}
	switch code {
	case PGForeignKeyViolation:
		return http.StatusNotFound, "referenced record not found (" + constraint + ")"
	case PGUniqueViolation:
		return http.StatusConflict, "duplicate record (" + constraint + ")"
	case PGCheckViolation:
		return http.StatusConflict, "constraint violated (" + constraint + ")"
	case PGQueryCanceled:
		return http.StatusServiceUnavailable, "statement timeout, retry later"
	default:
		return http.StatusInternalServerError, err.Error()
	}
}
