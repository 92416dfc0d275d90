package postgresql

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation = "23505"
	codeInvalidText     = "22P02"
	codeForeignKey      = "23503"
)

func pgErrorCode(err error) (string, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

// isUniqueViolation reports a unique violation, optionally on a specific constraint.
func isUniqueViolation(err error, constraint string) bool {
	code, name := pgErrorCode(err)
	return code == codeUniqueViolation && (constraint == "" || name == constraint)
}

// isInvalidID reports a malformed UUID, which callers treat as "not found".
func isInvalidID(err error) bool {
	code, _ := pgErrorCode(err)
	return code == codeInvalidText
}

func isForeignKeyViolation(err error) bool {
	code, _ := pgErrorCode(err)
	return code == codeForeignKey
}
