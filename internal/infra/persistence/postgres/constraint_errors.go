package postgres

import (
	domainerrors "identity/internal/domain/errors"
	"identity/internal/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes for integrity violations.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeNotNullViolation    = "23502"
	codeCheckViolation      = "23514"
)

// constraintFields maps unique constraint names to the field reported to clients.
var constraintFields = map[string]string{
	"uq_accounts_email":        "email",
	"uq_accounts_username":     "username",
	"uq_profiles_phone_number": "profile.phone_number",
}

// translateWriteError converts a driver error raised by an INSERT into a domain error.
func translateWriteError(err error, details string) error {
	if pgErr, ok := asPgError(err); ok {
		switch pgErr.Code {
		case codeUniqueViolation:
			return domainerrors.NewConflictError(constraintFields[pgErr.ConstraintName], err)
		case codeForeignKeyViolation:
			return domainerrors.NewDatabaseExecuteError(err, details+": invalid account reference")
		case codeNotNullViolation:
			return domainerrors.NewDatabaseExecuteError(err, details+": missing required column "+pgErr.ColumnName)
		case codeCheckViolation:
			return domainerrors.NewDatabaseExecuteError(err, details+": check constraint "+pgErr.ConstraintName)
		}
	}

	// Translated errors carry no constraint name.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainerrors.NewConflictError("", err)
	}

	return domainerrors.NewDatabaseExecuteError(err, details)
}

func asPgError(err error) (*pgconn.PgError, bool) {
	return errors.AsType[*pgconn.PgError](err)
}
