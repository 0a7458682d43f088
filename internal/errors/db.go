package errors

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// entityFromTable maps table names to entity names used in messages.
var entityFromTable = map[string]string{
	"users": "user",
	"zones": "zone",
}

func entityName(table string) string {
	if name, ok := entityFromTable[table]; ok {
		return name
	}
	return "record"
}

// MapDBError converts a database error into a structured AppError.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return NotFound("record not found")
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Wrap(err, ErrCodeTimeout, "database operation timed out")
	}
	if errors.Is(err, context.Canceled) {
		return Wrap(err, ErrCodeCanceled, "database operation canceled")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		entity := entityName(pgErr.TableName)
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return Wrap(err, ErrCodeConflict, entity+" already exists")
		case pgerrcode.ForeignKeyViolation:
			return Wrap(err, ErrCodeValidation, "referenced "+entity+" does not exist")
		case pgerrcode.NotNullViolation:
			return Wrap(err, ErrCodeValidation, "missing required field "+strings.TrimSpace(pgErr.ColumnName))
		case pgerrcode.CheckViolation:
			return Wrap(err, ErrCodeValidation, "invalid "+entity+" data")
		}
	}

	return Wrap(err, ErrCodeInternal, "database operation failed")
}
