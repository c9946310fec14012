package store

import (
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ougirez/mapa-innovacio/internal/pkg/constants"
)

const (
	tablePrograms  = "programes"
	tableCentres   = "centres"
	tableInstances = "instancies"
	tableZones     = "poligons"
	tableLookups   = "lookups"
)

// Postgres SQLSTATE codes mapped onto dataset errors.
var mapping = map[string]error{
	"42P01": constants.ErrMissingDataset, // undefined_table
}

func wrapErr(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	if mapped, ok := mapping[pgErr.Code]; ok {
		return fmt.Errorf("%w: %s", mapped, pgErr.Message)
	}
	return err
}

// builder returns a squirrel statement builder with Postgres placeholders.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func coalesce(column, fallback string) string {
	return "coalesce(" + column + ", " + fallback + ") as " + column
}
