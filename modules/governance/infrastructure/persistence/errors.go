package persistence

import (
	stderrors "errors"

	"github.com/jackc/pgx/v5"
)

func isNoRows(err error) bool {
	return stderrors.Is(err, pgx.ErrNoRows)
}
