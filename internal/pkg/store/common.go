package store

import (
	"errors"

	"github.com/tbruijn/covidwatch/internal/pkg/constants"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

const (
	tableRegionStatistics = "region_statistics"
	tableReportedCases    = "reported_cases"
)

// Bulk inserts are chunked to stay well under the postgres parameter limit.
const insertChunkSize = 500

var mapping = map[error]error{pgx.ErrNoRows: constants.ErrDBNotFound}

func wrapErr(err error) error {
	for k, v := range mapping {
		if errors.Is(err, k) {
			return v
		}
	}
	return err
}

// builder returns a squirrel statement builder with postgres placeholders.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
