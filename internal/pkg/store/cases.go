package store

import (
	"context"
	"fmt"
	"time"

	"github.com/tbruijn/covidwatch/internal/domain"
	"github.com/tbruijn/covidwatch/internal/pkg/store/xpgx"
)

// CaseCount is the number of individual cases attributed to one date.
type CaseCount struct {
	Date  time.Time `db:"statistics_date"`
	Count int64     `db:"count"`
}

var reportedCasesColumns = []string{"id", "province", "reported_date", "statistics_date"}

func (s *store) ReplaceReportedCases(ctx context.Context, rows []*domain.ReportedCase) error {
	return s.pool.InTx(ctx, func(tx xpgx.Pool) error {
		if _, err := tx.Execx(ctx, builder().Delete(tableReportedCases)); err != nil {
			return fmt.Errorf("delete %s: %w", tableReportedCases, err)
		}

		for start := 0; start < len(rows); start += insertChunkSize {
			end := start + insertChunkSize
			if end > len(rows) {
				end = len(rows)
			}

			query := builder().Insert(tableReportedCases).
				Columns(reportedCasesColumns[1:]...)
			for _, row := range rows[start:end] {
				query = query.Values(row.Province, row.ReportedDate, row.StatisticsDate)
			}

			if _, err := tx.Execx(ctx, query); err != nil {
				return fmt.Errorf("insert %s: %w", tableReportedCases, err)
			}
		}

		return nil
	})
}

// CountCasesByStatisticsDate groups the case file by the date each case is
// attributed to, ascending.
func (s *store) CountCasesByStatisticsDate(ctx context.Context) ([]*CaseCount, error) {
	query := builder().Select("statistics_date", "count(*) as count").
		From(tableReportedCases).
		GroupBy("statistics_date").
		OrderBy("statistics_date")

	var selected []*CaseCount
	if err := s.pool.Selectx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}
