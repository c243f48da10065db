package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/tbruijn/covidwatch/internal/domain"
	"github.com/tbruijn/covidwatch/internal/pkg/logger"
	"github.com/tbruijn/covidwatch/internal/pkg/store/xpgx"
)

type GroupedDailyTotalsOpts struct {
	Municipality *string
	Province     *string
}

var regionStatisticsColumns = []string{
	"id", "province", "municipality", "reported_date",
	"cumulative_infections", "cumulative_hospitalised", "cumulative_critical",
	"cumulative_deaths", "cumulative_recovered", "cumulative_hospitalised_nice",
	"infections", "hospitalised", "critical", "deaths", "recovered",
	"prevalence_low", "prevalence_avg", "prevalence_up", "reproduction",
	"hospital_intake_proven", "hospital_intake_suspected",
}

// insertable columns, without the serial id
var regionStatisticsInsertColumns = regionStatisticsColumns[1:]

// ReplaceRegionStatistics drops every stored row and bulk-inserts the fresh
// set in one transaction, so readers never observe a half-loaded table.
func (s *store) ReplaceRegionStatistics(ctx context.Context, rows []*domain.RegionStatistic) error {
	return s.pool.InTx(ctx, func(tx xpgx.Pool) error {
		if _, err := tx.Execx(ctx, builder().Delete(tableRegionStatistics)); err != nil {
			return fmt.Errorf("delete %s: %w", tableRegionStatistics, err)
		}

		for start := 0; start < len(rows); start += insertChunkSize {
			end := start + insertChunkSize
			if end > len(rows) {
				end = len(rows)
			}

			query := builder().Insert(tableRegionStatistics).
				Columns(regionStatisticsInsertColumns...)
			for _, row := range rows[start:end] {
				query = query.Values(
					row.Province, row.Municipality, row.ReportedDate,
					row.CumulativeInfections, row.CumulativeHospitalised, row.CumulativeCritical,
					row.CumulativeDeaths, row.CumulativeRecovered, row.CumulativeHospitalisedNice,
					row.Infections, row.Hospitalised, row.Critical, row.Deaths, row.Recovered,
					row.PrevalenceLow, row.PrevalenceAvg, row.PrevalenceUp, row.Reproduction,
					row.HospitalIntakeProven, row.HospitalIntakeSuspected,
				)
			}

			if _, err := tx.Execx(ctx, query); err != nil {
				logger.Errorf(ctx, "insert %s: %s", tableRegionStatistics, err.Error())
				return fmt.Errorf("insert %s: %w", tableRegionStatistics, err)
			}
		}

		return nil
	})
}

// ListRegionStatistics returns every row ordered by region key and date,
// the order the delta pass folds over.
func (s *store) ListRegionStatistics(ctx context.Context) ([]*domain.RegionStatistic, error) {
	query := builder().Select(regionStatisticsColumns...).
		From(tableRegionStatistics).
		OrderBy("province", "municipality NULLS FIRST", "reported_date", "id")

	var selected []*domain.RegionStatistic
	if err := s.pool.Selectx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

// UpdateDailyFigures writes back the derived daily columns in one
// transaction.
func (s *store) UpdateDailyFigures(ctx context.Context, rows []*domain.RegionStatistic) error {
	return s.pool.InTx(ctx, func(tx xpgx.Pool) error {
		for _, row := range rows {
			query := builder().Update(tableRegionStatistics).
				Set("infections", row.Infections).
				Set("hospitalised", row.Hospitalised).
				Set("critical", row.Critical).
				Set("deaths", row.Deaths).
				Set("recovered", row.Recovered).
				Where(sq.Eq{"id": row.ID})

			if _, err := tx.Execx(ctx, query); err != nil {
				return fmt.Errorf("update daily figures, id-%d: %w", row.ID, err)
			}
		}
		return nil
	})
}

// UpdateJoinedFigures writes back the secondary-source columns in one
// transaction.
func (s *store) UpdateJoinedFigures(ctx context.Context, rows []*domain.RegionStatistic) error {
	return s.pool.InTx(ctx, func(tx xpgx.Pool) error {
		for _, row := range rows {
			query := builder().Update(tableRegionStatistics).
				Set("cumulative_hospitalised_nice", row.CumulativeHospitalisedNice).
				Set("prevalence_low", row.PrevalenceLow).
				Set("prevalence_avg", row.PrevalenceAvg).
				Set("prevalence_up", row.PrevalenceUp).
				Set("reproduction", row.Reproduction).
				Set("hospital_intake_proven", row.HospitalIntakeProven).
				Set("hospital_intake_suspected", row.HospitalIntakeSuspected).
				Where(sq.Eq{"id": row.ID})

			if _, err := tx.Execx(ctx, query); err != nil {
				return fmt.Errorf("update joined figures, id-%d: %w", row.ID, err)
			}
		}
		return nil
	})
}

// GroupedDailyTotals sums the derived daily columns per date across the
// matching rows, newest date first. Callers pick one region granularity via
// the filters; unfiltered output spans both aggregate and municipal rows.
func (s *store) GroupedDailyTotals(ctx context.Context, opts GroupedDailyTotalsOpts) ([]*domain.DailyTotal, error) {
	query := builder().Select(
		"reported_date",
		"coalesce(sum(infections), 0) as infections",
		"coalesce(sum(hospitalised), 0) as hospitalised",
		"coalesce(sum(deaths), 0) as deaths",
	).
		From(tableRegionStatistics).
		GroupBy("reported_date").
		OrderBy("reported_date desc")

	if opts.Municipality != nil {
		query = query.Where(sq.Eq{"municipality": *opts.Municipality})
	}

	if opts.Province != nil {
		query = query.Where(sq.Eq{"province": *opts.Province})
	}

	var selected []*domain.DailyTotal
	if err := s.pool.Selectx(ctx, &selected, query); err != nil {
		logger.Error(ctx, err.Error())
		return nil, wrapErr(err)
	}

	return selected, nil
}

// DateReproduction is the provider-published reproduction estimate for one
// date. The value is broadcast-joined, so max() just collapses the
// duplicates.
type DateReproduction struct {
	Date  time.Time `db:"reported_date"`
	Value float64   `db:"reproduction"`
}

// ListReproductionByDate returns the joined reference reproduction series,
// oldest first.
func (s *store) ListReproductionByDate(ctx context.Context) ([]*DateReproduction, error) {
	query := builder().Select("reported_date", "max(reproduction) as reproduction").
		From(tableRegionStatistics).
		Where("reproduction is not null").
		GroupBy("reported_date").
		OrderBy("reported_date")

	var selected []*DateReproduction
	if err := s.pool.Selectx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}
