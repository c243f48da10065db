package store

import (
	"context"

	"github.com/tbruijn/covidwatch/internal/domain"
	"github.com/tbruijn/covidwatch/internal/pkg/store/xpgx"
)

type Pool = xpgx.Pool

type Store interface {
	Bootstrap(ctx context.Context) error

	ReplaceRegionStatistics(ctx context.Context, rows []*domain.RegionStatistic) error
	ListRegionStatistics(ctx context.Context) ([]*domain.RegionStatistic, error)
	UpdateDailyFigures(ctx context.Context, rows []*domain.RegionStatistic) error
	UpdateJoinedFigures(ctx context.Context, rows []*domain.RegionStatistic) error
	GroupedDailyTotals(ctx context.Context, opts GroupedDailyTotalsOpts) ([]*domain.DailyTotal, error)
	ListReproductionByDate(ctx context.Context) ([]*DateReproduction, error)

	ReplaceReportedCases(ctx context.Context, rows []*domain.ReportedCase) error
	CountCasesByStatisticsDate(ctx context.Context) ([]*CaseCount, error)
}

type store struct {
	pool Pool
}

func NewStore(pool Pool) Store {
	return &store{pool}
}
