package statistics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/tbruijn/covidwatch/internal/domain"
	"github.com/tbruijn/covidwatch/internal/domain/dto"
	"github.com/tbruijn/covidwatch/internal/pkg/constants"
	"github.com/tbruijn/covidwatch/internal/pkg/logger"
	"github.com/tbruijn/covidwatch/internal/pkg/store"
	"github.com/tbruijn/covidwatch/internal/service/ingest"
)

type Service struct {
	store  store.Store
	ingest *ingest.Service
}

func NewService(store store.Store, ingest *ingest.Service) *Service {
	return &Service{store: store, ingest: ingest}
}

// Refresh runs one full cycle: replace the primary rows, broadcast the
// secondary series onto them, then derive the daily figures. Every write
// phase is one transaction, so a cycle that fails partway leaves the
// previous complete data set in place.
func (s *Service) Refresh(ctx context.Context) (*dto.RefreshResult, error) {
	runID := uuid.NewString()
	logger.Infof(ctx, "refresh %s: starting", runID)

	rows, err := s.ingest.FetchRegionStatistics(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh %s: %w", runID, err)
	}

	if err = s.store.ReplaceRegionStatistics(ctx, rows); err != nil {
		return nil, fmt.Errorf("refresh %s: %w", runID, err)
	}

	series, err := s.ingest.FetchSecondarySeries(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh %s: %w", runID, err)
	}

	// Re-read to pick up the generated row ids for the bulk updates.
	stored, err := s.store.ListRegionStatistics(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh %s: %w", runID, err)
	}

	joinedDates := joinSecondarySeries(stored, series)
	if err = s.store.UpdateJoinedFigures(ctx, stored); err != nil {
		return nil, fmt.Errorf("refresh %s: %w", runID, err)
	}

	policy := DailyCountPolicy(viper.GetString(constants.ViperDailyCountPolicy))
	var casesByDate map[time.Time]int64
	caseRows := 0
	if policy == PolicyCases {
		cases, err := s.ingest.FetchReportedCases(ctx)
		if err != nil {
			return nil, fmt.Errorf("refresh %s: %w", runID, err)
		}
		if err = s.store.ReplaceReportedCases(ctx, cases); err != nil {
			return nil, fmt.Errorf("refresh %s: %w", runID, err)
		}

		counts, err := s.store.CountCasesByStatisticsDate(ctx)
		if err != nil {
			return nil, fmt.Errorf("refresh %s: %w", runID, err)
		}
		casesByDate = make(map[time.Time]int64, len(counts))
		for _, c := range counts {
			casesByDate[c.Date] = c.Count
		}
		caseRows = len(cases)
	}

	computeDailyDeltas(stored, casesByDate, policy)
	if err = s.store.UpdateDailyFigures(ctx, stored); err != nil {
		return nil, fmt.Errorf("refresh %s: %w", runID, err)
	}

	logger.Infof(ctx, "refresh %s: %d region rows, %d case rows, %d joined dates",
		runID, len(stored), caseRows, joinedDates)

	return &dto.RefreshResult{
		RunID:       runID,
		RegionRows:  len(stored),
		CaseRows:    caseRows,
		JoinedDates: joinedDates,
	}, nil
}

type DailyTotalsOpts struct {
	Municipality *string
	Province     *string
	// Optional date range, inclusive on both ends.
	Start *time.Time
	End   *time.Time
}

// DailyTotals returns the per-date sums of the daily figures, newest first,
// filtered to the requested region granularity and date range.
func (s *Service) DailyTotals(ctx context.Context, opts DailyTotalsOpts) ([]*domain.DailyTotal, error) {
	totals, err := s.store.GroupedDailyTotals(ctx, store.GroupedDailyTotalsOpts{
		Municipality: opts.Municipality,
		Province:     opts.Province,
	})
	if err != nil {
		return nil, fmt.Errorf("store.GroupedDailyTotals: %w", err)
	}

	return filterDateRange(totals, opts.Start, opts.End), nil
}

// filterDateRange keeps totals whose date falls inside [start, end], both
// ends inclusive; a nil bound is open.
func filterDateRange(totals []*domain.DailyTotal, start, end *time.Time) []*domain.DailyTotal {
	if start == nil && end == nil {
		return totals
	}

	filtered := make([]*domain.DailyTotal, 0, len(totals))
	for _, t := range totals {
		if start != nil && t.Date.Before(*start) {
			continue
		}
		if end != nil && t.Date.After(*end) {
			continue
		}
		filtered = append(filtered, t)
	}
	return filtered
}
