package ingest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/viper"
	"github.com/tbruijn/covidwatch/internal/domain"
	"github.com/tbruijn/covidwatch/internal/domain/dto"
	"github.com/tbruijn/covidwatch/internal/pkg/constants"
	"github.com/tbruijn/covidwatch/internal/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// Service fetches the upstream open-data feeds and normalizes them into the
// shared record shape. It holds no state beyond the HTTP client.
type Service struct {
	client *http.Client
}

func NewService() *Service {
	return &Service{client: &http.Client{Timeout: 60 * time.Second}}
}

// FetchRegionStatistics pulls the cumulative municipal feed, the primary
// source every other series is joined onto.
func (s *Service) FetchRegionStatistics(ctx context.Context) ([]*domain.RegionStatistic, error) {
	var rows []dto.RivmCumulativeRow
	url := viper.GetString(constants.ViperRivmCumulativeURL)
	if err := fetchJSON(ctx, s.client, url, &rows); err != nil {
		return nil, fmt.Errorf("fetch cumulative feed: %w", err)
	}

	stats, err := normalizeCumulative(rows)
	if err != nil {
		return nil, fmt.Errorf("normalize cumulative feed: %w", err)
	}

	logger.Infof(ctx, "fetched %d region rows from %s", len(stats), url)
	return stats, nil
}

// FetchReportedCases pulls the individual case file. Callers that only run
// the cumulative-delta policy never need this.
func (s *Service) FetchReportedCases(ctx context.Context) ([]*domain.ReportedCase, error) {
	var rows []dto.RivmCaseRow
	url := viper.GetString(constants.ViperRivmCasesURL)
	if err := fetchJSON(ctx, s.client, url, &rows); err != nil {
		return nil, fmt.Errorf("fetch case file: %w", err)
	}

	cases, err := normalizeCases(rows)
	if err != nil {
		return nil, fmt.Errorf("normalize case file: %w", err)
	}

	logger.Infof(ctx, "fetched %d case rows from %s", len(cases), url)
	return cases, nil
}

// FetchSecondarySeries pulls the national date-keyed series in parallel.
// Each feed fills its own map, so the goroutines never share a key space.
func (s *Service) FetchSecondarySeries(ctx context.Context) (*domain.SecondarySeries, error) {
	series := domain.NewSecondarySeries()
	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		var rows []dto.RivmReproductionRow
		url := viper.GetString(constants.ViperRivmReproductionURL)
		if err := fetchJSON(egCtx, s.client, url, &rows); err != nil {
			return fmt.Errorf("fetch reproduction feed: %w", err)
		}
		return normalizeReproduction(rows, series.Reproduction)
	})

	eg.Go(func() error {
		var rows []dto.RivmPrevalenceRow
		url := viper.GetString(constants.ViperRivmPrevalenceURL)
		if err := fetchJSON(egCtx, s.client, url, &rows); err != nil {
			return fmt.Errorf("fetch prevalence feed: %w", err)
		}
		return normalizePrevalence(rows, series.Prevalence)
	})

	eg.Go(func() error {
		var rows []dto.NiceIntakeRow
		url := viper.GetString(constants.ViperNiceCumulativeURL)
		if err := fetchJSON(egCtx, s.client, url, &rows); err != nil {
			return fmt.Errorf("fetch nice cumulative feed: %w", err)
		}
		return normalizeIntake(rows, series.HospitalCumulativeNice)
	})

	eg.Go(func() error {
		var rows []dto.NiceIntakeRow
		url := viper.GetString(constants.ViperNiceProvenURL)
		if err := fetchJSON(egCtx, s.client, url, &rows); err != nil {
			return fmt.Errorf("fetch nice proven feed: %w", err)
		}
		return normalizeIntake(rows, series.IntakeProven)
	})

	eg.Go(func() error {
		var rows []dto.NiceIntakeRow
		url := viper.GetString(constants.ViperNiceSuspectedURL)
		if err := fetchJSON(egCtx, s.client, url, &rows); err != nil {
			return fmt.Errorf("fetch nice suspected feed: %w", err)
		}
		return normalizeIntake(rows, series.IntakeSuspected)
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	logger.Infof(ctx, "fetched secondary series covering %d dates", len(series.Dates()))
	return series, nil
}
