package analysis

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tbruijn/covidwatch/internal/domain/dto"
	"github.com/tbruijn/covidwatch/internal/pkg/constants"
	"github.com/tbruijn/covidwatch/internal/pkg/fit"
	"github.com/tbruijn/covidwatch/internal/pkg/logger"
	"github.com/tbruijn/covidwatch/internal/service/statistics"
)

type ForecastOpts struct {
	Days         int
	Municipality *string
	Province     *string
	Start        *time.Time
	End          *time.Time
	Linear       bool
	Exponential  bool
}

// Forecast extrapolates the daily infection series Days days past the last
// observed date with a linear regression and/or an exponential fit with its
// error band. A near-flat exponential fit is suppressed rather than drawn,
// and a fit that fails only drops the exponential side of the output.
func (s *Service) Forecast(ctx context.Context, opts ForecastOpts) ([]*dto.ForecastPoint, error) {
	if opts.Days > 0 && !opts.Linear && !opts.Exponential {
		return nil, constants.NewCodedError(
			"choose linear and/or exponential extrapolation when requesting days ahead", http.StatusBadRequest)
	}

	totals, err := s.stats.DailyTotals(ctx, statistics.DailyTotalsOpts{
		Municipality: opts.Municipality,
		Province:     opts.Province,
		Start:        opts.Start,
		End:          opts.End,
	})
	if err != nil {
		return nil, err
	}
	if len(totals) < 3 {
		return nil, constants.ErrInsufficientData
	}

	// Oldest first; x is whole days since the first observed date, so gaps
	// in the reporting calendar keep their true distance.
	first := totals[len(totals)-1].Date
	xs := make([]float64, len(totals))
	ys := make([]float64, len(totals))
	for i, t := range totals {
		j := len(totals) - 1 - i
		xs[j] = t.Date.Sub(first).Hours() / 24
		ys[j] = float64(t.Infections)
	}

	extended := make([]float64, 0, len(xs)+opts.Days)
	extended = append(extended, xs...)
	lastX := xs[len(xs)-1]
	for d := 1; d <= opts.Days; d++ {
		extended = append(extended, lastX+float64(d))
	}

	points := make([]*dto.ForecastPoint, len(extended))
	for i, x := range extended {
		points[i] = &dto.ForecastPoint{Date: first.AddDate(0, 0, int(x))}
	}

	if opts.Linear {
		slope, intercept, err := fit.Linear(xs, ys)
		if err != nil {
			return nil, mapFitErr(err)
		}
		for i, x := range extended {
			value := intercept + slope*x
			points[i].Linear = &value
		}
	}

	if opts.Exponential {
		f, err := fit.Exponential(xs, ys)
		switch {
		case err != nil:
			if errors.Is(err, fit.ErrInsufficientData) {
				return nil, mapFitErr(err)
			}
			// A failed fit degrades to a linear-only forecast.
			logger.Warnf(ctx, "exponential fit: %s", err.Error())
		case f.NearFlat():
			logger.Infof(ctx, "exponential fit suppressed: growth factor %f is near flat", f.GrowthFactor())
		default:
			low, mid, high := f.Band(extended)
			for i := range extended {
				l, m, h := low[i], mid[i], high[i]
				points[i].ExpLow = &l
				points[i].ExpMid = &m
				points[i].ExpHigh = &h
			}
		}
	}

	return points, nil
}

func mapFitErr(err error) error {
	if errors.Is(err, fit.ErrInsufficientData) {
		return constants.ErrInsufficientData
	}
	return err
}
