package analysis

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/tbruijn/covidwatch/internal/domain/dto"
	"github.com/tbruijn/covidwatch/internal/pkg/constants"
	"github.com/tbruijn/covidwatch/internal/pkg/fit"
	"github.com/tbruijn/covidwatch/internal/pkg/logger"
	"github.com/tbruijn/covidwatch/internal/service/statistics"
)

const (
	smoothingWindow = 5
	smoothingWarmup = 3
)

type ReproductionOpts struct {
	// Optional date range, inclusive on both ends.
	Start *time.Time
	End   *time.Time
}

// ReproductionSeries estimates the effective reproduction number from
// rolling exponential fits over the daily infection counts and pairs each
// date with the provider-published reference value.
func (s *Service) ReproductionSeries(ctx context.Context, opts ReproductionOpts) ([]*dto.ReproductionPoint, error) {
	totals, err := s.stats.DailyTotals(ctx, statistics.DailyTotalsOpts{Start: opts.Start, End: opts.End})
	if err != nil {
		return nil, err
	}

	// The aggregation is newest-first; the fits run oldest-first.
	dates := make([]time.Time, len(totals))
	values := make([]float64, len(totals))
	for i, t := range totals {
		j := len(totals) - 1 - i
		dates[j] = t.Date
		values[j] = float64(t.Infections)
	}

	window := int(viper.GetFloat64(constants.ViperIncubationTime))
	genInterval := viper.GetFloat64(constants.ViperGenerationalInterval)
	genStdev := viper.GetFloat64(constants.ViperGenerationalStdev)

	estimates := reproductionEstimates(ctx, values, window, genInterval, genStdev)
	smoothed := smoothEstimates(estimates, smoothingWindow, smoothingWarmup)

	reference, err := s.store.ListReproductionByDate(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.ListReproductionByDate: %w", err)
	}
	referenceByDate := make(map[time.Time]float64, len(reference))
	for _, r := range reference {
		referenceByDate[r.Date] = r.Value
	}

	points := make([]*dto.ReproductionPoint, 0, len(dates))
	for i, date := range dates {
		point := &dto.ReproductionPoint{Date: date}
		if i < len(smoothed) {
			point.Estimate = smoothed[i]
		}
		if ref, ok := referenceByDate[date]; ok {
			value := ref
			point.Reference = &value
		}
		points = append(points, point)
	}

	return points, nil
}

// reproductionEstimates fits y = a*exp(b*x) over every full window of
// values and converts the instantaneous growth rate into a reproduction
// number via Re = exp(r*Tc - 0.5*r^2*sigma^2), rounded to two decimals.
// Windows that cannot be fitted yield nil and the remaining windows still
// run.
func reproductionEstimates(ctx context.Context, values []float64, window int, genInterval, genStdev float64) []*float64 {
	if window < 3 {
		window = 3
	}

	var estimates []*float64
	for i := 0; i+window+1 <= len(values); i++ {
		xs := make([]float64, window)
		for j := range xs {
			xs[j] = float64(j)
		}

		f, err := fit.Exponential(xs, values[i:i+window])
		if err != nil {
			logger.Warnf(ctx, "reproduction window %d: %s", i, err.Error())
			estimates = append(estimates, nil)
			continue
		}

		// Day-over-day growth rate of the fitted curve.
		r := f.Eval(1)/f.Eval(0) - 1
		re := math.Exp(r*genInterval - 0.5*r*r*genStdev*genStdev)
		rounded := decimal.NewFromFloat(re).Round(2).InexactFloat64()
		estimates = append(estimates, &rounded)
	}

	return estimates
}

// smoothEstimates applies a trailing moving average of size window, leaving
// entries without a full window of estimates nil. The first warmup output
// slots are dropped too; with the default window they already lack a full
// window, so this only matters for narrower windows.
func smoothEstimates(estimates []*float64, window, warmup int) []*float64 {
	smoothed := make([]*float64, len(estimates))

	for i := range estimates {
		if i+1 < window || i < warmup {
			continue
		}

		var sum float64
		full := true
		for j := i + 1 - window; j <= i; j++ {
			if estimates[j] == nil {
				full = false
				break
			}
			sum += *estimates[j]
		}
		if !full {
			continue
		}

		mean := sum / float64(window)
		smoothed[i] = &mean
	}

	return smoothed
}
