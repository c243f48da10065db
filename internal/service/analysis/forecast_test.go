package analysis

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/tbruijn/covidwatch/internal/domain"
	"github.com/tbruijn/covidwatch/internal/pkg/store"
	"github.com/tbruijn/covidwatch/internal/service/statistics"
)

// fakeStore serves canned aggregation results; everything else panics via
// the embedded nil interface.
type fakeStore struct {
	store.Store
	totals       []*domain.DailyTotal
	reproduction []*store.DateReproduction
}

func (f *fakeStore) GroupedDailyTotals(_ context.Context, _ store.GroupedDailyTotalsOpts) ([]*domain.DailyTotal, error) {
	return f.totals, nil
}

func (f *fakeStore) ListReproductionByDate(_ context.Context) ([]*store.DateReproduction, error) {
	return f.reproduction, nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// newestFirstLinear builds a descending daily series following
// value = base + slope*dayIndex.
func newestFirstLinear(days int, base, slope int64) []*domain.DailyTotal {
	totals := make([]*domain.DailyTotal, 0, days)
	for i := days - 1; i >= 0; i-- {
		totals = append(totals, &domain.DailyTotal{
			Date:       date(2020, 7, 1).AddDate(0, 0, i),
			Infections: base + slope*int64(i),
		})
	}
	return totals
}

func newService(st *fakeStore) *Service {
	stats := statistics.NewService(st, nil)
	return NewService(stats, st)
}

func TestForecast_LinearExtrapolation(t *testing.T) {
	svc := newService(&fakeStore{totals: newestFirstLinear(10, 100, 3)})

	points, err := svc.Forecast(context.Background(), ForecastOpts{Days: 5, Linear: true})
	if err != nil {
		t.Fatalf("Forecast returned error: %v", err)
	}
	if len(points) != 15 {
		t.Fatalf("len(points) = %d; want 15", len(points))
	}

	last := points[len(points)-1]
	wantDate := date(2020, 7, 1).AddDate(0, 0, 14)
	if !last.Date.Equal(wantDate) {
		t.Errorf("last date = %v; want %v", last.Date, wantDate)
	}
	if last.Linear == nil {
		t.Fatal("last.Linear = nil; want extrapolated value")
	}
	if math.Abs(*last.Linear-142) > 1e-6 {
		t.Errorf("last.Linear = %v; want 142", *last.Linear)
	}
}

func TestForecast_RequiresModelChoice(t *testing.T) {
	svc := newService(&fakeStore{totals: newestFirstLinear(10, 100, 3)})

	_, err := svc.Forecast(context.Background(), ForecastOpts{Days: 5})
	if err == nil {
		t.Fatal("Forecast accepted days ahead without a model choice")
	}
}

func TestForecast_SuppressesNearFlatExponential(t *testing.T) {
	svc := newService(&fakeStore{totals: newestFirstLinear(10, 100, 0)})

	points, err := svc.Forecast(context.Background(), ForecastOpts{Days: 3, Linear: true, Exponential: true})
	if err != nil {
		t.Fatalf("Forecast returned error: %v", err)
	}

	for i, p := range points {
		if p.ExpMid != nil {
			t.Errorf("points[%d].ExpMid = %v; want nil for a flat series", i, *p.ExpMid)
		}
		if p.Linear == nil {
			t.Errorf("points[%d].Linear = nil; want the linear extrapolation", i)
		}
	}
}

func TestForecast_ExponentialBandOrdering(t *testing.T) {
	totals := make([]*domain.DailyTotal, 0, 12)
	for i := 11; i >= 0; i-- {
		totals = append(totals, &domain.DailyTotal{
			Date:       date(2020, 7, 1).AddDate(0, 0, i),
			Infections: int64(math.Round(50 * math.Exp(0.15*float64(i)))),
		})
	}
	svc := newService(&fakeStore{totals: totals})

	points, err := svc.Forecast(context.Background(), ForecastOpts{Days: 4, Exponential: true})
	if err != nil {
		t.Fatalf("Forecast returned error: %v", err)
	}

	last := points[len(points)-1]
	if last.ExpMid == nil || last.ExpLow == nil || last.ExpHigh == nil {
		t.Fatal("exponential band missing on the last forecast point")
	}
	if !(*last.ExpLow <= *last.ExpMid && *last.ExpMid <= *last.ExpHigh) {
		t.Errorf("band not ordered: low %v, mid %v, high %v", *last.ExpLow, *last.ExpMid, *last.ExpHigh)
	}
	if *last.ExpMid <= float64(totals[0].Infections) {
		t.Errorf("ExpMid = %v; want growth past the last observation %d", *last.ExpMid, totals[0].Infections)
	}
}

func TestForecast_InsufficientData(t *testing.T) {
	svc := newService(&fakeStore{totals: newestFirstLinear(2, 10, 1)})

	if _, err := svc.Forecast(context.Background(), ForecastOpts{Linear: true}); err == nil {
		t.Fatal("Forecast accepted a two-point series")
	}
}

func TestReproductionSeries_FlatCases(t *testing.T) {
	totals := newestFirstLinear(20, 100, 0)
	ref := []*store.DateReproduction{
		{Date: date(2020, 7, 5), Value: 0.97},
	}
	svc := newService(&fakeStore{totals: totals, reproduction: ref})

	points, err := svc.ReproductionSeries(context.Background(), ReproductionOpts{})
	if err != nil {
		t.Fatalf("ReproductionSeries returned error: %v", err)
	}
	if len(points) != 20 {
		t.Fatalf("len(points) = %d; want 20", len(points))
	}

	sawEstimate := false
	for _, p := range points {
		if p.Estimate == nil {
			continue
		}
		sawEstimate = true
		if math.Abs(*p.Estimate-1.0) > 1e-9 {
			t.Errorf("%v: estimate = %v; want 1.0 for flat case counts", p.Date, *p.Estimate)
		}
	}
	if !sawEstimate {
		t.Error("no smoothed estimates produced for a 20-point series")
	}

	for _, p := range points {
		if p.Date.Equal(date(2020, 7, 5)) {
			if p.Reference == nil || *p.Reference != 0.97 {
				t.Errorf("reference = %v; want 0.97", p.Reference)
			}
		} else if p.Reference != nil {
			t.Errorf("%v: reference = %v; want nil", p.Date, *p.Reference)
		}
	}
}
