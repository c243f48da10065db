package statistics

import (
	"testing"

	"github.com/tbruijn/covidwatch/internal/domain"
)

func TestJoinSecondarySeries_BroadcastsAcrossRegions(t *testing.T) {
	day := date(2020, 7, 1)
	other := date(2020, 7, 2)

	rows := []*domain.RegionStatistic{
		municipalRow("Utrecht", "Utrecht", day, 0, 0, 0),
		municipalRow("Zuid-Holland", "Rotterdam", day, 0, 0, 0),
		municipalRow("Utrecht", "Utrecht", other, 0, 0, 0),
	}

	series := domain.NewSecondarySeries()
	series.HospitalCumulativeNice[day] = 5

	joined := joinSecondarySeries(rows, series)

	if joined != 1 {
		t.Errorf("joined dates = %d; want 1", joined)
	}
	for i := 0; i < 2; i++ {
		if rows[i].CumulativeHospitalisedNice == nil || *rows[i].CumulativeHospitalisedNice != 5 {
			t.Errorf("rows[%d].CumulativeHospitalisedNice = %v; want 5", i, rows[i].CumulativeHospitalisedNice)
		}
	}
	if rows[2].CumulativeHospitalisedNice != nil {
		t.Errorf("rows[2].CumulativeHospitalisedNice = %v; want nil for unmatched date", *rows[2].CumulativeHospitalisedNice)
	}
}

func TestJoinSecondarySeries_LeftOuterKeepsNil(t *testing.T) {
	rows := []*domain.RegionStatistic{
		municipalRow("Utrecht", "Utrecht", date(2020, 7, 1), 0, 0, 0),
	}

	series := domain.NewSecondarySeries()
	series.Reproduction[date(2020, 8, 1)] = 1.2

	if joined := joinSecondarySeries(rows, series); joined != 0 {
		t.Errorf("joined dates = %d; want 0", joined)
	}
	if rows[0].Reproduction != nil {
		t.Errorf("Reproduction = %v; want nil", *rows[0].Reproduction)
	}
}

func TestJoinSecondarySeries_AllSeriesForOneDate(t *testing.T) {
	day := date(2020, 7, 1)
	rows := []*domain.RegionStatistic{
		aggregateRow("Utrecht", day, 0),
	}

	low, avg, up := int64(90), int64(100), int64(115)
	series := domain.NewSecondarySeries()
	series.HospitalCumulativeNice[day] = 40
	series.Prevalence[day] = domain.Prevalence{Low: &low, Avg: &avg, Up: &up}
	series.Reproduction[day] = 0.98
	series.IntakeProven[day] = 12
	series.IntakeSuspected[day] = 3

	joinSecondarySeries(rows, series)

	row := rows[0]
	if row.PrevalenceAvg == nil || *row.PrevalenceAvg != 100 {
		t.Errorf("PrevalenceAvg = %v; want 100", row.PrevalenceAvg)
	}
	if row.Reproduction == nil || *row.Reproduction != 0.98 {
		t.Errorf("Reproduction = %v; want 0.98", row.Reproduction)
	}
	if row.HospitalIntakeProven == nil || *row.HospitalIntakeProven != 12 {
		t.Errorf("HospitalIntakeProven = %v; want 12", row.HospitalIntakeProven)
	}
	if row.HospitalIntakeSuspected == nil || *row.HospitalIntakeSuspected != 3 {
		t.Errorf("HospitalIntakeSuspected = %v; want 3", row.HospitalIntakeSuspected)
	}
}

func TestFilterDateRange_InclusiveBounds(t *testing.T) {
	totals := []*domain.DailyTotal{
		{Date: date(2020, 7, 4)},
		{Date: date(2020, 7, 3)},
		{Date: date(2020, 7, 2)},
		{Date: date(2020, 7, 1)},
	}

	start := date(2020, 7, 2)
	end := date(2020, 7, 3)
	got := filterDateRange(totals, &start, &end)

	if len(got) != 2 {
		t.Fatalf("len = %d; want 2", len(got))
	}
	if !got[0].Date.Equal(end) || !got[1].Date.Equal(start) {
		t.Errorf("dates = %v, %v; want %v, %v", got[0].Date, got[1].Date, end, start)
	}

	if got := filterDateRange(totals, nil, nil); len(got) != 4 {
		t.Errorf("open range len = %d; want 4", len(got))
	}
}
