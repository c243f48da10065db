package ingest

import (
	"testing"
	"time"

	"github.com/tbruijn/covidwatch/internal/domain/dto"
)

func TestParseFeedDate(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"2020-07-01 10:00:00", "2020-07-01", false},
		{"2020-07-01", "2020-07-01", false},
		{"2020-7-1", "", true},
		{"", "", true},
	}

	for _, tc := range cases {
		got, err := parseFeedDate(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseFeedDate(%q) = %v; want error", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseFeedDate(%q) returned error: %v", tc.in, err)
			continue
		}
		if got.Format("2006-01-02") != tc.want {
			t.Errorf("parseFeedDate(%q) = %v; want %s", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeCumulative(t *testing.T) {
	rows := []dto.RivmCumulativeRow{
		{
			DateOfReport:      "2020-07-01 10:00:00",
			Province:          "Utrecht",
			MunicipalityName:  "Utrecht",
			TotalReported:     120,
			HospitalAdmission: 14,
			Deceased:          3,
		},
		{
			DateOfReport:     "2020-07-01 10:00:00",
			Province:         "Utrecht",
			MunicipalityName: "",
			TotalReported:    800,
		},
	}

	stats, err := normalizeCumulative(rows)
	if err != nil {
		t.Fatalf("normalizeCumulative returned error: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("len = %d; want 2", len(stats))
	}

	if stats[0].Municipality == nil || *stats[0].Municipality != "Utrecht" {
		t.Errorf("Municipality = %v; want Utrecht", stats[0].Municipality)
	}
	if stats[0].CumulativeInfections != 120 || stats[0].CumulativeHospitalised != 14 || stats[0].CumulativeDeaths != 3 {
		t.Errorf("cumulative figures = %d/%d/%d; want 120/14/3",
			stats[0].CumulativeInfections, stats[0].CumulativeHospitalised, stats[0].CumulativeDeaths)
	}

	want := time.Date(2020, 7, 1, 0, 0, 0, 0, time.UTC)
	if !stats[0].ReportedDate.Equal(want) {
		t.Errorf("ReportedDate = %v; want %v", stats[0].ReportedDate, want)
	}

	// An empty municipality name marks the aggregate row.
	if stats[1].Municipality != nil {
		t.Errorf("aggregate row Municipality = %q; want nil", *stats[1].Municipality)
	}
}

func TestNormalizeReproduction_SkipsEmptyEstimates(t *testing.T) {
	out := make(map[time.Time]float64)
	rows := []dto.RivmReproductionRow{
		{Date: "2020-07-01", RtAvg: "1.08"},
		{Date: "2020-07-02", RtAvg: ""},
	}

	if err := normalizeReproduction(rows, out); err != nil {
		t.Fatalf("normalizeReproduction returned error: %v", err)
	}

	if len(out) != 1 {
		t.Fatalf("len = %d; want 1", len(out))
	}
	if got := out[time.Date(2020, 7, 1, 0, 0, 0, 0, time.UTC)]; got != 1.08 {
		t.Errorf("value = %v; want 1.08", got)
	}
}

func TestNormalizeReproduction_BadValue(t *testing.T) {
	out := make(map[time.Time]float64)
	rows := []dto.RivmReproductionRow{{Date: "2020-07-01", RtAvg: "n/a"}}

	if err := normalizeReproduction(rows, out); err == nil {
		t.Error("normalizeReproduction accepted a non-numeric estimate")
	}
}

func TestNormalizeCases(t *testing.T) {
	rows := []dto.RivmCaseRow{
		{DateFile: "2020-07-03 10:00:00", DateStatistics: "2020-07-01", Province: "Utrecht"},
	}

	cases, err := normalizeCases(rows)
	if err != nil {
		t.Fatalf("normalizeCases returned error: %v", err)
	}
	if len(cases) != 1 {
		t.Fatalf("len = %d; want 1", len(cases))
	}

	c := cases[0]
	if !c.StatisticsDate.Before(c.ReportedDate) {
		t.Errorf("StatisticsDate %v not before ReportedDate %v", c.StatisticsDate, c.ReportedDate)
	}
}

func TestNormalizeIntake(t *testing.T) {
	out := make(map[time.Time]int64)
	rows := []dto.NiceIntakeRow{
		{Date: "2020-07-01", Value: 7},
		{Date: "2020-07-02", Value: 9},
	}

	if err := normalizeIntake(rows, out); err != nil {
		t.Fatalf("normalizeIntake returned error: %v", err)
	}
	if got := out[time.Date(2020, 7, 2, 0, 0, 0, 0, time.UTC)]; got != 9 {
		t.Errorf("value = %d; want 9", got)
	}
}
