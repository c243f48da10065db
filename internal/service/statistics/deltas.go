package statistics

import (
	"time"

	"github.com/tbruijn/covidwatch/internal/domain"
)

// DailyCountPolicy picks where daily infection figures come from when both
// the cumulative feed and the individual case file are available.
type DailyCountPolicy string

const (
	// PolicyCumulative derives daily infections from day-over-day
	// differences of the cumulative feed.
	PolicyCumulative DailyCountPolicy = "cumulative"
	// PolicyCases counts individual cases by their statistics date
	// instead. Hospitalisations and deaths stay cumulative-derived.
	PolicyCases DailyCountPolicy = "cases"
)

// computeDailyDeltas fills the daily columns in place from the cumulative
// ones. Each region key folds independently: the first row of a key gets
// zeroes, every later row gets the difference with the key's previous row.
// A lowered (corrected) cumulative value yields a negative daily figure on
// purpose.
//
// Municipal rows and the aggregate rows without a municipality fold under
// different keys, matching how the providers report them.
func computeDailyDeltas(rows []*domain.RegionStatistic, casesByDate map[time.Time]int64, policy DailyCountPolicy) {
	last := make(map[domain.RegionKey]*domain.RegionStatistic)

	for _, row := range rows {
		key := row.MunicipalKey()

		if prev, ok := last[key]; ok {
			row.Infections = row.CumulativeInfections - prev.CumulativeInfections
			row.Hospitalised = row.CumulativeHospitalised - prev.CumulativeHospitalised
			row.Critical = row.CumulativeCritical - prev.CumulativeCritical
			row.Deaths = row.CumulativeDeaths - prev.CumulativeDeaths
			row.Recovered = row.CumulativeRecovered - prev.CumulativeRecovered
		} else {
			// Cold start: no predecessor to difference against.
			row.Infections = 0
			row.Hospitalised = 0
			row.Critical = 0
			row.Deaths = 0
			row.Recovered = 0
		}

		last[key] = row
	}

	if policy == PolicyCases && casesByDate != nil {
		overrideInfectionsFromCases(rows, casesByDate)
	}
}

// overrideInfectionsFromCases replaces daily infections on the aggregate
// rows with the per-date case counts. The case file carries no municipal
// resolution, so municipal rows keep their cumulative-derived figures.
func overrideInfectionsFromCases(rows []*domain.RegionStatistic, casesByDate map[time.Time]int64) {
	for _, row := range rows {
		if row.Municipality != nil {
			continue
		}
		if count, ok := casesByDate[row.ReportedDate]; ok {
			row.Infections = count
		}
	}
}
