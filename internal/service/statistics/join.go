package statistics

import (
	"time"

	"github.com/tbruijn/covidwatch/internal/domain"
)

// joinSecondarySeries broadcasts the date-keyed national series onto every
// row sharing the date. The join is left-outer: a date missing from a
// series leaves the row's field nil. Returns the number of distinct row
// dates that received at least one value.
func joinSecondarySeries(rows []*domain.RegionStatistic, series *domain.SecondarySeries) int {
	if series == nil {
		return 0
	}

	joined := make(map[time.Time]struct{})

	for _, row := range rows {
		touched := false

		if v, ok := series.HospitalCumulativeNice[row.ReportedDate]; ok {
			value := v
			row.CumulativeHospitalisedNice = &value
			touched = true
		}

		if p, ok := series.Prevalence[row.ReportedDate]; ok {
			row.PrevalenceLow = p.Low
			row.PrevalenceAvg = p.Avg
			row.PrevalenceUp = p.Up
			touched = true
		}

		if v, ok := series.Reproduction[row.ReportedDate]; ok {
			value := v
			row.Reproduction = &value
			touched = true
		}

		if v, ok := series.IntakeProven[row.ReportedDate]; ok {
			value := v
			row.HospitalIntakeProven = &value
			touched = true
		}

		if v, ok := series.IntakeSuspected[row.ReportedDate]; ok {
			value := v
			row.HospitalIntakeSuspected = &value
			touched = true
		}

		if touched {
			joined[row.ReportedDate] = struct{}{}
		}
	}

	return len(joined)
}
