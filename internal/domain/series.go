package domain

import "time"

// Prevalence is the estimated number of currently infectious people, as a
// low/avg/high band.
type Prevalence struct {
	Low *int64
	Avg *int64
	Up  *int64
}

// SecondarySeries bundles the date-keyed national series that get broadcast
// onto every regional row sharing the date.
type SecondarySeries struct {
	HospitalCumulativeNice map[time.Time]int64
	Prevalence             map[time.Time]Prevalence
	Reproduction           map[time.Time]float64
	IntakeProven           map[time.Time]int64
	IntakeSuspected        map[time.Time]int64
}

func NewSecondarySeries() *SecondarySeries {
	return &SecondarySeries{
		HospitalCumulativeNice: make(map[time.Time]int64),
		Prevalence:             make(map[time.Time]Prevalence),
		Reproduction:           make(map[time.Time]float64),
		IntakeProven:           make(map[time.Time]int64),
		IntakeSuspected:        make(map[time.Time]int64),
	}
}

// Dates returns the distinct dates present in any of the bundled series.
func (s *SecondarySeries) Dates() map[time.Time]struct{} {
	dates := make(map[time.Time]struct{})
	for d := range s.HospitalCumulativeNice {
		dates[d] = struct{}{}
	}
	for d := range s.Prevalence {
		dates[d] = struct{}{}
	}
	for d := range s.Reproduction {
		dates[d] = struct{}{}
	}
	for d := range s.IntakeProven {
		dates[d] = struct{}{}
	}
	for d := range s.IntakeSuspected {
		dates[d] = struct{}{}
	}
	return dates
}
