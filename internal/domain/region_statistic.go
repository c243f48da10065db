package domain

import "time"

// RegionStatistic is one reported row per (province, municipality, date).
// Municipality is nil on province- and national-level aggregate rows.
type RegionStatistic struct {
	ID           int64     `db:"id"`
	Province     string    `db:"province"`
	Municipality *string   `db:"municipality"`
	ReportedDate time.Time `db:"reported_date"`

	CumulativeInfections   int64 `db:"cumulative_infections"`
	CumulativeHospitalised int64 `db:"cumulative_hospitalised"`
	CumulativeCritical     int64 `db:"cumulative_critical"`
	CumulativeDeaths       int64 `db:"cumulative_deaths"`
	CumulativeRecovered    int64 `db:"cumulative_recovered"`

	// Intake totals reported by the NICE registry rather than RIVM.
	CumulativeHospitalisedNice *int64 `db:"cumulative_hospitalised_nice"`

	Infections   int64 `db:"infections"`
	Hospitalised int64 `db:"hospitalised"`
	Critical     int64 `db:"critical"`
	Deaths       int64 `db:"deaths"`
	Recovered    int64 `db:"recovered"`

	PrevalenceLow *int64   `db:"prevalence_low"`
	PrevalenceAvg *int64   `db:"prevalence_avg"`
	PrevalenceUp  *int64   `db:"prevalence_up"`
	Reproduction  *float64 `db:"reproduction"`

	HospitalIntakeProven    *int64 `db:"hospital_intake_proven"`
	HospitalIntakeSuspected *int64 `db:"hospital_intake_suspected"`
}

// RegionKey identifies the reporting unit a delta pass groups on. Municipal
// rows key on (province, municipality); aggregate rows key on province alone.
type RegionKey struct {
	Province     string
	Municipality string
}

func (s *RegionStatistic) MunicipalKey() RegionKey {
	key := RegionKey{Province: s.Province}
	if s.Municipality != nil {
		key.Municipality = *s.Municipality
	}
	return key
}

// ReportedCase is a single case attributed to the date it occurred on, which
// may precede the date it showed up in a report.
type ReportedCase struct {
	ID             int64     `db:"id"`
	Province       string    `db:"province"`
	ReportedDate   time.Time `db:"reported_date"`
	StatisticsDate time.Time `db:"statistics_date"`
}

// DailyTotal is one date of the grouped aggregation, summed across whatever
// region granularity the caller filtered down to.
type DailyTotal struct {
	Date         time.Time `db:"reported_date" json:"date"`
	Infections   int64     `db:"infections" json:"infections"`
	Hospitalised int64     `db:"hospitalised" json:"hospitalised"`
	Deaths       int64     `db:"deaths" json:"deaths"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}
