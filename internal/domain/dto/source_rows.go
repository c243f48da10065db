package dto

// Raw payload shapes for the upstream open-data feeds. Only the keys the
// pipeline reads are mapped; everything else in the payloads is ignored.

// RivmCumulativeRow is one row of the RIVM cumulative municipal feed.
type RivmCumulativeRow struct {
	DateOfReport      string `json:"Date_of_report"`
	Province          string `json:"Province"`
	MunicipalityName  string `json:"Municipality_name"`
	MunicipalityCode  string `json:"Municipality_code"`
	TotalReported     int64  `json:"Total_reported"`
	HospitalAdmission int64  `json:"Hospital_admission"`
	Deceased          int64  `json:"Deceased"`
}

// RivmReproductionRow carries the RIVM-published reproduction estimate.
// Numeric fields arrive as strings and are empty on dates without an
// estimate.
type RivmReproductionRow struct {
	Date  string `json:"Date"`
	RtLow string `json:"Rt_low"`
	RtAvg string `json:"Rt_avg"`
	RtUp  string `json:"Rt_up"`
}

// RivmPrevalenceRow is the estimated number of infectious people per date.
type RivmPrevalenceRow struct {
	Date    string `json:"Date"`
	PrevLow *int64 `json:"prev_low"`
	PrevAvg *int64 `json:"prev_avg"`
	PrevUp  *int64 `json:"prev_up"`
}

// NiceIntakeRow is one point of a NICE hospital-intake series.
type NiceIntakeRow struct {
	Date  string `json:"date"`
	Value int64  `json:"value"`
}

// RivmCaseRow is one individual case from the national case file.
type RivmCaseRow struct {
	DateFile       string `json:"Date_file"`
	DateStatistics string `json:"Date_statistics"`
	Province       string `json:"Province"`
}
