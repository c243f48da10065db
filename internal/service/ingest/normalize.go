package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tbruijn/covidwatch/internal/domain"
	"github.com/tbruijn/covidwatch/internal/domain/dto"
)

const dateLayout = "2006-01-02"

// parseFeedDate accepts both plain dates and the "2006-01-02 15:04:05"
// report timestamps; only the date part is kept.
func parseFeedDate(s string) (time.Time, error) {
	if len(s) < len(dateLayout) {
		return time.Time{}, fmt.Errorf("date too short: %q", s)
	}
	d, err := time.Parse(dateLayout, s[:len(dateLayout)])
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return d, nil
}

func normalizeCumulative(rows []dto.RivmCumulativeRow) ([]*domain.RegionStatistic, error) {
	stats := make([]*domain.RegionStatistic, 0, len(rows))
	for _, row := range rows {
		date, err := parseFeedDate(row.DateOfReport)
		if err != nil {
			return nil, err
		}

		stat := &domain.RegionStatistic{
			Province:               row.Province,
			ReportedDate:           date,
			CumulativeInfections:   row.TotalReported,
			CumulativeHospitalised: row.HospitalAdmission,
			CumulativeDeaths:       row.Deceased,
		}

		// An empty municipality marks a province or national aggregate row.
		if name := strings.TrimSpace(row.MunicipalityName); name != "" {
			stat.Municipality = &name
		}

		stats = append(stats, stat)
	}
	return stats, nil
}

func normalizeCases(rows []dto.RivmCaseRow) ([]*domain.ReportedCase, error) {
	cases := make([]*domain.ReportedCase, 0, len(rows))
	for _, row := range rows {
		reported, err := parseFeedDate(row.DateFile)
		if err != nil {
			return nil, err
		}
		statistics, err := parseFeedDate(row.DateStatistics)
		if err != nil {
			return nil, err
		}

		cases = append(cases, &domain.ReportedCase{
			Province:       row.Province,
			ReportedDate:   reported,
			StatisticsDate: statistics,
		})
	}
	return cases, nil
}

// normalizeReproduction parses the string-typed estimate columns; dates the
// provider publishes without an estimate are skipped, not zeroed.
func normalizeReproduction(rows []dto.RivmReproductionRow, out map[time.Time]float64) error {
	for _, row := range rows {
		if strings.TrimSpace(row.RtAvg) == "" {
			continue
		}

		date, err := parseFeedDate(row.Date)
		if err != nil {
			return err
		}

		value, err := strconv.ParseFloat(row.RtAvg, 64)
		if err != nil {
			return fmt.Errorf("parse Rt_avg %q: %w", row.RtAvg, err)
		}

		out[date] = value
	}
	return nil
}

func normalizePrevalence(rows []dto.RivmPrevalenceRow, out map[time.Time]domain.Prevalence) error {
	for _, row := range rows {
		date, err := parseFeedDate(row.Date)
		if err != nil {
			return err
		}

		out[date] = domain.Prevalence{Low: row.PrevLow, Avg: row.PrevAvg, Up: row.PrevUp}
	}
	return nil
}

func normalizeIntake(rows []dto.NiceIntakeRow, out map[time.Time]int64) error {
	for _, row := range rows {
		date, err := parseFeedDate(row.Date)
		if err != nil {
			return err
		}

		out[date] = row.Value
	}
	return nil
}
