package service

import (
	"math"
	"sort"
	"time"

	"github.com/yourname/symptomtracker/internal"
)

type DailySeverity struct {
	Date    string  `json:"date"`
	Average float64 `json:"average"`
}

type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ProgressStats summarises a user's records. Period fields only count
// records inside the requested window; AverageSeverity, MostCommon and
// RecentCount always look at every record.
type ProgressStats struct {
	PeriodDays      int                             `json:"period_days"`
	PeriodTotal     int                             `json:"period_total"`
	Buckets         map[internal.SeverityBucket]int `json:"buckets"`
	DailyAverage    []DailySeverity                 `json:"daily_average"`
	Categories      map[string]int                  `json:"categories"`
	Total           int                             `json:"total"`
	AverageSeverity float64                         `json:"average_severity"`
	MostCommon      []NameCount                     `json:"most_common"`
	RecentCount     int                             `json:"recent_count"`
}

const mostCommonLimit = 5

// ValidPeriod reports whether days is one of the supported windows (0 = all).
func ValidPeriod(days int) bool {
	return days == 0 || days == 7 || days == 30
}

func cutoffDate(now time.Time, days int) string {
	return now.AddDate(0, 0, -days).Format("2006-01-02")
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}

func CalculateProgress(recs []internal.SymptomRecord, periodDays int, now time.Time) ProgressStats {
	stats := ProgressStats{
		PeriodDays: periodDays,
		Buckets: map[internal.SeverityBucket]int{
			internal.SeverityMild:     0,
			internal.SeverityModerate: 0,
			internal.SeveritySevere:   0,
		},
		DailyAverage: []DailySeverity{},
		Categories:   map[string]int{},
		MostCommon:   []NameCount{},
		Total:        len(recs),
	}

	periodCutoff := cutoffDate(now, periodDays)
	recentCutoff := cutoffDate(now, 7)
	daySums := map[string][2]int{}
	nameCounts := map[string]int{}
	severitySum := 0

	for _, r := range recs {
		severitySum += r.Severity
		nameCounts[r.Name]++
		if r.Date >= recentCutoff {
			stats.RecentCount++
		}
		if periodDays > 0 && r.Date < periodCutoff {
			continue
		}
		stats.PeriodTotal++
		stats.Buckets[internal.BucketFor(r.Severity)]++
		category := r.Category
		if category == "" {
			category = "Uncategorized"
		}
		stats.Categories[category]++
		sum := daySums[r.Date]
		daySums[r.Date] = [2]int{sum[0] + r.Severity, sum[1] + 1}
	}

	if len(recs) > 0 {
		stats.AverageSeverity = round1(float64(severitySum) / float64(len(recs)))
	}

	for date, sum := range daySums {
		stats.DailyAverage = append(stats.DailyAverage, DailySeverity{Date: date, Average: float64(sum[0]) / float64(sum[1])})
	}
	sort.Slice(stats.DailyAverage, func(i, j int) bool { return stats.DailyAverage[i].Date < stats.DailyAverage[j].Date })

	for name, n := range nameCounts {
		stats.MostCommon = append(stats.MostCommon, NameCount{Name: name, Count: n})
	}
	sort.Slice(stats.MostCommon, func(i, j int) bool {
		if stats.MostCommon[i].Count != stats.MostCommon[j].Count {
			return stats.MostCommon[i].Count > stats.MostCommon[j].Count
		}
		return stats.MostCommon[i].Name < stats.MostCommon[j].Name
	})
	if len(stats.MostCommon) > mostCommonLimit {
		stats.MostCommon = stats.MostCommon[:mostCommonLimit]
	}
	return stats
}
