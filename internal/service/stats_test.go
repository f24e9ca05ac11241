package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yourname/symptomtracker/internal"
)

func TestCalculateProgress(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	recs := []internal.SymptomRecord{
		{Name: "Headache", Severity: 5, Date: "2024-03-15", Category: "Pain"},
		{Name: "Headache", Severity: 3, Date: "2024-03-15", Category: "Pain"},
		{Name: "Nausea", Severity: 1, Date: "2024-03-10"},
		{Name: "Fatigue", Severity: 2, Date: "2024-02-01"},
	}

	stats := CalculateProgress(recs, 7, now)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.PeriodTotal)
	assert.Equal(t, 3, stats.RecentCount)
	assert.Equal(t, 2.8, stats.AverageSeverity)
	assert.Equal(t, 1, stats.Buckets[internal.SeverityMild])
	assert.Equal(t, 1, stats.Buckets[internal.SeverityModerate])
	assert.Equal(t, 1, stats.Buckets[internal.SeveritySevere])
	assert.Equal(t, map[string]int{"Pain": 2, "Uncategorized": 1}, stats.Categories)
	assert.Equal(t, []DailySeverity{{Date: "2024-03-10", Average: 1}, {Date: "2024-03-15", Average: 4}}, stats.DailyAverage)
	assert.Equal(t, NameCount{Name: "Headache", Count: 2}, stats.MostCommon[0])

	all := CalculateProgress(recs, 0, now)
	assert.Equal(t, 4, all.PeriodTotal)
	assert.Len(t, all.DailyAverage, 3)
}

func TestCalculateProgress_Empty(t *testing.T) {
	stats := CalculateProgress(nil, 30, time.Now())
	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.AverageSeverity)
	assert.Empty(t, stats.DailyAverage)
	assert.Empty(t, stats.MostCommon)
}

func TestValidPeriod(t *testing.T) {
	assert.True(t, ValidPeriod(0))
	assert.True(t, ValidPeriod(7))
	assert.True(t, ValidPeriod(30))
	assert.False(t, ValidPeriod(14))
}
