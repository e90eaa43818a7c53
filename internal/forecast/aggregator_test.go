package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/fcast/internal/model"
)

func TestAccumulate_RunningTotals(t *testing.T) {
	periods := ProjectPeriods(linearStream(3))
	Accumulate(periods)

	want := []float64{1000, 2100, 3300}
	for i, p := range periods {
		assert.InDelta(t, want[i], p.Cumulative.RevenueForecast, 1e-9, "period %d", p.Period)
	}
}

func TestAccumulate_Consistency(t *testing.T) {
	a := festival()
	a.Growth = model.GrowthModel{Kind: model.GrowthExponential, Rate: 0.07}
	periods := ProjectPeriods(a)
	Accumulate(periods)

	var prev model.Metrics
	for _, p := range periods {
		assert.Equal(t, prev.RevenueForecast+p.RevenueForecast, p.Cumulative.RevenueForecast)
		assert.Equal(t, prev.CostForecast+p.CostForecast, p.Cumulative.CostForecast)
		assert.Equal(t, prev.ProfitForecast+p.ProfitForecast, p.Cumulative.ProfitForecast)
		prev = p.Cumulative
	}
}

func TestAccumulate_ActualsOnlyFromReportedPeriods(t *testing.T) {
	a := linearStream(3)
	periods := ProjectPeriods(a)
	MergeActuals(periods, []model.ActualPeriodEntry{
		{Period: 1, RevenueActuals: map[string]float64{"stream": 900}},
		{Period: 3, RevenueActuals: map[string]float64{"stream": 1300}},
	}, MergeOptions{})
	Accumulate(periods)

	assert.Equal(t, 900.0, *periods[0].Cumulative.RevenueActual)
	assert.Equal(t, 900.0, *periods[1].Cumulative.RevenueActual)
	assert.Equal(t, 2200.0, *periods[2].Cumulative.RevenueActual)
	assert.InDelta(t, 0, *periods[2].Cumulative.RevenueVariance, 1e-9)

	// Cumulative values are owned per period.
	*periods[0].Cumulative.RevenueActual = -1
	assert.Equal(t, 900.0, *periods[1].Cumulative.RevenueActual)
}

func TestSummarize_RevisedEqualsForecastWithoutActuals(t *testing.T) {
	a := festival()
	a.Growth = model.GrowthModel{Kind: model.GrowthExponential, Rate: 0.13}
	periods := ProjectPeriods(a)
	Accumulate(periods)

	s := Summarize(periods)
	assert.Equal(t, s.TotalRevenueForecast, s.RevisedTotalRevenue)
	assert.Equal(t, s.TotalCostForecast, s.RevisedTotalCost)
	assert.Equal(t, s.TotalProfitForecast, s.RevisedTotalProfit)
	assert.Equal(t, 0, s.LatestPeriodWithActuals)
	assert.Equal(t, 0.0, s.RevenueOutlookVariance)
	assert.Nil(t, s.ActualAttendanceToDate)
	require.NotNil(t, s.TotalAttendanceForecast)
	assert.Equal(t, *s.TotalAttendanceForecast, *s.RevisedTotalAttendance)
}

func TestSummarize_RevisedOutlook(t *testing.T) {
	a := linearStream(3)
	periods := ProjectPeriods(a)
	MergeActuals(periods, []model.ActualPeriodEntry{
		{Period: 2, RevenueActuals: map[string]float64{"stream": 1050}},
	}, MergeOptions{})
	Accumulate(periods)

	s := Summarize(periods)
	assert.Equal(t, 2, s.LatestPeriodWithActuals)
	assert.Equal(t, 1, s.PeriodsWithActuals)
	assert.InDelta(t, 3300, s.TotalRevenueForecast, 1e-9)
	assert.InDelta(t, 3250, s.RevisedTotalRevenue, 1e-9)
	assert.InDelta(t, -50, s.RevenueOutlookVariance, 1e-9)
	assert.InDelta(t, 1100, s.ForecastRevenueToDate, 1e-9)
	assert.Equal(t, 1050.0, s.ActualRevenueToDate)
}

func TestSummarize_GapsKeepForecast(t *testing.T) {
	a := linearStream(4)
	periods := ProjectPeriods(a)
	MergeActuals(periods, []model.ActualPeriodEntry{
		{Period: 3, RevenueActuals: map[string]float64{"stream": 0}},
	}, MergeOptions{})

	s := Summarize(periods)
	assert.Equal(t, 3, s.LatestPeriodWithActuals)
	// Periods 1, 2 and 4 keep their forecast; period 3 contributes 0.
	assert.InDelta(t, 1000+1100+1300, s.RevisedTotalRevenue, 1e-9)
}

func TestSummarize_MarginZeroWithoutRevenue(t *testing.T) {
	a := linearStream(2)
	a.RevenueStreams = nil
	a.CostCategories = []model.CostCategory{{Name: "Rent", BaseValue: 100, Kind: model.CostRecurring}}

	s := Summarize(ProjectPeriods(a))
	assert.Equal(t, 0.0, s.ForecastMargin)
	assert.Equal(t, 0.0, s.RevisedMargin)
	assert.Equal(t, -200.0, s.TotalProfitForecast)
}

func TestSummarize_PerAttendee(t *testing.T) {
	a := festival()
	a.Metadata.Attendance.Growth.AttendanceGrowthPct = 0
	a.Metadata.COGS = model.COGSPercents{}
	a.RevenueStreams = a.RevenueStreams[:1]
	a.CostCategories = nil
	periods := ProjectPeriods(a)
	MergeActuals(periods, []model.ActualPeriodEntry{
		{Period: 1, RevenueActuals: map[string]float64{"Tickets": 45000}, AttendanceActual: intPtr(900)},
	}, MergeOptions{})

	s := Summarize(periods)
	assert.Equal(t, 4000.0, *s.TotalAttendanceForecast)
	assert.Equal(t, 3900.0, *s.RevisedTotalAttendance)
	assert.Equal(t, -100.0, *s.AttendanceVariance)
	assert.Equal(t, -10.0, *s.AttendanceVariancePercent)
	assert.Equal(t, 50.0, *s.RevenuePerAttendee)
	assert.Equal(t, 100.0, s.ForecastMargin)
}
