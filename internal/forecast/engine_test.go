package forecast

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/fcast/internal/model"
)

func TestRun_LinearForecast(t *testing.T) {
	res, err := Run(linearStream(3), nil)
	require.NoError(t, err)
	require.Len(t, res.Periods, 3)

	for i, want := range []float64{1000, 1100, 1200} {
		p := res.Periods[i]
		assert.Equal(t, i+1, p.Period)
		assert.InDelta(t, want, p.RevenueForecast, 1e-9)
		assert.False(t, p.HasActual())
	}
	assert.Equal(t, "Week 2", res.Periods[1].Label)
	assert.InDelta(t, 3300, res.Periods[2].Cumulative.RevenueForecast, 1e-9)
	assert.Equal(t, res.Summary.TotalRevenueForecast, res.Summary.RevisedTotalRevenue)
	assert.Empty(t, res.Warnings)
}

func TestRun_MergesActuals(t *testing.T) {
	res, err := Run(linearStream(3), []model.ActualPeriodEntry{
		{Period: 2, PeriodUnit: model.Week, RevenueActuals: map[string]float64{"stream": 1050}},
	})
	require.NoError(t, err)

	p2, ok := res.Period(2)
	require.True(t, ok)
	assert.InDelta(t, -50, *p2.RevenueVariance, 1e-9)
	assert.InDelta(t, -4.545, *p2.RevenueVariancePercent, 1e-3)
	assert.InDelta(t, 3250, res.Summary.RevisedTotalRevenue, 1e-9)

	_, ok = res.Period(4)
	assert.False(t, ok)
}

func TestRun_RejectsInvalidAssumptions(t *testing.T) {
	a := linearStream(3)
	a.Metadata.COGS.MerchandisePct = -1

	res, err := Run(a, nil)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, ErrInvalidAssumptions))
}

func TestRun_WarnsOnSupersededMarketingCategory(t *testing.T) {
	a := linearStream(2)
	a.CostCategories = []model.CostCategory{
		{Name: "Flyers", BaseValue: 50, Kind: model.CostRecurring, Category: model.GroupMarketing},
	}
	a.Marketing = model.MarketingPlan{
		Mode:     model.MarketingChannels,
		Channels: []model.Channel{{ID: "radio", WeeklyBudget: 80}},
	}

	res, err := Run(a, []model.ActualPeriodEntry{
		{Period: 1, Notes: "dup"}, {Period: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, []model.WarningCode{model.WarnMarketingSupersede, model.WarnDuplicateActual}, warningCodes(res.Warnings))
	assert.Equal(t, 80.0, res.Periods[0].CostForecast)
}

func TestRun_AttendanceDrivenFestival(t *testing.T) {
	res, err := Run(festival(), []model.ActualPeriodEntry{
		{Period: 1, PeriodUnit: model.Week, AttendanceActual: intPtr(950), RevenueActuals: map[string]float64{"Tickets": 47500}},
	})
	require.NoError(t, err)

	p1 := res.Periods[0]
	require.NotNil(t, p1.AttendanceForecast)
	assert.Equal(t, 1000.0, *p1.AttendanceForecast)
	assert.Equal(t, -50.0, *p1.AttendanceVariance)
	require.NotNil(t, res.Summary.TotalAttendanceForecast)
	assert.InDelta(t, 1000+1100+1210+1331, *res.Summary.TotalAttendanceForecast, 1e-6)
}

func TestRun_NumbersAreFinite(t *testing.T) {
	a := festival()
	a.Metadata.Attendance.InitialAttendance = 0
	a.RevenueStreams = nil
	res, err := Run(a, []model.ActualPeriodEntry{{Period: 1, AttendanceActual: intPtr(0)}})
	require.NoError(t, err)

	s := res.Summary
	for _, v := range []float64{s.ForecastMargin, s.RevisedMargin, s.ActualMargin, s.TotalProfitForecast} {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
	}
	assert.Nil(t, s.RevenuePerAttendee)
	assert.Nil(t, s.AttendanceVariancePercent)
	assert.Nil(t, res.Periods[0].AttendanceVariancePercent)
}
