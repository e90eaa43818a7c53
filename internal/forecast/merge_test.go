package forecast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/fcast/internal/model"
)

func warningCodes(ws []model.Warning) []model.WarningCode {
	codes := make([]model.WarningCode, 0, len(ws))
	for _, w := range ws {
		codes = append(codes, w.Code)
	}
	return codes
}

func TestMergeActuals_Variance(t *testing.T) {
	a := linearStream(3)
	periods := ProjectPeriods(a)

	warnings := MergeActuals(periods, []model.ActualPeriodEntry{
		{Period: 2, PeriodUnit: model.Week, RevenueActuals: map[string]float64{"stream": 1050}},
	}, MergeOptionsFor(a))
	assert.Empty(t, warnings)

	assert.False(t, periods[0].HasActual())
	require.True(t, periods[1].HasActual())
	assert.Equal(t, 1050.0, *periods[1].RevenueActual)
	assert.Equal(t, 0.0, *periods[1].CostActual)
	assert.InDelta(t, -50, *periods[1].RevenueVariance, 1e-9)
	require.NotNil(t, periods[1].RevenueVariancePercent)
	assert.InDelta(t, -4.545454, *periods[1].RevenueVariancePercent, 1e-5)
	assert.Nil(t, periods[1].CostVariancePercent, "zero cost forecast leaves percent undefined")
	assert.Equal(t, 0.0, *periods[1].CostVariance)
}

func TestMergeActuals_SumsLineItems(t *testing.T) {
	a := linearStream(1)
	a.CostCategories = []model.CostCategory{{Name: "Rent", BaseValue: 300, Kind: model.CostRecurring}}
	periods := ProjectPeriods(a)

	MergeActuals(periods, []model.ActualPeriodEntry{{
		Period:         1,
		RevenueActuals: map[string]float64{"stream": 600.1, "extra": 399.9},
		CostActuals:    map[string]float64{"Rent": 300.1, model.MarketingCostKey: 0.2},
	}}, MergeOptions{})

	assert.Equal(t, 1000.0, *periods[0].RevenueActual)
	assert.Equal(t, 300.3, *periods[0].CostActual)
	assert.Equal(t, 699.7, *periods[0].ProfitActual)
}

func TestMergeActuals_EqualActualHasZeroVariance(t *testing.T) {
	a := linearStream(1)
	periods := ProjectPeriods(a)

	MergeActuals(periods, []model.ActualPeriodEntry{
		{Period: 1, RevenueActuals: map[string]float64{"stream": 1000}},
	}, MergeOptions{})

	assert.Equal(t, 0.0, *periods[0].RevenueVariance)
	assert.Equal(t, 0.0, *periods[0].RevenueVariancePercent)
}

func TestMergeActuals_DuplicateLastWins(t *testing.T) {
	a := linearStream(2)
	periods := ProjectPeriods(a)

	warnings := MergeActuals(periods, []model.ActualPeriodEntry{
		{Period: 1, RevenueActuals: map[string]float64{"stream": 10}},
		{Period: 1, RevenueActuals: map[string]float64{"stream": 20}},
	}, MergeOptions{})

	require.Len(t, warnings, 1)
	assert.Equal(t, model.WarnDuplicateActual, warnings[0].Code)
	assert.Equal(t, 1, warnings[0].Period)
	assert.Equal(t, 20.0, *periods[0].RevenueActual)
}

func TestMergeActuals_RejectsOutOfRangeAndMismatchedUnit(t *testing.T) {
	a := linearStream(2)
	periods := ProjectPeriods(a)

	warnings := MergeActuals(periods, []model.ActualPeriodEntry{
		{Period: 7, PeriodUnit: model.Week, RevenueActuals: map[string]float64{"stream": 10}},
		{Period: 2, PeriodUnit: model.Month, RevenueActuals: map[string]float64{"stream": 10}},
	}, MergeOptionsFor(a))

	assert.Equal(t, []model.WarningCode{model.WarnPeriodOutOfRange, model.WarnUnitMismatch}, warningCodes(warnings))
	assert.False(t, periods[1].HasActual())
}

func TestMergeActuals_UnknownKeyStillCounted(t *testing.T) {
	a := linearStream(1)
	periods := ProjectPeriods(a)

	warnings := MergeActuals(periods, []model.ActualPeriodEntry{
		{Period: 1, RevenueActuals: map[string]float64{"stream": 900, "Stream ": 100}},
	}, MergeOptionsFor(a))

	assert.Equal(t, []model.WarningCode{model.WarnUnknownKey}, warningCodes(warnings))
	assert.Equal(t, 1000.0, *periods[0].RevenueActual)
}

func TestMergeActuals_SkipsNonFiniteAmounts(t *testing.T) {
	a := linearStream(1)
	periods := ProjectPeriods(a)

	warnings := MergeActuals(periods, []model.ActualPeriodEntry{
		{Period: 1, RevenueActuals: map[string]float64{"stream": math.NaN()}},
	}, MergeOptions{})

	assert.Equal(t, []model.WarningCode{model.WarnInvalidAmount}, warningCodes(warnings))
	assert.Equal(t, 0.0, *periods[0].RevenueActual)
}

func TestMergeActuals_Attendance(t *testing.T) {
	a := festival()
	periods := ProjectPeriods(a)

	MergeActuals(periods, []model.ActualPeriodEntry{
		{Period: 1, AttendanceActual: intPtr(1200)},
	}, MergeOptions{})

	require.NotNil(t, periods[0].AttendanceVariance)
	assert.Equal(t, 200.0, *periods[0].AttendanceVariance)
	assert.Equal(t, 20.0, *periods[0].AttendanceVariancePercent)
}

func TestMergeOptionsFor_KnowsSyntheticKeys(t *testing.T) {
	opts := MergeOptionsFor(festival())
	for _, k := range []string{"Venue", "F&B COGS", "Merchandise COGS", model.MarketingCostKey, StaffingLineName} {
		assert.True(t, opts.CostKeys[k], k)
	}
	assert.True(t, opts.RevenueKeys["Food"])
}

func TestMergeActuals_SkipsNegativeAmounts(t *testing.T) {
	a := linearStream(1)
	periods := ProjectPeriods(a)

	warnings := MergeActuals(periods, []model.ActualPeriodEntry{
		{Period: 1, RevenueActuals: map[string]float64{"stream": -500}, CostActuals: map[string]float64{"Rent": 40}},
	}, MergeOptions{})

	require.Len(t, warnings, 1)
	assert.Equal(t, model.WarnInvalidAmount, warnings[0].Code)
	assert.Contains(t, warnings[0].Message, "negative")
	assert.Equal(t, 0.0, *periods[0].RevenueActual)
	assert.Equal(t, 40.0, *periods[0].CostActual)
}

func TestMergeActuals_UnitMismatchBeforeDuplicate(t *testing.T) {
	a := linearStream(2)
	periods := ProjectPeriods(a)

	warnings := MergeActuals(periods, []model.ActualPeriodEntry{
		{Period: 2, PeriodUnit: model.Week, RevenueActuals: map[string]float64{"stream": 10}},
		{Period: 2, PeriodUnit: model.Month, RevenueActuals: map[string]float64{"stream": 99}},
	}, MergeOptionsFor(a))

	assert.Equal(t, []model.WarningCode{model.WarnUnitMismatch}, warningCodes(warnings))
	assert.Equal(t, 10.0, *periods[1].RevenueActual)
}
