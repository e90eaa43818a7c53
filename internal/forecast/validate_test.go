package forecast

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/fcast/internal/model"
)

func problemFields(t *testing.T, err error) []string {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidAssumptions))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "got %T", err)
	fields := make([]string, 0, len(verr.Problems))
	for _, p := range verr.Problems {
		fields = append(fields, p.Field)
	}
	return fields
}

func TestValidate_Accepts(t *testing.T) {
	assert.NoError(t, Validate(linearStream(3)))
	assert.NoError(t, Validate(festival()))
}

func TestValidate_PeriodCount(t *testing.T) {
	a := linearStream(0)
	assert.Contains(t, problemFields(t, Validate(a)), "metadata.periodCount")
}

func TestValidate_PercentRange(t *testing.T) {
	a := festival()
	a.Metadata.COGS.FoodBeveragePct = 120
	assert.Contains(t, problemFields(t, Validate(a)), "metadata.cogsPercents.foodBeveragePct")
}

func TestValidate_NonFinite(t *testing.T) {
	a := linearStream(2)
	a.RevenueStreams[0].BaseValue = math.Inf(1)
	assert.Contains(t, problemFields(t, Validate(a)), "revenueStreams[0].baseValue")
}

func TestValidate_DuplicateNames(t *testing.T) {
	a := linearStream(2)
	a.RevenueStreams = append(a.RevenueStreams, model.RevenueStream{Name: "stream", BaseValue: 1})
	assert.Contains(t, problemFields(t, Validate(a)), "revenueStreams")
}

func TestValidate_EventVariant(t *testing.T) {
	a := festival()
	a.Metadata.Attendance = nil
	assert.Contains(t, problemFields(t, Validate(a)), "metadata.attendance")

	b := linearStream(2)
	b.Metadata.Attendance = &model.AttendanceDrivers{InitialAttendance: 10}
	assert.Contains(t, problemFields(t, Validate(b)), "metadata.attendance")
}

func TestValidate_COGSRoles(t *testing.T) {
	a := festival()
	a.CostCategories = append(a.CostCategories,
		model.CostCategory{Name: "Food cost", Role: model.RoleCOGS, COGSLine: model.COGSFoodBeverage, LinkedStream: "Food"},
		model.CostCategory{Name: "Kitchen", Role: model.RoleCOGS, COGSLine: model.COGSFoodBeverage},
		model.CostCategory{Name: "Shop", Role: model.RoleCOGS, COGSLine: model.COGSMerchandise, LinkedStream: "Gift shop"},
		model.CostCategory{Name: "Loose", LinkedStream: "Food"},
	)

	fields := problemFields(t, Validate(a))
	assert.ElementsMatch(t, []string{
		"costCategories[3].cogsLine",
		"costCategories[4].linkedStream",
		"costCategories[5]",
	}, fields)
}

func TestValidate_MarketingPlan(t *testing.T) {
	a := linearStream(2)
	a.Marketing = model.MarketingPlan{Mode: model.MarketingChannels}
	assert.Contains(t, problemFields(t, Validate(a)), "marketingPlan.channels")

	a.Marketing = model.MarketingPlan{Mode: model.MarketingHighLevel, TotalBudget: 10}
	assert.Contains(t, problemFields(t, Validate(a)), "marketingPlan.application")

	a.Marketing.Application = model.ApplySpreadCustom
	assert.Contains(t, problemFields(t, Validate(a)), "marketingPlan.spreadDurationPeriods")

	a.Marketing.SpreadDurationPeriods = 3
	assert.NoError(t, Validate(a))
}

func TestValidationError_Message(t *testing.T) {
	a := linearStream(0)
	a.Growth.Kind = "logistic"
	err := Validate(a)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "invalid assumptions: "))
	assert.Contains(t, err.Error(), "growthModel.kind: must be one of")
}

func TestValidateActual(t *testing.T) {
	ok := model.ActualPeriodEntry{Period: 1, PeriodUnit: model.Week, Notes: "opening weekend"}
	assert.NoError(t, ValidateActual(ok))

	bad := model.ActualPeriodEntry{
		Period:           0,
		PeriodUnit:       "day",
		Notes:            strings.Repeat("x", model.MaxNotesLength+1),
		AttendanceActual: intPtr(-3),
		CostActuals:      map[string]float64{"Rent": math.NaN()},
	}
	assert.Equal(t, []string{
		"attendanceActual", "costActuals.Rent", "notes", "period", "periodUnit",
	}, problemFields(t, ValidateActual(bad)))
}

func TestValidate_GrowthBelowFullDecline(t *testing.T) {
	a := festival()
	a.Metadata.Attendance.Growth.AttendanceGrowthPct = -150
	a.Metadata.Attendance.Growth.FoodGrowthPct = -101
	assert.Equal(t, []string{
		"metadata.attendance.growth.attendanceGrowthPct",
		"metadata.attendance.growth.foodGrowthPct",
	}, problemFields(t, Validate(a)))

	a = festival()
	a.Metadata.Attendance.Growth.AttendanceGrowthPct = -100
	require.NoError(t, Validate(a))
	res, err := Run(a, nil)
	require.NoError(t, err)
	for _, p := range res.Periods {
		assert.GreaterOrEqual(t, *p.AttendanceForecast, 0.0, "period %d", p.Period)
	}
}

func TestValidate_ExponentialRateBelowMinusOne(t *testing.T) {
	a := linearStream(3)
	a.Growth = model.GrowthModel{Kind: model.GrowthExponential, Rate: -1.5}
	assert.Equal(t, []string{"growthModel.rate"}, problemFields(t, Validate(a)))

	a.Growth.Rate = -1
	assert.NoError(t, Validate(a))
}

func TestValidate_ProjectionOverflow(t *testing.T) {
	a := linearStream(1000)
	a.Growth = model.GrowthModel{Kind: model.GrowthExponential, Rate: 2}

	err := Validate(a)
	assert.Equal(t, []string{"growthModel"}, problemFields(t, err))
	assert.Contains(t, err.Error(), "overflow")

	res, err := Run(a, nil)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, ErrInvalidAssumptions))
}

func TestValidateActual_NegativeAmounts(t *testing.T) {
	e := model.ActualPeriodEntry{
		Period:         1,
		PeriodUnit:     model.Week,
		RevenueActuals: map[string]float64{"stream": -500, "bar": 0},
		CostActuals:    map[string]float64{"Rent": -1},
	}
	assert.Equal(t, []string{"costActuals.Rent", "revenueActuals.stream"}, problemFields(t, ValidateActual(e)))
}
