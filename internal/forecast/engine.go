package forecast

import (
	"fmt"

	"github.com/theirongolddev/fcast/internal/model"
)

// Result is the full output of one forecast run.
type Result struct {
	Assumptions model.Assumptions        `json:"-"`
	Periods     []model.PeriodProjection `json:"periods"`
	Summary     model.ForecastSummary    `json:"summary"`
	Warnings    []model.Warning          `json:"warnings,omitempty"`
}

// Run validates the assumptions, projects every period in ascending order,
// merges the actual entries, and builds the summary. Invalid assumptions are
// rejected before any period is computed, and a result holding a NaN or
// infinite figure is replaced by ErrNonFinite; every other anomaly is
// reported as a warning on the result.
func Run(a model.Assumptions, actuals []model.ActualPeriodEntry) (*Result, error) {
	if err := Validate(a); err != nil {
		return nil, err
	}

	periods := ProjectPeriods(a)
	warnings := supersededWarnings(a)
	warnings = append(warnings, MergeActuals(periods, actuals, MergeOptionsFor(a))...)
	Accumulate(periods)

	res := &Result{
		Assumptions: a,
		Periods:     periods,
		Summary:     Summarize(periods),
		Warnings:    warnings,
	}
	if err := checkResult(res); err != nil {
		return nil, err
	}
	return res, nil
}

// ProjectPeriods computes the forecast side of periods 1..PeriodCount.
func ProjectPeriods(a model.Assumptions) []model.PeriodProjection {
	n := periodCount(a)
	periods := make([]model.PeriodProjection, 0, n)
	for p := 1; p <= n; p++ {
		periods = append(periods, ProjectPeriod(a, p))
	}
	return periods
}

// ProjectPeriod computes the forecast lines and totals for a single period.
func ProjectPeriod(a model.Assumptions, period int) model.PeriodProjection {
	revenue := RevenueLines(a, period)
	cost := CostLines(a, period)

	pp := model.PeriodProjection{
		Period:       period,
		Label:        a.Metadata.PeriodUnit.Label(period),
		RevenueLines: revenue,
		CostLines:    cost,
	}
	pp.RevenueForecast = sumLines(revenue)
	pp.CostForecast = sumLines(cost)
	pp.ProfitForecast = pp.RevenueForecast - pp.CostForecast

	if a.Metadata.AttendanceDriven() {
		pp.AttendanceForecast = ptr(AttendanceForPeriod(a, period))
	}
	return pp
}

// Period returns the projection for one period number, if present.
func (r *Result) Period(n int) (model.PeriodProjection, bool) {
	if n < 1 || n > len(r.Periods) {
		return model.PeriodProjection{}, false
	}
	return r.Periods[n-1], true
}

func supersededWarnings(a model.Assumptions) []model.Warning {
	var warnings []model.Warning
	for _, c := range a.CostCategories {
		if c.Role != model.RoleCOGS && marketingSuperseded(a, c) {
			warnings = append(warnings, model.Warning{
				Code:    model.WarnMarketingSupersede,
				Message: fmt.Sprintf("cost category %q is replaced by the %s marketing plan", c.Name, a.Marketing.Mode),
			})
		}
	}
	return warnings
}
