package forecast

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fcast/internal/model"
)

// MergeOptions lets the caller check entries against the forecast they belong to.
// Zero values disable the corresponding check.
type MergeOptions struct {
	Unit        model.PeriodUnit
	RevenueKeys map[string]bool
	CostKeys    map[string]bool
}

// MergeOptionsFor builds merge checks from a forecast's assumptions.
func MergeOptionsFor(a model.Assumptions) MergeOptions {
	opts := MergeOptions{
		Unit:        a.Metadata.PeriodUnit,
		RevenueKeys: make(map[string]bool, len(a.RevenueStreams)),
		CostKeys:    make(map[string]bool, len(a.CostCategories)+4),
	}
	for _, s := range a.RevenueStreams {
		opts.RevenueKeys[s.Name] = true
	}
	for _, c := range a.CostCategories {
		opts.CostKeys[c.Name] = true
	}
	for _, line := range cogsLines {
		opts.CostKeys[line.DefaultName()] = true
	}
	opts.CostKeys[model.MarketingCostKey] = true
	opts.CostKeys[StaffingLineName] = true
	return opts
}

// MergeActuals attaches actual totals and variances to the matching periods in
// place. At most one entry is used per period: when the input repeats a period
// the last entry wins and a duplicate warning is returned.
func MergeActuals(periods []model.PeriodProjection, entries []model.ActualPeriodEntry, opts MergeOptions) []model.Warning {
	var warnings []model.Warning

	index := make(map[int]int, len(periods))
	for i, p := range periods {
		index[p.Period] = i
	}

	chosen := make(map[int]model.ActualPeriodEntry, len(entries))
	var order []int
	for _, e := range entries {
		if _, ok := index[e.Period]; !ok {
			warnings = append(warnings, model.Warning{
				Code:    model.WarnPeriodOutOfRange,
				Period:  e.Period,
				Message: fmt.Sprintf("actual entry for period %d is outside the forecast (1..%d); ignored", e.Period, len(periods)),
			})
			continue
		}
		if opts.Unit != "" && e.PeriodUnit != "" && e.PeriodUnit != opts.Unit {
			warnings = append(warnings, model.Warning{
				Code:    model.WarnUnitMismatch,
				Period:  e.Period,
				Message: fmt.Sprintf("actual entry for period %d is recorded in %ss but the forecast uses %ss; ignored", e.Period, e.PeriodUnit, opts.Unit),
			})
			continue
		}
		if _, dup := chosen[e.Period]; dup {
			warnings = append(warnings, model.Warning{
				Code:    model.WarnDuplicateActual,
				Period:  e.Period,
				Message: fmt.Sprintf("period %d has more than one actual entry; using the last one", e.Period),
			})
		} else {
			order = append(order, e.Period)
		}
		chosen[e.Period] = e
	}

	for _, period := range order {
		e := chosen[period]
		p := &periods[index[period]]

		revenue, w := sumAmounts(e.RevenueActuals, opts.RevenueKeys, "revenue", period)
		warnings = append(warnings, w...)
		cost, w := sumAmounts(e.CostActuals, opts.CostKeys, "cost", period)
		warnings = append(warnings, w...)
		profit := revenue.Sub(cost)

		p.RevenueActual = ptr(revenue.InexactFloat64())
		p.CostActual = ptr(cost.InexactFloat64())
		p.ProfitActual = ptr(profit.InexactFloat64())

		p.RevenueVariance, p.RevenueVariancePercent = variance(revenue, p.RevenueForecast)
		p.CostVariance, p.CostVariancePercent = variance(cost, p.CostForecast)
		p.ProfitVariance, p.ProfitVariancePercent = variance(profit, p.ProfitForecast)

		if e.AttendanceActual != nil {
			att := float64(*e.AttendanceActual)
			p.AttendanceActual = ptr(att)
			if p.AttendanceForecast != nil {
				p.AttendanceVariance, p.AttendanceVariancePercent = variance(decimal.NewFromFloat(att), *p.AttendanceForecast)
			}
		}
	}

	return warnings
}

// sumAmounts adds an entry's line amounts exactly. Keys are visited in sorted
// order so warnings are deterministic.
func sumAmounts(amounts map[string]float64, known map[string]bool, kind string, period int) (decimal.Decimal, []model.Warning) {
	keys := make([]string, 0, len(amounts))
	for k := range amounts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var warnings []model.Warning
	total := decimal.Zero
	for _, k := range keys {
		v := amounts[k]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			warnings = append(warnings, model.Warning{
				Code:    model.WarnInvalidAmount,
				Period:  period,
				Message: fmt.Sprintf("%s amount for %q is not a finite number; skipped", kind, k),
			})
			continue
		}
		if v < 0 {
			warnings = append(warnings, model.Warning{
				Code:    model.WarnInvalidAmount,
				Period:  period,
				Message: fmt.Sprintf("%s amount for %q is negative; skipped", kind, k),
			})
			continue
		}
		if known != nil && !known[k] {
			warnings = append(warnings, model.Warning{
				Code:    model.WarnUnknownKey,
				Period:  period,
				Message: fmt.Sprintf("%s key %q matches no configured line; counted in the total", kind, k),
			})
		}
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total, warnings
}

// variance returns actual minus forecast and the variance as a percentage of
// forecast. The percentage is nil when forecast is zero.
func variance(actual decimal.Decimal, forecast float64) (*float64, *float64) {
	if math.IsNaN(forecast) || math.IsInf(forecast, 0) {
		return nil, nil
	}
	diff := actual.Sub(decimal.NewFromFloat(forecast)).InexactFloat64()
	if forecast == 0 {
		return ptr(diff), nil
	}
	return ptr(diff), finitePtr(diff / forecast * 100)
}

func ptr(v float64) *float64 {
	return &v
}

func finitePtr(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
