package forecast

import "github.com/theirongolddev/fcast/internal/model"

// Accumulate fills each period's Cumulative metrics with running sums through
// that period. Periods must already be in ascending order.
func Accumulate(periods []model.PeriodProjection) {
	var run model.Metrics
	var covered struct{ revenue, cost, profit, attendance float64 }

	for i := range periods {
		p := &periods[i]

		run.RevenueForecast += p.RevenueForecast
		run.CostForecast += p.CostForecast
		run.ProfitForecast += p.ProfitForecast
		run.AttendanceForecast = addOpt(run.AttendanceForecast, p.AttendanceForecast)

		if p.HasActual() {
			run.RevenueActual = addOpt(run.RevenueActual, p.RevenueActual)
			run.CostActual = addOpt(run.CostActual, p.CostActual)
			run.ProfitActual = addOpt(run.ProfitActual, p.ProfitActual)
			run.RevenueVariance = addOpt(run.RevenueVariance, p.RevenueVariance)
			run.CostVariance = addOpt(run.CostVariance, p.CostVariance)
			run.ProfitVariance = addOpt(run.ProfitVariance, p.ProfitVariance)

			covered.revenue += p.RevenueForecast
			covered.cost += p.CostForecast
			covered.profit += p.ProfitForecast

			run.RevenueVariancePercent = percentOf(run.RevenueVariance, covered.revenue)
			run.CostVariancePercent = percentOf(run.CostVariance, covered.cost)
			run.ProfitVariancePercent = percentOf(run.ProfitVariance, covered.profit)
		}

		if p.AttendanceActual != nil {
			run.AttendanceActual = addOpt(run.AttendanceActual, p.AttendanceActual)
			if p.AttendanceVariance != nil {
				run.AttendanceVariance = addOpt(run.AttendanceVariance, p.AttendanceVariance)
				covered.attendance += *p.AttendanceForecast
				run.AttendanceVariancePercent = percentOf(run.AttendanceVariance, covered.attendance)
			}
		}

		p.Cumulative = copyMetrics(run)
	}
}

// Summarize rolls per-period projections up into portfolio totals and the
// revised outlook. Only periods that carry an actual entry are replaced by
// actuals; gaps before the latest reported period keep their forecast.
func Summarize(periods []model.PeriodProjection) model.ForecastSummary {
	s := model.ForecastSummary{PeriodCount: len(periods)}

	for _, p := range periods {
		if p.HasActual() && p.Period > s.LatestPeriodWithActuals {
			s.LatestPeriodWithActuals = p.Period
		}
	}

	var (
		attForecast, attActual, attRevised, attCovered *float64
	)

	for _, p := range periods {
		s.TotalRevenueForecast += p.RevenueForecast
		s.TotalCostForecast += p.CostForecast
		s.TotalProfitForecast += p.ProfitForecast

		if p.Period <= s.LatestPeriodWithActuals && p.HasActual() {
			s.PeriodsWithActuals++
			s.ForecastRevenueToDate += p.RevenueForecast
			s.ForecastCostToDate += p.CostForecast
			s.ForecastProfitToDate += p.ProfitForecast
			s.ActualRevenueToDate += *p.RevenueActual
			s.ActualCostToDate += *p.CostActual
			s.ActualProfitToDate += *p.ProfitActual

			s.RevisedTotalRevenue += *p.RevenueActual
			s.RevisedTotalCost += *p.CostActual
			s.RevisedTotalProfit += *p.ProfitActual
		} else {
			s.RevisedTotalRevenue += p.RevenueForecast
			s.RevisedTotalCost += p.CostForecast
			s.RevisedTotalProfit += p.ProfitForecast
		}

		if p.AttendanceForecast != nil {
			attForecast = addOpt(attForecast, p.AttendanceForecast)
			if p.AttendanceActual != nil {
				attActual = addOpt(attActual, p.AttendanceActual)
				attCovered = addOpt(attCovered, p.AttendanceForecast)
				attRevised = addOpt(attRevised, p.AttendanceActual)
			} else {
				attRevised = addOpt(attRevised, p.AttendanceForecast)
			}
		}
	}

	s.RevenueOutlookVariance = s.RevisedTotalRevenue - s.TotalRevenueForecast
	s.CostOutlookVariance = s.RevisedTotalCost - s.TotalCostForecast
	s.ProfitOutlookVariance = s.RevisedTotalProfit - s.TotalProfitForecast

	s.ForecastMargin = margin(s.TotalProfitForecast, s.TotalRevenueForecast)
	s.RevisedMargin = margin(s.RevisedTotalProfit, s.RevisedTotalRevenue)
	s.ActualMargin = margin(s.ActualProfitToDate, s.ActualRevenueToDate)

	if attForecast != nil {
		s.TotalAttendanceForecast = attForecast
		s.ActualAttendanceToDate = attActual
		s.RevisedTotalAttendance = attRevised
		if attActual != nil {
			s.AttendanceVariance = ptr(*attActual - *attCovered)
			s.AttendanceVariancePercent = percentOf(s.AttendanceVariance, *attCovered)
		}
		s.RevenuePerAttendee = perUnit(s.TotalRevenueForecast, *attForecast)
		s.ProfitPerAttendee = perUnit(s.TotalProfitForecast, *attForecast)
		s.RevisedRevenuePerAttendee = perUnit(s.RevisedTotalRevenue, *attRevised)
	}

	return s
}

// margin returns profit as a percentage of revenue, defined as 0 without revenue.
func margin(profit, revenue float64) float64 {
	if revenue == 0 {
		return 0
	}
	return profit / revenue * 100
}

func perUnit(total, units float64) *float64 {
	if units == 0 {
		return nil
	}
	return finitePtr(total / units)
}

func percentOf(v *float64, base float64) *float64 {
	if v == nil || base == 0 {
		return nil
	}
	return finitePtr(*v / base * 100)
}

func addOpt(sum, v *float64) *float64 {
	if v == nil {
		return sum
	}
	if sum == nil {
		return ptr(*v)
	}
	return ptr(*sum + *v)
}

// copyMetrics detaches pointer fields so each period owns its cumulative values.
func copyMetrics(m model.Metrics) model.Metrics {
	out := m
	for _, f := range []**float64{
		&out.RevenueActual, &out.CostActual, &out.ProfitActual,
		&out.RevenueVariance, &out.CostVariance, &out.ProfitVariance,
		&out.RevenueVariancePercent, &out.CostVariancePercent, &out.ProfitVariancePercent,
		&out.AttendanceForecast, &out.AttendanceActual, &out.AttendanceVariance,
		&out.AttendanceVariancePercent,
	} {
		if *f != nil {
			*f = ptr(**f)
		}
	}
	return out
}
