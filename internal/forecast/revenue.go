package forecast

import "github.com/theirongolddev/fcast/internal/model"

// AttendanceForPeriod returns forecast attendance for attendance-driven events,
// unrounded so compounding stays exact. It returns 0 for other forecasts.
func AttendanceForPeriod(a model.Assumptions, period int) float64 {
	if !a.Metadata.AttendanceDriven() {
		return 0
	}
	att := a.Metadata.Attendance
	return Compound(att.InitialAttendance, att.Growth.AttendanceGrowthPct, period)
}

// perAttendeeRate returns the spend rate for a driver in the given period and
// whether the stream should be computed from attendance at all.
func perAttendeeRate(a model.Assumptions, d model.SpendDriver, period int) (float64, bool) {
	if d == model.DriverNone || !a.Metadata.AttendanceDriven() {
		return 0, false
	}
	att := a.Metadata.Attendance
	base := att.Rates.Rate(d)
	if base <= 0 {
		return 0, false
	}
	if pct, ok := att.Growth.RatePct(d); ok {
		return Compound(base, pct, period), true
	}
	return base, true
}

// streamValue projects a single revenue stream for one period.
func streamValue(a model.Assumptions, s model.RevenueStream, period int) float64 {
	if s.Kind == model.StreamFixed {
		if period == 1 {
			return s.BaseValue
		}
		return 0
	}

	if rate, ok := perAttendeeRate(a, s.Driver, period); ok {
		return AttendanceForPeriod(a, period) * rate
	}

	if a.Metadata.Attendance != nil {
		if pct, ok := a.Metadata.Attendance.Growth.RatePct(s.Driver); ok {
			return Compound(s.BaseValue, pct, period)
		}
	}
	return Project(s.BaseValue, period, a.Growth)
}

// RevenueLines returns the per-stream revenue for a period, in stream order.
func RevenueLines(a model.Assumptions, period int) []model.LineItem {
	lines := make([]model.LineItem, 0, len(a.RevenueStreams))
	for _, s := range a.RevenueStreams {
		lines = append(lines, model.LineItem{
			Name:     s.Name,
			Category: revenueCategory(s),
			Value:    streamValue(a, s, period),
		})
	}
	return lines
}

// RevenueForPeriod sums every revenue stream for a period. An empty stream
// list yields 0.
func RevenueForPeriod(a model.Assumptions, period int) float64 {
	return sumLines(RevenueLines(a, period))
}

func revenueCategory(s model.RevenueStream) string {
	if s.Driver != model.DriverNone {
		return string(s.Driver)
	}
	if s.Kind == "" {
		return string(model.StreamRecurring)
	}
	return string(s.Kind)
}

func sumLines(lines []model.LineItem) float64 {
	var total float64
	for _, l := range lines {
		total += l.Value
	}
	return total
}
