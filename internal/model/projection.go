package model

// LineItem is one named contribution to a period's revenue or cost.
type LineItem struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Value    float64 `json:"value"`
}

// Metrics holds the per-period (or running) forecast, actual, and variance
// values. Pointer fields are nil when no actual data backs them.
type Metrics struct {
	RevenueForecast float64 `json:"revenueForecast"`
	CostForecast    float64 `json:"costForecast"`
	ProfitForecast  float64 `json:"profitForecast"`

	RevenueActual *float64 `json:"revenueActual,omitempty"`
	CostActual    *float64 `json:"costActual,omitempty"`
	ProfitActual  *float64 `json:"profitActual,omitempty"`

	RevenueVariance *float64 `json:"revenueVariance,omitempty"`
	CostVariance    *float64 `json:"costVariance,omitempty"`
	ProfitVariance  *float64 `json:"profitVariance,omitempty"`

	RevenueVariancePercent *float64 `json:"revenueVariancePercent,omitempty"`
	CostVariancePercent    *float64 `json:"costVariancePercent,omitempty"`
	ProfitVariancePercent  *float64 `json:"profitVariancePercent,omitempty"`

	AttendanceForecast        *float64 `json:"attendanceForecast,omitempty"`
	AttendanceActual          *float64 `json:"attendanceActual,omitempty"`
	AttendanceVariance        *float64 `json:"attendanceVariance,omitempty"`
	AttendanceVariancePercent *float64 `json:"attendanceVariancePercent,omitempty"`
}

// HasActual reports whether an actual entry was merged into these metrics.
func (m Metrics) HasActual() bool {
	return m.RevenueActual != nil
}

// PeriodProjection is the computed result for one period.
type PeriodProjection struct {
	Period int    `json:"period"`
	Label  string `json:"label"`
	Metrics

	// Cumulative holds running sums through this period.
	Cumulative Metrics `json:"cumulative"`

	RevenueLines []LineItem `json:"revenueLines,omitempty"`
	CostLines    []LineItem `json:"costLines,omitempty"`
}

// ForecastSummary is the portfolio-level roll-up of all periods.
type ForecastSummary struct {
	PeriodCount             int `json:"periodCount"`
	PeriodsWithActuals      int `json:"periodsWithActuals"`
	LatestPeriodWithActuals int `json:"latestPeriodWithActuals"`

	TotalRevenueForecast float64 `json:"totalRevenueForecast"`
	TotalCostForecast    float64 `json:"totalCostForecast"`
	TotalProfitForecast  float64 `json:"totalProfitForecast"`

	// Forecast values for only the periods that have actuals.
	ForecastRevenueToDate float64 `json:"forecastRevenueToDate"`
	ForecastCostToDate    float64 `json:"forecastCostToDate"`
	ForecastProfitToDate  float64 `json:"forecastProfitToDate"`

	ActualRevenueToDate float64 `json:"actualRevenueToDate"`
	ActualCostToDate    float64 `json:"actualCostToDate"`
	ActualProfitToDate  float64 `json:"actualProfitToDate"`

	RevisedTotalRevenue float64 `json:"revisedTotalRevenue"`
	RevisedTotalCost    float64 `json:"revisedTotalCost"`
	RevisedTotalProfit  float64 `json:"revisedTotalProfit"`

	// Outlook variance is revised minus original forecast.
	RevenueOutlookVariance float64 `json:"revenueOutlookVariance"`
	CostOutlookVariance    float64 `json:"costOutlookVariance"`
	ProfitOutlookVariance  float64 `json:"profitOutlookVariance"`

	ForecastMargin float64 `json:"forecastMargin"`
	RevisedMargin  float64 `json:"revisedMargin"`
	ActualMargin   float64 `json:"actualMargin"`

	TotalAttendanceForecast   *float64 `json:"totalAttendanceForecast,omitempty"`
	ActualAttendanceToDate    *float64 `json:"actualAttendanceToDate,omitempty"`
	RevisedTotalAttendance    *float64 `json:"revisedTotalAttendance,omitempty"`
	AttendanceVariance        *float64 `json:"attendanceVariance,omitempty"`
	AttendanceVariancePercent *float64 `json:"attendanceVariancePercent,omitempty"`

	RevenuePerAttendee        *float64 `json:"revenuePerAttendee,omitempty"`
	ProfitPerAttendee         *float64 `json:"profitPerAttendee,omitempty"`
	RevisedRevenuePerAttendee *float64 `json:"revisedRevenuePerAttendee,omitempty"`
}

// CategoryShare is one slice of a single period's revenue or cost.
type CategoryShare struct {
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Percent int     `json:"percent"`
}

// WarningCode classifies data-quality problems found while merging actuals.
type WarningCode string

const (
	WarnDuplicateActual    WarningCode = "duplicate_actual"
	WarnPeriodOutOfRange   WarningCode = "period_out_of_range"
	WarnUnitMismatch       WarningCode = "unit_mismatch"
	WarnUnknownKey         WarningCode = "unknown_key"
	WarnInvalidAmount      WarningCode = "invalid_amount"
	WarnMarketingSupersede WarningCode = "marketing_superseded"
)

// Warning is a non-fatal anomaly surfaced alongside a forecast result.
type Warning struct {
	Code    WarningCode `json:"code"`
	Period  int         `json:"period,omitempty"`
	Message string      `json:"message"`
}
