package model

import "time"

// ActualPeriodEntry is one recorded set of results for a single period.
// Revenue keys are revenue stream names; cost keys are cost category names or
// the synthetic MarketingCostKey / COGS line names.
type ActualPeriodEntry struct {
	ID               string             `json:"id,omitempty" toml:"id,omitempty" yaml:"id,omitempty"`
	Period           int                `json:"period" toml:"period" yaml:"period"`
	PeriodUnit       PeriodUnit         `json:"periodUnit" toml:"period_unit" yaml:"period_unit"`
	RevenueActuals   map[string]float64 `json:"revenueActuals,omitempty" toml:"revenue_actuals,omitempty" yaml:"revenue_actuals,omitempty"`
	CostActuals      map[string]float64 `json:"costActuals,omitempty" toml:"cost_actuals,omitempty" yaml:"cost_actuals,omitempty"`
	AttendanceActual *int               `json:"attendanceActual,omitempty" toml:"attendance_actual,omitempty" yaml:"attendance_actual,omitempty"`
	Notes            string             `json:"notes,omitempty" toml:"notes,omitempty" yaml:"notes,omitempty"`
	RecordedAt       time.Time          `json:"recordedAt,omitempty" toml:"recorded_at,omitempty" yaml:"recorded_at,omitempty"`
}

// MaxNotesLength bounds the free-text notes stored with an entry.
const MaxNotesLength = 500
