// Package model defines domain types for fcast forecasts, actuals, and projections.
package model

import "fmt"

// EventKind selects which assumption variant a forecast uses.
type EventKind string

const (
	// PeriodicEvent forecasts are attendance-driven (festivals, fairs, conferences).
	PeriodicEvent EventKind = "periodic_event"
	// ContinuousBusiness forecasts have no attendance sub-tree.
	ContinuousBusiness EventKind = "continuous_business"
)

// PeriodUnit is the granularity of one forecasting period.
type PeriodUnit string

const (
	Week  PeriodUnit = "week"
	Month PeriodUnit = "month"
)

// Label returns the display label for a period, e.g. "Week 3".
func (u PeriodUnit) Label(period int) string {
	switch u {
	case Month:
		return fmt.Sprintf("Month %d", period)
	default:
		return fmt.Sprintf("Week %d", period)
	}
}

// GrowthKind names one of the closed-form growth models.
type GrowthKind string

const (
	GrowthLinear      GrowthKind = "linear"
	GrowthExponential GrowthKind = "exponential"
	GrowthNone        GrowthKind = "none"
)

// GrowthModel is the generic fallback growth applied to revenue streams.
// Rate is a fraction (0.1 = 10% per period).
type GrowthModel struct {
	Kind GrowthKind `toml:"kind" yaml:"kind" json:"kind" validate:"omitempty,oneof=linear exponential none"`
	Rate float64    `toml:"rate" yaml:"rate" json:"rate" validate:"finite"`
}

// StreamKind describes how a revenue stream behaves over time.
type StreamKind string

const (
	StreamRecurring StreamKind = "recurring"
	StreamFixed     StreamKind = "fixed"
	StreamDriver    StreamKind = "driver"
)

// SpendDriver tags a revenue stream with the per-attendee spend category it
// represents. An empty driver means the stream is generic.
type SpendDriver string

const (
	DriverNone        SpendDriver = ""
	DriverTicket      SpendDriver = "ticket"
	DriverFood        SpendDriver = "food"
	DriverMerchandise SpendDriver = "merchandise"
	DriverOnline      SpendDriver = "online"
	DriverMisc        SpendDriver = "misc"
)

// RevenueStream is one configured source of revenue. Names are unique within a
// forecast and are the keys actual entries are recorded against.
type RevenueStream struct {
	Name      string      `toml:"name" yaml:"name" json:"name" validate:"required"`
	BaseValue float64     `toml:"base_value" yaml:"base_value" json:"baseValue" validate:"finite,gte=0"`
	Kind      StreamKind  `toml:"kind" yaml:"kind" json:"kind" validate:"omitempty,oneof=recurring fixed driver"`
	Driver    SpendDriver `toml:"driver,omitempty" yaml:"driver,omitempty" json:"driver,omitempty" validate:"omitempty,oneof=ticket food merchandise online misc"`
}

// CostKind describes how a cost category is spread over periods.
type CostKind string

const (
	CostFixed     CostKind = "fixed"
	CostRecurring CostKind = "recurring"
	// CostAmortized spreads a one-time base value evenly across every period.
	CostAmortized CostKind = "amortized"
)

// CostGroup is the presentation category a cost line rolls up into.
type CostGroup string

const (
	GroupOperations CostGroup = "operations"
	GroupStaffing   CostGroup = "staffing"
	GroupMarketing  CostGroup = "marketing"
	GroupOther      CostGroup = "other"
	GroupCOGS       CostGroup = "cogs"
)

// CostRole marks cost categories whose value is computed rather than entered.
type CostRole string

const (
	RoleGeneric CostRole = "generic"
	RoleCOGS    CostRole = "cogs"
)

// COGSLine identifies which COGS percentage and linked revenue a COGS line uses.
type COGSLine string

const (
	COGSFoodBeverage COGSLine = "food_beverage"
	COGSMerchandise  COGSLine = "merchandise"
)

// DefaultName is the line name used when no cost category names a COGS line.
func (l COGSLine) DefaultName() string {
	if l == COGSMerchandise {
		return "Merchandise COGS"
	}
	return "F&B COGS"
}

// CostCategory is one configured cost line.
type CostCategory struct {
	Name      string    `toml:"name" yaml:"name" json:"name" validate:"required"`
	BaseValue float64   `toml:"base_value" yaml:"base_value" json:"baseValue" validate:"finite,gte=0"`
	Kind      CostKind  `toml:"kind" yaml:"kind" json:"kind" validate:"omitempty,oneof=fixed recurring amortized"`
	Category  CostGroup `toml:"category" yaml:"category" json:"category" validate:"omitempty,oneof=operations staffing marketing other"`
	Role      CostRole  `toml:"role,omitempty" yaml:"role,omitempty" json:"role,omitempty" validate:"omitempty,oneof=generic cogs"`

	// COGSLine and LinkedStream only apply to cogs-role categories.
	COGSLine     COGSLine `toml:"cogs_line,omitempty" yaml:"cogs_line,omitempty" json:"cogsLine,omitempty" validate:"omitempty,oneof=food_beverage merchandise"`
	LinkedStream string   `toml:"linked_stream,omitempty" yaml:"linked_stream,omitempty" json:"linkedStream,omitempty"`
}

// PerAttendeeRates holds average spend per attendee for each spend driver.
type PerAttendeeRates struct {
	Ticket      float64 `toml:"ticket" yaml:"ticket" json:"ticket" validate:"finite,gte=0"`
	Food        float64 `toml:"food" yaml:"food" json:"food" validate:"finite,gte=0"`
	Merchandise float64 `toml:"merchandise" yaml:"merchandise" json:"merchandise" validate:"finite,gte=0"`
	Online      float64 `toml:"online" yaml:"online" json:"online" validate:"finite,gte=0"`
	Misc        float64 `toml:"misc" yaml:"misc" json:"misc" validate:"finite,gte=0"`
}

// Rate returns the per-attendee rate for a driver, or 0 for generic streams.
func (r PerAttendeeRates) Rate(d SpendDriver) float64 {
	switch d {
	case DriverTicket:
		return r.Ticket
	case DriverFood:
		return r.Food
	case DriverMerchandise:
		return r.Merchandise
	case DriverOnline:
		return r.Online
	case DriverMisc:
		return r.Misc
	default:
		return 0
	}
}

// DriverGrowth holds per-period growth percentages for attendance and for
// each spend driver. Driver rates are only used when UseDriverSpecificGrowth is set.
type DriverGrowth struct {
	AttendanceGrowthPct     float64 `toml:"attendance_growth_pct" yaml:"attendance_growth_pct" json:"attendanceGrowthPct" validate:"finite,gte=-100"`
	UseDriverSpecificGrowth bool    `toml:"use_driver_specific_growth" yaml:"use_driver_specific_growth" json:"useDriverSpecificGrowth"`
	TicketPriceGrowthPct    float64 `toml:"ticket_price_growth_pct" yaml:"ticket_price_growth_pct" json:"ticketPriceGrowthPct" validate:"finite,gte=-100"`
	FoodGrowthPct           float64 `toml:"food_growth_pct" yaml:"food_growth_pct" json:"foodGrowthPct" validate:"finite,gte=-100"`
	MerchandiseGrowthPct    float64 `toml:"merchandise_growth_pct" yaml:"merchandise_growth_pct" json:"merchandiseGrowthPct" validate:"finite,gte=-100"`
	OnlineGrowthPct         float64 `toml:"online_growth_pct" yaml:"online_growth_pct" json:"onlineGrowthPct" validate:"finite,gte=-100"`
	MiscGrowthPct           float64 `toml:"misc_growth_pct" yaml:"misc_growth_pct" json:"miscGrowthPct" validate:"finite,gte=-100"`
}

// RatePct returns the driver-specific growth percentage and whether one applies.
func (g DriverGrowth) RatePct(d SpendDriver) (float64, bool) {
	if !g.UseDriverSpecificGrowth {
		return 0, false
	}
	switch d {
	case DriverTicket:
		return g.TicketPriceGrowthPct, true
	case DriverFood:
		return g.FoodGrowthPct, true
	case DriverMerchandise:
		return g.MerchandiseGrowthPct, true
	case DriverOnline:
		return g.OnlineGrowthPct, true
	case DriverMisc:
		return g.MiscGrowthPct, true
	default:
		return 0, false
	}
}

// AttendanceDrivers is the sub-tree only periodic events carry.
type AttendanceDrivers struct {
	InitialAttendance float64          `toml:"initial_attendance" yaml:"initial_attendance" json:"initialAttendance" validate:"finite,gte=0"`
	Rates             PerAttendeeRates `toml:"rates" yaml:"rates" json:"perAttendeeRates"`
	Growth            DriverGrowth     `toml:"growth" yaml:"growth" json:"growth"`
}

// COGSPercents holds cost-of-goods percentages (0-100) of linked revenue.
type COGSPercents struct {
	FoodBeveragePct float64 `toml:"food_beverage_pct" yaml:"food_beverage_pct" json:"foodBeveragePct" validate:"finite,gte=0,lte=100"`
	MerchandisePct  float64 `toml:"merchandise_pct" yaml:"merchandise_pct" json:"merchandisePct" validate:"finite,gte=0,lte=100"`
}

// Percent returns the configured percentage for a COGS line.
func (c COGSPercents) Percent(l COGSLine) float64 {
	if l == COGSMerchandise {
		return c.MerchandisePct
	}
	return c.FoodBeveragePct
}

// Staffing describes a flat per-period staffing cost.
type Staffing struct {
	Count          int     `toml:"count" yaml:"count" json:"count" validate:"gte=0"`
	CostPerPerson  float64 `toml:"cost_per_person" yaml:"cost_per_person" json:"costPerPerson" validate:"finite,gte=0"`
	ManagementCost float64 `toml:"management_cost" yaml:"management_cost" json:"managementCost" validate:"finite,gte=0"`
}

// PerPeriod returns the staffing cost for one period.
func (s Staffing) PerPeriod() float64 {
	return float64(s.Count)*s.CostPerPerson + s.ManagementCost
}

// Metadata holds forecast-wide settings.
type Metadata struct {
	Name        string             `toml:"name" yaml:"name" json:"name"`
	Kind        EventKind          `toml:"kind" yaml:"kind" json:"eventKind" validate:"oneof=periodic_event continuous_business"`
	PeriodUnit  PeriodUnit         `toml:"period_unit" yaml:"period_unit" json:"periodUnit" validate:"oneof=week month"`
	PeriodCount int                `toml:"period_count" yaml:"period_count" json:"periodCount" validate:"min=1,max=1000"`
	Attendance  *AttendanceDrivers `toml:"attendance,omitempty" yaml:"attendance,omitempty" json:"attendance,omitempty"`
	COGS        COGSPercents       `toml:"cogs" yaml:"cogs" json:"cogsPercents"`
	Staffing    *Staffing          `toml:"staffing,omitempty" yaml:"staffing,omitempty" json:"staffing,omitempty"`
}

// AttendanceDriven reports whether revenue can be derived from attendance.
func (m Metadata) AttendanceDriven() bool {
	return m.Kind == PeriodicEvent && m.Attendance != nil
}

// Assumptions is the full, read-only input to one forecast run.
type Assumptions struct {
	ID             string          `toml:"id" yaml:"id" json:"id"`
	Metadata       Metadata        `toml:"metadata" yaml:"metadata" json:"metadata"`
	RevenueStreams []RevenueStream `toml:"revenue_streams" yaml:"revenue_streams" json:"revenueStreams" validate:"unique=Name,dive"`
	CostCategories []CostCategory  `toml:"cost_categories" yaml:"cost_categories" json:"costCategories" validate:"unique=Name,dive"`
	Growth         GrowthModel     `toml:"growth" yaml:"growth" json:"growthModel"`
	Marketing      MarketingPlan   `toml:"marketing" yaml:"marketing" json:"marketingPlan"`
}
