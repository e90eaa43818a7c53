package model

// MarketingMode selects how marketing spend is planned.
type MarketingMode string

const (
	MarketingNone      MarketingMode = "none"
	MarketingChannels  MarketingMode = "channels"
	MarketingHighLevel MarketingMode = "high_level"
)

// BudgetApplication controls how a high-level marketing budget is spread.
type BudgetApplication string

const (
	ApplyUpfront      BudgetApplication = "upfront"
	ApplySpreadEvenly BudgetApplication = "spread_evenly"
	ApplySpreadCustom BudgetApplication = "spread_custom"
)

// MarketingCostKey is the synthetic cost key actual entries use for marketing spend.
const MarketingCostKey = "Marketing Budget"

// Channel is one marketing channel with a weekly budget.
type Channel struct {
	ID           string  `toml:"id" yaml:"id" json:"id" validate:"required"`
	WeeklyBudget float64 `toml:"weekly_budget" yaml:"weekly_budget" json:"weeklyBudget" validate:"finite,gte=0"`
}

// MarketingPlan is one of: no marketing, per-channel weekly budgets, or a single
// high-level budget with an application policy. Only the fields of the selected
// mode are read.
type MarketingPlan struct {
	Mode                  MarketingMode     `toml:"mode" yaml:"mode" json:"mode" validate:"omitempty,oneof=none channels high_level"`
	Channels              []Channel         `toml:"channels,omitempty" yaml:"channels,omitempty" json:"channels,omitempty" validate:"dive"`
	TotalBudget           float64           `toml:"total_budget,omitempty" yaml:"total_budget,omitempty" json:"totalBudget,omitempty" validate:"finite,gte=0"`
	Application           BudgetApplication `toml:"application,omitempty" yaml:"application,omitempty" json:"application,omitempty" validate:"omitempty,oneof=upfront spread_evenly spread_custom"`
	SpreadDurationPeriods int               `toml:"spread_duration_periods,omitempty" yaml:"spread_duration_periods,omitempty" json:"spreadDurationPeriods,omitempty" validate:"gte=0"`
}

// Active reports whether the plan contributes any marketing cost line.
func (m MarketingPlan) Active() bool {
	return m.Mode == MarketingChannels || m.Mode == MarketingHighLevel
}
