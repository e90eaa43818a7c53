package source

import (
	"sort"

	"github.com/theirongolddev/fcast/internal/model"
)

// templates are starter assumption sets used by `fcast model init`.
var templates = map[string]func() model.Assumptions{
	"festival": func() model.Assumptions {
		return model.Assumptions{
			Metadata: model.Metadata{
				Name:        "Summer Festival",
				Kind:        model.PeriodicEvent,
				PeriodUnit:  model.Week,
				PeriodCount: 12,
				Attendance: &model.AttendanceDrivers{
					InitialAttendance: 2500,
					Rates:             model.PerAttendeeRates{Ticket: 45, Food: 18, Merchandise: 7.5},
					Growth:            model.DriverGrowth{AttendanceGrowthPct: 3},
				},
				COGS:     model.COGSPercents{FoodBeveragePct: 32, MerchandisePct: 45},
				Staffing: &model.Staffing{Count: 20, CostPerPerson: 600, ManagementCost: 2500},
			},
			RevenueStreams: []model.RevenueStream{
				{Name: "Tickets", Kind: model.StreamDriver, Driver: model.DriverTicket},
				{Name: "F&B Sales", Kind: model.StreamDriver, Driver: model.DriverFood},
				{Name: "Merchandise", Kind: model.StreamDriver, Driver: model.DriverMerchandise},
				{Name: "Sponsorship", BaseValue: 15000, Kind: model.StreamFixed},
			},
			CostCategories: []model.CostCategory{
				{Name: "Venue", BaseValue: 12000, Kind: model.CostRecurring, Category: model.GroupOperations},
				{Name: "Stage build", BaseValue: 24000, Kind: model.CostAmortized, Category: model.GroupOperations},
				{Name: "Permits", BaseValue: 3500, Kind: model.CostFixed, Category: model.GroupOther},
				{Name: "F&B COGS", Role: model.RoleCOGS, COGSLine: model.COGSFoodBeverage, LinkedStream: "F&B Sales"},
			},
			Growth: model.GrowthModel{Kind: model.GrowthNone},
			Marketing: model.MarketingPlan{
				Mode:                  model.MarketingHighLevel,
				TotalBudget:           18000,
				Application:           model.ApplySpreadCustom,
				SpreadDurationPeriods: 6,
			},
		}
	},
	"cafe": func() model.Assumptions {
		return model.Assumptions{
			Metadata: model.Metadata{
				Name:        "Corner Cafe",
				Kind:        model.ContinuousBusiness,
				PeriodUnit:  model.Month,
				PeriodCount: 24,
				COGS:        model.COGSPercents{FoodBeveragePct: 30},
				Staffing:    &model.Staffing{Count: 4, CostPerPerson: 2800, ManagementCost: 1500},
			},
			RevenueStreams: []model.RevenueStream{
				{Name: "F&B Sales", BaseValue: 28000, Kind: model.StreamRecurring, Driver: model.DriverFood},
				{Name: "Catering", BaseValue: 3500, Kind: model.StreamRecurring},
			},
			CostCategories: []model.CostCategory{
				{Name: "Rent", BaseValue: 4200, Kind: model.CostRecurring, Category: model.GroupOperations},
				{Name: "Fit-out", BaseValue: 36000, Kind: model.CostAmortized, Category: model.GroupOperations},
				{Name: "Utilities", BaseValue: 900, Kind: model.CostRecurring, Category: model.GroupOperations},
			},
			Growth: model.GrowthModel{Kind: model.GrowthExponential, Rate: 0.015},
			Marketing: model.MarketingPlan{
				Mode: model.MarketingChannels,
				Channels: []model.Channel{
					{ID: "social", WeeklyBudget: 150},
					{ID: "local-print", WeeklyBudget: 60},
				},
			},
		}
	},
}

// Template returns a fresh copy of the named starter assumptions.
func Template(name string) (model.Assumptions, bool) {
	fn, ok := templates[name]
	if !ok {
		return model.Assumptions{}, false
	}
	return fn(), true
}

// TemplateNames lists available templates in sorted order.
func TemplateNames() []string {
	names := make([]string, 0, len(templates))
	for n := range templates {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
