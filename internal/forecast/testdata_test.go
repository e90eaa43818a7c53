package forecast

import "github.com/theirongolddev/fcast/internal/model"

// linearStream is a continuous business with one recurring stream growing
// 10% of its base per period.
func linearStream(periods int) model.Assumptions {
	return model.Assumptions{
		Metadata: model.Metadata{
			Name:        "linear",
			Kind:        model.ContinuousBusiness,
			PeriodUnit:  model.Week,
			PeriodCount: periods,
		},
		RevenueStreams: []model.RevenueStream{
			{Name: "stream", BaseValue: 1000, Kind: model.StreamRecurring},
		},
		Growth:    model.GrowthModel{Kind: model.GrowthLinear, Rate: 0.1},
		Marketing: model.MarketingPlan{Mode: model.MarketingNone},
	}
}

func festival() model.Assumptions {
	return model.Assumptions{
		Metadata: model.Metadata{
			Name:        "festival",
			Kind:        model.PeriodicEvent,
			PeriodUnit:  model.Week,
			PeriodCount: 4,
			Attendance: &model.AttendanceDrivers{
				InitialAttendance: 1000,
				Rates:             model.PerAttendeeRates{Ticket: 50, Food: 20, Merchandise: 10},
				Growth:            model.DriverGrowth{AttendanceGrowthPct: 10},
			},
			COGS: model.COGSPercents{FoodBeveragePct: 30, MerchandisePct: 40},
		},
		RevenueStreams: []model.RevenueStream{
			{Name: "Tickets", Kind: model.StreamDriver, Driver: model.DriverTicket},
			{Name: "Food", Kind: model.StreamDriver, Driver: model.DriverFood},
			{Name: "Merch", Kind: model.StreamDriver, Driver: model.DriverMerchandise},
			{Name: "Sponsorship", BaseValue: 5000, Kind: model.StreamFixed},
		},
		CostCategories: []model.CostCategory{
			{Name: "Venue", BaseValue: 8000, Kind: model.CostFixed, Category: model.GroupOperations},
			{Name: "Security", BaseValue: 1500, Kind: model.CostRecurring, Category: model.GroupOperations},
		},
		Growth:    model.GrowthModel{Kind: model.GrowthNone},
		Marketing: model.MarketingPlan{Mode: model.MarketingNone},
	}
}

func intPtr(v int) *int {
	return &v
}
