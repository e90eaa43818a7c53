package forecast

import "github.com/theirongolddev/fcast/internal/model"

// WeeksPerMonth converts a weekly channel budget into a monthly one. It is the
// ratio of seconds in an average month (365.25 days / 12) to seconds in a week,
// applied without rounding.
const WeeksPerMonth = 365.25 / 7 / 12

// MarketingForPeriod returns the marketing plan's contribution to a period.
func MarketingForPeriod(a model.Assumptions, period int) float64 {
	plan := a.Marketing

	switch plan.Mode {
	case model.MarketingChannels:
		var weekly float64
		for _, ch := range plan.Channels {
			weekly += ch.WeeklyBudget
		}
		if a.Metadata.PeriodUnit == model.Month {
			return weekly * WeeksPerMonth
		}
		return weekly

	case model.MarketingHighLevel:
		switch plan.Application {
		case model.ApplySpreadEvenly:
			return plan.TotalBudget / float64(periodCount(a))
		case model.ApplySpreadCustom:
			d := plan.SpreadDurationPeriods
			if d <= 0 || period > d {
				return 0
			}
			return plan.TotalBudget / float64(d)
		default:
			if period == 1 {
				return plan.TotalBudget
			}
			return 0
		}
	}
	return 0
}
