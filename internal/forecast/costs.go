package forecast

import "github.com/theirongolddev/fcast/internal/model"

// StaffingLineName names the cost line produced from staffing metadata.
const StaffingLineName = "Staffing"

var cogsLines = []model.COGSLine{model.COGSFoodBeverage, model.COGSMerchandise}

// CostLines returns every cost line for a period: configured categories in
// order (COGS categories computed in place), unbacked automatic COGS lines,
// staffing, and the marketing contribution.
func CostLines(a model.Assumptions, period int) []model.LineItem {
	lines := make([]model.LineItem, 0, len(a.CostCategories)+4)
	named := make(map[model.COGSLine]bool, len(cogsLines))

	for _, c := range a.CostCategories {
		if c.Role == model.RoleCOGS {
			line := cogsLineOf(c)
			named[line] = true
			lines = append(lines, model.LineItem{
				Name:     c.Name,
				Category: string(model.GroupCOGS),
				Value:    cogsValue(a, line, c.LinkedStream, period),
			})
			continue
		}
		if marketingSuperseded(a, c) {
			continue
		}
		lines = append(lines, model.LineItem{
			Name:     c.Name,
			Category: string(costGroup(c)),
			Value:    categoryValue(a, c, period),
		})
	}

	for _, line := range cogsLines {
		if named[line] || a.Metadata.COGS.Percent(line) <= 0 {
			continue
		}
		if !hasDriverStream(a, driverFor(line)) {
			continue
		}
		lines = append(lines, model.LineItem{
			Name:     line.DefaultName(),
			Category: string(model.GroupCOGS),
			Value:    cogsValue(a, line, "", period),
		})
	}

	if s := a.Metadata.Staffing; s != nil && s.PerPeriod() > 0 {
		lines = append(lines, model.LineItem{
			Name:     StaffingLineName,
			Category: string(model.GroupStaffing),
			Value:    s.PerPeriod(),
		})
	}

	if a.Marketing.Active() {
		lines = append(lines, model.LineItem{
			Name:     model.MarketingCostKey,
			Category: string(model.GroupMarketing),
			Value:    MarketingForPeriod(a, period),
		})
	}

	return lines
}

// CostForPeriod is the total cost for a period: non-marketing categories,
// COGS, staffing, and the marketing contribution.
func CostForPeriod(a model.Assumptions, period int) float64 {
	return sumLines(CostLines(a, period))
}

// COGSForPeriod returns the total computed cost of goods sold for a period.
func COGSForPeriod(a model.Assumptions, period int) float64 {
	var total float64
	for _, l := range CostLines(a, period) {
		if l.Category == string(model.GroupCOGS) {
			total += l.Value
		}
	}
	return total
}

func categoryValue(a model.Assumptions, c model.CostCategory, period int) float64 {
	switch c.Kind {
	case model.CostFixed:
		if period == 1 {
			return c.BaseValue
		}
		return 0
	case model.CostAmortized:
		return c.BaseValue / float64(periodCount(a))
	default:
		return c.BaseValue
	}
}

// cogsValue computes a COGS line from the current period's linked revenue.
// Any base value entered on the category is ignored.
func cogsValue(a model.Assumptions, line model.COGSLine, linkedStream string, period int) float64 {
	pct := a.Metadata.COGS.Percent(line)
	if pct <= 0 {
		return 0
	}
	return linkedRevenue(a, line, linkedStream, period) * pct / 100
}

func linkedRevenue(a model.Assumptions, line model.COGSLine, linkedStream string, period int) float64 {
	var total float64
	for _, s := range a.RevenueStreams {
		switch {
		case linkedStream != "":
			if s.Name == linkedStream {
				return streamValue(a, s, period)
			}
		case s.Driver == driverFor(line):
			total += streamValue(a, s, period)
		}
	}
	return total
}

func cogsLineOf(c model.CostCategory) model.COGSLine {
	if c.COGSLine == "" {
		return model.COGSFoodBeverage
	}
	return c.COGSLine
}

func driverFor(line model.COGSLine) model.SpendDriver {
	if line == model.COGSMerchandise {
		return model.DriverMerchandise
	}
	return model.DriverFood
}

func hasDriverStream(a model.Assumptions, d model.SpendDriver) bool {
	for _, s := range a.RevenueStreams {
		if s.Driver == d {
			return true
		}
	}
	return false
}

func costGroup(c model.CostCategory) model.CostGroup {
	if c.Category == "" {
		return model.GroupOther
	}
	return c.Category
}

// marketingSuperseded reports whether a manually entered marketing category is
// replaced by the marketing plan.
func marketingSuperseded(a model.Assumptions, c model.CostCategory) bool {
	return c.Category == model.GroupMarketing && a.Marketing.Active()
}

// periodCount guards per-period division for assumptions that skipped validation.
func periodCount(a model.Assumptions) int {
	if a.Metadata.PeriodCount < 1 {
		return 1
	}
	return a.Metadata.PeriodCount
}
