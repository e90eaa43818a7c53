package forecast

import (
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fcast/internal/model"
)

// CategorySource selects which side of a period a breakdown decomposes.
type CategorySource string

const (
	SourceRevenue CategorySource = "revenue"
	SourceCost    CategorySource = "cost"
)

var hundred = decimal.NewFromInt(100)

// Breakdown decomposes one period's revenue (by stream) or cost (by cost
// group) into shares of that period's own total. Each percentage is rounded
// half-up independently, so shares need not sum to exactly 100.
func Breakdown(p model.PeriodProjection, src CategorySource) []model.CategoryShare {
	var lines []model.LineItem
	var groupBy func(model.LineItem) string

	switch src {
	case SourceCost:
		lines = p.CostLines
		groupBy = func(l model.LineItem) string { return l.Category }
	default:
		lines = p.RevenueLines
		groupBy = func(l model.LineItem) string { return l.Name }
	}

	var shares []model.CategoryShare
	pos := make(map[string]int)
	total := decimal.Zero
	for _, l := range lines {
		v := decimal.NewFromFloat(l.Value)
		total = total.Add(v)

		key := groupBy(l)
		if i, ok := pos[key]; ok {
			shares[i].Value += l.Value
			continue
		}
		pos[key] = len(shares)
		shares = append(shares, model.CategoryShare{Name: key, Value: l.Value})
	}

	if total.IsZero() {
		return shares
	}
	for i := range shares {
		pct := decimal.NewFromFloat(shares[i].Value).Mul(hundred).Div(total).Round(0)
		shares[i].Percent = int(pct.IntPart())
	}
	return shares
}
