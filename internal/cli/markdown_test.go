package cli

import (
	"strings"
	"testing"

	"github.com/theirongolddev/fcast/internal/forecast"
	"github.com/theirongolddev/fcast/internal/model"
)

func sampleResult(t *testing.T) *forecast.Result {
	t.Helper()
	a := model.Assumptions{
		Metadata: model.Metadata{
			Name:        "Pop-up | Market",
			Kind:        model.ContinuousBusiness,
			PeriodUnit:  model.Week,
			PeriodCount: 3,
		},
		RevenueStreams: []model.RevenueStream{{Name: "stream", BaseValue: 1000, Kind: model.StreamRecurring}},
		CostCategories: []model.CostCategory{{Name: "Stall", BaseValue: 200, Kind: model.CostRecurring, Category: model.GroupOperations}},
		Growth:         model.GrowthModel{Kind: model.GrowthLinear, Rate: 0.1},
		Marketing:      model.MarketingPlan{Mode: model.MarketingNone},
	}
	res, err := forecast.Run(a, []model.ActualPeriodEntry{
		{Period: 2, RevenueActuals: map[string]float64{"stream": 1050}},
		{Period: 9},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return res
}

func TestMarkdownReport(t *testing.T) {
	md := MarkdownReport(sampleResult(t))

	for _, want := range []string{
		`# Pop-up \| Market`,
		"3 weeks, 1 with actuals (latest: Week 2).",
		"| Revenue | $3,300 | $3,250 | -$50.00 |",
		"| Week 2 | $1,100 | $1,050 | -4.5% |",
		"## Breakdown: Week 2",
		"| stream | $1,100 | 100% |",
		"`period_out_of_range`",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q\n%s", want, md)
		}
	}
}

func TestRenderHTML(t *testing.T) {
	html, err := RenderHTML(MarkdownReport(sampleResult(t)), "Pop-up <Market>")
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if !strings.Contains(html, "<title>Pop-up &lt;Market&gt;</title>") {
		t.Fatal("title not escaped")
	}
	if !strings.Contains(html, "<table>") || !strings.Contains(html, "<td>Week 3</td>") {
		t.Fatalf("tables not rendered:\n%s", html)
	}
}

func TestRenderTable_Footer(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Period", "Revenue"},
		Rows:    [][]string{{"Week 1", "$10.00"}},
		Footer:  []string{"Total", "$1,000"},
	})
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 7 {
		t.Fatalf("lines = %d, want 7:\n%s", len(lines), out)
	}
	if !strings.Contains(out, "Total") {
		t.Fatal("footer missing")
	}
}

func TestRenderSparkline(t *testing.T) {
	if got := RenderSparkline([]float64{0, 5, 10}); got != "▁▄█" {
		t.Fatalf("RenderSparkline = %q", got)
	}
}

func TestRenderSparkline_Losses(t *testing.T) {
	if got := RenderSparkline([]float64{-10, 0, 10}); got != "▁▄█" {
		t.Fatalf("RenderSparkline = %q", got)
	}
	if got := RenderSparkline([]float64{5, 5}); got != "▁▁" {
		t.Fatalf("flat RenderSparkline = %q", got)
	}
}
