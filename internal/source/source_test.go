package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/fcast/internal/model"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const tomlAssumptions = `
id = "fest"

[metadata]
name = "Fest"
kind = "PeriodicEvent"
period_unit = "Week"
period_count = 4

[metadata.attendance]
initial_attendance = 1000

[metadata.attendance.rates]
food = 12.5

[metadata.cogs]
food_beverage_pct = 30

[[revenue_streams]]
name = "F&B Sales"
kind = "driver-based"
driver = "food"

[[cost_categories]]
name = "F&B COGS"
role = "cogs"
cogs_line = "food_beverage"
linked_stream = "F&B Sales"

[growth]
kind = "none"

[marketing]
mode = "highLevel"
total_budget = 1200
application = "spreadCustom"
spread_duration_periods = 4
`

func TestLoadAssumptions_TOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "fest.toml", tomlAssumptions)

	a, err := LoadAssumptions(path)
	if err != nil {
		t.Fatalf("LoadAssumptions: %v", err)
	}
	if a.Metadata.Kind != model.PeriodicEvent {
		t.Fatalf("kind = %q, want periodic_event", a.Metadata.Kind)
	}
	if a.Metadata.PeriodUnit != model.Week {
		t.Fatalf("unit = %q, want week", a.Metadata.PeriodUnit)
	}
	if a.Metadata.Attendance == nil || a.Metadata.Attendance.Rates.Food != 12.5 {
		t.Fatalf("attendance = %+v", a.Metadata.Attendance)
	}
	if got := a.RevenueStreams[0].Kind; got != model.StreamDriver {
		t.Fatalf("stream kind = %q, want driver", got)
	}
	if a.Marketing.Mode != model.MarketingHighLevel || a.Marketing.Application != model.ApplySpreadCustom {
		t.Fatalf("marketing = %+v", a.Marketing)
	}
}

func TestLoadAssumptions_TOMLUnknownKey(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.toml", tomlAssumptions+"\nsurprise = 1\n")
	if _, err := LoadAssumptions(path); err == nil || !strings.Contains(err.Error(), "surprise") {
		t.Fatalf("err = %v, want unknown key error", err)
	}
}

func TestLoadAssumptions_YAMLAndJSONAndHJSON(t *testing.T) {
	dir := t.TempDir()
	yamlPath := writeFile(t, dir, "cafe.yaml", `
metadata:
  kind: continuous_business
  period_unit: month
  period_count: 2
revenue_streams:
  - name: Coffee
    base_value: 500
    kind: recurring
growth:
  kind: linear
  rate: 0.1
`)
	jsonPath := writeFile(t, dir, "cafe.json", `{
  "metadata": {"eventKind": "ContinuousBusiness", "periodUnit": "Month", "periodCount": 2},
  "revenueStreams": [{"name": "Coffee", "baseValue": 500, "kind": "recurring"}],
  "growthModel": {"kind": "linear", "rate": 0.1}
}`)
	hjsonPath := writeFile(t, dir, "cafe.hjson", `{
  # hand-edited
  metadata: {
    eventKind: continuous_business
    periodUnit: month
    periodCount: 2
  }
  revenueStreams: [
    {
      name: Coffee
      baseValue: 500
      kind: recurring
    }
  ]
  growthModel: {
    kind: linear
    rate: 0.1
  }
}`)

	for _, path := range []string{yamlPath, jsonPath, hjsonPath} {
		a, err := LoadAssumptions(path)
		if err != nil {
			t.Fatalf("%s: %v", filepath.Base(path), err)
		}
		if a.Metadata.Kind != model.ContinuousBusiness || a.Metadata.PeriodUnit != model.Month || a.Metadata.PeriodCount != 2 {
			t.Fatalf("%s: metadata = %+v", filepath.Base(path), a.Metadata)
		}
		if len(a.RevenueStreams) != 1 || a.RevenueStreams[0].BaseValue != 500 {
			t.Fatalf("%s: streams = %+v", filepath.Base(path), a.RevenueStreams)
		}
		if a.Growth.Kind != model.GrowthLinear || a.Growth.Rate != 0.1 {
			t.Fatalf("%s: growth = %+v", filepath.Base(path), a.Growth)
		}
		if a.Marketing.Mode != model.MarketingNone {
			t.Fatalf("%s: marketing mode = %q, want none", filepath.Base(path), a.Marketing.Mode)
		}
	}
}

func TestLoadAssumptions_UnknownExtension(t *testing.T) {
	path := writeFile(t, t.TempDir(), "fest.ini", "x=1")
	if _, err := LoadAssumptions(path); err == nil {
		t.Fatal("expected error for .ini")
	}
}

func TestEncodeAssumptions_RoundTrip(t *testing.T) {
	want, _ := Template("festival")
	for _, f := range []Format{FormatTOML, FormatYAML, FormatJSON} {
		data, err := EncodeAssumptions(want, f)
		if err != nil {
			t.Fatalf("encode %s: %v", f, err)
		}
		got, err := DecodeAssumptions(data, f)
		if err != nil {
			t.Fatalf("decode %s: %v\n%s", f, err, data)
		}
		if got.Metadata.Name != want.Metadata.Name || len(got.CostCategories) != len(want.CostCategories) {
			t.Fatalf("%s: round trip lost data: %+v", f, got.Metadata)
		}
		if got.Metadata.Attendance == nil || got.Metadata.Attendance.InitialAttendance != 2500 {
			t.Fatalf("%s: attendance = %+v", f, got.Metadata.Attendance)
		}
	}
}

func TestLoadActuals_JSONL(t *testing.T) {
	path := writeFile(t, t.TempDir(), "actuals.jsonl", strings.Join([]string{
		`{"period": 1, "periodUnit": "Week", "revenueActuals": {"Tickets": 100}}`,
		`not json`,
		``,
		`{"period": 2, "periodUnit": "week", "costActuals": {"Venue": 40}, "attendanceActual": 12}`,
	}, "\n"))

	res, err := LoadActuals(path)
	if err != nil {
		t.Fatalf("LoadActuals: %v", err)
	}
	if res.ParseErrors != 1 {
		t.Fatalf("ParseErrors = %d, want 1", res.ParseErrors)
	}
	if len(res.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(res.Entries))
	}
	if res.Entries[0].PeriodUnit != model.Week {
		t.Fatalf("unit = %q, want week", res.Entries[0].PeriodUnit)
	}
	if res.Entries[1].AttendanceActual == nil || *res.Entries[1].AttendanceActual != 12 {
		t.Fatalf("attendance = %v", res.Entries[1].AttendanceActual)
	}
}

func TestLoadActuals_CSVFoldsRowsByPeriod(t *testing.T) {
	path := writeFile(t, t.TempDir(), "actuals.csv", `period,unit,kind,key,amount
2,week,revenue,Tickets,900
1,week,revenue,Tickets,1000
2,week,revenue,F&B Sales,250.5
2,week,cost,Marketing Budget,75
2,week,attendance,,410
2,week,notes,,"rainy, short day"
`)

	res, err := LoadActuals(path)
	if err != nil {
		t.Fatalf("LoadActuals: %v", err)
	}
	if len(res.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(res.Entries))
	}
	e := res.Entries[0]
	if e.Period != 2 {
		t.Fatalf("first entry period = %d, want 2 (first-seen order)", e.Period)
	}
	if e.RevenueActuals["F&B Sales"] != 250.5 || e.RevenueActuals["Tickets"] != 900 {
		t.Fatalf("revenue = %v", e.RevenueActuals)
	}
	if e.CostActuals[model.MarketingCostKey] != 75 {
		t.Fatalf("cost = %v", e.CostActuals)
	}
	if e.AttendanceActual == nil || *e.AttendanceActual != 410 {
		t.Fatalf("attendance = %v", e.AttendanceActual)
	}
	if e.Notes != "rainy, short day" {
		t.Fatalf("notes = %q", e.Notes)
	}
}

func TestLoadActuals_CSVBadKind(t *testing.T) {
	path := writeFile(t, t.TempDir(), "actuals.csv", "1,week,refund,Tickets,5\n")
	if _, err := LoadActuals(path); err == nil || !strings.Contains(err.Error(), "refund") {
		t.Fatalf("err = %v, want unknown kind error", err)
	}
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	n := 7
	in := []model.ActualPeriodEntry{{
		Period: 3, PeriodUnit: model.Month,
		RevenueActuals:   map[string]float64{"Coffee": 12.25},
		CostActuals:      map[string]float64{"Rent": 4200},
		AttendanceActual: &n,
		Notes:            "closed, then open",
	}}

	var sb strings.Builder
	if err := WriteCSV(&sb, in); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	res, err := DecodeActuals(strings.NewReader(sb.String()), FormatCSV)
	if err != nil {
		t.Fatalf("DecodeActuals: %v", err)
	}
	got := res.Entries[0]
	if got.RevenueActuals["Coffee"] != 12.25 || got.CostActuals["Rent"] != 4200 || *got.AttendanceActual != 7 || got.Notes != in[0].Notes {
		t.Fatalf("round trip = %+v", got)
	}
}

func TestScanDir_Classifies(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "fest.toml", "")
	writeFile(t, dir, "fest-actuals.json", "[]")
	writeFile(t, dir, "weekly/results.csv", "")
	writeFile(t, dir, "README.md", "")
	writeFile(t, dir, ".git/config.toml", "")

	files, err := ScanDir(dir)
	if err != nil {
		t.Fatalf("ScanDir: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("files = %+v, want 3", files)
	}
	if got := CountKind(files, KindActuals); got != 2 {
		t.Fatalf("actuals = %d, want 2", got)
	}
	if got := CountKind(files, KindAssumptions); got != 1 {
		t.Fatalf("assumptions = %d, want 1", got)
	}
}

func TestScanDir_Missing(t *testing.T) {
	files, err := ScanDir(filepath.Join(t.TempDir(), "nope"))
	if err != nil || files != nil {
		t.Fatalf("ScanDir(missing) = %v, %v", files, err)
	}
}

func TestTemplates(t *testing.T) {
	names := TemplateNames()
	if len(names) != 2 || names[0] != "cafe" || names[1] != "festival" {
		t.Fatalf("TemplateNames = %v", names)
	}
	a, ok := Template("festival")
	if !ok {
		t.Fatal("festival template missing")
	}
	a.RevenueStreams[0].Name = "changed"
	b, _ := Template("festival")
	if b.RevenueStreams[0].Name != "Tickets" {
		t.Fatal("Template returned shared state")
	}
}
