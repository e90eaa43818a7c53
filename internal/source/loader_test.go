package source

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
)

func TestLoadDir_DecodesInScanOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "fest.toml", tomlAssumptions)
	writeFile(t, dir, "a-actuals.jsonl",
		`{"period": 1, "periodUnit": "week", "revenueActuals": {"F&B Sales": 100}}`+"\n"+
			`garbage`+"\n"+
			`{"period": 2, "periodUnit": "week", "revenueActuals": {"F&B Sales": 200}}`)
	writeFile(t, dir, "b-actuals.json", `[{"period": 2, "periodUnit": "week", "revenueActuals": {"F&B Sales": 250}}]`)
	writeFile(t, dir, "broken.yaml", "metadata: [unclosed")

	var calls atomic.Int64
	res, err := LoadDir(dir, func(current, total int) {
		calls.Add(1)
		if total != 4 {
			t.Errorf("progress total = %d, want 4", total)
		}
	})
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}

	if res.TotalFiles != 4 || res.ParsedFiles != 3 {
		t.Fatalf("files = %d/%d, want 3/4", res.ParsedFiles, res.TotalFiles)
	}
	if calls.Load() != 4 {
		t.Fatalf("progress calls = %d, want 4", calls.Load())
	}
	if len(res.Failures) != 1 || res.Failures[0].Path != filepath.Join(dir, "broken.yaml") {
		t.Fatalf("failures = %+v", res.Failures)
	}
	if res.ParseErrors != 1 {
		t.Fatalf("ParseErrors = %d, want 1", res.ParseErrors)
	}
	if len(res.Assumptions) != 1 || res.Assumptions[0].Assumptions.ID != "fest" {
		t.Fatalf("assumptions = %+v", res.Assumptions)
	}

	if len(res.Actuals) != 3 {
		t.Fatalf("actuals = %d, want 3", len(res.Actuals))
	}
	last := res.Actuals[2]
	if last.Period != 2 || last.RevenueActuals["F&B Sales"] != 250 {
		t.Fatalf("last actual = %+v, want period 2 from b-actuals.json", last)
	}
}

func TestLoadDir_Empty(t *testing.T) {
	res, err := LoadDir(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if res.TotalFiles != 0 || len(res.Actuals) != 0 {
		t.Fatalf("got %+v, want empty", res)
	}
}

func BenchmarkLoadDir(b *testing.B) {
	dir := b.TempDir()
	var body strings.Builder
	for p := 1; p <= 52; p++ {
		body.WriteString(`{"period": ` + strconv.Itoa(p) + `, "periodUnit": "week", "revenueActuals": {"Tickets": 100}}` + "\n")
	}
	for _, name := range []string{"a", "b", "c", "d"} {
		if err := os.WriteFile(filepath.Join(dir, name+"-actuals.jsonl"), []byte(body.String()), 0o600); err != nil {
			b.Fatal(err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := LoadDir(dir, nil); err != nil {
			b.Fatal(err)
		}
	}
}
