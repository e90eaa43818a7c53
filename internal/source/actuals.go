package source

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/theirongolddev/fcast/internal/model"
)

// ActualsResult holds the entries decoded from one actuals file.
type ActualsResult struct {
	Entries []model.ActualPeriodEntry
	// ParseErrors counts JSONL lines that could not be decoded and were skipped.
	ParseErrors int
}

// LoadActuals reads an actuals file (.json array, .jsonl, or .csv). Entry order
// follows the file, which the merge step relies on for last-wins duplicates.
func LoadActuals(path string) (ActualsResult, error) {
	f, err := os.Open(path) //nolint:gosec // path is supplied by the user
	if err != nil {
		return ActualsResult{}, fmt.Errorf("reading actuals: %w", err)
	}
	defer func() { _ = f.Close() }()

	res, err := DecodeActuals(f, FormatOf(path))
	if err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

// DecodeActuals decodes actual entries in the given format.
func DecodeActuals(r io.Reader, format Format) (ActualsResult, error) {
	var (
		res ActualsResult
		err error
	)
	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&res.Entries)
		if err != nil {
			err = fmt.Errorf("parsing json: %w", err)
		}
	case FormatJSONL:
		res, err = decodeJSONL(r)
	case FormatCSV:
		res.Entries, err = decodeCSV(r)
	default:
		return res, fmt.Errorf("unsupported actuals format %q (want json, jsonl or csv)", format)
	}
	if err != nil {
		return res, err
	}

	for i := range res.Entries {
		e := &res.Entries[i]
		e.PeriodUnit = model.PeriodUnit(canon(string(e.PeriodUnit)))
	}
	return res, nil
}

func decodeJSONL(r io.Reader) (ActualsResult, error) {
	var res ActualsResult

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		var e model.ActualPeriodEntry
		if err := json.Unmarshal(line, &e); err != nil {
			res.ParseErrors++
			continue
		}
		res.Entries = append(res.Entries, e)
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("scanning jsonl: %w", err)
	}
	return res, nil
}

// CSV rows are period,unit,kind,key,amount. Kind is revenue, cost, attendance or
// notes; for notes the last column is the note text. Rows for the same period
// fold into one entry, ordered by first appearance.
var csvHeader = []string{"period", "unit", "kind", "key", "amount"}

func decodeCSV(r io.Reader) ([]model.ActualPeriodEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var entries []model.ActualPeriodEntry
	index := make(map[int]int)

	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing csv: %w", err)
		}
		if line == 1 && strings.EqualFold(rec[0], csvHeader[0]) {
			continue
		}

		period, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			return nil, fmt.Errorf("csv line %d: period %q: %w", line, rec[0], err)
		}
		i, ok := index[period]
		if !ok {
			i = len(entries)
			index[period] = i
			entries = append(entries, model.ActualPeriodEntry{
				Period:     period,
				PeriodUnit: model.PeriodUnit(strings.TrimSpace(rec[1])),
			})
		}
		if err := applyCSVRow(&entries[i], rec[2], rec[3], rec[4]); err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
	}
	return entries, nil
}

func applyCSVRow(e *model.ActualPeriodEntry, kind, key, value string) error {
	kind = strings.ToLower(strings.TrimSpace(kind))
	key = strings.TrimSpace(key)

	if kind == "notes" {
		e.Notes = value
		return nil
	}

	value = strings.TrimSpace(value)
	if kind == "attendance" {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("attendance %q: %w", value, err)
		}
		e.AttendanceActual = &n
		return nil
	}

	amount, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("amount %q: %w", value, err)
	}
	switch kind {
	case "revenue":
		if e.RevenueActuals == nil {
			e.RevenueActuals = make(map[string]float64)
		}
		e.RevenueActuals[key] += amount
	case "cost":
		if e.CostActuals == nil {
			e.CostActuals = make(map[string]float64)
		}
		e.CostActuals[key] += amount
	default:
		return fmt.Errorf("unknown row kind %q (want revenue, cost, attendance or notes)", kind)
	}
	return nil
}

// WriteCSV writes entries in the format decodeCSV reads.
func WriteCSV(w io.Writer, entries []model.ActualPeriodEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, e := range entries {
		p := strconv.Itoa(e.Period)
		unit := string(e.PeriodUnit)
		for _, k := range sortedKeys(e.RevenueActuals) {
			if err := cw.Write([]string{p, unit, "revenue", k, formatAmount(e.RevenueActuals[k])}); err != nil {
				return err
			}
		}
		for _, k := range sortedKeys(e.CostActuals) {
			if err := cw.Write([]string{p, unit, "cost", k, formatAmount(e.CostActuals[k])}); err != nil {
				return err
			}
		}
		if e.AttendanceActual != nil {
			if err := cw.Write([]string{p, unit, "attendance", "", strconv.Itoa(*e.AttendanceActual)}); err != nil {
				return err
			}
		}
		if e.Notes != "" {
			if err := cw.Write([]string{p, unit, "notes", "", e.Notes}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
