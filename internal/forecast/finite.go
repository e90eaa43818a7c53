package forecast

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/theirongolddev/fcast/internal/model"
)

// ErrNonFinite is returned by Run when a computed figure overflows float64,
// for example from actual amounts near the float64 limit.
var ErrNonFinite = errors.New("forecast produced a non-finite value")

// checkGrowth rejects exponential rates that flip the sign of projected values.
func checkGrowth(g model.GrowthModel) []FieldError {
	if g.Kind == model.GrowthExponential && g.Rate < -1 {
		return []FieldError{{Field: "growthModel.rate", Reason: "must be >= -1 for exponential growth"}}
	}
	return nil
}

// checkProjection walks every period's forecast totals and their running sums
// and rejects assumptions that overflow float64 anywhere in the horizon.
func checkProjection(a model.Assumptions) []FieldError {
	var revenue, cost, attendance float64
	for p := 1; p <= periodCount(a); p++ {
		r := RevenueForPeriod(a, p)
		c := CostForPeriod(a, p)
		att := AttendanceForPeriod(a, p)
		revenue += r
		cost += c
		attendance += att
		if !allFinite(r, c, r-c, att, revenue, cost, revenue-cost, attendance) {
			return []FieldError{{
				Field:  "growthModel",
				Reason: fmt.Sprintf("projected values overflow in period %d; lower the growth rates or the period count", p),
			}}
		}
	}
	if revenue != 0 && !allFinite((revenue-cost)/revenue*100) {
		return []FieldError{{Field: "revenueStreams", Reason: "forecast margin overflows; revenue is too small relative to cost"}}
	}
	return nil
}

func allFinite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// firstNonFinite returns the path of the first NaN or infinite float64 reachable
// from v through structs, pointers and slices, or "" when every value is finite.
func firstNonFinite(v reflect.Value, path string) string {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		if f := v.Float(); math.IsNaN(f) || math.IsInf(f, 0) {
			return path
		}
	case reflect.Pointer:
		if !v.IsNil() {
			return firstNonFinite(v.Elem(), path)
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if p := firstNonFinite(v.Index(i), fmt.Sprintf("%s[%d]", path, i)); p != "" {
				return p
			}
		}
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() && !f.Anonymous {
				continue
			}
			name := path
			if !f.Anonymous {
				name = strings.TrimPrefix(path+"."+f.Name, ".")
			}
			if p := firstNonFinite(v.Field(i), name); p != "" {
				return p
			}
		}
	}
	return ""
}

// checkResult verifies the computed periods and summary are all finite.
func checkResult(r *Result) error {
	if p := firstNonFinite(reflect.ValueOf(r.Periods), "periods"); p != "" {
		return fmt.Errorf("%w: %s", ErrNonFinite, p)
	}
	if p := firstNonFinite(reflect.ValueOf(r.Summary), "summary"); p != "" {
		return fmt.Errorf("%w: %s", ErrNonFinite, p)
	}
	return nil
}
