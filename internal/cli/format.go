// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is the symbol prefixed to money values. Commands set it from config.
var Currency = "$"

// Missing is printed in place of an undefined value.
const Missing = "-"

// FormatMoney formats an amount with thousands separators. Amounts of 1,000 or
// more are shown in whole units; smaller amounts keep cents.
func FormatMoney(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Missing
	}
	d := decimal.NewFromFloat(v)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	places := int32(2)
	if d.GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		places = 0
	}
	s := d.StringFixed(places)
	whole, frac, _ := strings.Cut(s, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return sign + Currency + s
	}
	out := sign + Currency + FormatNumber(n)
	if frac != "" {
		out += "." + frac
	}
	if out == "-"+Currency+"0.00" {
		out = Currency + "0.00"
	}
	return out
}

// FormatSignedMoney formats an amount with an explicit sign, for variances.
func FormatSignedMoney(v float64) string {
	s := FormatMoney(v)
	if v > 0 && s != Missing {
		return "+" + s
	}
	return s
}

// FormatOptionalMoney formats an optional amount, or Missing when absent.
func FormatOptionalMoney(v *float64) string {
	if v == nil {
		return Missing
	}
	return FormatMoney(*v)
}

// FormatOptionalSignedMoney formats an optional variance.
func FormatOptionalSignedMoney(v *float64) string {
	if v == nil {
		return Missing
	}
	return FormatSignedMoney(*v)
}

// FormatPercent formats a value already expressed in percent, e.g. 12.34 -> "12.3%".
func FormatPercent(pct float64) string {
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return Missing
	}
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatOptionalPercent formats a signed optional percentage, or Missing.
func FormatOptionalPercent(pct *float64) string {
	if pct == nil {
		return Missing
	}
	if *pct > 0 {
		return "+" + FormatPercent(*pct)
	}
	return FormatPercent(*pct)
}

// FormatAttendance rounds a head count for display. Attendance is kept
// fractional internally and only rounded here.
func FormatAttendance(v float64) string {
	return FormatNumber(int64(math.Round(v)))
}

// FormatOptionalAttendance formats an optional head count, or Missing.
func FormatOptionalAttendance(v *float64) string {
	if v == nil {
		return Missing
	}
	return FormatAttendance(*v)
}

// FormatDuration formats seconds into a human-readable duration.
// e.g., 3725 -> "1h 2m", 125 -> "2m", 45 -> "45s"
func FormatDuration(secs int64) string {
	if secs <= 0 {
		return "0s"
	}

	hours := secs / 3600
	mins := (secs % 3600) / 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	if mins > 0 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%ds", secs)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}
