// Package forecast is the deterministic projection and variance engine. Every
// function is pure: it reads only its arguments and returns fresh values.
package forecast

import (
	"math"

	"github.com/theirongolddev/fcast/internal/model"
)

// Project returns baseValue scaled by the growth model for the given period.
// Period 1 is always the unscaled baseline.
func Project(baseValue float64, period int, g model.GrowthModel) float64 {
	if period <= 1 {
		return baseValue
	}
	steps := float64(period - 1)

	switch g.Kind {
	case model.GrowthLinear:
		return baseValue * (1 + g.Rate*steps)
	case model.GrowthExponential:
		return baseValue * math.Pow(1+g.Rate, steps)
	default:
		return baseValue
	}
}

// Compound applies a per-period growth percentage in exponential form.
// It is the form used by attendance and every driver-specific rate.
func Compound(baseValue, pct float64, period int) float64 {
	return Project(baseValue, period, model.GrowthModel{
		Kind: model.GrowthExponential,
		Rate: pct / 100,
	})
}
