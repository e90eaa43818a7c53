package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/theirongolddev/fcast/internal/model"
)

func TestProject_PeriodOneIsBase(t *testing.T) {
	for _, g := range []model.GrowthModel{
		{Kind: model.GrowthLinear, Rate: 0.25},
		{Kind: model.GrowthExponential, Rate: -0.5},
		{Kind: model.GrowthNone, Rate: 3},
		{},
	} {
		assert.Equal(t, 1234.5, Project(1234.5, 1, g), "kind %q", g.Kind)
	}
}

func TestProject_Linear(t *testing.T) {
	g := model.GrowthModel{Kind: model.GrowthLinear, Rate: 0.1}
	assert.InDelta(t, 1100, Project(1000, 2, g), 1e-9)
	assert.InDelta(t, 1200, Project(1000, 3, g), 1e-9)
}

func TestProject_ExponentialCompoundsMonotonically(t *testing.T) {
	g := model.GrowthModel{Kind: model.GrowthExponential, Rate: 0.05}
	prev := Project(200, 1, g)
	for p := 2; p <= 24; p++ {
		v := Project(200, p, g)
		assert.Greater(t, v, prev, "period %d", p)
		prev = v
	}
	assert.InDelta(t, 220.5, Project(200, 3, g), 1e-9)
}

func TestProject_NegativeRateDeclines(t *testing.T) {
	g := model.GrowthModel{Kind: model.GrowthLinear, Rate: -0.2}
	assert.InDelta(t, 600, Project(1000, 3, g), 1e-9)
}

func TestProject_NoneIsFlat(t *testing.T) {
	g := model.GrowthModel{Kind: model.GrowthNone, Rate: 0.9}
	assert.Equal(t, 42.0, Project(42, 10, g))
}

func TestCompound_UsesPercent(t *testing.T) {
	assert.InDelta(t, 1210, Compound(1000, 10, 3), 1e-9)
}
