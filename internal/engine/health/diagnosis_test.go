package health

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullScores(overrides map[string]float64) map[string]float64 {
	scores := map[string]float64{
		"Q": 80, "S": 80, "C": 80, "P1": 80, "P2": 80,
		"P3": 80, "M": 80, "H": 80, "F": 80,
	}
	for k, v := range overrides {
		scores[k] = v
	}
	return scores
}

func TestDiagnoseStable(t *testing.T) {
	d := Diagnose(fullScores(nil))

	assert.Equal(t, "STABLE", d.PrimaryPattern.Code)
	require.Len(t, d.RiskAxes, 3)
	for _, r := range d.RiskAxes {
		assert.Equal(t, axisGood, r.Level)
	}

	// Equal weights when no pattern fires and finance is healthy.
	assert.Equal(t, 0.2, d.StrategyBias["operation_fix"])
	assert.Equal(t, 0.2, d.StrategyBias["finance_control"])
}

func TestDiagnoseOperationBreakdown(t *testing.T) {
	d := Diagnose(fullScores(map[string]float64{"H": 35, "S": 45, "C": 40}))

	assert.Equal(t, "OPERATION_BREAKDOWN", d.PrimaryPattern.Code)

	// Worst axes first, ascending score inside the level.
	require.Len(t, d.RiskAxes, 3)
	assert.Equal(t, "H", d.RiskAxes[0].Axis)
	assert.Equal(t, axisHigh, d.RiskAxes[0].Level)
	assert.Equal(t, 3.5, d.RiskAxes[0].Score)

	// Operation fix dominates the bias.
	assert.Greater(t, d.StrategyBias["operation_fix"], d.StrategyBias["marketing"])
	assert.Len(t, d.InsightSummary, 3)
}

func TestDiagnoseFinancialDangerOutweighs(t *testing.T) {
	// Both REVISIT_COLLAPSE (2.5) and FINANCIAL_DANGER (3.5) fire; the
	// heavier pattern wins.
	d := Diagnose(fullScores(map[string]float64{"Q": 50, "S": 48, "F": 40}))
	assert.Equal(t, "FINANCIAL_DANGER", d.PrimaryPattern.Code)
}

func TestDiagnoseLowFinanceBoostsControl(t *testing.T) {
	healthy := Diagnose(fullScores(nil))
	strained := Diagnose(fullScores(map[string]float64{"F": 49, "M": 45, "P3": 75}))

	assert.Greater(t, strained.StrategyBias["finance_control"], healthy.StrategyBias["finance_control"])
}

func TestDiagnoseBiasNormalized(t *testing.T) {
	for _, scores := range []map[string]float64{
		fullScores(nil),
		fullScores(map[string]float64{"H": 35, "S": 45, "C": 40}),
		fullScores(map[string]float64{"F": 30}),
		fullScores(map[string]float64{"P1": 40, "F": 50}),
	} {
		d := Diagnose(scores)
		var sum float64
		for _, v := range d.StrategyBias {
			sum += v
		}
		// Rounding to two decimals keeps the sum near 1.
		assert.InDelta(t, 1.0, sum, 0.03)
	}
}

func TestDiagnoseDeterministic(t *testing.T) {
	scores := fullScores(map[string]float64{"Q": 50, "S": 48})
	first := Diagnose(scores)
	second := Diagnose(scores)
	assert.Equal(t, first, second)
}
