package numeric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeFloat(t *testing.T) {
	assert.Equal(t, 0.0, SafeFloat(math.NaN()))
	assert.Equal(t, 0.0, SafeFloat(math.Inf(1)))
	assert.Equal(t, 0.0, SafeFloat(math.Inf(-1)))
	assert.Equal(t, 1.5, SafeFloat(1.5))
}

func TestRatioAndPercent(t *testing.T) {
	assert.Equal(t, 0.0, Ratio(10, 0))
	assert.Equal(t, 0.5, Ratio(5, 10))
	assert.Equal(t, 50.0, Percent(5, 10))
	assert.Equal(t, 0.0, Percent(5, 0))
}

func TestChangePct(t *testing.T) {
	assert.Equal(t, 10.0, ChangePct(110, 100))
	assert.Equal(t, -15.0, ChangePct(85, 100))
	assert.Equal(t, 0.0, ChangePct(100, 0))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 33.33, Round2(100.0/3.0))
	assert.Equal(t, 44.44, Round2(44.444444))
	assert.Equal(t, 0.0, Round2(math.NaN()))
}

func TestFormatThousands(t *testing.T) {
	assert.Equal(t, "0", FormatThousands(0))
	assert.Equal(t, "999", FormatThousands(999))
	assert.Equal(t, "1,000", FormatThousands(1000))
	assert.Equal(t, "16,666,666", FormatThousands(16666666))
	assert.Equal(t, "-1,234,567", FormatThousands(-1234567))
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0, ClampScore(-10))
	assert.Equal(t, 100, ClampScore(140))
	assert.Equal(t, 55, ClampScore(55))
}
