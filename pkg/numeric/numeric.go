// pkg/numeric/numeric.go
package numeric

import (
	"math"
	"strconv"
	"strings"
)

// SafeFloat collapses NaN and infinities to 0 so a bad division never
// propagates past an engine boundary.
func SafeFloat(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Ratio returns num/den, or 0 when den is 0.
func Ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return SafeFloat(num / den)
}

// Percent returns num/den*100, or 0 when den is 0.
func Percent(num, den float64) float64 {
	return Ratio(num, den) * 100
}

// ChangePct returns the percent change from prior to recent, 0 when prior <= 0.
func ChangePct(recent, prior float64) float64 {
	if prior <= 0 {
		return 0
	}
	return SafeFloat((recent - prior) / prior * 100)
}

// Round2 rounds to two decimal places, the precision all score and ratio
// result fields are reported in.
func Round2(v float64) float64 {
	return math.Round(SafeFloat(v)*100) / 100
}

// ClampScore clamps a 0-100 score into range.
func ClampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// MaxF returns the larger of a and b.
func MaxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// MinF returns the smaller of a and b.
func MinF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// FormatThousands renders an integer with comma separators, e.g. 1,234,567.
func FormatThousands(v int64) string {
	s := strconv.FormatInt(v, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}

	if neg {
		return "-" + b.String()
	}
	return b.String()
}
