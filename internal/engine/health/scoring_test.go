package health

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storecoach-kr/storecoach-backend/internal/domain"
)

func answersFor(category, raw string, n int) []domain.HealthAnswer {
	score, _ := ScoreFromRaw(raw)
	out := make([]domain.HealthAnswer, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.HealthAnswer{
			Category:     category,
			QuestionCode: category + string(rune('0'+i)),
			Raw:          raw,
			Score:        score,
		})
	}
	return out
}

func TestScoreFromRaw(t *testing.T) {
	for raw, want := range map[string]int{"yes": 3, "maybe": 1, "no": 0} {
		got, err := ScoreFromRaw(raw)
		require.NoError(t, err)
		assert.Equal(t, want, got)

		// Round-trips through RawFromScore.
		back, err := RawFromScore(got)
		require.NoError(t, err)
		assert.Equal(t, raw, back)
	}

	_, err := ScoreFromRaw("sometimes")
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = RawFromScore(2)
	assert.ErrorAs(t, err, &verr)
}

func TestGradeBandsMonotonic(t *testing.T) {
	assert.Equal(t, "A", GradeFromScore(85))
	assert.Equal(t, "B", GradeFromScore(84.99))
	assert.Equal(t, "B", GradeFromScore(70))
	assert.Equal(t, "C", GradeFromScore(55))
	assert.Equal(t, "D", GradeFromScore(40))
	assert.Equal(t, "E", GradeFromScore(39.99))

	// Non-increasing grade as score decreases.
	prev := "A"
	for s := 100.0; s >= 0; s -= 0.5 {
		g := GradeFromScore(s)
		assert.GreaterOrEqual(t, g, prev)
		prev = g
	}
}

func TestRiskLevelBands(t *testing.T) {
	assert.Equal(t, domain.RiskGreen, RiskLevel(75))
	assert.Equal(t, domain.RiskYellow, RiskLevel(74.99))
	assert.Equal(t, domain.RiskYellow, RiskLevel(45))
	assert.Equal(t, domain.RiskRed, RiskLevel(44.99))
}

func TestScoreSession(t *testing.T) {
	var answers []domain.HealthAnswer
	answers = append(answers, answersFor("Q", "yes", 10)...)
	answers = append(answers, answersFor("S", "maybe", 10)...)
	answers = append(answers, answersFor("C", "no", 10)...)

	out := Score(1, 100, answers)
	require.Len(t, out.Results, 3)

	assert.Equal(t, 100.0, out.AxisScores["Q"])
	assert.Equal(t, 33.33, out.AxisScores["S"])
	assert.Equal(t, 0.0, out.AxisScores["C"])

	assert.Equal(t, 44.44, out.OverallScore)
	assert.Equal(t, "D", out.OverallGrade)
	assert.Equal(t, "C", out.MainBottleneck)

	assert.Equal(t, domain.RiskGreen, out.Results[0].RiskLevel)
	assert.Equal(t, domain.RiskRed, out.Results[1].RiskLevel)
	assert.Equal(t, domain.RiskRed, out.Results[2].RiskLevel)
}

func TestScoreFlags(t *testing.T) {
	answers := []domain.HealthAnswer{
		{Category: "Q", QuestionCode: "Q1", Raw: "yes", Score: 3},
		{Category: "Q", QuestionCode: "Q2", Raw: "no", Score: 0},
		{Category: "Q", QuestionCode: "Q3", Raw: "maybe", Score: 1},
	}

	out := Score(1, 100, answers)
	require.Len(t, out.Results, 1)
	assert.Equal(t, []string{"Q1"}, out.Results[0].StrengthFlags)
	assert.Equal(t, []string{"Q2"}, out.Results[0].RiskFlags)
}

func TestScoreBottleneckTieBreak(t *testing.T) {
	var answers []domain.HealthAnswer
	answers = append(answers, answersFor("S", "no", 10)...)
	answers = append(answers, answersFor("Q", "no", 10)...)

	// Q and S tie at 0; canonical category order puts Q first.
	out := Score(1, 100, answers)
	assert.Equal(t, "Q", out.MainBottleneck)
}

func TestScoreEmpty(t *testing.T) {
	out := Score(1, 100, nil)
	assert.Equal(t, 0.0, out.OverallScore)
	assert.Equal(t, "E", out.OverallGrade)
	assert.Equal(t, "", out.MainBottleneck)
	assert.Empty(t, out.Results)
}

func TestScoreIdempotent(t *testing.T) {
	var answers []domain.HealthAnswer
	answers = append(answers, answersFor("Q", "yes", 10)...)
	answers = append(answers, answersFor("F", "maybe", 10)...)

	first := Score(1, 100, answers)
	second := Score(1, 100, answers)
	assert.Equal(t, first, second)
}
