// internal/engine/health/scoring.go
package health

import (
	"sort"

	"github.com/storecoach-kr/storecoach-backend/internal/domain"
	"github.com/storecoach-kr/storecoach-backend/pkg/numeric"
)

// Risk bands on the 0-100 category scale.
const (
	riskSafeBand    = 75.0
	riskWarningBand = 45.0
)

// ScoreFromRaw maps a raw answer to its score: yes=3, maybe=1, no=0.
func ScoreFromRaw(raw string) (int, error) {
	switch raw {
	case "yes":
		return 3, nil
	case "maybe":
		return 1, nil
	case "no":
		return 0, nil
	default:
		return 0, domain.NewValidationError("raw", raw, "must be yes, maybe or no")
	}
}

// RawFromScore is the inverse of ScoreFromRaw.
func RawFromScore(score int) (string, error) {
	switch score {
	case 3:
		return "yes", nil
	case 1:
		return "maybe", nil
	case 0:
		return "no", nil
	default:
		return "", domain.NewValidationError("score", score, "must be 0, 1 or 3")
	}
}

// RiskLevel bands a 0-100 category score.
func RiskLevel(score float64) string {
	switch {
	case score >= riskSafeBand:
		return domain.RiskGreen
	case score >= riskWarningBand:
		return domain.RiskYellow
	default:
		return domain.RiskRed
	}
}

// GradeFromScore bands a 0-100 overall score into A..E.
func GradeFromScore(score float64) string {
	switch {
	case score >= 85:
		return "A"
	case score >= 70:
		return "B"
	case score >= 55:
		return "C"
	case score >= 40:
		return "D"
	default:
		return "E"
	}
}

// Outcome is the derived state of a finalized session.
type Outcome struct {
	OverallScore   float64               `json:"overall_score"`
	OverallGrade   string                `json:"overall_grade"`
	MainBottleneck string                `json:"main_bottleneck"`
	Results        []domain.HealthResult `json:"results"`
	AxisScores     map[string]float64    `json:"axis_scores"`
}

// Score folds a session's answers into per-category and overall results.
// Categories without answers are excluded; a session with no answers at all
// scores 0 with grade E.
func Score(storeID, sessionID int64, answers []domain.HealthAnswer) Outcome {
	out := Outcome{
		OverallGrade: "E",
		Results:      []domain.HealthResult{},
		AxisScores:   map[string]float64{},
	}
	if len(answers) == 0 {
		return out
	}

	type bucket struct {
		sum       int
		n         int
		strengths []string
		risks     []string
	}
	buckets := make(map[string]*bucket)
	for _, ans := range answers {
		b, ok := buckets[ans.Category]
		if !ok {
			b = &bucket{}
			buckets[ans.Category] = b
		}
		b.sum += ans.Score
		b.n++
		switch ans.Score {
		case 3:
			b.strengths = append(b.strengths, ans.QuestionCode)
		case 0:
			b.risks = append(b.risks, ans.QuestionCode)
		}
	}

	var total float64
	var count int
	for _, category := range domain.HealthCategories {
		b, ok := buckets[category]
		if !ok {
			continue
		}
		avg := numeric.Round2(float64(b.sum) / float64(b.n*3) * 100)
		out.AxisScores[category] = avg
		sort.Strings(b.strengths)
		sort.Strings(b.risks)
		out.Results = append(out.Results, domain.HealthResult{
			StoreID:       storeID,
			SessionID:     sessionID,
			Category:      category,
			ScoreAvg:      avg,
			RiskLevel:     RiskLevel(avg),
			StrengthFlags: b.strengths,
			RiskFlags:     b.risks,
		})
		total += avg
		count++
	}

	out.OverallScore = numeric.Round2(total / float64(count))
	out.OverallGrade = GradeFromScore(out.OverallScore)
	out.MainBottleneck = bottleneck(out.Results)

	return out
}

// bottleneck is the lowest-scoring category; the canonical category order
// breaks ties.
func bottleneck(results []domain.HealthResult) string {
	best := ""
	bestScore := 101.0
	for _, category := range domain.HealthCategories {
		for _, res := range results {
			if res.Category == category && res.ScoreAvg < bestScore {
				best = category
				bestScore = res.ScoreAvg
			}
		}
	}
	return best
}
