// internal/domain/health.go
package domain

import "time"

// HealthCategories is the fixed evaluation order of the nine check categories.
// Bottleneck ties resolve in this order.
var HealthCategories = []string{"Q", "S", "C", "P1", "P2", "P3", "M", "H", "F"}

// HealthCategoryNames maps category codes to operator-facing names.
var HealthCategoryNames = map[string]string{
	"Q":  "품질",
	"S":  "서비스",
	"C":  "청결",
	"P1": "가격",
	"P2": "상품구성",
	"P3": "프로모션",
	"M":  "마케팅",
	"H":  "인력",
	"F":  "재무",
}

// HealthAnswer is one answered question. Score is derived from Raw:
// yes=3, maybe=1, no=0.
type HealthAnswer struct {
	StoreID      int64  `json:"store_id" db:"store_id"`
	SessionID    int64  `json:"session_id" db:"session_id"`
	Category     string `json:"category" db:"category"`
	QuestionCode string `json:"question_code" db:"question_code"`
	Raw          string `json:"raw" db:"raw"`
	Score        int    `json:"score" db:"score"`
	Memo         string `json:"memo" db:"memo"`
}

// HealthSession is one run of the store check. Completed sessions are
// immutable except for finalize, which may recompute derived fields.
type HealthSession struct {
	ID             int64      `json:"id" db:"id"`
	StoreID        int64      `json:"store_id" db:"store_id"`
	StartedAt      time.Time  `json:"started_at" db:"started_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	OverallScore   float64    `json:"overall_score" db:"overall_score"`
	OverallGrade   string     `json:"overall_grade" db:"overall_grade"`
	MainBottleneck string     `json:"main_bottleneck" db:"main_bottleneck"`
	DiagnosisJSON  string     `json:"diagnosis_json" db:"diagnosis_json"`
}

// HealthResult is the per-category outcome of a finalized session.
type HealthResult struct {
	StoreID       int64    `json:"store_id" db:"store_id"`
	SessionID     int64    `json:"session_id" db:"session_id"`
	Category      string   `json:"category" db:"category"`
	ScoreAvg      float64  `json:"score_avg" db:"score_avg"`
	RiskLevel     string   `json:"risk_level" db:"risk_level"`
	StrengthFlags []string `json:"strength_flags" db:"-"`
	RiskFlags     []string `json:"risk_flags" db:"-"`
}

// HealthPattern is the detected operating pattern of a finalized check.
type HealthPattern struct {
	Code        string `json:"code"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// RiskAxis is one flagged category on the 0-10 reporting scale.
type RiskAxis struct {
	Axis   string  `json:"axis"`
	Score  float64 `json:"score"`
	Level  string  `json:"level"`
	Reason string  `json:"reason"`
}

// HealthDiagnosis is the structured payload stored on the session after
// finalization.
type HealthDiagnosis struct {
	PrimaryPattern HealthPattern      `json:"primary_pattern"`
	RiskAxes       []RiskAxis         `json:"risk_axes"`
	InsightSummary []string           `json:"insight_summary"`
	StrategyBias   map[string]float64 `json:"strategy_bias"`
}
