// internal/domain/mission.go
package domain

import "time"

const (
	MissionStatusActive    = "active"
	MissionStatusCompleted = "completed"
	MissionStatusAbandoned = "abandoned"
)

// Mission is a day-scoped coaching checklist. At most one active mission may
// exist per (store, date).
type Mission struct {
	ID          int64      `json:"id" db:"id"`
	StoreID     int64      `json:"store_id" db:"store_id"`
	MissionDate time.Time  `json:"mission_date" db:"mission_date"`
	Status      string     `json:"status" db:"status"`
	CauseType   string     `json:"cause_type" db:"cause_type"`
	Title       string     `json:"title" db:"title"`
	ReasonJSON  string     `json:"reason_json" db:"reason_json"`
	CTAPage     string     `json:"cta_page" db:"cta_page"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// MissionTask is one checklist item of a mission.
type MissionTask struct {
	ID        int64  `json:"id" db:"id"`
	MissionID int64  `json:"mission_id" db:"mission_id"`
	Order     int    `json:"order" db:"task_order"`
	Title     string `json:"title" db:"title"`
	IsDone    bool   `json:"is_done" db:"is_done"`
}
