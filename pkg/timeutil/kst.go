// pkg/timeutil/kst.go
package timeutil

import "time"

// KST is the fixed Korea Standard Time zone. All "today" and "this month"
// decisions in the engines are made against this zone, never server local time.
var KST = time.FixedZone("Asia/Seoul", 9*60*60)

// Clock abstracts the KST time source so engines stay deterministic in tests.
type Clock interface {
	NowKST() time.Time
}

// SystemClock reads the wall clock in KST.
type SystemClock struct{}

func (SystemClock) NowKST() time.Time { return time.Now().In(KST) }

// FixedClock always returns the same instant. Test helper.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) NowKST() time.Time { return c.T.In(KST) }

// NowKST returns the current time in KST.
func NowKST() time.Time { return time.Now().In(KST) }

// TodayKST returns the current KST calendar date at midnight.
func TodayKST() time.Time {
	return DateOf(NowKST())
}

// DateOf truncates t to its KST calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.In(KST).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, KST)
}

// Date builds a KST calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, KST)
}

// DaysInMonth returns the calendar length of (year, month).
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, KST).Day()
}

// SameMonth reports whether t falls in (year, month) in KST.
func SameMonth(t time.Time, year int, month time.Month) bool {
	tt := t.In(KST)
	return tt.Year() == year && tt.Month() == month
}
