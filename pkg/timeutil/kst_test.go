package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 31, DaysInMonth(2026, time.January))
	assert.Equal(t, 28, DaysInMonth(2026, time.February))
	assert.Equal(t, 29, DaysInMonth(2028, time.February))
	assert.Equal(t, 30, DaysInMonth(2026, time.September))
	assert.Equal(t, 31, DaysInMonth(2026, time.December))
}

func TestDateOfNormalizesToKSTMidnight(t *testing.T) {
	// 2026-03-01 23:30 UTC is already 2026-03-02 08:30 in KST.
	utc := time.Date(2026, time.March, 1, 23, 30, 0, 0, time.UTC)
	d := DateOf(utc)

	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, time.March, d.Month())
	assert.Equal(t, 2, d.Day())
	assert.Equal(t, 0, d.Hour())
}

func TestFixedClock(t *testing.T) {
	at := Date(2026, time.July, 15)
	c := FixedClock{T: at}
	assert.True(t, c.NowKST().Equal(at))
	assert.True(t, SameMonth(c.NowKST(), 2026, time.July))
	assert.False(t, SameMonth(c.NowKST(), 2026, time.August))
}
