package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storecoach-kr/storecoach-backend/internal/domain"
	"github.com/storecoach-kr/storecoach-backend/pkg/timeutil"
)

func TestCompareMissionEffectFullWeek(t *testing.T) {
	completed := timeutil.Date(2026, 8, 20)

	var rows []domain.BestDailySales
	rows = append(rows, dailyRows(timeutil.Date(2026, 8, 13), 7, 1_000_000, 100)...)
	rows = append(rows, dailyRows(timeutil.Date(2026, 8, 21), 7, 1_100_000, 100)...)

	effect := CompareMissionEffect(completed, timeutil.Date(2026, 8, 27), rows)
	require.NotNil(t, effect)

	assert.InDelta(t, 10.0, effect.SalesDeltaPct, 0.001)
	assert.InDelta(t, 0.0, effect.VisitorsDeltaPct, 0.001)
	assert.InDelta(t, 10.0, effect.AvgpDeltaPct, 0.001)
	assert.Equal(t, 7, effect.AfterDays)
	assert.Contains(t, effect.Interpretation, "매출이 회복되었습니다")
	assert.Contains(t, effect.Interpretation, "객단가가 개선되었습니다")
}

func TestCompareMissionEffectTooEarly(t *testing.T) {
	completed := timeutil.Date(2026, 8, 20)

	var rows []domain.BestDailySales
	rows = append(rows, dailyRows(timeutil.Date(2026, 8, 13), 7, 1_000_000, 100)...)
	rows = append(rows, dailyRows(timeutil.Date(2026, 8, 21), 2, 1_100_000, 100)...)

	// Only 2 after-days have passed.
	assert.Nil(t, CompareMissionEffect(completed, timeutil.Date(2026, 8, 22), rows))
}

func TestCompareMissionEffectPartialWindow(t *testing.T) {
	completed := timeutil.Date(2026, 8, 20)

	var rows []domain.BestDailySales
	rows = append(rows, dailyRows(timeutil.Date(2026, 8, 13), 7, 1_000_000, 100)...)
	rows = append(rows, dailyRows(timeutil.Date(2026, 8, 21), 4, 1_100_000, 100)...)

	effect := CompareMissionEffect(completed, timeutil.Date(2026, 8, 24), rows)
	require.NotNil(t, effect)
	assert.Equal(t, 4, effect.AfterDays)
	assert.Contains(t, effect.Interpretation, "(4일 기준)")
}

func TestCompareMissionEffectNoBaseline(t *testing.T) {
	completed := timeutil.Date(2026, 8, 20)
	rows := dailyRows(timeutil.Date(2026, 8, 21), 7, 1_100_000, 100)

	assert.Nil(t, CompareMissionEffect(completed, timeutil.Date(2026, 8, 27), rows))
}

func TestCompareMissionEffectFlatInterpretation(t *testing.T) {
	completed := timeutil.Date(2026, 8, 20)

	var rows []domain.BestDailySales
	rows = append(rows, dailyRows(timeutil.Date(2026, 8, 13), 7, 1_000_000, 100)...)
	rows = append(rows, dailyRows(timeutil.Date(2026, 8, 21), 7, 1_010_000, 100)...)

	effect := CompareMissionEffect(completed, timeutil.Date(2026, 8, 27), rows)
	require.NotNil(t, effect)
	assert.Equal(t, "변화가 미미합니다. 추가 조치가 필요할 수 있습니다.", effect.Interpretation)
}
