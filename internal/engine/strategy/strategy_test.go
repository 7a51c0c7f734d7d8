package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storecoach-kr/storecoach-backend/internal/domain"
	"github.com/storecoach-kr/storecoach-backend/pkg/timeutil"
)

func dailyRows(start time.Time, days int, sales, visitors int64) []domain.BestDailySales {
	rows := make([]domain.BestDailySales, 0, days)
	for i := 0; i < days; i++ {
		rows = append(rows, domain.BestDailySales{
			Date:       start.AddDate(0, 0, i),
			TotalSales: sales,
			Visitors:   visitors,
		})
	}
	return rows
}

func itemRows(start time.Time, days int, menu string, qtyPerDay float64) []ItemSale {
	items := make([]ItemSale, 0, days)
	for i := 0; i < days; i++ {
		items = append(items, ItemSale{
			Date:     start.AddDate(0, 0, i),
			MenuName: menu,
			Qty:      qtyPerDay,
		})
	}
	return items
}

func TestCollectSignalsWindowChanges(t *testing.T) {
	ref := timeutil.Date(2026, 8, 28)

	// Compare window 08-15..08-21, recent window 08-22..08-28.
	rows := dailyRows(timeutil.Date(2026, 8, 15), 7, 1_000_000, 100)
	rows = append(rows, dailyRows(timeutil.Date(2026, 8, 22), 7, 850_000, 85)...)

	signals, ok := CollectSignals(SignalInputs{
		RefDate:           ref,
		WindowDays:        7,
		Sales:             rows,
		BreakEvenGapRatio: 1.2,
	})
	require.True(t, ok)

	assert.InDelta(t, -15.0, signals.SalesChangePct, 0.001)
	assert.InDelta(t, -15.0, signals.VisitorsChangePct, 0.001)

	// Average price held at 10,000 in both windows.
	assert.InDelta(t, 10_000.0, signals.RecentAvgp, 0.001)
	assert.InDelta(t, 0.0, signals.AvgpChangePct, 0.001)
	assert.Equal(t, 1.2, signals.BreakEvenGapRatio)
}

func TestCollectSignalsRequiresBothWindows(t *testing.T) {
	ref := timeutil.Date(2026, 8, 28)

	// Recent rows only.
	rows := dailyRows(timeutil.Date(2026, 8, 22), 7, 1_000_000, 100)

	_, ok := CollectSignals(SignalInputs{RefDate: ref, WindowDays: 7, Sales: rows})
	assert.False(t, ok)

	_, ok = CollectSignals(SignalInputs{RefDate: ref, WindowDays: 7})
	assert.False(t, ok)
}

func TestCollectSignalsDefaultsGapRatio(t *testing.T) {
	rows := dailyRows(timeutil.Date(2026, 8, 15), 14, 1_000_000, 100)

	signals, ok := CollectSignals(SignalInputs{
		RefDate:    timeutil.Date(2026, 8, 28),
		WindowDays: 7,
		Sales:      rows,
	})
	require.True(t, ok)
	assert.Equal(t, 1.0, signals.BreakEvenGapRatio)
}

func TestTopMenuChangesKeepsDropsOnly(t *testing.T) {
	recentStart := timeutil.Date(2026, 8, 22)
	compareStart := timeutil.Date(2026, 8, 15)

	var items []ItemSale
	items = append(items, itemRows(compareStart, 7, "갈비탕", 14)...) // 98 -> 49
	items = append(items, itemRows(recentStart, 7, "갈비탕", 7)...)
	items = append(items, itemRows(compareStart, 7, "된장찌개", 10)...) // flat
	items = append(items, itemRows(recentStart, 7, "된장찌개", 10)...)
	items = append(items, itemRows(compareStart, 7, "냉면", 8)...) // grew, dropped from list
	items = append(items, itemRows(recentStart, 7, "냉면", 12)...)
	items = append(items, itemRows(recentStart, 7, "신메뉴", 20)...) // no compare baseline

	rows := dailyRows(compareStart, 14, 1_000_000, 100)
	signals, ok := CollectSignals(SignalInputs{
		RefDate:    timeutil.Date(2026, 8, 28),
		WindowDays: 7,
		Sales:      rows,
		Items:      items,
	})
	require.True(t, ok)

	require.Len(t, signals.TopMenuChanges, 2)
	assert.Equal(t, "갈비탕", signals.TopMenuChanges[0].MenuName)
	assert.InDelta(t, -50.0, signals.TopMenuChanges[0].ChangePct, 0.001)
	assert.Equal(t, "된장찌개", signals.TopMenuChanges[1].MenuName)
	assert.InDelta(t, 0.0, signals.TopMenuChanges[1].ChangePct, 0.001)
}

func TestClassifyInflowDropAlone(t *testing.T) {
	signals := Signals{
		VisitorsChangePct: -15,
		AvgpChangePct:     -2,
		QtyChangePct:      -5,
		HighCogsMenuCount: 0,
		AvgContribution:   8000,
		BreakEvenGapRatio: 1.20,
	}

	causes := ClassifyCauses(signals)
	require.Len(t, causes, 1)
	assert.Equal(t, domain.CauseInflowDrop, causes[0].Type)
	assert.Equal(t, 1, causes[0].Priority)
	assert.InDelta(t, 0.75, causes[0].Confidence, 0.001)
}

func TestClassifyAvgpDropSuppressedByVisitorSwing(t *testing.T) {
	// A large visitor move explains the average-price move, so avgp_drop
	// must not fire.
	signals := Signals{
		VisitorsChangePct: -12,
		AvgpChangePct:     -10,
		AvgContribution:   8000,
		BreakEvenGapRatio: 1.2,
	}

	causes := ClassifyCauses(signals)
	require.Len(t, causes, 1)
	assert.Equal(t, domain.CauseInflowDrop, causes[0].Type)
}

func TestClassifyPriorityOrder(t *testing.T) {
	signals := Signals{
		VisitorsChangePct: -25,
		QtyChangePct:      -30,
		HighCogsMenuCount: 4,
		AvgContribution:   3000,
		BreakEvenGapRatio: 0.9,
		TopMenuChanges: []TopMenuChange{
			{MenuName: "갈비탕", RecentQty: 40, CompareQty: 100, ChangePct: -60},
			{MenuName: "냉면", RecentQty: 70, CompareQty: 100, ChangePct: -30},
		},
	}

	causes := ClassifyCauses(signals)
	require.Len(t, causes, 5)

	types := make([]string, 0, len(causes))
	for _, c := range causes {
		types = append(types, c.Type)
	}
	assert.Equal(t, []string{
		domain.CauseInflowDrop,
		domain.CauseQtyDrop,
		domain.CauseHeroMenuCollapse,
		domain.CauseCogsWorsening,
		domain.CauseStructuralRisk,
	}, types)

	// Confidence caps at 1 and the gap rule uses 1-ratio below break-even.
	assert.Equal(t, 1.0, causes[0].Confidence)
	assert.InDelta(t, 0.1, causes[4].Confidence, 0.001)
}

func TestClassifyCogsConfidenceFallback(t *testing.T) {
	// Low contribution without a high-cogs cluster keeps the 0.5 floor.
	causes := ClassifyCauses(Signals{
		HighCogsMenuCount: 1,
		AvgContribution:   4000,
		BreakEvenGapRatio: 1.2,
	})
	require.Len(t, causes, 1)
	assert.Equal(t, domain.CauseCogsWorsening, causes[0].Type)
	assert.Equal(t, 0.5, causes[0].Confidence)
}

func TestClassifyDeterministic(t *testing.T) {
	signals := Signals{
		VisitorsChangePct: -25,
		QtyChangePct:      -30,
		HighCogsMenuCount: 4,
		BreakEvenGapRatio: 0.9,
		AvgContribution:   8000,
	}

	first := ClassifyCauses(signals)
	second := ClassifyCauses(signals)
	assert.Equal(t, first, second)
}

func TestBuildCardHeroMenuInterpolation(t *testing.T) {
	cause := Cause{
		Type:     domain.CauseHeroMenuCollapse,
		Priority: 4,
		Details: map[string]interface{}{
			"top_drops": []TopMenuChange{
				{MenuName: "갈비탕", RecentQty: 40, CompareQty: 100, ChangePct: -60},
			},
		},
	}

	card := BuildCard(cause, Signals{})
	assert.Equal(t, "갈비탕 가격/마진 시뮬", card.Title)
	assert.Equal(t, "갈비탕 판매량 -60.0% 급감", card.ReasonBullets[0])
	assert.Equal(t, "갈비탕", card.CTAContext["_selected_menu"])
}

func TestPickPrimaryNoCauses(t *testing.T) {
	card := PickPrimary(nil, Signals{})
	assert.Equal(t, "매출 하락 원인 찾기", card.Title)
	assert.Empty(t, card.Alternatives)
}

func TestPickPrimaryCapsAlternatives(t *testing.T) {
	// Three secondary candidates exist; the list stays capped at two.
	signals := Signals{
		VisitorsChangePct: -15,
		HighCogsMenuCount: 4,
		AvgContribution:   3000,
		BreakEvenGapRatio: 0.9,
	}

	causes := ClassifyCauses(signals)
	require.Len(t, causes, 3)
	assert.Equal(t, domain.CauseInflowDrop, causes[0].Type)

	card := PickPrimary(causes, signals)
	assert.Equal(t, "포트폴리오 미분류 메뉴 1개 정리", card.Title)

	require.Len(t, card.Alternatives, 2)
	assert.Equal(t, "매출 관리", card.Alternatives[0].CTAPage)
	assert.Equal(t, "메뉴 수익 구조 설계실", card.Alternatives[1].CTAPage)
}

func TestPickPrimaryAlternativesDedupedByPage(t *testing.T) {
	// hero_menu_collapse and cogs_worsening both target the menu profit
	// room; only the higher-priority card keeps its slot.
	signals := Signals{
		QtyChangePct:      -30,
		HighCogsMenuCount: 4,
		AvgContribution:   3000,
		BreakEvenGapRatio: 1.2,
		TopMenuChanges: []TopMenuChange{
			{MenuName: "갈비탕", RecentQty: 40, CompareQty: 100, ChangePct: -60},
		},
	}

	causes := ClassifyCauses(signals)
	require.Len(t, causes, 3)
	assert.Equal(t, domain.CauseQtyDrop, causes[0].Type)
	assert.Equal(t, domain.CauseHeroMenuCollapse, causes[1].Type)
	assert.Equal(t, domain.CauseCogsWorsening, causes[2].Type)

	card := PickPrimary(causes, signals)
	require.Len(t, card.Alternatives, 2)
	assert.Equal(t, "메뉴 등록", card.Alternatives[0].CTAPage)
	assert.Equal(t, "메뉴 수익 구조 설계실", card.Alternatives[1].CTAPage)

	// The surviving menu profit card is the hero menu one.
	assert.Equal(t, "갈비탕 가격/마진 시뮬", card.Alternatives[1].Title)
}

func TestChecklistTemplates(t *testing.T) {
	for _, causeType := range []string{
		domain.CauseInflowDrop,
		domain.CauseAvgpDrop,
		domain.CauseQtyDrop,
		domain.CauseHeroMenuCollapse,
		domain.CauseCogsWorsening,
		domain.CauseStructuralRisk,
	} {
		tasks := ChecklistTemplate(causeType)
		assert.GreaterOrEqual(t, len(tasks), 4, causeType)
		assert.LessOrEqual(t, len(tasks), 5, causeType)
		for i, task := range tasks {
			assert.Equal(t, i+1, task.Order)
			assert.NotEmpty(t, task.Title)
		}
	}

	fallback := ChecklistTemplate("unknown")
	assert.Len(t, fallback, 2)
}
