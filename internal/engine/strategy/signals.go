// internal/engine/strategy/signals.go
package strategy

import (
	"sort"
	"time"

	"github.com/storecoach-kr/storecoach-backend/internal/domain"
	"github.com/storecoach-kr/storecoach-backend/pkg/numeric"
	"github.com/storecoach-kr/storecoach-backend/pkg/timeutil"
)

// ItemSale is one per-menu sold quantity row resolved to its menu name.
type ItemSale struct {
	Date     time.Time `json:"date"`
	MenuName string    `json:"menu_name"`
	Qty      float64   `json:"qty"`
}

// TopMenuChange is the quantity trend of one recent top-10 menu.
type TopMenuChange struct {
	MenuName   string  `json:"menu_name"`
	RecentQty  float64 `json:"recent_qty"`
	CompareQty float64 `json:"compare_qty"`
	ChangePct  float64 `json:"change_pct"`
}

// Signals is the sales-drop signal bundle for one window pair.
type Signals struct {
	RecentSalesAvg     float64         `json:"recent_sales_avg"`
	CompareSalesAvg    float64         `json:"compare_sales_avg"`
	SalesChangePct     float64         `json:"sales_change_pct"`
	RecentVisitorsAvg  float64         `json:"recent_visitors_avg"`
	CompareVisitorsAvg float64         `json:"compare_visitors_avg"`
	VisitorsChangePct  float64         `json:"visitors_change_pct"`
	RecentAvgp         float64         `json:"recent_avgp"`
	CompareAvgp        float64         `json:"compare_avgp"`
	AvgpChangePct      float64         `json:"avgp_change_pct"`
	RecentQty          float64         `json:"recent_qty"`
	CompareQty         float64         `json:"compare_qty"`
	QtyChangePct       float64         `json:"qty_change_pct"`
	TopMenuChanges     []TopMenuChange `json:"top_menu_changes"`
	HighCogsMenuCount  int             `json:"high_cogs_menu_count"`
	AvgContribution    float64         `json:"avg_contribution_margin"`
	BreakEvenGapRatio  float64         `json:"break_even_gap_ratio"`
}

// SignalInputs carries the pre-loaded rows and cost-engine context the
// collector folds into a Signals bundle. RefDate must already be clamped to
// today by the caller; BreakEvenGapRatio should default to 1.0 when the
// break-even point is undefined.
type SignalInputs struct {
	RefDate           time.Time
	WindowDays        int
	Sales             []domain.BestDailySales
	Items             []ItemSale
	HighCogsMenuCount int
	AvgContribution   float64
	BreakEvenGapRatio float64
}

// CollectSignals compares the window ending at RefDate against the
// immediately prior window of the same length. Returns ok=false when either
// window has no sales rows.
func CollectSignals(in SignalInputs) (Signals, bool) {
	recentEnd := timeutil.DateOf(in.RefDate)
	recentStart := recentEnd.AddDate(0, 0, -(in.WindowDays - 1))
	compareEnd := recentStart.AddDate(0, 0, -1)
	compareStart := compareEnd.AddDate(0, 0, -(in.WindowDays - 1))

	recentSales := salesBetween(in.Sales, recentStart, recentEnd)
	compareSales := salesBetween(in.Sales, compareStart, compareEnd)
	if len(recentSales) == 0 || len(compareSales) == 0 {
		return Signals{}, false
	}

	recentSalesAvg, recentVisitorsAvg := salesAverages(recentSales)
	compareSalesAvg, compareVisitorsAvg := salesAverages(compareSales)

	recentAvgp := numeric.Ratio(recentSalesAvg, recentVisitorsAvg)
	compareAvgp := numeric.Ratio(compareSalesAvg, compareVisitorsAvg)

	recentQty := qtyBetween(in.Items, recentStart, recentEnd)
	compareQty := qtyBetween(in.Items, compareStart, compareEnd)

	gap := in.BreakEvenGapRatio
	if gap == 0 {
		gap = 1.0
	}

	return Signals{
		RecentSalesAvg:     recentSalesAvg,
		CompareSalesAvg:    compareSalesAvg,
		SalesChangePct:     numeric.ChangePct(recentSalesAvg, compareSalesAvg),
		RecentVisitorsAvg:  recentVisitorsAvg,
		CompareVisitorsAvg: compareVisitorsAvg,
		VisitorsChangePct:  numeric.ChangePct(recentVisitorsAvg, compareVisitorsAvg),
		RecentAvgp:         recentAvgp,
		CompareAvgp:        compareAvgp,
		AvgpChangePct:      numeric.ChangePct(recentAvgp, compareAvgp),
		RecentQty:          recentQty,
		CompareQty:         compareQty,
		QtyChangePct:       numeric.ChangePct(recentQty, compareQty),
		TopMenuChanges:     topMenuChanges(in.Items, recentStart, recentEnd, compareStart, compareEnd),
		HighCogsMenuCount:  in.HighCogsMenuCount,
		AvgContribution:    in.AvgContribution,
		BreakEvenGapRatio:  gap,
	}, true
}

func salesBetween(rows []domain.BestDailySales, start, end time.Time) []domain.BestDailySales {
	out := make([]domain.BestDailySales, 0, len(rows))
	for _, r := range rows {
		d := timeutil.DateOf(r.Date)
		if !d.Before(start) && !d.After(end) {
			out = append(out, r)
		}
	}
	return out
}

func salesAverages(rows []domain.BestDailySales) (salesAvg, visitorsAvg float64) {
	if len(rows) == 0 {
		return 0, 0
	}
	var sales, visitors float64
	for _, r := range rows {
		sales += float64(r.TotalSales)
		visitors += float64(r.Visitors)
	}
	n := float64(len(rows))
	return sales / n, visitors / n
}

func qtyBetween(items []ItemSale, start, end time.Time) float64 {
	var total float64
	for _, it := range items {
		d := timeutil.DateOf(it.Date)
		if !d.Before(start) && !d.After(end) {
			total += it.Qty
		}
	}
	return total
}

// topMenuChanges ranks the recent window's top-10 menus by quantity and keeps
// the ones that did not grow versus the compare window, worst first, capped
// at five. Menus absent from the compare window carry no trend and are
// skipped.
func topMenuChanges(items []ItemSale, recentStart, recentEnd, compareStart, compareEnd time.Time) []TopMenuChange {
	recent := qtyByMenu(items, recentStart, recentEnd)
	compare := qtyByMenu(items, compareStart, compareEnd)

	type menuQty struct {
		name string
		qty  float64
	}
	ranked := make([]menuQty, 0, len(recent))
	for name, qty := range recent {
		ranked = append(ranked, menuQty{name: name, qty: qty})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].qty != ranked[j].qty {
			return ranked[i].qty > ranked[j].qty
		}
		return ranked[i].name < ranked[j].name
	})
	if len(ranked) > 10 {
		ranked = ranked[:10]
	}

	changes := make([]TopMenuChange, 0, len(ranked))
	for _, m := range ranked {
		compareQty := compare[m.name]
		if compareQty <= 0 {
			continue
		}
		change := numeric.ChangePct(m.qty, compareQty)
		if change > 0 {
			continue
		}
		changes = append(changes, TopMenuChange{
			MenuName:   m.name,
			RecentQty:  m.qty,
			CompareQty: compareQty,
			ChangePct:  change,
		})
	}

	sort.Slice(changes, func(i, j int) bool {
		if changes[i].ChangePct != changes[j].ChangePct {
			return changes[i].ChangePct < changes[j].ChangePct
		}
		return changes[i].MenuName < changes[j].MenuName
	})
	if len(changes) > 5 {
		changes = changes[:5]
	}
	return changes
}

func qtyByMenu(items []ItemSale, start, end time.Time) map[string]float64 {
	out := make(map[string]float64)
	for _, it := range items {
		d := timeutil.DateOf(it.Date)
		if !d.Before(start) && !d.After(end) {
			out[it.MenuName] += it.Qty
		}
	}
	return out
}
