// Package snapshot decides whether a freshly fetched dashboard snapshot
// differs from the one already held. The comparison walks an explicit list of
// field paths; a new dashboard field is invisible here until it is added to
// the path list below.
//
// Lists are compared by length and then index by index over a fixed subset of
// each element's fields. Identity is never tracked, and fields outside the
// subset never register as a change.
package snapshot

import (
	"bakeryconsole/backend/internal/domain"
)

type check struct {
	path  string
	equal func(a, b *domain.DashboardSnapshot) bool
}

func scalar[T comparable](path string, get func(*domain.DashboardSnapshot) T) check {
	return check{path: path, equal: func(a, b *domain.DashboardSnapshot) bool {
		return get(a) == get(b)
	}}
}

func list[E any](path string, get func(*domain.DashboardSnapshot) []E, same func(x, y E) bool) check {
	return check{path: path, equal: func(a, b *domain.DashboardSnapshot) bool {
		xs, ys := get(a), get(b)
		if len(xs) != len(ys) {
			return false
		}
		for i := range xs {
			if !same(xs[i], ys[i]) {
				return false
			}
		}
		return true
	}}
}

var checks = []check{
	scalar("salesToday.total", func(s *domain.DashboardSnapshot) float64 { return s.SalesToday.Total }),
	scalar("salesToday.count", func(s *domain.DashboardSnapshot) int64 { return s.SalesToday.Count }),
	scalar("salesToday.average", func(s *domain.DashboardSnapshot) float64 { return s.SalesToday.Average }),
	scalar("cashVsDigitalSplit.cash", func(s *domain.DashboardSnapshot) float64 { return s.CashVsDigitalSplit.Cash }),
	scalar("cashVsDigitalSplit.digital", func(s *domain.DashboardSnapshot) float64 { return s.CashVsDigitalSplit.Digital }),
	scalar("inventoryStats.totalValue", func(s *domain.DashboardSnapshot) float64 { return s.InventoryStats.TotalValue }),
	scalar("inventoryStats.totalItems", func(s *domain.DashboardSnapshot) int64 { return s.InventoryStats.TotalItems }),
	scalar("inventoryStats.lowStockCount", func(s *domain.DashboardSnapshot) int64 { return s.InventoryStats.LowStockCount }),
	scalar("auditInsights.deleteCount", func(s *domain.DashboardSnapshot) int64 { return s.AuditInsights.DeleteCount }),
	scalar("auditInsights.updateCount", func(s *domain.DashboardSnapshot) int64 { return s.AuditInsights.UpdateCount }),
	scalar("auditInsights.createCount", func(s *domain.DashboardSnapshot) int64 { return s.AuditInsights.CreateCount }),
	scalar("salesPerformance.todayTotal", func(s *domain.DashboardSnapshot) float64 { return s.SalesPerformance.TodayTotal }),
	scalar("salesPerformance.lastThreeDaysAverage", func(s *domain.DashboardSnapshot) float64 {
		return s.SalesPerformance.LastThreeDaysAverage
	}),
	{path: "salesPerformance.changePercent", equal: func(a, b *domain.DashboardSnapshot) bool {
		x, y := a.SalesPerformance.ChangePercent, b.SalesPerformance.ChangePercent
		if x == nil || y == nil {
			return x == nil && y == nil
		}
		return *x == *y
	}},

	list("topProductsToday",
		func(s *domain.DashboardSnapshot) []domain.TopProduct { return s.TopProductsToday },
		func(x, y domain.TopProduct) bool {
			return x.ProductName == y.ProductName && x.Quantity == y.Quantity && x.Revenue == y.Revenue
		}),
	list("salesByHour",
		func(s *domain.DashboardSnapshot) []domain.HourlySales { return s.SalesByHour },
		func(x, y domain.HourlySales) bool {
			return x.Hour == y.Hour && x.Total == y.Total && x.Count == y.Count
		}),
	list("criticalStockAlerts",
		func(s *domain.DashboardSnapshot) []domain.CriticalStockAlert { return s.CriticalStockAlerts },
		func(x, y domain.CriticalStockAlert) bool {
			return x.ID == y.ID && x.CurrentStock == y.CurrentStock && x.Shortfall == y.Shortfall
		}),
	list("recentProductionWastage",
		func(s *domain.DashboardSnapshot) []domain.ProductionWastage { return s.RecentProductionWastage },
		func(x, y domain.ProductionWastage) bool {
			return x.ProductionRunID == y.ProductionRunID && x.IngredientName == y.IngredientName && x.Wastage == y.Wastage
		}),
	list("recentProductionRuns",
		func(s *domain.DashboardSnapshot) []domain.ProductionRun { return s.RecentProductionRuns },
		func(x, y domain.ProductionRun) bool {
			return x.ID == y.ID && x.QuantityProduced == y.QuantityProduced && x.ProducedAt == y.ProducedAt
		}),
	list("auditInsights.recentDeletes",
		func(s *domain.DashboardSnapshot) []domain.RecentDelete { return s.AuditInsights.RecentDeletes },
		func(x, y domain.RecentDelete) bool {
			return x.ID == y.ID && x.TableName == y.TableName && x.RecordID == y.RecordID
		}),
	list("salesPerformance.lastThreeDays",
		func(s *domain.DashboardSnapshot) []domain.DailyPerformance { return s.SalesPerformance.LastThreeDays },
		func(x, y domain.DailyPerformance) bool {
			return x.Date == y.Date && x.SalesTotal == y.SalesTotal && x.ProductionCost == y.ProductionCost
		}),
}

// Paths lists the compared field paths in evaluation order.
func Paths() []string {
	out := make([]string, len(checks))
	for i, c := range checks {
		out[i] = c.path
	}
	return out
}

// Diff returns the first path whose values differ, or "" when the snapshots
// are equivalent. A nil on either side always differs.
func Diff(prev, next *domain.DashboardSnapshot) string {
	if prev == nil || next == nil {
		return "snapshot"
	}
	if prev == next {
		return ""
	}
	for _, c := range checks {
		if !c.equal(prev, next) {
			return c.path
		}
	}
	return ""
}

func Equal(prev, next *domain.DashboardSnapshot) bool {
	return Diff(prev, next) == ""
}

// Retain returns prev when next carries no observable change, so callers can
// use pointer identity as a change signal.
func Retain(prev, next *domain.DashboardSnapshot) *domain.DashboardSnapshot {
	if Equal(prev, next) {
		return prev
	}
	return next
}
