package snapshot

import (
	"encoding/json"
	"testing"

	"bakeryconsole/backend/internal/domain"
)

func sample() *domain.DashboardSnapshot {
	change := 12.5
	return &domain.DashboardSnapshot{
		SalesToday:         domain.SalesToday{Total: 100, Count: 4, Average: 25},
		CashVsDigitalSplit: domain.CashDigitalSplit{Cash: 60, Digital: 40},
		TopProductsToday: []domain.TopProduct{
			{ProductName: "Croissant", Quantity: 3, Revenue: 60},
			{ProductName: "Baguette", Quantity: 1, Revenue: 40},
		},
		SalesByHour:             []domain.HourlySales{{Hour: 9, Count: 4, Total: 100}},
		CriticalStockAlerts:     []domain.CriticalStockAlert{{ID: 1, Name: "Flour", Unit: "kg", CurrentStock: 2, ReorderPoint: 5, Shortfall: 3}},
		RecentProductionWastage: []domain.ProductionWastage{{ProductionRunID: 7, IngredientName: "Butter", Wastage: 0.2}},
		InventoryStats:          domain.InventoryStats{TotalValue: 1000, TotalItems: 20, LowStockCount: 1},
		RecentProductionRuns:    []domain.ProductionRun{{ID: 7, QuantityProduced: 24, ProducedAt: "2024-01-01T06:00:00Z"}},
		AuditInsights: domain.AuditInsights{
			DeleteCount:   1,
			RecentDeletes: []domain.RecentDelete{{ID: 3, TableName: "sales_sale", RecordID: "9"}},
		},
		SalesPerformance: domain.SalesPerformance{
			TodayTotal:           100,
			LastThreeDays:        []domain.DailyPerformance{{Date: "2024-01-01", SalesTotal: 90, ProductionCost: 30}},
			LastThreeDaysAverage: 90,
			ChangePercent:        &change,
		},
	}
}

func deepClone(t *testing.T, s *domain.DashboardSnapshot) *domain.DashboardSnapshot {
	t.Helper()
	raw, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out domain.DashboardSnapshot
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return &out
}

func TestEqualIsReflexiveOverDeepClone(t *testing.T) {
	a := sample()
	b := deepClone(t, a)
	if !Equal(a, b) {
		t.Fatalf("expected clone to be equal, diff at %q", Diff(a, b))
	}
	if Retain(a, b) != a {
		t.Fatalf("expected the held snapshot to be retained")
	}
}

type mutation struct {
	path   string
	mutate func(s *domain.DashboardSnapshot)
}

var scalarChanges = []mutation{
	{"salesToday.total", func(s *domain.DashboardSnapshot) { s.SalesToday.Total = 100.01 }},
	{"salesToday.count", func(s *domain.DashboardSnapshot) { s.SalesToday.Count = 5 }},
	{"salesToday.average", func(s *domain.DashboardSnapshot) { s.SalesToday.Average = 20 }},
	{"cashVsDigitalSplit.cash", func(s *domain.DashboardSnapshot) { s.CashVsDigitalSplit.Cash = 61 }},
	{"cashVsDigitalSplit.digital", func(s *domain.DashboardSnapshot) { s.CashVsDigitalSplit.Digital = 41 }},
	{"inventoryStats.totalValue", func(s *domain.DashboardSnapshot) { s.InventoryStats.TotalValue = 999.5 }},
	{"inventoryStats.totalItems", func(s *domain.DashboardSnapshot) { s.InventoryStats.TotalItems = 21 }},
	{"inventoryStats.lowStockCount", func(s *domain.DashboardSnapshot) { s.InventoryStats.LowStockCount = 2 }},
	{"auditInsights.deleteCount", func(s *domain.DashboardSnapshot) { s.AuditInsights.DeleteCount = 2 }},
	{"auditInsights.updateCount", func(s *domain.DashboardSnapshot) { s.AuditInsights.UpdateCount = 1 }},
	{"auditInsights.createCount", func(s *domain.DashboardSnapshot) { s.AuditInsights.CreateCount = 1 }},
	{"salesPerformance.todayTotal", func(s *domain.DashboardSnapshot) { s.SalesPerformance.TodayTotal = 101 }},
	{"salesPerformance.lastThreeDaysAverage", func(s *domain.DashboardSnapshot) { s.SalesPerformance.LastThreeDaysAverage = 91 }},
	{"salesPerformance.changePercent", func(s *domain.DashboardSnapshot) {
		v := 12.6
		s.SalesPerformance.ChangePercent = &v
	}},
}

func TestEveryScalarLeafChangeIsReportedAtItsPath(t *testing.T) {
	covered := make(map[string]bool, len(scalarChanges))
	for _, tc := range scalarChanges {
		covered[tc.path] = true
		t.Run(tc.path, func(t *testing.T) {
			a := sample()
			b := deepClone(t, a)
			tc.mutate(b)
			if got := Diff(a, b); got != tc.path {
				t.Fatalf("expected %q, got %q", tc.path, got)
			}
			if Retain(a, b) != b {
				t.Fatalf("expected the new snapshot to be adopted")
			}
		})
	}
	for _, path := range Paths()[:14] {
		if !covered[path] {
			t.Fatalf("scalar path %q has no change case", path)
		}
	}
}

func TestEveryComparedElementFieldIsReportedAtItsList(t *testing.T) {
	cases := []mutation{
		{"topProductsToday", func(s *domain.DashboardSnapshot) { s.TopProductsToday[0].ProductName = "Pain au chocolat" }},
		{"topProductsToday", func(s *domain.DashboardSnapshot) { s.TopProductsToday[1].Quantity = 2 }},
		{"topProductsToday", func(s *domain.DashboardSnapshot) { s.TopProductsToday[1].Revenue = 41 }},
		{"salesByHour", func(s *domain.DashboardSnapshot) { s.SalesByHour[0].Hour = 10 }},
		{"salesByHour", func(s *domain.DashboardSnapshot) { s.SalesByHour[0].Total = 99 }},
		{"salesByHour", func(s *domain.DashboardSnapshot) { s.SalesByHour[0].Count = 3 }},
		{"criticalStockAlerts", func(s *domain.DashboardSnapshot) { s.CriticalStockAlerts[0].ID = 2 }},
		{"criticalStockAlerts", func(s *domain.DashboardSnapshot) { s.CriticalStockAlerts[0].CurrentStock = 1.5 }},
		{"criticalStockAlerts", func(s *domain.DashboardSnapshot) { s.CriticalStockAlerts[0].Shortfall = 3.5 }},
		{"recentProductionWastage", func(s *domain.DashboardSnapshot) { s.RecentProductionWastage[0].ProductionRunID = 8 }},
		{"recentProductionWastage", func(s *domain.DashboardSnapshot) { s.RecentProductionWastage[0].IngredientName = "Sugar" }},
		{"recentProductionWastage", func(s *domain.DashboardSnapshot) { s.RecentProductionWastage[0].Wastage = 0.3 }},
		{"recentProductionRuns", func(s *domain.DashboardSnapshot) { s.RecentProductionRuns[0].ID = 8 }},
		{"recentProductionRuns", func(s *domain.DashboardSnapshot) { s.RecentProductionRuns[0].QuantityProduced = 23 }},
		{"recentProductionRuns", func(s *domain.DashboardSnapshot) { s.RecentProductionRuns[0].ProducedAt = "2024-01-01T07:00:00Z" }},
		{"auditInsights.recentDeletes", func(s *domain.DashboardSnapshot) { s.AuditInsights.RecentDeletes[0].ID = 4 }},
		{"auditInsights.recentDeletes", func(s *domain.DashboardSnapshot) { s.AuditInsights.RecentDeletes[0].TableName = "users_user" }},
		{"auditInsights.recentDeletes", func(s *domain.DashboardSnapshot) { s.AuditInsights.RecentDeletes[0].RecordID = "10" }},
		{"salesPerformance.lastThreeDays", func(s *domain.DashboardSnapshot) { s.SalesPerformance.LastThreeDays[0].Date = "2024-01-02" }},
		{"salesPerformance.lastThreeDays", func(s *domain.DashboardSnapshot) { s.SalesPerformance.LastThreeDays[0].SalesTotal = 91 }},
		{"salesPerformance.lastThreeDays", func(s *domain.DashboardSnapshot) { s.SalesPerformance.LastThreeDays[0].ProductionCost = 31 }},
	}
	for _, tc := range cases {
		a := sample()
		b := deepClone(t, a)
		tc.mutate(b)
		if got := Diff(a, b); got != tc.path {
			t.Fatalf("expected %q, got %q", tc.path, got)
		}
	}
}

func TestListLengthChangeIsDetected(t *testing.T) {
	cases := []struct {
		path   string
		mutate func(s *domain.DashboardSnapshot)
	}{
		{"topProductsToday", func(s *domain.DashboardSnapshot) { s.TopProductsToday = s.TopProductsToday[:1] }},
		{"salesByHour", func(s *domain.DashboardSnapshot) { s.SalesByHour = append(s.SalesByHour, domain.HourlySales{Hour: 10}) }},
		{"criticalStockAlerts", func(s *domain.DashboardSnapshot) { s.CriticalStockAlerts = nil }},
		{"recentProductionWastage", func(s *domain.DashboardSnapshot) { s.RecentProductionWastage = nil }},
		{"recentProductionRuns", func(s *domain.DashboardSnapshot) { s.RecentProductionRuns = nil }},
		{"salesPerformance.lastThreeDays", func(s *domain.DashboardSnapshot) { s.SalesPerformance.LastThreeDays = nil }},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			a := sample()
			b := deepClone(t, a)
			tc.mutate(b)
			if got := Diff(a, b); got != tc.path {
				t.Fatalf("expected %q, got %q", tc.path, got)
			}
		})
	}
}

func TestExtraRecentDeleteAdoptsNext(t *testing.T) {
	a := sample()
	b := deepClone(t, a)
	b.AuditInsights.RecentDeletes = append(b.AuditInsights.RecentDeletes, domain.RecentDelete{ID: 4, TableName: "users_user", RecordID: "2"})

	if Equal(a, b) {
		t.Fatalf("expected snapshots to differ")
	}
	if Retain(a, b) != b {
		t.Fatalf("expected the second snapshot to be adopted")
	}
}

func TestChangePercentNullIsDistinctFromZero(t *testing.T) {
	a := sample()
	b := deepClone(t, a)
	zero := 0.0
	a.SalesPerformance.ChangePercent = nil
	b.SalesPerformance.ChangePercent = &zero

	if got := Diff(a, b); got != "salesPerformance.changePercent" {
		t.Fatalf("expected changePercent diff, got %q", got)
	}
}

func TestFieldsOutsideComparedSubsetAreIgnored(t *testing.T) {
	a := sample()
	b := deepClone(t, a)
	b.CriticalStockAlerts[0].Name = "Bread flour"
	b.CriticalStockAlerts[0].ReorderPoint = 8

	if !Equal(a, b) {
		t.Fatalf("expected uncompared fields to be ignored, diff at %q", Diff(a, b))
	}
}

func TestReorderIsComparedIndexByIndex(t *testing.T) {
	a := sample()
	b := deepClone(t, a)
	b.TopProductsToday[0], b.TopProductsToday[1] = b.TopProductsToday[1], b.TopProductsToday[0]

	if got := Diff(a, b); got != "topProductsToday" {
		t.Fatalf("expected a swap of distinct elements to be reported, got %q", got)
	}
}

func TestMissingSideAlwaysAdoptsNext(t *testing.T) {
	next := sample()
	if Equal(nil, next) || Equal(next, nil) {
		t.Fatalf("expected a missing side to be unequal")
	}
	if Retain(nil, next) != next {
		t.Fatalf("expected next to be adopted")
	}
	if Retain(next, nil) != nil {
		t.Fatalf("expected nil next to be adopted")
	}
}

func TestPathsAreStable(t *testing.T) {
	paths := Paths()
	if len(paths) != 21 {
		t.Fatalf("expected 21 compared paths, got %d", len(paths))
	}
	if paths[0] != "salesToday.total" || paths[len(paths)-1] != "salesPerformance.lastThreeDays" {
		t.Fatalf("unexpected path order: %v", paths)
	}
}
