package normalize

import (
	"bakeryconsole/backend/internal/domain"
	"bakeryconsole/backend/internal/envelope"
	r "bakeryconsole/backend/internal/reconcile"
)

func num(name string, keys ...string) r.Field {
	return r.Field{Name: name, Keys: keys, Kind: r.Number, Default: float64(0)}
}

func integer(name string, keys ...string) r.Field {
	return r.Field{Name: name, Keys: keys, Kind: r.Integer, Default: int64(0)}
}

func text(name string, keys ...string) r.Field {
	return r.Field{Name: name, Keys: keys, Kind: r.String}
}

var dashboardSchema = r.NewSchema(
	r.Field{Name: "salesToday", Keys: []string{"salesToday", "sales_today"}, Kind: r.Object},
	r.Field{Name: "cashVsDigitalSplit", Keys: []string{"cashVsDigitalSplit", "cash_vs_digital_split"}, Kind: r.Object},
	r.Field{Name: "topProductsToday", Keys: []string{"topProductsToday", "top_products_today"}, Kind: r.List},
	r.Field{Name: "salesByHour", Keys: []string{"salesByHour", "sales_by_hour"}, Kind: r.List},
	r.Field{Name: "criticalStockAlerts", Keys: []string{"criticalStockAlerts", "critical_stock_alerts"}, Kind: r.List},
	r.Field{Name: "recentProductionWastage", Keys: []string{"recentProductionWastage", "recent_production_wastage"}, Kind: r.List},
	r.Field{Name: "inventoryStats", Keys: []string{"inventoryStats", "inventory_stats"}, Kind: r.Object},
	r.Field{Name: "recentProductionRuns", Keys: []string{"recentProductionRuns", "recent_production_runs"}, Kind: r.List},
	r.Field{Name: "auditInsights", Keys: []string{"auditInsights", "audit_insights"}, Kind: r.Object},
	r.Field{Name: "salesPerformance", Keys: []string{"salesPerformance", "sales_performance"}, Kind: r.Object},
)

var (
	salesTodaySchema = r.NewSchema(
		num("total", "total"),
		integer("count", "count"),
		num("average", "average"),
	)
	splitSchema = r.NewSchema(
		num("cash", "cash"),
		num("digital", "digital"),
	)
	topProductSchema = r.NewSchema(
		text("productName", "productName", "product_name"),
		integer("quantity", "quantity"),
		num("revenue", "revenue"),
	)
	hourlySchema = r.NewSchema(
		integer("hour", "hour"),
		integer("count", "count"),
		num("total", "total"),
	)
	criticalStockSchema = r.NewSchema(
		integer("id", "id"),
		text("name", "name"),
		text("unit", "unit"),
		num("currentStock", "currentStock", "current_stock"),
		num("reorderPoint", "reorderPoint", "reorder_point"),
		num("shortfall", "shortfall"),
	)
	wastageSchema = r.NewSchema(
		integer("productionRunId", "productionRunId", "production_run_id"),
		text("producedAt", "producedAt", "produced_at"),
		r.Field{Name: "producedItemName", Keys: []string{"producedItemName", "produced_item_name"}, Kind: r.NullableString},
		text("ingredientName", "ingredientName", "ingredient_name"),
		text("unit", "unit"),
		num("wastage", "wastage"),
	)
	inventoryStatsSchema = r.NewSchema(
		num("totalValue", "totalValue", "total_value"),
		integer("totalItems", "totalItems", "total_items"),
		integer("lowStockCount", "lowStockCount", "low_stock_count"),
	)
	productionRunSchema = r.NewSchema(
		integer("id", "id"),
		r.Field{Name: "itemName", Keys: []string{"itemName", "item_name"}, Kind: r.NullableString},
		num("quantityProduced", "quantityProduced", "quantity_produced"),
		text("producedAt", "producedAt", "produced_at"),
		r.Field{Name: "chefName", Keys: []string{"chefName", "chef_name"}, Kind: r.NullableString},
	)
	auditInsightsSchema = r.NewSchema(
		integer("deleteCount", "deleteCount", "delete_count"),
		integer("updateCount", "updateCount", "update_count"),
		integer("createCount", "createCount", "create_count"),
		r.Field{Name: "recentDeletes", Keys: []string{"recentDeletes", "recent_deletes"}, Kind: r.List},
	)
	recentDeleteSchema = r.NewSchema(
		integer("id", "id"),
		text("tableName", "tableName", "table_name"),
		text("recordId", "recordId", "record_id"),
		text("actorName", "actorName", "actor_name"),
		text("timestamp", "timestamp"),
	)
	salesPerformanceSchema = r.NewSchema(
		num("todayTotal", "todayTotal", "today_total"),
		r.Field{Name: "lastThreeDays", Keys: []string{"lastThreeDays", "last_three_days"}, Kind: r.List},
		num("lastThreeDaysAverage", "lastThreeDaysAverage", "last_three_days_average"),
		r.Field{Name: "changePercent", Keys: []string{"changePercent", "change_percent"}, Kind: r.Number},
	)
	dailyPerformanceSchema = r.NewSchema(
		text("date", "date"),
		num("salesTotal", "salesTotal", "sales_total"),
		num("productionCost", "productionCost", "production_cost"),
	)
)

// Dashboard builds a fresh snapshot on every call, so two calls over the same
// record never share memory.
func Dashboard(raw envelope.Record, rep *Report) *domain.DashboardSnapshot {
	res := apply(dashboardSchema, raw, "dashboard", rep)

	today := apply(salesTodaySchema, res.Object("salesToday"), "salesToday", rep)
	split := apply(splitSchema, res.Object("cashVsDigitalSplit"), "cashVsDigitalSplit", rep)
	stats := apply(inventoryStatsSchema, res.Object("inventoryStats"), "inventoryStats", rep)
	insights := apply(auditInsightsSchema, res.Object("auditInsights"), "auditInsights", rep)
	perf := apply(salesPerformanceSchema, res.Object("salesPerformance"), "salesPerformance", rep)

	return &domain.DashboardSnapshot{
		SalesToday: domain.SalesToday{
			Total:   today.Float("total"),
			Count:   today.Int("count"),
			Average: today.Float("average"),
		},
		CashVsDigitalSplit: domain.CashDigitalSplit{
			Cash:    split.Float("cash"),
			Digital: split.Float("digital"),
		},
		TopProductsToday:        each(res.List("topProductsToday"), "topProductsToday", rep, topProduct),
		SalesByHour:             each(res.List("salesByHour"), "salesByHour", rep, hourlySales),
		CriticalStockAlerts:     each(res.List("criticalStockAlerts"), "criticalStockAlerts", rep, criticalStock),
		RecentProductionWastage: each(res.List("recentProductionWastage"), "recentProductionWastage", rep, wastage),
		InventoryStats: domain.InventoryStats{
			TotalValue:    stats.Float("totalValue"),
			TotalItems:    stats.Int("totalItems"),
			LowStockCount: stats.Int("lowStockCount"),
		},
		RecentProductionRuns: each(res.List("recentProductionRuns"), "recentProductionRuns", rep, productionRun),
		AuditInsights: domain.AuditInsights{
			DeleteCount:   insights.Int("deleteCount"),
			UpdateCount:   insights.Int("updateCount"),
			CreateCount:   insights.Int("createCount"),
			RecentDeletes: each(insights.List("recentDeletes"), "auditInsights.recentDeletes", rep, recentDelete),
		},
		SalesPerformance: domain.SalesPerformance{
			TodayTotal:           perf.Float("todayTotal"),
			LastThreeDays:        each(perf.List("lastThreeDays"), "salesPerformance.lastThreeDays", rep, dailyPerformance),
			LastThreeDaysAverage: perf.Float("lastThreeDaysAverage"),
			ChangePercent:        perf.FloatPtr("changePercent"),
		},
	}
}

func topProduct(raw envelope.Record, scope string, rep *Report) domain.TopProduct {
	res := apply(topProductSchema, raw, scope, rep)
	return domain.TopProduct{
		ProductName: res.Text("productName"),
		Quantity:    res.Int("quantity"),
		Revenue:     res.Float("revenue"),
	}
}

func hourlySales(raw envelope.Record, scope string, rep *Report) domain.HourlySales {
	res := apply(hourlySchema, raw, scope, rep)
	return domain.HourlySales{
		Hour:  res.Int("hour"),
		Count: res.Int("count"),
		Total: res.Float("total"),
	}
}

func criticalStock(raw envelope.Record, scope string, rep *Report) domain.CriticalStockAlert {
	res := apply(criticalStockSchema, raw, scope, rep)
	return domain.CriticalStockAlert{
		ID:           res.Int("id"),
		Name:         res.Text("name"),
		Unit:         res.Text("unit"),
		CurrentStock: res.Float("currentStock"),
		ReorderPoint: res.Float("reorderPoint"),
		Shortfall:    res.Float("shortfall"),
	}
}

func wastage(raw envelope.Record, scope string, rep *Report) domain.ProductionWastage {
	res := apply(wastageSchema, raw, scope, rep)
	return domain.ProductionWastage{
		ProductionRunID:  res.Int("productionRunId"),
		ProducedAt:       res.Text("producedAt"),
		ProducedItemName: res.NullableString("producedItemName"),
		IngredientName:   res.Text("ingredientName"),
		Unit:             res.Text("unit"),
		Wastage:          res.Float("wastage"),
	}
}

func productionRun(raw envelope.Record, scope string, rep *Report) domain.ProductionRun {
	res := apply(productionRunSchema, raw, scope, rep)
	return domain.ProductionRun{
		ID:               res.Int("id"),
		ItemName:         res.NullableString("itemName"),
		QuantityProduced: res.Float("quantityProduced"),
		ProducedAt:       res.Text("producedAt"),
		ChefName:         res.NullableString("chefName"),
	}
}

func recentDelete(raw envelope.Record, scope string, rep *Report) domain.RecentDelete {
	res := apply(recentDeleteSchema, raw, scope, rep)
	return domain.RecentDelete{
		ID:        res.Int("id"),
		TableName: res.Text("tableName"),
		RecordID:  res.Text("recordId"),
		ActorName: res.Text("actorName"),
		Timestamp: res.Text("timestamp"),
	}
}

func dailyPerformance(raw envelope.Record, scope string, rep *Report) domain.DailyPerformance {
	res := apply(dailyPerformanceSchema, raw, scope, rep)
	return domain.DailyPerformance{
		Date:           res.Text("date"),
		SalesTotal:     res.Float("salesTotal"),
		ProductionCost: res.Float("productionCost"),
	}
}
