package domain

type SalesToday struct {
	Total   float64 `json:"total"`
	Count   int64   `json:"count"`
	Average float64 `json:"average"`
}

type CashDigitalSplit struct {
	Cash    float64 `json:"cash"`
	Digital float64 `json:"digital"`
}

type TopProduct struct {
	ProductName string  `json:"productName"`
	Quantity    int64   `json:"quantity"`
	Revenue     float64 `json:"revenue"`
}

type HourlySales struct {
	Hour  int64   `json:"hour"`
	Count int64   `json:"count"`
	Total float64 `json:"total"`
}

type CriticalStockAlert struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Unit         string  `json:"unit"`
	CurrentStock float64 `json:"currentStock"`
	ReorderPoint float64 `json:"reorderPoint"`
	Shortfall    float64 `json:"shortfall"`
}

type ProductionWastage struct {
	ProductionRunID  int64   `json:"productionRunId"`
	ProducedAt       string  `json:"producedAt"`
	ProducedItemName *string `json:"producedItemName"`
	IngredientName   string  `json:"ingredientName"`
	Unit             string  `json:"unit"`
	Wastage          float64 `json:"wastage"`
}

type InventoryStats struct {
	TotalValue    float64 `json:"totalValue"`
	TotalItems    int64   `json:"totalItems"`
	LowStockCount int64   `json:"lowStockCount"`
}

type ProductionRun struct {
	ID               int64   `json:"id"`
	ItemName         *string `json:"itemName"`
	QuantityProduced float64 `json:"quantityProduced"`
	ProducedAt       string  `json:"producedAt"`
	ChefName         *string `json:"chefName"`
}

type RecentDelete struct {
	ID        int64  `json:"id"`
	TableName string `json:"tableName"`
	RecordID  string `json:"recordId"`
	ActorName string `json:"actorName"`
	Timestamp string `json:"timestamp"`
}

type AuditInsights struct {
	DeleteCount   int64          `json:"deleteCount"`
	UpdateCount   int64          `json:"updateCount"`
	CreateCount   int64          `json:"createCount"`
	RecentDeletes []RecentDelete `json:"recentDeletes"`
}

type DailyPerformance struct {
	Date           string  `json:"date"`
	SalesTotal     float64 `json:"salesTotal"`
	ProductionCost float64 `json:"productionCost"`
}

// SalesPerformance.ChangePercent is nil when the backend had no baseline to
// compare against, which is not the same as a zero change.
type SalesPerformance struct {
	TodayTotal           float64            `json:"todayTotal"`
	LastThreeDays        []DailyPerformance `json:"lastThreeDays"`
	LastThreeDaysAverage float64            `json:"lastThreeDaysAverage"`
	ChangePercent        *float64           `json:"changePercent"`
}

// DashboardSnapshot is the owner dashboard as one aggregate value. Every
// section is always populated; lists are empty rather than nil.
type DashboardSnapshot struct {
	SalesToday              SalesToday           `json:"salesToday"`
	CashVsDigitalSplit      CashDigitalSplit     `json:"cashVsDigitalSplit"`
	TopProductsToday        []TopProduct         `json:"topProductsToday"`
	SalesByHour             []HourlySales        `json:"salesByHour"`
	CriticalStockAlerts     []CriticalStockAlert `json:"criticalStockAlerts"`
	RecentProductionWastage []ProductionWastage  `json:"recentProductionWastage"`
	InventoryStats          InventoryStats       `json:"inventoryStats"`
	RecentProductionRuns    []ProductionRun      `json:"recentProductionRuns"`
	AuditInsights           AuditInsights        `json:"auditInsights"`
	SalesPerformance        SalesPerformance     `json:"salesPerformance"`
}
