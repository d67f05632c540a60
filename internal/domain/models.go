package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Page is the list shape every domain list operation returns.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

type SaleItem struct {
	Product     int64           `json:"product"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type SalePayment struct {
	MethodName string          `json:"method__name"`
	Amount     decimal.Decimal `json:"amount"`
}

type Sale struct {
	ID            int64           `json:"id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	CreatedAt     string          `json:"created_at"`
	Cashier       *int64          `json:"cashier"`
	CashierName   *string         `json:"cashier_name"`
	ReceiptIssued bool            `json:"receipt_issued"`
	Items         []SaleItem      `json:"items"`
	Payments      []SalePayment   `json:"payments"`
}

type StatementCashier struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
}

type StatementSummary struct {
	SaleCount           int64           `json:"saleCount"`
	TotalMoneyCollected decimal.Decimal `json:"totalMoneyCollected"`
}

type StatementMethodTotal struct {
	MethodID   int64           `json:"methodId"`
	MethodName string          `json:"methodName"`
	Amount     decimal.Decimal `json:"amount"`
	SaleCount  int64           `json:"saleCount"`
}

type StatementProductTotal struct {
	ProductID    int64           `json:"productId"`
	ProductName  string          `json:"productName"`
	QuantitySold int64           `json:"quantitySold"`
	Amount       decimal.Decimal `json:"amount"`
}

type CashierStatement struct {
	Cashier             StatementCashier        `json:"cashier"`
	StartTime           *string                 `json:"startTime"`
	EndTime             *string                 `json:"endTime"`
	Summary             StatementSummary        `json:"summary"`
	PaymentMethodTotals []StatementMethodTotal  `json:"paymentMethodTotals"`
	ProductTotals       []StatementProductTotal `json:"productTotals"`
	Sales               []Sale                  `json:"sales"`
}

type AttendanceStatus string

const (
	AttendancePresent  AttendanceStatus = "present"
	AttendanceLate     AttendanceStatus = "late"
	AttendanceAbsent   AttendanceStatus = "absent"
	AttendanceOvertime AttendanceStatus = "overtime"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceLate, AttendanceAbsent, AttendanceOvertime:
		return true
	}
	return false
}

type AttendanceRecord struct {
	ID              int64            `json:"id"`
	Assignment      int64            `json:"assignment"`
	EmployeeName    *string          `json:"employeeName,omitempty"`
	ShiftName       *string          `json:"shiftName,omitempty"`
	ShiftDate       string           `json:"shiftDate"`
	Status          AttendanceStatus `json:"status"`
	LateMinutes     int64            `json:"lateMinutes"`
	OvertimeMinutes int64            `json:"overtimeMinutes"`
	RecordedAt      *string          `json:"recordedAt,omitempty"`
	Notes           *string          `json:"notes"`
}

type AttendanceStatusBreakdown struct {
	Status        AttendanceStatus `json:"status"`
	Count         int64            `json:"count"`
	TotalLate     *int64           `json:"totalLate,omitempty"`
	TotalOvertime *int64           `json:"totalOvertime,omitempty"`
}

type AttendanceDailySummary struct {
	Date                  string                      `json:"date"`
	TotalRecords          int64                       `json:"totalRecords"`
	TotalScheduledMinutes int64                       `json:"totalScheduledMinutes"`
	TotalWorkedMinutes    int64                       `json:"totalWorkedMinutes"`
	StatusBreakdown       []AttendanceStatusBreakdown `json:"statusBreakdown"`
}

type AuditAction string

const (
	AuditCreate AuditAction = "CREATE"
	AuditUpdate AuditAction = "UPDATE"
	AuditDelete AuditAction = "DELETE"
)

func (a AuditAction) Valid() bool {
	switch a {
	case AuditCreate, AuditUpdate, AuditDelete:
		return true
	}
	return false
}

// AuditLog.RecordID is a string because the backend encodes composite keys
// into it. OldValue and NewValue are opaque snapshots of the audited row.
type AuditLog struct {
	ID            int64       `json:"id"`
	Actor         *int64      `json:"actor"`
	ActorName     *string     `json:"actorName"`
	ActorFullName *string     `json:"actorFullName"`
	IPAddress     *string     `json:"ipAddress"`
	Timestamp     string      `json:"timestamp"`
	Action        AuditAction `json:"action"`
	TableName     string      `json:"tableName"`
	RecordID      string      `json:"recordId"`
	OldValue      any         `json:"oldValue,omitempty"`
	NewValue      any         `json:"newValue,omitempty"`
}

// SnapshotRecord is one archived dashboard snapshot that the polling gate
// adopted as a change.
type SnapshotRecord struct {
	ID           string             `json:"id"`
	Version      uint64             `json:"version"`
	ChangedField string             `json:"changed_field"`
	CapturedAt   time.Time          `json:"captured_at"`
	Snapshot     *DashboardSnapshot `json:"snapshot"`
}
