package domain

import (
	"net/url"
	"strconv"
)

type SaleListParams struct {
	Page          int    `form:"page"`
	PageSize      int    `form:"page_size"`
	Cashier       int64  `form:"cashier"`
	StartDate     string `form:"start_date"`
	EndDate       string `form:"end_date"`
	ReceiptIssued *bool  `form:"receipt_issued"`
}

func (p SaleListParams) Query() url.Values {
	q := url.Values{}
	setPositive(q, "page", int64(p.Page))
	setPositive(q, "page_size", int64(p.PageSize))
	setPositive(q, "cashier", p.Cashier)
	setString(q, "start_date", p.StartDate)
	setString(q, "end_date", p.EndDate)
	if p.ReceiptIssued != nil {
		q.Set("receipt_issued", strconv.FormatBool(*p.ReceiptIssued))
	}
	return q
}

type AttendanceListParams struct {
	Page       int              `form:"page"`
	PageSize   int              `form:"page_size"`
	EmployeeID int64            `form:"employee"`
	Status     AttendanceStatus `form:"status"`
	Ordering   string           `form:"ordering"`
}

func (p AttendanceListParams) Query() url.Values {
	q := url.Values{}
	setPositive(q, "page", int64(p.Page))
	setPositive(q, "page_size", int64(p.PageSize))
	setPositive(q, "assignment__employee", p.EmployeeID)
	setString(q, "status", string(p.Status))
	setString(q, "ordering", p.Ordering)
	return q
}

type AuditLogListParams struct {
	Page      int         `form:"page"`
	PageSize  int         `form:"page_size"`
	Search    string      `form:"search"`
	Action    AuditAction `form:"action"`
	TableName string      `form:"table_name"`
	Actor     int64       `form:"actor"`
	Ordering  string      `form:"ordering"`
	StartDate string      `form:"start_date"`
}

func (p AuditLogListParams) Query() url.Values {
	q := url.Values{}
	setPositive(q, "page", int64(p.Page))
	setPositive(q, "page_size", int64(p.PageSize))
	setString(q, "search", p.Search)
	setString(q, "action", string(p.Action))
	setString(q, "table_name", p.TableName)
	setPositive(q, "actor", p.Actor)
	setString(q, "ordering", p.Ordering)
	setString(q, "start_date", p.StartDate)
	return q
}

type CashierStatementParams struct {
	Cashier   int64  `form:"cashier" validate:"required,gt=0"`
	StartTime string `form:"start_time"`
	EndTime   string `form:"end_time"`
}

func (p CashierStatementParams) Query() url.Values {
	q := url.Values{}
	q.Set("cashier", strconv.FormatInt(p.Cashier, 10))
	setString(q, "start_time", p.StartTime)
	setString(q, "end_time", p.EndTime)
	return q
}

type SaleItemInput struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int64 `json:"quantity" validate:"required,gt=0"`
}

type SalePaymentInput struct {
	MethodID int64  `json:"method_id" validate:"required,gt=0"`
	Amount   string `json:"amount" validate:"required,numeric"`
}

// CreateSaleRequest is already in wire field naming.
type CreateSaleRequest struct {
	ItemsInput    []SaleItemInput    `json:"items_input" validate:"required,min=1,dive"`
	PaymentsInput []SalePaymentInput `json:"payments_input" validate:"required,min=1,dive"`
	ReceiptIssued *bool              `json:"receipt_issued,omitempty"`
}

type AttendanceUpsertRequest struct {
	EmployeeID      int64            `json:"employee" validate:"required,gt=0"`
	ShiftID         int64            `json:"shift" validate:"required,gt=0"`
	ShiftDate       string           `json:"shift_date_input" validate:"required,datetime=2006-01-02"`
	Status          AttendanceStatus `json:"status" validate:"required,oneof=present late absent overtime"`
	LateMinutes     *int64           `json:"late_minutes,omitempty" validate:"omitempty,gte=0"`
	OvertimeMinutes *int64           `json:"overtime_minutes,omitempty" validate:"omitempty,gte=0"`
	Notes           *string          `json:"notes,omitempty"`
}

// AttendanceUpdateRequest is a partial update; nil fields are not sent.
type AttendanceUpdateRequest struct {
	Status          *AttendanceStatus `json:"status,omitempty" validate:"omitempty,oneof=present late absent overtime"`
	LateMinutes     *int64            `json:"late_minutes,omitempty" validate:"omitempty,gte=0"`
	OvertimeMinutes *int64            `json:"overtime_minutes,omitempty" validate:"omitempty,gte=0"`
	Notes           *string           `json:"notes,omitempty"`
}

func setPositive(q url.Values, key string, v int64) {
	if v > 0 {
		q.Set(key, strconv.FormatInt(v, 10))
	}
}

func setString(q url.Values, key string, v string) {
	if v != "" {
		q.Set(key, v)
	}
}
