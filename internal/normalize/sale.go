package normalize

import (
	"bakeryconsole/backend/internal/domain"
	"bakeryconsole/backend/internal/envelope"
	r "bakeryconsole/backend/internal/reconcile"
)

var saleSchema = r.NewSchema(
	r.Field{Name: "id", Keys: []string{"id"}, Kind: r.Integer, Default: int64(0)},
	r.Field{Name: "totalAmount", Keys: []string{"totalAmount", "total_amount"}, Kind: r.Decimal},
	r.Field{Name: "createdAt", Keys: []string{"createdAt", "created_at"}, Kind: r.String},
	r.Field{Name: "cashier", Keys: []string{"cashier"}, Kind: r.Integer},
	r.Field{Name: "cashierName", Keys: []string{"cashierName", "cashier_name", "cashier__username"}, Kind: r.NullableString},
	r.Field{Name: "receiptIssued", Keys: []string{"receiptIssued", "receipt_issued"}, Kind: r.Bool},
	r.Field{Name: "items", Keys: []string{"items"}, Kind: r.List},
	r.Field{Name: "payments", Keys: []string{"payments"}, Kind: r.List},
)

var saleItemSchema = r.NewSchema(
	r.Field{Name: "product", Keys: []string{"product", "productId", "product_id"}, Kind: r.Integer, Default: int64(0)},
	r.Field{Name: "productName", Keys: []string{"productName", "product_name"}, Kind: r.String},
	r.Field{Name: "quantity", Keys: []string{"quantity"}, Kind: r.Integer, Default: int64(0)},
	r.Field{Name: "unitPrice", Keys: []string{"unitPrice", "unit_price"}, Kind: r.Decimal},
	r.Field{Name: "subtotal", Keys: []string{"subtotal"}, Kind: r.Decimal},
)

var salePaymentSchema = r.NewSchema(
	r.Field{Name: "methodName", Keys: []string{"method__name", "method_Name", "methodName", "method.name"}, Kind: r.String},
	r.Field{Name: "amount", Keys: []string{"amount"}, Kind: r.Decimal},
)

func Sale(raw envelope.Record, rep *Report) domain.Sale {
	return sale(raw, "sale", rep)
}

func sale(raw envelope.Record, scope string, rep *Report) domain.Sale {
	res := apply(saleSchema, raw, scope, rep)
	return domain.Sale{
		ID:            res.Int("id"),
		TotalAmount:   res.Decimal("totalAmount"),
		CreatedAt:     res.Text("createdAt"),
		Cashier:       res.IntPtr("cashier"),
		CashierName:   res.NullableString("cashierName"),
		ReceiptIssued: res.Bool("receiptIssued"),
		Items:         each(res.List("items"), scope+".items", rep, saleItem),
		Payments:      each(res.List("payments"), scope+".payments", rep, salePayment),
	}
}

func saleItem(raw envelope.Record, scope string, rep *Report) domain.SaleItem {
	res := apply(saleItemSchema, raw, scope, rep)
	return domain.SaleItem{
		Product:     res.Int("product"),
		ProductName: res.Text("productName"),
		Quantity:    res.Int("quantity"),
		UnitPrice:   res.Decimal("unitPrice"),
		Subtotal:    res.Decimal("subtotal"),
	}
}

func salePayment(raw envelope.Record, scope string, rep *Report) domain.SalePayment {
	res := apply(salePaymentSchema, raw, scope, rep)
	return domain.SalePayment{
		MethodName: res.Text("methodName"),
		Amount:     res.Decimal("amount"),
	}
}

var statementSchema = r.NewSchema(
	r.Field{Name: "cashier", Keys: []string{"cashier"}, Kind: r.Object},
	r.Field{Name: "startTime", Keys: []string{"startTime", "start_time"}, Kind: r.NullableString},
	r.Field{Name: "endTime", Keys: []string{"endTime", "end_time"}, Kind: r.NullableString},
	r.Field{Name: "summary", Keys: []string{"summary"}, Kind: r.Object},
	r.Field{Name: "paymentMethodTotals", Keys: []string{"paymentMethodTotals", "payment_method_totals"}, Kind: r.List},
	r.Field{Name: "productTotals", Keys: []string{"productTotals", "product_totals"}, Kind: r.List},
	r.Field{Name: "sales", Keys: []string{"sales"}, Kind: r.List},
)

var statementCashierSchema = r.NewSchema(
	r.Field{Name: "id", Keys: []string{"id"}, Kind: r.Integer, Default: int64(0)},
	r.Field{Name: "username", Keys: []string{"username"}, Kind: r.String},
	r.Field{Name: "fullName", Keys: []string{"fullName", "full_name"}, Kind: r.String},
	r.Field{Name: "phoneNumber", Keys: []string{"phoneNumber", "phone_number"}, Kind: r.String},
)

var statementSummarySchema = r.NewSchema(
	r.Field{Name: "saleCount", Keys: []string{"saleCount", "sale_count"}, Kind: r.Integer, Default: int64(0)},
	r.Field{Name: "totalMoneyCollected", Keys: []string{"totalMoneyCollected", "total_money_collected"}, Kind: r.Decimal},
)

var statementMethodSchema = r.NewSchema(
	r.Field{Name: "methodId", Keys: []string{"methodId", "method_id"}, Kind: r.Integer, Default: int64(0)},
	r.Field{Name: "methodName", Keys: []string{"methodName", "method_name"}, Kind: r.String},
	r.Field{Name: "amount", Keys: []string{"amount"}, Kind: r.Decimal},
	r.Field{Name: "saleCount", Keys: []string{"saleCount", "sale_count"}, Kind: r.Integer, Default: int64(0)},
)

var statementProductSchema = r.NewSchema(
	r.Field{Name: "productId", Keys: []string{"productId", "product_id"}, Kind: r.Integer, Default: int64(0)},
	r.Field{Name: "productName", Keys: []string{"productName", "product_name"}, Kind: r.String},
	r.Field{Name: "quantitySold", Keys: []string{"quantitySold", "quantity_sold"}, Kind: r.Integer, Default: int64(0)},
	r.Field{Name: "amount", Keys: []string{"amount"}, Kind: r.Decimal},
)

func CashierStatement(raw envelope.Record, rep *Report) domain.CashierStatement {
	res := apply(statementSchema, raw, "statement", rep)
	cashier := apply(statementCashierSchema, res.Object("cashier"), "statement.cashier", rep)
	summary := apply(statementSummarySchema, res.Object("summary"), "statement.summary", rep)

	return domain.CashierStatement{
		Cashier: domain.StatementCashier{
			ID:          cashier.Int("id"),
			Username:    cashier.Text("username"),
			FullName:    cashier.Text("fullName"),
			PhoneNumber: cashier.Text("phoneNumber"),
		},
		StartTime: nonEmpty(res.NullableString("startTime")),
		EndTime:   nonEmpty(res.NullableString("endTime")),
		Summary: domain.StatementSummary{
			SaleCount:           summary.Int("saleCount"),
			TotalMoneyCollected: summary.Decimal("totalMoneyCollected"),
		},
		PaymentMethodTotals: each(res.List("paymentMethodTotals"), "statement.paymentMethodTotals", rep,
			func(raw envelope.Record, scope string, rep *Report) domain.StatementMethodTotal {
				m := apply(statementMethodSchema, raw, scope, rep)
				return domain.StatementMethodTotal{
					MethodID:   m.Int("methodId"),
					MethodName: m.Text("methodName"),
					Amount:     m.Decimal("amount"),
					SaleCount:  m.Int("saleCount"),
				}
			}),
		ProductTotals: each(res.List("productTotals"), "statement.productTotals", rep,
			func(raw envelope.Record, scope string, rep *Report) domain.StatementProductTotal {
				p := apply(statementProductSchema, raw, scope, rep)
				return domain.StatementProductTotal{
					ProductID:    p.Int("productId"),
					ProductName:  p.Text("productName"),
					QuantitySold: p.Int("quantitySold"),
					Amount:       p.Decimal("amount"),
				}
			}),
		Sales: each(res.List("sales"), "statement.sales", rep, sale),
	}
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
