package service

import (
	"context"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/attribute"

	"bakeryconsole/backend/internal/domain"
	"bakeryconsole/backend/internal/envelope"
	"bakeryconsole/backend/internal/normalize"
)

const salesPath = "/sales/sales/"

func (s *Service) ListSales(ctx context.Context, params domain.SaleListParams) (_ domain.Page[domain.Sale], err error) {
	ctx, span := s.start(ctx, "ListSales")
	defer func() { finish(span, err) }()

	body, err := s.api.Do(ctx, http.MethodGet, salesPath, params.Query(), nil)
	if err != nil {
		return domain.Page[domain.Sale]{}, err
	}
	var rep normalize.Report
	page := normalize.Page(envelope.UnwrapList(body), &rep, normalize.Sale)
	s.logAnomalies("ListSales", &rep)
	span.SetAttributes(attribute.Int("sales.count", len(page.Results)))
	return page, nil
}

func (s *Service) GetSale(ctx context.Context, id int64) (_ domain.Sale, err error) {
	ctx, span := s.start(ctx, "GetSale")
	defer func() { finish(span, err) }()

	if err := requirePositive("id", id); err != nil {
		return domain.Sale{}, err
	}
	body, err := s.api.Do(ctx, http.MethodGet, fmt.Sprintf("%s%d/", salesPath, id), nil, nil)
	if err != nil {
		return domain.Sale{}, err
	}
	return s.sale("GetSale", body), nil
}

func (s *Service) CreateSale(ctx context.Context, req domain.CreateSaleRequest) (_ domain.Sale, err error) {
	ctx, span := s.start(ctx, "CreateSale")
	defer func() { finish(span, err) }()

	if err := s.check(req); err != nil {
		return domain.Sale{}, err
	}
	body, err := s.api.Do(ctx, http.MethodPost, salesPath, nil, req)
	if err != nil {
		return domain.Sale{}, err
	}
	sale := s.sale("CreateSale", body)
	s.log.WithField("sale_id", sale.ID).Info("sale created")
	return sale, nil
}

func (s *Service) DeleteSale(ctx context.Context, id int64) (err error) {
	ctx, span := s.start(ctx, "DeleteSale")
	defer func() { finish(span, err) }()

	if err := requirePositive("id", id); err != nil {
		return err
	}
	if _, err := s.api.Do(ctx, http.MethodDelete, fmt.Sprintf("%s%d/", salesPath, id), nil, nil); err != nil {
		return err
	}
	s.log.WithField("sale_id", id).Info("sale deleted")
	return nil
}

func (s *Service) CashierStatement(ctx context.Context, params domain.CashierStatementParams) (_ domain.CashierStatement, err error) {
	ctx, span := s.start(ctx, "CashierStatement")
	defer func() { finish(span, err) }()

	if err := s.check(params); err != nil {
		return domain.CashierStatement{}, err
	}
	body, err := s.api.Do(ctx, http.MethodGet, salesPath+"cashier-statement/", params.Query(), nil)
	if err != nil {
		return domain.CashierStatement{}, err
	}
	record, _ := envelope.UnwrapDetail(body)
	var rep normalize.Report
	statement := normalize.CashierStatement(record, &rep)
	s.logAnomalies("CashierStatement", &rep)
	return statement, nil
}

func (s *Service) sale(op string, body any) domain.Sale {
	record, _ := envelope.UnwrapDetail(body)
	var rep normalize.Report
	sale := normalize.Sale(record, &rep)
	s.logAnomalies(op, &rep)
	return sale
}
