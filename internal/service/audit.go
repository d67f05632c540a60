package service

import (
	"context"
	"fmt"
	"net/http"

	"bakeryconsole/backend/internal/domain"
	"bakeryconsole/backend/internal/envelope"
	"bakeryconsole/backend/internal/normalize"
)

func (s *Service) ListAuditLogs(ctx context.Context, params domain.AuditLogListParams) (_ domain.Page[domain.AuditLog], err error) {
	ctx, span := s.start(ctx, "ListAuditLogs")
	defer func() { finish(span, err) }()

	if params.Action != "" && !params.Action.Valid() {
		return domain.Page[domain.AuditLog]{}, fmt.Errorf("%w: unknown audit action %q", ErrInvalidRequest, params.Action)
	}
	body, err := s.api.Do(ctx, http.MethodGet, "/audit/", params.Query(), nil)
	if err != nil {
		return domain.Page[domain.AuditLog]{}, err
	}
	var rep normalize.Report
	page := normalize.Page(envelope.UnwrapList(body), &rep, normalize.AuditLog)
	s.logAnomalies("ListAuditLogs", &rep)
	return page, nil
}
