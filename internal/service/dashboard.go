package service

import (
	"context"
	"net/http"

	"bakeryconsole/backend/internal/domain"
	"bakeryconsole/backend/internal/envelope"
	"bakeryconsole/backend/internal/normalize"
)

// OwnerDashboard fetches and normalizes one dashboard snapshot. It matches
// the poller's fetch signature.
func (s *Service) OwnerDashboard(ctx context.Context) (_ *domain.DashboardSnapshot, err error) {
	ctx, span := s.start(ctx, "OwnerDashboard")
	defer func() { finish(span, err) }()

	body, err := s.api.Do(ctx, http.MethodGet, "/dashboard/owner/", nil, nil)
	if err != nil {
		return nil, err
	}
	record, _ := envelope.UnwrapDetail(body)
	var rep normalize.Report
	snap := normalize.Dashboard(record, &rep)
	s.logAnomalies("OwnerDashboard", &rep)
	return snap, nil
}
