package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"bakeryconsole/backend/internal/domain"
	"bakeryconsole/backend/internal/envelope"
	"bakeryconsole/backend/internal/normalize"
)

const attendancePath = "/users/attendance/"

func (s *Service) ListAttendance(ctx context.Context, params domain.AttendanceListParams) (_ domain.Page[domain.AttendanceRecord], err error) {
	ctx, span := s.start(ctx, "ListAttendance")
	defer func() { finish(span, err) }()

	if params.Status != "" && !params.Status.Valid() {
		return domain.Page[domain.AttendanceRecord]{}, fmt.Errorf("%w: unknown attendance status %q", ErrInvalidRequest, params.Status)
	}
	body, err := s.api.Do(ctx, http.MethodGet, attendancePath, params.Query(), nil)
	if err != nil {
		return domain.Page[domain.AttendanceRecord]{}, err
	}
	var rep normalize.Report
	page := normalize.Page(envelope.UnwrapList(body), &rep, normalize.AttendanceRecord)
	s.logAnomalies("ListAttendance", &rep)
	return page, nil
}

func (s *Service) UpsertAttendance(ctx context.Context, req domain.AttendanceUpsertRequest) (_ domain.AttendanceRecord, err error) {
	ctx, span := s.start(ctx, "UpsertAttendance")
	defer func() { finish(span, err) }()

	if err := s.check(req); err != nil {
		return domain.AttendanceRecord{}, err
	}
	body, err := s.api.Do(ctx, http.MethodPost, attendancePath+"upsert/", nil, req)
	if err != nil {
		return domain.AttendanceRecord{}, err
	}
	return s.attendance("UpsertAttendance", body), nil
}

func (s *Service) UpdateAttendanceRecord(ctx context.Context, id int64, req domain.AttendanceUpdateRequest) (_ domain.AttendanceRecord, err error) {
	ctx, span := s.start(ctx, "UpdateAttendanceRecord")
	defer func() { finish(span, err) }()

	if err := requirePositive("id", id); err != nil {
		return domain.AttendanceRecord{}, err
	}
	if err := s.check(req); err != nil {
		return domain.AttendanceRecord{}, err
	}
	body, err := s.api.Do(ctx, http.MethodPatch, fmt.Sprintf("%s%d/", attendancePath, id), nil, req)
	if err != nil {
		return domain.AttendanceRecord{}, err
	}
	return s.attendance("UpdateAttendanceRecord", body), nil
}

func (s *Service) DeleteAttendanceRecord(ctx context.Context, id int64) (err error) {
	ctx, span := s.start(ctx, "DeleteAttendanceRecord")
	defer func() { finish(span, err) }()

	if err := requirePositive("id", id); err != nil {
		return err
	}
	_, err = s.api.Do(ctx, http.MethodDelete, fmt.Sprintf("%s%d/", attendancePath, id), nil, nil)
	return err
}

// AttendanceDailySummary expects date as YYYY-MM-DD.
func (s *Service) AttendanceDailySummary(ctx context.Context, date string) (_ domain.AttendanceDailySummary, err error) {
	ctx, span := s.start(ctx, "AttendanceDailySummary")
	defer func() { finish(span, err) }()

	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return domain.AttendanceDailySummary{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidRequest)
	}
	body, err := s.api.Do(ctx, http.MethodGet, attendancePath+"daily_summary/", url.Values{"date": {date}}, nil)
	if err != nil {
		return domain.AttendanceDailySummary{}, err
	}
	record, _ := envelope.UnwrapDetail(body)
	var rep normalize.Report
	summary := normalize.AttendanceDailySummary(record, &rep)
	s.logAnomalies("AttendanceDailySummary", &rep)
	return summary, nil
}

func (s *Service) attendance(op string, body any) domain.AttendanceRecord {
	record, _ := envelope.UnwrapDetail(body)
	var rep normalize.Report
	out := normalize.AttendanceRecord(record, &rep)
	s.logAnomalies(op, &rep)
	return out
}
