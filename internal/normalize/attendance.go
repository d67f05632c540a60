package normalize

import (
	"fmt"

	"bakeryconsole/backend/internal/domain"
	"bakeryconsole/backend/internal/envelope"
	r "bakeryconsole/backend/internal/reconcile"
)

var attendanceSchema = r.NewSchema(
	r.Field{Name: "id", Keys: []string{"id"}, Kind: r.Integer, Default: int64(0)},
	r.Field{Name: "assignment", Keys: []string{"assignment"}, Kind: r.Integer, Default: int64(0)},
	r.Field{Name: "employeeName", Keys: []string{"employeeName", "employee_name"}, Kind: r.NullableString},
	r.Field{Name: "shiftName", Keys: []string{"shiftName", "shift_name"}, Kind: r.NullableString},
	r.Field{Name: "shiftDate", Keys: []string{"shiftDate", "shift_date"}, Kind: r.String},
	r.Field{Name: "status", Keys: []string{"status"}, Kind: r.String},
	r.Field{Name: "lateMinutes", Keys: []string{"lateMinutes", "late_minutes"}, Kind: r.Integer, Default: int64(0)},
	r.Field{Name: "overtimeMinutes", Keys: []string{"overtimeMinutes", "overtime_minutes"}, Kind: r.Integer, Default: int64(0)},
	r.Field{Name: "recordedAt", Keys: []string{"recordedAt", "recorded_at"}, Kind: r.NullableString},
	r.Field{Name: "notes", Keys: []string{"notes"}, Kind: r.NullableString},
)

var dailySummarySchema = r.NewSchema(
	r.Field{Name: "date", Keys: []string{"date"}, Kind: r.String},
	r.Field{Name: "totalRecords", Keys: []string{"totalRecords", "total_records"}, Kind: r.Integer, Default: int64(0)},
	r.Field{Name: "totalScheduledMinutes", Keys: []string{"totalScheduledMinutes", "total_scheduled_minutes"}, Kind: r.Integer, Default: int64(0)},
	r.Field{Name: "totalWorkedMinutes", Keys: []string{"totalWorkedMinutes", "total_worked_minutes"}, Kind: r.Integer, Default: int64(0)},
	r.Field{Name: "statusBreakdown", Keys: []string{"statusBreakdown", "status_breakdown"}, Kind: r.List},
)

var statusBreakdownSchema = r.NewSchema(
	r.Field{Name: "status", Keys: []string{"status"}, Kind: r.String},
	r.Field{Name: "count", Keys: []string{"count"}, Kind: r.Integer, Default: int64(0)},
	r.Field{Name: "totalLate", Keys: []string{"totalLate", "total_late"}, Kind: r.Integer},
	r.Field{Name: "totalOvertime", Keys: []string{"totalOvertime", "total_overtime"}, Kind: r.Integer},
)

func AttendanceRecord(raw envelope.Record, rep *Report) domain.AttendanceRecord {
	res := apply(attendanceSchema, raw, "attendance", rep)
	return domain.AttendanceRecord{
		ID:              res.Int("id"),
		Assignment:      res.Int("assignment"),
		EmployeeName:    res.NullableString("employeeName"),
		ShiftName:       res.NullableString("shiftName"),
		ShiftDate:       res.Text("shiftDate"),
		Status:          attendanceStatus(res.Text("status"), "attendance", rep),
		LateMinutes:     res.Int("lateMinutes"),
		OvertimeMinutes: res.Int("overtimeMinutes"),
		RecordedAt:      res.NullableString("recordedAt"),
		Notes:           res.NullableString("notes"),
	}
}

func AttendanceDailySummary(raw envelope.Record, rep *Report) domain.AttendanceDailySummary {
	res := apply(dailySummarySchema, raw, "attendanceSummary", rep)
	return domain.AttendanceDailySummary{
		Date:                  res.Text("date"),
		TotalRecords:          res.Int("totalRecords"),
		TotalScheduledMinutes: res.Int("totalScheduledMinutes"),
		TotalWorkedMinutes:    res.Int("totalWorkedMinutes"),
		StatusBreakdown: each(res.List("statusBreakdown"), "attendanceSummary.statusBreakdown", rep,
			func(raw envelope.Record, scope string, rep *Report) domain.AttendanceStatusBreakdown {
				b := apply(statusBreakdownSchema, raw, scope, rep)
				return domain.AttendanceStatusBreakdown{
					Status:        attendanceStatus(b.Text("status"), scope, rep),
					Count:         b.Int("count"),
					TotalLate:     b.IntPtr("totalLate"),
					TotalOvertime: b.IntPtr("totalOvertime"),
				}
			}),
	}
}

// attendanceStatus keeps unknown values as-is so a newer backend status still
// reaches the caller.
func attendanceStatus(v, scope string, rep *Report) domain.AttendanceStatus {
	status := domain.AttendanceStatus(v)
	if !status.Valid() {
		rep.add(scope, []string{fmt.Sprintf("status: unknown value %q", v)})
	}
	return status
}
