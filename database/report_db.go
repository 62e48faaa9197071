package database

import (
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// AttendanceReportFilter narrows the attendance report. Nil fields are not
// applied.
type AttendanceReportFilter struct {
	EventID   *uint
	StudentID *uint // database ID, not the external student identifier
	IsManual  *bool
	Since     *int64 // inclusive, Unix timestamp
	Until     *int64 // exclusive, Unix timestamp
	Limit     uint64
}

// AttendanceReportRow is one denormalized attendance record for reporting.
type AttendanceReportRow struct {
	AttendanceID    uint    `json:"attendance_id"`
	StudentID       string  `json:"student_id"`
	StudentName     string  `json:"student_name"`
	EventID         uint    `json:"event_id"`
	EventTitle      string  `json:"event_title"`
	MarkedAt        int64   `json:"marked_at"`
	IsManual        bool    `json:"is_manual"`
	Notes           *string `json:"notes,omitempty"`
	MarkedByName    string  `json:"marked_by_name"`
	MarkedByStudent string  `json:"marked_by_student_id"`
}

// AttendanceReport returns attendance records joined with student and event
// details, newest first, honoring the given filters.
func AttendanceReport(db *sql.DB, filter AttendanceReportFilter) ([]AttendanceReportRow, error) {
	builder := psql.
		Select(
			"a.id", "s.student_id", "s.name",
			"e.id", "e.title",
			"a.marked_at", "a.is_manual", "a.notes",
			"m.name", "m.student_id",
		).
		From("attendances a").
		Join("students s ON s.id = a.student_id").
		Join("events e ON e.id = a.event_id").
		Join("students m ON m.id = a.marked_by_id").
		OrderBy("a.marked_at DESC", "a.id DESC")

	if filter.EventID != nil {
		builder = builder.Where(sq.Eq{"a.event_id": *filter.EventID})
	}
	if filter.StudentID != nil {
		builder = builder.Where(sq.Eq{"a.student_id": *filter.StudentID})
	}
	if filter.IsManual != nil {
		builder = builder.Where(sq.Eq{"a.is_manual": *filter.IsManual})
	}
	if filter.Since != nil {
		builder = builder.Where(sq.GtOrEq{"a.marked_at": *filter.Since})
	}
	if filter.Until != nil {
		builder = builder.Where(sq.Lt{"a.marked_at": *filter.Until})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build attendance report query: %w", err)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to run attendance report query: %w", err)
	}
	defer rows.Close()

	report := []AttendanceReportRow{}
	for rows.Next() {
		var row AttendanceReportRow
		err := rows.Scan(
			&row.AttendanceID, &row.StudentID, &row.StudentName,
			&row.EventID, &row.EventTitle,
			&row.MarkedAt, &row.IsManual, &row.Notes,
			&row.MarkedByName, &row.MarkedByStudent,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance report row: %w", err)
		}
		report = append(report, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("attendance report iteration failed: %w", err)
	}

	return report, nil
}

// EventAttendanceCount returns the number of attendance records for one event.
func EventAttendanceCount(db *sql.DB, eventID uint) (int64, error) {
	query, args, err := psql.
		Select("COUNT(*)").
		From("attendances").
		Where(sq.Eq{"event_id": eventID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build attendance count query: %w", err)
	}

	var count int64
	if err := db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count attendance for event %d: %w", eventID, err)
	}
	return count, nil
}
