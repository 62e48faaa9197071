package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/priyansh-dev/attendancebackend/models"
)

// AttendanceRepository handles database operations for the attendance ledger
type AttendanceRepository struct {
	DB *gorm.DB
}

// NewAttendanceRepository creates a new instance of AttendanceRepository
func NewAttendanceRepository(db *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{DB: db}
}

// CreateIfAbsent inserts an attendance record unless one already exists for
// the (student, event) pair. The unique index on that pair plus the
// conflict-ignoring insert make the check-and-insert a single atomic
// statement, so of any number of concurrent submitters exactly one observes
// created=true. A pre-existing record reports created=false with no error.
func (r *AttendanceRepository) CreateIfAbsent(attendance *models.Attendance) (bool, error) {
	if attendance.MarkedAt == 0 {
		attendance.MarkedAt = time.Now().Unix()
	}

	result := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "event_id"}},
		DoNothing: true,
	}).Create(attendance)
	if result.Error != nil {
		return false, fmt.Errorf("failed to write attendance for student %d event %d: %w",
			attendance.StudentID, attendance.EventID, result.Error)
	}

	return result.RowsAffected > 0, nil
}

// GetByStudentAndEvent retrieves the ledger record for a (student, event) pair
func (r *AttendanceRepository) GetByStudentAndEvent(studentID, eventID uint) (*models.Attendance, error) {
	var attendance models.Attendance
	err := r.DB.Where("student_id = ? AND event_id = ?", studentID, eventID).First(&attendance).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get attendance for student %d event %d: %w", studentID, eventID, err)
	}
	return &attendance, nil
}

// ListByEventID retrieves all attendance records for an event, preloading students
func (r *AttendanceRepository) ListByEventID(eventID uint) ([]models.Attendance, error) {
	var attendances []models.Attendance
	err := r.DB.Preload("Student").Where("event_id = ?", eventID).
		Order("marked_at DESC, id DESC").Find(&attendances).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance for event %d: %w", eventID, err)
	}
	return attendances, nil
}

// ListByStudentID retrieves all attendance records for a student, preloading events
func (r *AttendanceRepository) ListByStudentID(studentID uint) ([]models.Attendance, error) {
	var attendances []models.Attendance
	err := r.DB.Preload("Event").Where("student_id = ?", studentID).
		Order("marked_at DESC, id DESC").Find(&attendances).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance for student %d: %w", studentID, err)
	}
	return attendances, nil
}
