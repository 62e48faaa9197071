package repository

import (
	"github.com/priyansh-dev/attendancebackend/models"
)

// StudentRepositoryInterface defines the methods for student data operations
type StudentRepositoryInterface interface {
	Create(student *models.Student) error
	GetByID(id uint) (*models.Student, error)
	GetByStudentID(studentID string) (*models.Student, error)
	ListAll() ([]models.Student, error)
	ListActive() ([]models.Student, error)
	SetActive(id uint, active bool) error
	SetPhoto(id uint, photoPath string) error
	SetPhotoStatus(id uint, status string, photoErr *string) error
}

// EventRepositoryInterface defines the methods for event data operations.
// Events are owned externally; this service only reads them.
type EventRepositoryInterface interface {
	GetByID(id uint) (*models.Event, error)
	ListAll() ([]models.Event, error)
}

// AttendanceRepositoryInterface defines the methods for the attendance ledger
type AttendanceRepositoryInterface interface {
	// CreateIfAbsent inserts the record unless one already exists for the
	// same (student, event) pair. It reports whether a record was created;
	// an existing record is a benign no-op, not an error.
	CreateIfAbsent(attendance *models.Attendance) (bool, error)
	GetByStudentAndEvent(studentID, eventID uint) (*models.Attendance, error)
	ListByEventID(eventID uint) ([]models.Attendance, error)
	ListByStudentID(studentID uint) ([]models.Attendance, error)
}

// NotificationRepositoryInterface defines the methods for notification intents
type NotificationRepositoryInterface interface {
	Create(notification *models.Notification) error
	ListByStudentID(studentID uint, limit int) ([]models.Notification, error)
	CountUnread(studentID uint) (int64, error)
	MarkAllRead(studentID uint) error
}

// SubmissionRepositoryInterface defines the methods for group photo submissions
type SubmissionRepositoryInterface interface {
	Create(submission *models.Submission) error
	GetByUUID(uuid string) (*models.Submission, error)
	ListByEventID(eventID uint) ([]models.Submission, error)
}
