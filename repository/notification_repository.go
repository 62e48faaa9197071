package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/priyansh-dev/attendancebackend/models"
)

// NotificationRepository handles database operations for notification intents
type NotificationRepository struct {
	DB *gorm.DB
}

// NewNotificationRepository creates a new instance of NotificationRepository
func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

// Create persists a new notification intent
func (r *NotificationRepository) Create(notification *models.Notification) error {
	if notification.CreatedAt == 0 {
		notification.CreatedAt = time.Now().Unix()
	}
	if err := r.DB.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification for student %d: %w", notification.StudentID, err)
	}
	return nil
}

// ListByStudentID retrieves the newest notifications for a student
func (r *NotificationRepository) ListByStudentID(studentID uint, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 10
	}
	var notifications []models.Notification
	err := r.DB.Where("student_id = ?", studentID).
		Order("created_at DESC, id DESC").Limit(limit).Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications for student %d: %w", studentID, err)
	}
	return notifications, nil
}

// CountUnread returns the number of unread notifications for a student
func (r *NotificationRepository) CountUnread(studentID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Notification{}).
		Where("student_id = ? AND is_read = ?", studentID, false).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications for student %d: %w", studentID, err)
	}
	return count, nil
}

// MarkAllRead marks every unread notification for a student as read
func (r *NotificationRepository) MarkAllRead(studentID uint) error {
	err := r.DB.Model(&models.Notification{}).
		Where("student_id = ? AND is_read = ?", studentID, false).
		Update("is_read", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark notifications read for student %d: %w", studentID, err)
	}
	return nil
}
