package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/priyansh-dev/attendancebackend/models"
)

// SubmissionRepository handles database operations for group photo submissions
type SubmissionRepository struct {
	DB *gorm.DB
}

// NewSubmissionRepository creates a new instance of SubmissionRepository
func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

// Create persists a submission record
func (r *SubmissionRepository) Create(submission *models.Submission) error {
	if submission.CreatedAt == 0 {
		submission.CreatedAt = time.Now().Unix()
	}
	if err := r.DB.Create(submission).Error; err != nil {
		return fmt.Errorf("failed to create submission %s: %w", submission.UUID, err)
	}
	return nil
}

// GetByUUID retrieves a submission by its UUID
func (r *SubmissionRepository) GetByUUID(uuid string) (*models.Submission, error) {
	var submission models.Submission
	err := r.DB.Where("uuid = ?", uuid).First(&submission).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get submission %s: %w", uuid, err)
	}
	return &submission, nil
}

// ListByEventID retrieves all submissions for an event, newest first
func (r *SubmissionRepository) ListByEventID(eventID uint) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.DB.Where("event_id = ?", eventID).
		Order("created_at DESC, id DESC").Find(&submissions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions for event %d: %w", eventID, err)
	}
	return submissions, nil
}
