package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/priyansh-dev/attendancebackend/models"
)

// EventRepository handles read access to events. Event lifecycle is owned by
// an external system writing the same table.
type EventRepository struct {
	DB *gorm.DB
}

// NewEventRepository creates a new instance of EventRepository
func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{DB: db}
}

// GetByID retrieves an event by its ID
func (r *EventRepository) GetByID(id uint) (*models.Event, error) {
	var event models.Event
	err := r.DB.First(&event, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get event by ID %d: %w", id, err)
	}
	return &event, nil
}

// ListAll retrieves every event, newest first
func (r *EventRepository) ListAll() ([]models.Event, error) {
	var events []models.Event
	if err := r.DB.Order("starts_at DESC, id DESC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}
