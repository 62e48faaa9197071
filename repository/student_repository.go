package repository

import (
	"fmt"
	"sort"
	"time"

	"github.com/facette/natsort"
	"gorm.io/gorm"

	"github.com/priyansh-dev/attendancebackend/models"
)

// StudentRepository handles database operations for Student entities
type StudentRepository struct {
	DB *gorm.DB
}

// NewStudentRepository creates a new instance of StudentRepository
func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{DB: db}
}

// Create creates a new student record in the database
func (r *StudentRepository) Create(student *models.Student) error {
	now := time.Now().Unix()
	if student.CreatedAt == 0 {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	if student.PhotoStatus == "" {
		student.PhotoStatus = models.PhotoStatusPending
	}

	if err := r.DB.Create(student).Error; err != nil {
		return fmt.Errorf("failed to create student %s: %w", student.StudentID, err)
	}
	return nil
}

// GetByID retrieves a student by database ID
func (r *StudentRepository) GetByID(id uint) (*models.Student, error) {
	var student models.Student
	err := r.DB.First(&student, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get student by ID %d: %w", id, err)
	}
	return &student, nil
}

// GetByStudentID retrieves a student by the external student identifier
func (r *StudentRepository) GetByStudentID(studentID string) (*models.Student, error) {
	var student models.Student
	err := r.DB.Where("student_id = ?", studentID).First(&student).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get student %s: %w", studentID, err)
	}
	return &student, nil
}

// ListAll retrieves every student, in natural order of the external student
// identifier (STU2 before STU10)
func (r *StudentRepository) ListAll() ([]models.Student, error) {
	var students []models.Student
	if err := r.DB.Find(&students).Error; err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	sort.SliceStable(students, func(i, j int) bool {
		return natsort.Compare(students[i].StudentID, students[j].StudentID)
	})
	return students, nil
}

// ListActive retrieves active students only, unordered
func (r *StudentRepository) ListActive() ([]models.Student, error) {
	var students []models.Student
	if err := r.DB.Where("is_active = ?", true).Find(&students).Error; err != nil {
		return nil, fmt.Errorf("failed to list active students: %w", err)
	}
	return students, nil
}

// SetActive flips the active flag for a student
func (r *StudentRepository) SetActive(id uint, active bool) error {
	updates := map[string]interface{}{
		"is_active":  active,
		"updated_at": time.Now().Unix(),
	}
	result := r.DB.Model(&models.Student{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to set active=%v for student %d: %w", active, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetPhoto records a newly stored reference photo and resets its validation
// state to pending
func (r *StudentRepository) SetPhoto(id uint, photoPath string) error {
	updates := map[string]interface{}{
		"photo_path":   photoPath,
		"photo_status": models.PhotoStatusPending,
		"photo_error":  gorm.Expr("NULL"),
		"updated_at":   time.Now().Unix(),
	}
	result := r.DB.Model(&models.Student{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to set photo for student %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetPhotoStatus records the outcome of reference photo validation
func (r *StudentRepository) SetPhotoStatus(id uint, status string, photoErr *string) error {
	updates := map[string]interface{}{
		"photo_status": status,
		"updated_at":   time.Now().Unix(),
	}
	if photoErr != nil {
		updates["photo_error"] = *photoErr
	} else {
		updates["photo_error"] = gorm.Expr("NULL")
	}
	result := r.DB.Model(&models.Student{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to set photo status for student %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
