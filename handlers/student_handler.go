package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/priyansh-dev/attendancebackend/media"
	"github.com/priyansh-dev/attendancebackend/models"
	"github.com/priyansh-dev/attendancebackend/repository"
	"github.com/priyansh-dev/attendancebackend/workers"
)

// StudentHandler exposes the enrollment surface: roster, reference photo
// intake, and the active flag.
type StudentHandler struct {
	Repo      repository.StudentRepositoryInterface
	Store     media.Store
	Validator *workers.PhotoValidator
}

// CreateStudent handles POST /api/students
func (h *StudentHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StudentID string `json:"student_id"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.StudentID) == "" || strings.TrimSpace(req.Name) == "" {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "student_id and name are required")
		return
	}

	student := &models.Student{
		StudentID: strings.TrimSpace(req.StudentID),
		Name:      strings.TrimSpace(req.Name),
		Email:     req.Email,
		Phone:     req.Phone,
		IsActive:  true,
	}
	if err := h.Repo.Create(student); err != nil {
		log.Printf("handler: failed to create student %s: %v", req.StudentID, err)
		WriteAPIError(w, http.StatusConflict, "create_failed", "failed to create student (duplicate student_id?)")
		return
	}

	writeJSON(w, http.StatusCreated, student)
}

// ListStudents handles GET /api/students
func (h *StudentHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.Repo.ListAll()
	if err != nil {
		log.Printf("handler: failed to list students: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to list students")
		return
	}
	writeJSON(w, http.StatusOK, students)
}

// GetStudent handles GET /api/students/{student_id}
func (h *StudentHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	student, ok := h.fetch(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, student)
}

// UploadPhoto handles PUT /api/students/{student_id}/photo. The photo is
// stored immediately; face validation runs asynchronously and lands in
// photo_status.
func (h *StudentHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	student, ok := h.fetch(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxPhotoUploadBytes); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "failed to parse multipart form: "+err.Error())
		return
	}
	file, _, err := r.FormFile("photo")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "missing photo file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoUploadBytes+1))
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "failed to read upload: "+err.Error())
		return
	}
	if len(data) > maxPhotoUploadBytes {
		WriteAPIError(w, http.StatusRequestEntityTooLarge, "too_large", "photo exceeds upload limit")
		return
	}

	oldPhotoPath := student.PhotoPath

	relPath, err := media.SaveStudentPhoto(h.Store, data)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "image_unreadable", err.Error())
		return
	}
	if err := h.Repo.SetPhoto(student.ID, relPath); err != nil {
		log.Printf("handler: failed to record photo for student %d: %v", student.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to record photo")
		return
	}

	if oldPhotoPath != "" && oldPhotoPath != relPath {
		if err := h.Store.Delete(oldPhotoPath); err != nil {
			log.Printf("handler: failed to delete replaced photo %s: %v", oldPhotoPath, err)
		}
	}

	fullPath, err := h.Store.GetFullPath(relPath)
	if err == nil {
		h.Validator.QueueValidation(workers.PhotoJob{StudentID: student.ID, PhotoPath: fullPath})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"photo_path":   relPath,
		"photo_status": models.PhotoStatusPending,
	})
}

// SetActive handles PUT /api/students/{student_id}/active.
// JSON body: {"active": bool}.
func (h *StudentHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	student, ok := h.fetch(w, r)
	if !ok {
		return
	}

	var req struct {
		Active *bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Active == nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "body must be {\"active\": true|false}")
		return
	}

	if err := h.Repo.SetActive(student.ID, *req.Active); err != nil {
		log.Printf("handler: failed to set active for student %d: %v", student.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to update student")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"student_id": student.StudentID, "active": *req.Active})
}

func (h *StudentHandler) fetch(w http.ResponseWriter, r *http.Request) (*models.Student, bool) {
	studentID := chi.URLParam(r, "student_id")
	if studentID == "" {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "missing student_id")
		return nil, false
	}
	student, err := h.Repo.GetByStudentID(studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "unknown student "+studentID)
		} else {
			log.Printf("handler: failed to fetch student %s: %v", studentID, err)
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "student lookup failed")
		}
		return nil, false
	}
	return student, true
}
