package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/priyansh-dev/attendancebackend/repository"
)

// NotificationHandler exposes the per-student notification feed.
type NotificationHandler struct {
	Notifications repository.NotificationRepositoryInterface
	Students      repository.StudentRepositoryInterface
}

// Feed handles GET /api/students/{student_id}/notifications
func (h *NotificationHandler) Feed(w http.ResponseWriter, r *http.Request) {
	student, ok := h.lookup(w, r)
	if !ok {
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			WriteAPIError(w, http.StatusBadRequest, "invalid_request", "invalid limit")
			return
		}
		limit = parsed
	}

	notifications, err := h.Notifications.ListByStudentID(student, limit)
	if err != nil {
		log.Printf("handler: failed to list notifications: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to list notifications")
		return
	}
	unread, err := h.Notifications.CountUnread(student)
	if err != nil {
		log.Printf("handler: failed to count unread notifications: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to count notifications")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": notifications,
		"unread":        unread,
	})
}

// MarkRead handles POST /api/students/{student_id}/notifications/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	student, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if err := h.Notifications.MarkAllRead(student); err != nil {
		log.Printf("handler: failed to mark notifications read: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to mark notifications read")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"marked_read": true})
}

// lookup resolves the student_id URL param to a database ID.
func (h *NotificationHandler) lookup(w http.ResponseWriter, r *http.Request) (uint, bool) {
	studentID := chi.URLParam(r, "student_id")
	student, err := h.Students.GetByStudentID(studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "unknown student "+studentID)
		} else {
			log.Printf("handler: student lookup failed for %s: %v", studentID, err)
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "student lookup failed")
		}
		return 0, false
	}
	return student.ID, true
}
