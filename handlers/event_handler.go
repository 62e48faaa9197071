package handlers

import (
	"errors"
	"log"
	"net/http"

	"gorm.io/gorm"

	"github.com/priyansh-dev/attendancebackend/repository"
)

// EventHandler exposes read-only event lookups. Event creation and approval
// are owned by the surrounding system.
type EventHandler struct {
	Events      repository.EventRepositoryInterface
	Attendances repository.AttendanceRepositoryInterface
	Submissions repository.SubmissionRepositoryInterface
}

// ListEvents handles GET /api/events
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.Events.ListAll()
	if err != nil {
		log.Printf("handler: failed to list events: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to list events")
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// GetEvent handles GET /api/events/{event_id}
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := parseUintParam(w, r, "event_id")
	if !ok {
		return
	}
	event, err := h.Events.GetByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "unknown event")
		} else {
			log.Printf("handler: failed to fetch event %d: %v", eventID, err)
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "event lookup failed")
		}
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// ListEventAttendance handles GET /api/events/{event_id}/attendance
func (h *EventHandler) ListEventAttendance(w http.ResponseWriter, r *http.Request) {
	eventID, ok := parseUintParam(w, r, "event_id")
	if !ok {
		return
	}
	attendances, err := h.Attendances.ListByEventID(eventID)
	if err != nil {
		log.Printf("handler: failed to list attendance for event %d: %v", eventID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to list attendance")
		return
	}
	writeJSON(w, http.StatusOK, attendances)
}

// ListEventSubmissions handles GET /api/events/{event_id}/submissions
func (h *EventHandler) ListEventSubmissions(w http.ResponseWriter, r *http.Request) {
	eventID, ok := parseUintParam(w, r, "event_id")
	if !ok {
		return
	}
	submissions, err := h.Submissions.ListByEventID(eventID)
	if err != nil {
		log.Printf("handler: failed to list submissions for event %d: %v", eventID, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to list submissions")
		return
	}
	writeJSON(w, http.StatusOK, submissions)
}
