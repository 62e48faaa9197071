package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/priyansh-dev/attendancebackend/database"
	"github.com/priyansh-dev/attendancebackend/media"
	"github.com/priyansh-dev/attendancebackend/recognition"
	"github.com/priyansh-dev/attendancebackend/repository"
	"github.com/priyansh-dev/attendancebackend/services"
)

// uploads above this size are rejected before decoding
const maxPhotoUploadBytes = 20 << 20

// AttendanceHandler exposes the attendance write path and reports.
type AttendanceHandler struct {
	Service  *services.AttendanceService
	Students repository.StudentRepositoryInterface
	Store    media.Store
	ReportDB *sql.DB
}

// SubmitGroupPhoto handles POST /api/events/{event_id}/attendance/photo.
// Multipart form: group_photo (file), actor_student_id.
func (h *AttendanceHandler) SubmitGroupPhoto(w http.ResponseWriter, r *http.Request) {
	eventID, ok := parseUintParam(w, r, "event_id")
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxPhotoUploadBytes); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "failed to parse multipart form: "+err.Error())
		return
	}

	actor, ok := h.lookupActor(w, r.FormValue("actor_student_id"))
	if !ok {
		return
	}

	file, _, err := r.FormFile("group_photo")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "missing group_photo file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoUploadBytes+1))
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "failed to read upload: "+err.Error())
		return
	}
	if len(data) > maxPhotoUploadBytes {
		WriteAPIError(w, http.StatusRequestEntityTooLarge, "too_large", "group photo exceeds upload limit")
		return
	}

	photoUUID, relPath, err := media.SaveGroupPhoto(h.Store, data)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "image_unreadable", err.Error())
		return
	}
	fullPath, err := h.Store.GetFullPath(relPath)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to resolve stored photo")
		return
	}

	takenAt := media.ExtractTakenAt(data)

	outcome, err := h.Service.SubmitGroupPhoto(eventID, actor.ID, photoUUID, relPath, fullPath, takenAt)
	if err != nil {
		switch {
		case errors.Is(err, recognition.ErrUntrainable):
			WriteAPIError(w, http.StatusConflict, "untrainable", "no usable training faces; enroll reference photos and retrain")
		case errors.Is(err, recognition.ErrImageUnreadable):
			WriteAPIError(w, http.StatusBadRequest, "image_unreadable", "the uploaded group photo could not be read")
		case errors.Is(err, recognition.ErrLedgerConflict):
			WriteAPIError(w, http.StatusConflict, "ledger_conflict", "attendance write conflict, please retry")
		case errors.Is(err, gorm.ErrRecordNotFound):
			WriteAPIError(w, http.StatusNotFound, "not_found", err.Error())
		default:
			log.Printf("handler: group photo submission failed: %v", err)
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "group photo submission failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}

// ManualAttendance handles POST /api/events/{event_id}/attendance/manual.
// JSON body: student_id (external identifier), actor_student_id, notes.
func (h *AttendanceHandler) ManualAttendance(w http.ResponseWriter, r *http.Request) {
	eventID, ok := parseUintParam(w, r, "event_id")
	if !ok {
		return
	}

	var req struct {
		StudentID      string `json:"student_id"`
		ActorStudentID string `json:"actor_student_id"`
		Notes          string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "invalid request body: "+err.Error())
		return
	}

	student, ok := h.lookupStudent(w, req.StudentID, "student_id")
	if !ok {
		return
	}
	actor, ok := h.lookupActor(w, req.ActorStudentID)
	if !ok {
		return
	}

	created, err := h.Service.MarkManual(eventID, student.ID, actor.ID, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotesRequired):
			WriteAPIError(w, http.StatusBadRequest, "notes_required", "manual attendance requires non-empty notes")
		case errors.Is(err, recognition.ErrLedgerConflict):
			WriteAPIError(w, http.StatusConflict, "ledger_conflict", "attendance write conflict, please retry")
		case errors.Is(err, gorm.ErrRecordNotFound):
			WriteAPIError(w, http.StatusNotFound, "not_found", err.Error())
		default:
			log.Printf("handler: manual attendance failed: %v", err)
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "manual attendance failed")
		}
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]interface{}{
		"created":    created,
		"student_id": req.StudentID,
		"event_id":   eventID,
	})
}

// ListRecords handles GET /api/attendance. Query params: event_id,
// student_id (external), manual (true/false), since, until (Unix seconds),
// limit.
func (h *AttendanceHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	var filter database.AttendanceReportFilter
	query := r.URL.Query()

	if raw := query.Get("event_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			WriteAPIError(w, http.StatusBadRequest, "invalid_request", "invalid event_id")
			return
		}
		eventID := uint(id)
		filter.EventID = &eventID
	}
	if raw := query.Get("student_id"); raw != "" {
		student, ok := h.lookupStudent(w, raw, "student_id")
		if !ok {
			return
		}
		filter.StudentID = &student.ID
	}
	if raw := query.Get("manual"); raw != "" {
		manual, err := strconv.ParseBool(raw)
		if err != nil {
			WriteAPIError(w, http.StatusBadRequest, "invalid_request", "invalid manual flag")
			return
		}
		filter.IsManual = &manual
	}
	if raw := query.Get("since"); raw != "" {
		since, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			WriteAPIError(w, http.StatusBadRequest, "invalid_request", "invalid since timestamp")
			return
		}
		filter.Since = &since
	}
	if raw := query.Get("until"); raw != "" {
		until, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			WriteAPIError(w, http.StatusBadRequest, "invalid_request", "invalid until timestamp")
			return
		}
		filter.Until = &until
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			WriteAPIError(w, http.StatusBadRequest, "invalid_request", "invalid limit")
			return
		}
		filter.Limit = limit
	}

	report, err := database.AttendanceReport(h.ReportDB, filter)
	if err != nil {
		log.Printf("handler: attendance report failed: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to build attendance report")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *AttendanceHandler) lookupActor(w http.ResponseWriter, actorStudentID string) (*actorRef, bool) {
	return h.lookupStudent(w, actorStudentID, "actor_student_id")
}

type actorRef struct {
	ID        uint
	StudentID string
}

func (h *AttendanceHandler) lookupStudent(w http.ResponseWriter, studentID, field string) (*actorRef, bool) {
	if studentID == "" {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "missing "+field)
		return nil, false
	}
	student, err := h.Students.GetByStudentID(studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "unknown "+field+" "+studentID)
		} else {
			log.Printf("handler: student lookup failed for %s: %v", studentID, err)
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "student lookup failed")
		}
		return nil, false
	}
	return &actorRef{ID: student.ID, StudentID: student.StudentID}, true
}

// parseUintParam pulls a numeric chi URL parameter.
func parseUintParam(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "invalid "+name)
		return 0, false
	}
	return uint(id), true
}
