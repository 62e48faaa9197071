package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/priyansh-dev/attendancebackend/models"
	"github.com/priyansh-dev/attendancebackend/recognition"
	"github.com/priyansh-dev/attendancebackend/repository"
)

// ErrNotesRequired is returned when a manual attendance entry is submitted
// without a reason.
var ErrNotesRequired = errors.New("manual attendance requires non-empty notes")

// Recognizer is the slice of the recognition engine the service needs.
type Recognizer interface {
	RecognizeFile(path string) ([]recognition.Result, error)
}

// NotificationSink receives one notification intent per newly created
// attendance record. Delivery is the implementation's concern.
type NotificationSink interface {
	Notify(studentID uint, title, body string) error
}

// GroupPhotoOutcome summarizes one group photo submission. A submission
// always completes with these counts; individual unmatched or duplicate
// faces never fail it.
type GroupPhotoOutcome struct {
	SubmissionUUID string   `json:"submission_uuid"`
	FacesDetected  int      `json:"faces_detected"`
	FacesResolved  int      `json:"faces_resolved"`
	Marked         []string `json:"marked"`
	AlreadyMarked  []string `json:"already_marked"`
	Unrecognized   int      `json:"unrecognized"`
}

// AttendanceService owns the attendance write path: it turns recognition
// output into ledger records and notification intents, and applies the
// manual override path for unrecognized attendees.
type AttendanceService struct {
	students    repository.StudentRepositoryInterface
	events      repository.EventRepositoryInterface
	attendances repository.AttendanceRepositoryInterface
	submissions repository.SubmissionRepositoryInterface
	recognizer  Recognizer
	sink        NotificationSink
	threshold   float64
}

// NewAttendanceService wires the service to its collaborators. threshold is
// the confidence distance cutoff for accepting a recognized face.
func NewAttendanceService(
	students repository.StudentRepositoryInterface,
	events repository.EventRepositoryInterface,
	attendances repository.AttendanceRepositoryInterface,
	submissions repository.SubmissionRepositoryInterface,
	recognizer Recognizer,
	sink NotificationSink,
	threshold float64,
) *AttendanceService {
	return &AttendanceService{
		students:    students,
		events:      events,
		attendances: attendances,
		submissions: submissions,
		recognizer:  recognizer,
		sink:        sink,
		threshold:   threshold,
	}
}

// SubmitGroupPhoto recognizes faces in a stored group photo and marks
// attendance for every accepted identity. photoUUID/photoRelPath identify
// the stored photo; photoFullPath is its filesystem location; takenAt is
// the photo's EXIF capture time, if known. ErrUntrainable and
// ErrImageUnreadable abort the submission; anything past recognition
// degrades per-face, never fails the whole call.
func (s *AttendanceService) SubmitGroupPhoto(eventID, actorID uint, photoUUID, photoRelPath, photoFullPath string, takenAt *int64) (*GroupPhotoOutcome, error) {
	event, err := s.events.GetByID(eventID)
	if err != nil {
		return nil, fmt.Errorf("event %d: %w", eventID, err)
	}
	actor, err := s.students.GetByID(actorID)
	if err != nil {
		return nil, fmt.Errorf("actor %d: %w", actorID, err)
	}

	results, err := s.recognizer.RecognizeFile(photoFullPath)
	if err != nil {
		return nil, err
	}

	matches := recognition.ResolveMatches(results, s.threshold)
	outcome := &GroupPhotoOutcome{
		SubmissionUUID: photoUUID,
		FacesDetected:  matches.FacesDetected,
		FacesResolved:  matches.FacesResolved,
		Unrecognized:   matches.Unrecognized(),
		Marked:         []string{},
		AlreadyMarked:  []string{},
	}

	for _, studentID := range matches.StudentIDs {
		student, err := s.students.GetByStudentID(studentID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				log.Printf("attendance: recognized unknown student %s, skipping", studentID)
				outcome.Unrecognized++
				continue
			}
			return nil, err
		}
		if !student.IsActive {
			log.Printf("attendance: recognized inactive student %s, skipping", studentID)
			outcome.Unrecognized++
			continue
		}

		created, err := s.markOne(student, event, actor, false, nil)
		if err != nil {
			return nil, err
		}
		if created {
			outcome.Marked = append(outcome.Marked, studentID)
		} else {
			outcome.AlreadyMarked = append(outcome.AlreadyMarked, studentID)
		}
	}

	submission := &models.Submission{
		UUID:          photoUUID,
		EventID:       eventID,
		ActorID:       actorID,
		PhotoPath:     photoRelPath,
		TakenAt:       takenAt,
		FacesDetected: outcome.FacesDetected,
		FacesResolved: outcome.FacesResolved,
		Marked:        len(outcome.Marked),
		AlreadyMarked: len(outcome.AlreadyMarked),
		Unrecognized:  outcome.Unrecognized,
	}
	if err := s.submissions.Create(submission); err != nil {
		// the ledger writes already happened; losing the summary row is
		// not worth failing the submission over
		log.Printf("attendance: failed to record submission %s: %v", photoUUID, err)
	}

	log.Printf("attendance: submission %s for event %d: %d detected, %d marked, %d already marked, %d unrecognized",
		photoUUID, eventID, outcome.FacesDetected, len(outcome.Marked), len(outcome.AlreadyMarked), outcome.Unrecognized)
	return outcome, nil
}

// MarkManual creates a manual attendance record for one student. Notes are
// mandatory; they carry the reason recognition was bypassed. Reports
// whether a record was created; an existing record is a benign no-op.
func (s *AttendanceService) MarkManual(eventID, studentDBID, actorID uint, notes string) (bool, error) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return false, ErrNotesRequired
	}

	event, err := s.events.GetByID(eventID)
	if err != nil {
		return false, fmt.Errorf("event %d: %w", eventID, err)
	}
	student, err := s.students.GetByID(studentDBID)
	if err != nil {
		return false, fmt.Errorf("student %d: %w", studentDBID, err)
	}
	actor, err := s.students.GetByID(actorID)
	if err != nil {
		return false, fmt.Errorf("actor %d: %w", actorID, err)
	}

	return s.markOne(student, event, actor, true, &notes)
}

// markOne writes one ledger record and, when the record is new, emits the
// notification intent for the student.
func (s *AttendanceService) markOne(student *models.Student, event *models.Event, actor *models.Student, manual bool, notes *string) (bool, error) {
	attendance := &models.Attendance{
		StudentID:  student.ID,
		EventID:    event.ID,
		MarkedByID: actor.ID,
		IsManual:   manual,
		Notes:      notes,
		MarkedAt:   time.Now().Unix(),
	}

	created, err := s.attendances.CreateIfAbsent(attendance)
	if err != nil {
		// the unique index makes duplicates a silent no-op, so a write
		// error here is a transient ledger problem the caller may retry
		return false, fmt.Errorf("%w: %v", recognition.ErrLedgerConflict, err)
	}
	if !created {
		return false, nil
	}

	body := fmt.Sprintf("Your attendance for %q has been marked by %s.", event.Title, actor.Name)
	if manual {
		body = fmt.Sprintf("Your attendance for %q has been marked manually by %s.", event.Title, actor.Name)
	}
	if err := s.sink.Notify(student.ID, "Attendance marked", body); err != nil {
		log.Printf("attendance: failed to emit notification for student %d: %v", student.ID, err)
	}

	return true, nil
}
