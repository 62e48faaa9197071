package services

import (
	"errors"
	"image"
	"testing"

	"gorm.io/gorm"

	"github.com/priyansh-dev/attendancebackend/models"
	"github.com/priyansh-dev/attendancebackend/recognition"
)

// --- in-memory fakes ---

type fakeStudentRepo struct {
	students map[uint]*models.Student
}

func (r *fakeStudentRepo) Create(student *models.Student) error { return nil }
func (r *fakeStudentRepo) GetByID(id uint) (*models.Student, error) {
	if s, ok := r.students[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (r *fakeStudentRepo) GetByStudentID(studentID string) (*models.Student, error) {
	for _, s := range r.students {
		if s.StudentID == studentID {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (r *fakeStudentRepo) ListAll() ([]models.Student, error)    { return nil, nil }
func (r *fakeStudentRepo) ListActive() ([]models.Student, error) { return nil, nil }
func (r *fakeStudentRepo) SetActive(id uint, active bool) error  { return nil }
func (r *fakeStudentRepo) SetPhoto(id uint, photoPath string) error {
	return nil
}
func (r *fakeStudentRepo) SetPhotoStatus(id uint, status string, photoErr *string) error {
	return nil
}

type fakeEventRepo struct {
	events map[uint]*models.Event
}

func (r *fakeEventRepo) GetByID(id uint) (*models.Event, error) {
	if e, ok := r.events[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (r *fakeEventRepo) ListAll() ([]models.Event, error) { return nil, nil }

type fakeAttendanceRepo struct {
	records map[[2]uint]*models.Attendance
	failAll bool
}

func (r *fakeAttendanceRepo) CreateIfAbsent(attendance *models.Attendance) (bool, error) {
	if r.failAll {
		return false, errors.New("database is locked")
	}
	key := [2]uint{attendance.StudentID, attendance.EventID}
	if _, exists := r.records[key]; exists {
		return false, nil
	}
	r.records[key] = attendance
	return true, nil
}
func (r *fakeAttendanceRepo) GetByStudentAndEvent(studentID, eventID uint) (*models.Attendance, error) {
	if a, ok := r.records[[2]uint{studentID, eventID}]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (r *fakeAttendanceRepo) ListByEventID(eventID uint) ([]models.Attendance, error) {
	return nil, nil
}
func (r *fakeAttendanceRepo) ListByStudentID(studentID uint) ([]models.Attendance, error) {
	return nil, nil
}

type fakeSubmissionRepo struct {
	created []*models.Submission
	fail    bool
}

func (r *fakeSubmissionRepo) Create(submission *models.Submission) error {
	if r.fail {
		return errors.New("database is locked")
	}
	r.created = append(r.created, submission)
	return nil
}
func (r *fakeSubmissionRepo) GetByUUID(uuid string) (*models.Submission, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *fakeSubmissionRepo) ListByEventID(eventID uint) ([]models.Submission, error) {
	return nil, nil
}

type fakeRecognizer struct {
	results []recognition.Result
	err     error
}

func (f *fakeRecognizer) RecognizeFile(path string) ([]recognition.Result, error) {
	return f.results, f.err
}

type recordingSink struct {
	notified []uint
}

func (s *recordingSink) Notify(studentID uint, title, body string) error {
	s.notified = append(s.notified, studentID)
	return nil
}

// --- fixture ---

type fixture struct {
	students    *fakeStudentRepo
	events      *fakeEventRepo
	attendances *fakeAttendanceRepo
	submissions *fakeSubmissionRepo
	recognizer  *fakeRecognizer
	sink        *recordingSink
	service     *AttendanceService
}

func newFixture(results []recognition.Result) *fixture {
	f := &fixture{
		students: &fakeStudentRepo{students: map[uint]*models.Student{
			1: {ID: 1, StudentID: "S001", Name: "Asha", IsActive: true},
			2: {ID: 2, StudentID: "S002", Name: "Ravi", IsActive: true},
			3: {ID: 3, StudentID: "S003", Name: "Meera", IsActive: false},
			9: {ID: 9, StudentID: "S009", Name: "Organizer", IsActive: true},
		}},
		events: &fakeEventRepo{events: map[uint]*models.Event{
			5: {ID: 5, Title: "Tech Fest"},
		}},
		attendances: &fakeAttendanceRepo{records: map[[2]uint]*models.Attendance{}},
		submissions: &fakeSubmissionRepo{},
		recognizer:  &fakeRecognizer{results: results},
		sink:        &recordingSink{},
	}
	f.service = NewAttendanceService(
		f.students, f.events, f.attendances, f.submissions,
		f.recognizer, f.sink, 70.0)
	return f
}

func result(studentID string, confidence float64) recognition.Result {
	return recognition.Result{
		Region:     image.Rect(0, 0, 50, 50),
		Confidence: confidence,
		StudentID:  studentID,
	}
}

// --- group photo path ---

func TestSubmitGroupPhotoMarksRecognizedStudents(t *testing.T) {
	f := newFixture([]recognition.Result{
		result("S001", 30.0),
		result("S002", 40.0),
		result("S002", 35.0), // overlapping detection of the same face
		result("", 10.0),     // unmapped label
	})

	outcome, err := f.service.SubmitGroupPhoto(5, 9, "uuid-1", "group_photos/uuid-1.jpg", "/tmp/uuid-1.jpg", nil)
	if err != nil {
		t.Fatalf("SubmitGroupPhoto failed: %v", err)
	}

	if outcome.FacesDetected != 4 {
		t.Errorf("FacesDetected = %d, want 4", outcome.FacesDetected)
	}
	if outcome.FacesResolved != 3 {
		t.Errorf("FacesResolved = %d, want 3", outcome.FacesResolved)
	}
	if len(outcome.Marked) != 2 || outcome.Marked[0] != "S001" || outcome.Marked[1] != "S002" {
		t.Errorf("Marked = %v, want [S001 S002]", outcome.Marked)
	}
	if outcome.Unrecognized != 1 {
		t.Errorf("Unrecognized = %d, want 1", outcome.Unrecognized)
	}

	if len(f.attendances.records) != 2 {
		t.Errorf("ledger has %d record(s), want 2", len(f.attendances.records))
	}
	if len(f.sink.notified) != 2 {
		t.Errorf("expected one notification per new record, got %d", len(f.sink.notified))
	}
	if len(f.submissions.created) != 1 {
		t.Fatalf("expected 1 submission row, got %d", len(f.submissions.created))
	}
	sub := f.submissions.created[0]
	if sub.UUID != "uuid-1" || sub.Marked != 2 || sub.Unrecognized != 1 {
		t.Errorf("submission row wrong: %+v", sub)
	}
}

func TestSubmitGroupPhotoIsIdempotent(t *testing.T) {
	f := newFixture([]recognition.Result{result("S001", 30.0)})

	first, err := f.service.SubmitGroupPhoto(5, 9, "uuid-1", "p", "/tmp/p", nil)
	if err != nil {
		t.Fatalf("first submission failed: %v", err)
	}
	second, err := f.service.SubmitGroupPhoto(5, 9, "uuid-2", "p", "/tmp/p", nil)
	if err != nil {
		t.Fatalf("second submission failed: %v", err)
	}

	if len(first.Marked) != 1 || len(first.AlreadyMarked) != 0 {
		t.Errorf("first submission: marked=%v already=%v", first.Marked, first.AlreadyMarked)
	}
	if len(second.Marked) != 0 || len(second.AlreadyMarked) != 1 {
		t.Errorf("second submission: marked=%v already=%v", second.Marked, second.AlreadyMarked)
	}
	if len(f.attendances.records) != 1 {
		t.Errorf("ledger has %d record(s), want exactly 1", len(f.attendances.records))
	}
	if len(f.sink.notified) != 1 {
		t.Errorf("duplicate mark must not renotify: %d notification(s)", len(f.sink.notified))
	}
}

func TestSubmitGroupPhotoSkipsUnknownAndInactive(t *testing.T) {
	f := newFixture([]recognition.Result{
		result("S999", 20.0), // recognized but not enrolled
		result("S003", 20.0), // enrolled but inactive
		result("S001", 20.0),
	})

	outcome, err := f.service.SubmitGroupPhoto(5, 9, "uuid-1", "p", "/tmp/p", nil)
	if err != nil {
		t.Fatalf("SubmitGroupPhoto failed: %v", err)
	}

	if len(outcome.Marked) != 1 || outcome.Marked[0] != "S001" {
		t.Errorf("Marked = %v, want [S001]", outcome.Marked)
	}
	if outcome.Unrecognized != 2 {
		t.Errorf("Unrecognized = %d, want 2", outcome.Unrecognized)
	}
}

func TestSubmitGroupPhotoPropagatesRecognitionErrors(t *testing.T) {
	f := newFixture(nil)
	f.recognizer.err = recognition.ErrUntrainable

	if _, err := f.service.SubmitGroupPhoto(5, 9, "uuid-1", "p", "/tmp/p", nil); !errors.Is(err, recognition.ErrUntrainable) {
		t.Errorf("expected ErrUntrainable, got %v", err)
	}
	if len(f.attendances.records) != 0 {
		t.Error("a failed recognition pass must not touch the ledger")
	}
}

func TestSubmitGroupPhotoUnknownEvent(t *testing.T) {
	f := newFixture(nil)
	if _, err := f.service.SubmitGroupPhoto(99, 9, "uuid-1", "p", "/tmp/p", nil); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound for unknown event, got %v", err)
	}
}

func TestSubmitGroupPhotoLedgerWriteFailure(t *testing.T) {
	f := newFixture([]recognition.Result{result("S001", 30.0)})
	f.attendances.failAll = true

	if _, err := f.service.SubmitGroupPhoto(5, 9, "uuid-1", "p", "/tmp/p", nil); !errors.Is(err, recognition.ErrLedgerConflict) {
		t.Errorf("expected ErrLedgerConflict, got %v", err)
	}
}

func TestSubmitGroupPhotoSurvivesSubmissionRowFailure(t *testing.T) {
	f := newFixture([]recognition.Result{result("S001", 30.0)})
	f.submissions.fail = true

	outcome, err := f.service.SubmitGroupPhoto(5, 9, "uuid-1", "p", "/tmp/p", nil)
	if err != nil {
		t.Fatalf("a lost summary row must not fail the submission: %v", err)
	}
	if len(outcome.Marked) != 1 {
		t.Errorf("Marked = %v, want [S001]", outcome.Marked)
	}
}

// --- manual path ---

func TestMarkManualRequiresNotes(t *testing.T) {
	f := newFixture(nil)

	for _, notes := range []string{"", "   ", "\t\n"} {
		if _, err := f.service.MarkManual(5, 1, 9, notes); !errors.Is(err, ErrNotesRequired) {
			t.Errorf("notes %q: expected ErrNotesRequired, got %v", notes, err)
		}
	}
	if len(f.attendances.records) != 0 {
		t.Error("rejected manual marks must not touch the ledger")
	}
}

func TestMarkManualCreatesOnceThenNoOps(t *testing.T) {
	f := newFixture(nil)

	created, err := f.service.MarkManual(5, 1, 9, "recognition missed them in the back row")
	if err != nil {
		t.Fatalf("MarkManual failed: %v", err)
	}
	if !created {
		t.Fatal("first manual mark should create a record")
	}

	record := f.attendances.records[[2]uint{1, 5}]
	if record == nil {
		t.Fatal("record missing from ledger")
	}
	if !record.IsManual || record.Notes == nil || *record.Notes == "" {
		t.Errorf("manual record malformed: %+v", record)
	}
	if record.MarkedByID != 9 {
		t.Errorf("MarkedByID = %d, want 9", record.MarkedByID)
	}

	created, err = f.service.MarkManual(5, 1, 9, "second attempt")
	if err != nil {
		t.Fatalf("repeat MarkManual errored: %v", err)
	}
	if created {
		t.Error("repeat manual mark must be a no-op")
	}
	if len(f.sink.notified) != 1 {
		t.Errorf("expected a single notification, got %d", len(f.sink.notified))
	}
}

func TestMarkManualAfterPhotoMarkIsNoOp(t *testing.T) {
	f := newFixture([]recognition.Result{result("S001", 30.0)})

	if _, err := f.service.SubmitGroupPhoto(5, 9, "uuid-1", "p", "/tmp/p", nil); err != nil {
		t.Fatalf("SubmitGroupPhoto failed: %v", err)
	}

	created, err := f.service.MarkManual(5, 1, 9, "double-checking")
	if err != nil {
		t.Fatalf("MarkManual failed: %v", err)
	}
	if created {
		t.Error("manual mark after a photo mark must not create a second record")
	}
	if len(f.attendances.records) != 1 {
		t.Errorf("ledger has %d record(s), want 1", len(f.attendances.records))
	}
}
