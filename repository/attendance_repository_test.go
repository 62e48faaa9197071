package repository

import (
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	"github.com/priyansh-dev/attendancebackend/database"
	"github.com/priyansh-dev/attendancebackend/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.InitGormDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func seedStudentAndEvent(t *testing.T, db *gorm.DB) (studentID, eventID, actorID uint) {
	t.Helper()
	students := NewStudentRepository(db)

	student := &models.Student{StudentID: "S001", Name: "Asha", IsActive: true}
	if err := students.Create(student); err != nil {
		t.Fatalf("failed to seed student: %v", err)
	}
	actor := &models.Student{StudentID: "S009", Name: "Organizer", IsActive: true}
	if err := students.Create(actor); err != nil {
		t.Fatalf("failed to seed actor: %v", err)
	}

	event := &models.Event{Title: "Tech Fest", StartsAt: 1700000000, CreatedAt: 1700000000}
	if err := db.Create(event).Error; err != nil {
		t.Fatalf("failed to seed event: %v", err)
	}
	return student.ID, event.ID, actor.ID
}

func TestCreateIfAbsentCreatesThenNoOps(t *testing.T) {
	db := testDB(t)
	studentID, eventID, actorID := seedStudentAndEvent(t, db)
	repo := NewAttendanceRepository(db)

	created, err := repo.CreateIfAbsent(&models.Attendance{
		StudentID: studentID, EventID: eventID, MarkedByID: actorID,
	})
	if err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	if !created {
		t.Fatal("first insert should report created=true")
	}

	created, err = repo.CreateIfAbsent(&models.Attendance{
		StudentID: studentID, EventID: eventID, MarkedByID: actorID,
	})
	if err != nil {
		t.Fatalf("duplicate insert errored: %v", err)
	}
	if created {
		t.Error("duplicate insert must report created=false")
	}

	var count int64
	if err := db.Model(&models.Attendance{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("ledger has %d record(s), want exactly 1", count)
	}
}

func TestCreateIfAbsentDistinctPairsCoexist(t *testing.T) {
	db := testDB(t)
	studentID, eventID, actorID := seedStudentAndEvent(t, db)
	repo := NewAttendanceRepository(db)

	otherEvent := &models.Event{Title: "Sports Day", StartsAt: 1700100000, CreatedAt: 1700000000}
	if err := db.Create(otherEvent).Error; err != nil {
		t.Fatalf("failed to seed second event: %v", err)
	}

	for _, eid := range []uint{eventID, otherEvent.ID} {
		created, err := repo.CreateIfAbsent(&models.Attendance{
			StudentID: studentID, EventID: eid, MarkedByID: actorID,
		})
		if err != nil || !created {
			t.Fatalf("insert for event %d: created=%v err=%v", eid, created, err)
		}
	}

	// actor attends the first event too
	created, err := repo.CreateIfAbsent(&models.Attendance{
		StudentID: actorID, EventID: eventID, MarkedByID: actorID,
	})
	if err != nil || !created {
		t.Fatalf("insert for actor: created=%v err=%v", created, err)
	}
}

func TestCreateIfAbsentConcurrentExactlyOneWins(t *testing.T) {
	db := testDB(t)
	studentID, eventID, actorID := seedStudentAndEvent(t, db)
	repo := NewAttendanceRepository(db)

	const submitters = 8
	var createdCount int32
	var wg sync.WaitGroup
	for i := 0; i < submitters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			created, err := repo.CreateIfAbsent(&models.Attendance{
				StudentID: studentID, EventID: eventID, MarkedByID: actorID,
			})
			if err != nil {
				t.Errorf("concurrent insert errored: %v", err)
				return
			}
			if created {
				atomic.AddInt32(&createdCount, 1)
			}
		}()
	}
	wg.Wait()

	if createdCount != 1 {
		t.Errorf("%d submitter(s) observed created=true, want exactly 1", createdCount)
	}

	var count int64
	if err := db.Model(&models.Attendance{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("ledger has %d record(s), want exactly 1", count)
	}
}

func TestGetByStudentAndEvent(t *testing.T) {
	db := testDB(t)
	studentID, eventID, actorID := seedStudentAndEvent(t, db)
	repo := NewAttendanceRepository(db)

	if _, err := repo.GetByStudentAndEvent(studentID, eventID); err != gorm.ErrRecordNotFound {
		t.Fatalf("expected ErrRecordNotFound before insert, got %v", err)
	}

	notes := "marked at the gate"
	if _, err := repo.CreateIfAbsent(&models.Attendance{
		StudentID: studentID, EventID: eventID, MarkedByID: actorID,
		IsManual: true, Notes: &notes,
	}); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	record, err := repo.GetByStudentAndEvent(studentID, eventID)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if !record.IsManual || record.Notes == nil || *record.Notes != notes {
		t.Errorf("record lost manual fields: %+v", record)
	}
	if record.MarkedAt == 0 {
		t.Error("MarkedAt should default to now on insert")
	}
}
