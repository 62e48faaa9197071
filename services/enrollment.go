package services

import (
	"log"

	"github.com/priyansh-dev/attendancebackend/media"
	"github.com/priyansh-dev/attendancebackend/models"
	"github.com/priyansh-dev/attendancebackend/recognition"
	"github.com/priyansh-dev/attendancebackend/repository"
)

// EnrollmentSource adapts the student repository and photo store to the
// trainer's view of enrollment: active students with validated reference
// photos, resolved to filesystem paths.
type EnrollmentSource struct {
	Students repository.StudentRepositoryInterface
	Store    media.Store
}

// ActiveEnrollments returns one record per active student with a stored
// reference photo. Only photos that validation proved faceless are left out,
// since the trainer would just skip them again after a wasted read; pending
// and error-status photos are still offered and the trainer decides.
func (e *EnrollmentSource) ActiveEnrollments() ([]recognition.EnrollmentRecord, error) {
	students, err := e.Students.ListActive()
	if err != nil {
		return nil, err
	}

	records := make([]recognition.EnrollmentRecord, 0, len(students))
	for _, student := range students {
		if student.PhotoPath == "" || student.PhotoStatus == models.PhotoStatusNoFace {
			continue
		}
		fullPath, err := e.Store.GetFullPath(student.PhotoPath)
		if err != nil {
			log.Printf("enrollment: bad photo path for student %s: %v", student.StudentID, err)
			continue
		}
		records = append(records, recognition.EnrollmentRecord{
			StudentID: student.StudentID,
			PhotoPath: fullPath,
		})
	}
	return records, nil
}
