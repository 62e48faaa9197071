package services

import (
	"github.com/priyansh-dev/attendancebackend/models"
	"github.com/priyansh-dev/attendancebackend/repository"
)

// RecordingNotifier persists notification intents as rows for an external
// deliverer (and the in-app feed) to pick up.
type RecordingNotifier struct {
	Repo repository.NotificationRepositoryInterface
}

// Notify stores one notification intent.
func (n *RecordingNotifier) Notify(studentID uint, title, body string) error {
	return n.Repo.Create(&models.Notification{
		StudentID: studentID,
		Title:     title,
		Body:      body,
	})
}
