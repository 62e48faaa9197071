package models

// Notification is a persisted notification intent for a student. Delivery
// (email or otherwise) is an external concern; this table is the queue and
// in-app feed.
// It corresponds to the 'notifications' table.
type Notification struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID uint   `gorm:"not null;index" json:"student_id"`
	Title     string `gorm:"not null" json:"title"`
	Body      string `json:"body,omitempty"`
	IsRead    bool   `gorm:"not null;default:false" json:"is_read"`
	CreatedAt int64  `gorm:"not null" json:"created_at"` // Unix timestamp

	Student *Student `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Notification) TableName() string {
	return "notifications"
}
