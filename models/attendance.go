package models

// Attendance is one attendance record. The composite unique index on
// (student_id, event_id) is the ledger invariant: at most one record may
// ever exist per pair, enforced at write time by the insert itself.
// It corresponds to the 'attendances' table.
type Attendance struct {
	ID         uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID  uint    `gorm:"not null;uniqueIndex:idx_attendances_student_event" json:"student_id"`
	EventID    uint    `gorm:"not null;uniqueIndex:idx_attendances_student_event" json:"event_id"`
	MarkedByID uint    `gorm:"not null" json:"marked_by_id"`
	IsManual   bool    `gorm:"not null;default:false" json:"is_manual"`
	Notes      *string `json:"notes,omitempty"`
	MarkedAt   int64   `gorm:"not null" json:"marked_at"` // Unix timestamp

	Student  *Student `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Event    *Event   `gorm:"foreignKey:EventID" json:"event,omitempty"`
	MarkedBy *Student `gorm:"foreignKey:MarkedByID" json:"marked_by,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Attendance) TableName() string {
	return "attendances"
}
