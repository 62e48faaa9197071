package models

// Event represents an event attendance is taken for. Event lifecycle
// (creation, approval) is owned elsewhere; this service only reads events
// and references them from attendance records.
// It corresponds to the 'events' table.
type Event struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string `gorm:"not null" json:"title"`
	Venue     string `json:"venue,omitempty"`
	StartsAt  int64  `gorm:"not null" json:"starts_at"`  // Unix timestamp
	CreatedAt int64  `gorm:"not null" json:"created_at"` // Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (Event) TableName() string {
	return "events"
}
