package models

// Submission records one group-photo attendance submission and its summary
// counts, so outcomes stay queryable after the fact.
// It corresponds to the 'submissions' table.
type Submission struct {
	ID      uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID    string `gorm:"uniqueIndex;not null" json:"uuid"`
	EventID uint   `gorm:"not null;index" json:"event_id"`
	ActorID uint   `gorm:"not null" json:"actor_id"`

	// PhotoPath is the media-store relative path of the stored group photo.
	PhotoPath string `gorm:"not null" json:"photo_path"`
	// TakenAt is the EXIF capture time of the photo, when present.
	TakenAt *int64 `json:"taken_at,omitempty"`

	FacesDetected int `gorm:"not null" json:"faces_detected"`
	FacesResolved int `gorm:"not null" json:"faces_resolved"`
	Marked        int `gorm:"not null" json:"marked"`
	AlreadyMarked int `gorm:"not null" json:"already_marked"`
	Unrecognized  int `gorm:"not null" json:"unrecognized"`

	CreatedAt int64 `gorm:"not null" json:"created_at"` // Unix timestamp

	Event *Event   `gorm:"foreignKey:EventID" json:"event,omitempty"`
	Actor *Student `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Submission) TableName() string {
	return "submissions"
}
