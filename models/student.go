package models

// Reference photo validation states. A student only contributes to the
// trained model once their photo has been validated as containing a face.
const (
	PhotoStatusPending = "pending"
	PhotoStatusOK      = "ok"
	PhotoStatusNoFace  = "no_face"
	PhotoStatusError   = "error"
)

// Student represents an enrolled person. The external student identifier is
// the stable key used by recognition; the numeric ID is database-internal.
// It corresponds to the 'students' table.
type Student struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID string `gorm:"uniqueIndex;not null" json:"student_id"`
	Name      string `gorm:"not null" json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`

	// PhotoPath is the media-store relative path of the reference photo.
	PhotoPath   string  `json:"photo_path,omitempty"`
	PhotoStatus string  `gorm:"not null;default:pending" json:"photo_status"`
	PhotoError  *string `json:"photo_error,omitempty"`

	IsActive  bool  `gorm:"not null;default:true" json:"is_active"`
	CreatedAt int64 `gorm:"not null" json:"created_at"` // Unix timestamp
	UpdatedAt int64 `gorm:"not null" json:"updated_at"` // Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (Student) TableName() string {
	return "students"
}
