package media

// AssetType identifies a class of stored photo.
type AssetType string

const (
	AssetTypeStudentPhoto AssetType = "student_photo"
	AssetTypeGroupPhoto   AssetType = "group_photo"
)
