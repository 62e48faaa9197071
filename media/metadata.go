package media

import (
	"bytes"

	"github.com/rwcarlsen/goexif/exif"
)

// ExtractTakenAt pulls the EXIF capture time out of an image, as a Unix
// timestamp. Returns nil when the image carries no usable EXIF data; a
// missing capture time is normal for screenshots and messaging-app exports.
func ExtractTakenAt(data []byte) *int64 {
	exifData, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}

	takenAt, err := exifData.DateTime()
	if err != nil {
		return nil
	}

	unix := takenAt.Unix()
	return &unix
}
