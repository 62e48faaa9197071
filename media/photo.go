package media

import (
	"bytes"
	"fmt"
	"image"
	"log"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	// StudentPhotoMaxWidth bounds stored reference photos. Wide enough for
	// face detection, small enough to keep training reads cheap.
	StudentPhotoMaxWidth = 800
	StudentPhotoQuality  = 90

	PhotoFileExtension = ".jpg"
)

// SaveStudentPhoto decodes an uploaded reference photo, downscales it if it
// is wider than StudentPhotoMaxWidth, and stores it as a JPEG under a UUID
// filename. Returns the store-relative path.
func SaveStudentPhoto(store Store, data []byte) (string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode uploaded student photo: %w", err)
	}

	if img.Bounds().Dx() > StudentPhotoMaxWidth {
		img = imaging.Resize(img, StudentPhotoMaxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(StudentPhotoQuality)); err != nil {
		return "", fmt.Errorf("failed to encode student photo: %w", err)
	}

	filename := uuid.NewString() + PhotoFileExtension
	relPath, err := store.Save(AssetTypeStudentPhoto, filename, &buf)
	if err != nil {
		return "", err
	}

	log.Printf("media: saved student photo (format: %s) to %s", format, relPath)
	return relPath, nil
}

// SaveGroupPhoto stores an uploaded group photo verbatim under a UUID
// filename; resolution is kept as-is because detection quality depends on
// it. Returns the submission UUID and the store-relative path.
func SaveGroupPhoto(store Store, data []byte) (string, string, error) {
	// decode up front so a corrupt upload fails here, not mid-recognition
	if _, _, err := image.Decode(bytes.NewReader(data)); err != nil {
		return "", "", fmt.Errorf("failed to decode uploaded group photo: %w", err)
	}

	photoUUID := uuid.NewString()
	relPath, err := store.Save(AssetTypeGroupPhoto, photoUUID+PhotoFileExtension, bytes.NewReader(data))
	if err != nil {
		return "", "", err
	}
	return photoUUID, relPath, nil
}
