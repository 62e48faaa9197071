package recognition

import (
	"fmt"
	"log"

	"gocv.io/x/gocv"
)

// EnrollmentRecord is one active student's reference photo, as provided by
// the enrollment store.
type EnrollmentRecord struct {
	StudentID string
	PhotoPath string
}

// EnrollmentSource yields the active enrollment set. Implementations are
// read-only from the trainer's point of view.
type EnrollmentSource interface {
	ActiveEnrollments() ([]EnrollmentRecord, error)
}

// Trainer builds a TrainedModel from the active enrollment set. Every face
// detected in a reference photo becomes one training patch under a fresh
// label mapped to the owning student.
type Trainer struct {
	locator FaceLocator
	source  EnrollmentSource
}

// NewTrainer wires a trainer to a face locator and an enrollment source.
func NewTrainer(locator FaceLocator, source EnrollmentSource) *Trainer {
	return &Trainer{locator: locator, source: source}
}

// Train reads every reference photo, collects normalized face patches, and
// builds the classifier and label map together as one atomic value.
// Unreadable or faceless reference photos are skipped; they only make the
// training set smaller. An empty training set yields ErrUntrainable.
func (t *Trainer) Train() (*TrainedModel, error) {
	enrollments, err := t.source.ActiveEnrollments()
	if err != nil {
		return nil, fmt.Errorf("failed to read enrollment set: %w", err)
	}

	var samples []gocv.Mat
	var labels []int
	labelMap := make(map[int]string)
	nextLabel := 0

	defer func() {
		for _, sample := range samples {
			sample.Close()
		}
	}()

	for _, enrollment := range enrollments {
		if enrollment.PhotoPath == "" {
			continue
		}

		gray, err := loadGrayscaleFile(enrollment.PhotoPath)
		if err != nil {
			log.Printf("recognition: skipping reference photo for %s: %v", enrollment.StudentID, err)
			continue
		}

		regions := t.locator.Detect(gray)
		if len(regions) == 0 {
			log.Printf("recognition: no face in reference photo for %s", enrollment.StudentID)
		}
		for _, region := range regions {
			patch, ok := normalizePatch(gray, region)
			if !ok {
				continue
			}
			samples = append(samples, patch)
			labels = append(labels, nextLabel)
			labelMap[nextLabel] = enrollment.StudentID
			nextLabel++
		}
		gray.Close()
	}

	if len(samples) == 0 {
		return nil, ErrUntrainable
	}

	classifier := newLBPHClassifier(samples, labels)
	model := NewTrainedModel(classifier, labelMap, len(samples))
	log.Printf("recognition: trained model with %d face(s) from %d enrollment(s)", len(samples), len(enrollments))
	return model, nil
}
