package recognition

import (
	"time"

	"gocv.io/x/gocv"
	"gocv.io/x/gocv/contrib"
)

// Classifier assigns a trained label and a confidence score to a normalized
// face patch. Confidence is a non-negative distance: 0 is a perfect match
// and larger values are worse.
type Classifier interface {
	Predict(patch gocv.Mat) (label int, confidence float64)
}

// TrainedModel pairs classifier state with the label→student map it was
// built with. The two are constructed together in a single build step and
// are never mutated afterwards; retraining produces a whole new value.
type TrainedModel struct {
	classifier  Classifier
	labels      map[int]string
	sampleCount int
	builtAt     time.Time
}

// NewTrainedModel builds a model value from a classifier and its label map.
// The label map is copied so later mutation by the caller cannot leak in.
func NewTrainedModel(classifier Classifier, labels map[int]string, sampleCount int) *TrainedModel {
	owned := make(map[int]string, len(labels))
	for label, studentID := range labels {
		owned[label] = studentID
	}
	return &TrainedModel{
		classifier:  classifier,
		labels:      owned,
		sampleCount: sampleCount,
		builtAt:     time.Now(),
	}
}

// Classify predicts the best label and distance for a normalized patch.
func (m *TrainedModel) Classify(patch gocv.Mat) (int, float64) {
	return m.classifier.Predict(patch)
}

// StudentID resolves a label to the enrolled student identifier it was
// assigned to during training.
func (m *TrainedModel) StudentID(label int) (string, bool) {
	id, ok := m.labels[label]
	return id, ok
}

// SampleCount reports how many training patches the model was built from.
func (m *TrainedModel) SampleCount() int { return m.sampleCount }

// BuiltAt reports when the model was built.
func (m *TrainedModel) BuiltAt() time.Time { return m.builtAt }

// lbphClassifier wraps the OpenCV contrib LBPH face recognizer.
type lbphClassifier struct {
	recognizer *contrib.LBPHFaceRecognizer
}

// newLBPHClassifier trains an LBPH recognizer over the full sample set in
// one synchronous step. Samples must be PatchSize grayscale Mats; labels
// must be parallel to samples.
func newLBPHClassifier(samples []gocv.Mat, labels []int) *lbphClassifier {
	recognizer := contrib.NewLBPHFaceRecognizer()
	recognizer.Train(samples, labels)
	return &lbphClassifier{recognizer: recognizer}
}

func (c *lbphClassifier) Predict(patch gocv.Mat) (int, float64) {
	resp := c.recognizer.PredictExtendedResponse(patch)
	return int(resp.Label), float64(resp.Confidence)
}
