package recognition

import (
	"fmt"
	"image"
	"log"
	"os"
	"sync"

	"gocv.io/x/gocv"
)

// DetectorParams controls how the face locator scans an image.
type DetectorParams struct {
	// ScaleFactor is the per-step image pyramid reduction (e.g. 1.1).
	ScaleFactor float64
	// MinNeighbors is the number of corroborating neighbor detections a
	// candidate region needs before it is kept.
	MinNeighbors int
	// MinFaceSize is the smallest face side length, in pixels, to report.
	MinFaceSize int
}

// DefaultDetectorParams matches the parameters the enrollment photos were
// originally validated with.
func DefaultDetectorParams() DetectorParams {
	return DetectorParams{ScaleFactor: 1.1, MinNeighbors: 5, MinFaceSize: 30}
}

// FaceLocator finds candidate face regions in a grayscale image. An empty
// slice is a valid, non-error result. Overlapping rectangles for the same
// physical face may be returned uncollapsed; deduplication happens at the
// identity level, not geometrically.
type FaceLocator interface {
	Detect(gray gocv.Mat) []image.Rectangle
}

// CascadeLocator locates faces with an OpenCV Haar cascade classifier. The
// underlying classifier mutates internal buffers during detection, so Detect
// serializes all access: a single instance is safe to share across
// goroutines, at the cost of one detection at a time. Construct a dedicated
// instance where detection throughput matters.
type CascadeLocator struct {
	mu         sync.Mutex
	classifier gocv.CascadeClassifier
	params     DetectorParams
}

// NewCascadeLocator loads the cascade file at the given path.
func NewCascadeLocator(cascadePath string, params DetectorParams) (*CascadeLocator, error) {
	if _, err := os.Stat(cascadePath); err != nil {
		return nil, fmt.Errorf("cascade file %s: %w", cascadePath, err)
	}

	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(cascadePath) {
		classifier.Close()
		return nil, fmt.Errorf("failed to load cascade classifier from %s", cascadePath)
	}

	if params.ScaleFactor <= 1.0 {
		params.ScaleFactor = 1.1
	}
	if params.MinNeighbors <= 0 {
		params.MinNeighbors = 5
	}
	if params.MinFaceSize <= 0 {
		params.MinFaceSize = 30
	}

	log.Printf("recognition: loaded cascade classifier from %s", cascadePath)
	return &CascadeLocator{classifier: classifier, params: params}, nil
}

// Detect returns the candidate face regions in detection order. Results are
// deterministic for an identical image and parameter set.
func (l *CascadeLocator) Detect(gray gocv.Mat) []image.Rectangle {
	if gray.Empty() {
		return nil
	}
	minSize := image.Pt(l.params.MinFaceSize, l.params.MinFaceSize)

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.classifier.DetectMultiScaleWithParams(
		gray, l.params.ScaleFactor, l.params.MinNeighbors, 0, minSize, image.Pt(0, 0))
}

// Close releases the underlying classifier.
func (l *CascadeLocator) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.classifier.Close()
}
