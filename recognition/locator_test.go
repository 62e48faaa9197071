package recognition

import (
	"os"
	"sync"
	"testing"

	"gocv.io/x/gocv"
)

// TestCascadeLocatorConcurrentDetect hammers one shared locator from many
// goroutines. The underlying OpenCV classifier mutates internal buffers
// during detection, so this only stays sound because Detect serializes
// access; run with -race to verify. Needs a cascade file, so it only runs
// when one is provided.
func TestCascadeLocatorConcurrentDetect(t *testing.T) {
	cascadePath := os.Getenv("FACE_CASCADE_PATH")
	if cascadePath == "" {
		t.Skip("set FACE_CASCADE_PATH to run")
	}

	locator, err := NewCascadeLocator(cascadePath, DefaultDetectorParams())
	if err != nil {
		t.Fatalf("failed to load cascade: %v", err)
	}
	defer locator.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			gray := gocv.NewMatWithSize(240, 320, gocv.MatTypeCV8U)
			defer gray.Close()
			for j := 0; j < 5; j++ {
				locator.Detect(gray)
			}
		}()
	}
	wg.Wait()
}

func TestCascadeLocatorMissingFile(t *testing.T) {
	if _, err := NewCascadeLocator("/nonexistent/cascade.xml", DefaultDetectorParams()); err == nil {
		t.Fatal("expected an error for a missing cascade file")
	}
}
