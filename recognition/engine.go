package recognition

import (
	"image"
	"log"

	"gocv.io/x/gocv"
)

// Result is one classified face detection: where it was found, the raw
// label and distance from the classifier, and the student the label
// resolved to. StudentID is empty when the label has no mapping.
type Result struct {
	Region     image.Rectangle `json:"region"`
	Label      int             `json:"label"`
	Confidence float64         `json:"confidence"`
	StudentID  string          `json:"student_id,omitempty"`
}

// Engine locates and classifies faces in arbitrary images against the
// shared trained model.
type Engine struct {
	locator FaceLocator
	models  *ModelManager
}

// NewEngine wires an engine to a face locator and the model manager.
func NewEngine(locator FaceLocator, models *ModelManager) *Engine {
	return &Engine{locator: locator, models: models}
}

// RecognizeFile runs recognition over an image on disk.
func (e *Engine) RecognizeFile(path string) ([]Result, error) {
	model, err := e.models.Get()
	if err != nil {
		return nil, err
	}
	gray, err := loadGrayscaleFile(path)
	if err != nil {
		return nil, err
	}
	defer gray.Close()
	return e.recognize(gray, model), nil
}

// RecognizeBytes runs recognition over an in-memory image.
func (e *Engine) RecognizeBytes(buf []byte) ([]Result, error) {
	model, err := e.models.Get()
	if err != nil {
		return nil, err
	}
	gray, err := loadGrayscaleBytes(buf)
	if err != nil {
		return nil, err
	}
	defer gray.Close()
	return e.recognize(gray, model), nil
}

// recognize classifies every located face in detection order. A region that
// cannot be normalized is skipped without aborting the rest of the batch.
// Zero detected faces yields an empty, non-error result.
func (e *Engine) recognize(gray gocv.Mat, model *TrainedModel) []Result {
	regions := e.locator.Detect(gray)
	results := make([]Result, 0, len(regions))

	for _, region := range regions {
		patch, ok := normalizePatch(gray, region)
		if !ok {
			log.Printf("recognition: skipping degenerate face region %v", region)
			continue
		}

		label, confidence := model.Classify(patch)
		patch.Close()

		result := Result{Region: region, Label: label, Confidence: confidence}
		if studentID, ok := model.StudentID(label); ok {
			result.StudentID = studentID
		}
		results = append(results, result)
	}

	return results
}

// CountFacesInFile reports how many candidate faces the locator finds in an
// image on disk. Used to validate enrollment photos before training.
func CountFacesInFile(locator FaceLocator, path string) (int, error) {
	gray, err := loadGrayscaleFile(path)
	if err != nil {
		return 0, err
	}
	defer gray.Close()
	return len(locator.Detect(gray)), nil
}
