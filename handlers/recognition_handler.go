package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/priyansh-dev/attendancebackend/recognition"
)

// RecognitionHandler exposes explicit model lifecycle control. The model is
// never invalidated automatically when enrollment changes; operators hit
// retrain after updating reference photos.
type RecognitionHandler struct {
	Manager *recognition.ModelManager
}

// Retrain handles POST /api/recognition/retrain
func (h *RecognitionHandler) Retrain(w http.ResponseWriter, r *http.Request) {
	model, err := h.Manager.Retrain()
	if err != nil {
		if errors.Is(err, recognition.ErrUntrainable) {
			WriteAPIError(w, http.StatusConflict, "untrainable", "no usable training faces in the enrollment set")
			return
		}
		log.Printf("handler: retrain failed: %v", err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "retrain failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sample_count": model.SampleCount(),
		"built_at":     model.BuiltAt().Unix(),
	})
}

// Status handles GET /api/recognition/status. Reports the current model
// without triggering a build.
func (h *RecognitionHandler) Status(w http.ResponseWriter, r *http.Request) {
	model, ok := h.Manager.Current()
	if !ok {
		writeJSON(w, http.StatusOK, map[string]interface{}{"trained": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"trained":      true,
		"sample_count": model.SampleCount(),
		"built_at":     model.BuiltAt().Unix(),
	})
}
