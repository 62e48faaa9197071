package recognition

import (
	"fmt"
	"log"
	"sync"
)

// ModelManager owns the shared trained-model handle. The model has exactly
// two observable states: absent (never trained, or every build so far has
// failed) and trained. Readers take the model through Get, which builds
// lazily on first use; Retrain builds a replacement off to the side and
// swaps it in atomically, so concurrent readers always see either the fully
// previous or the fully new model.
type ModelManager struct {
	mu    sync.RWMutex
	model *TrainedModel
	build func() (*TrainedModel, error)
}

// NewModelManager creates a manager around a build function, typically
// Trainer.Train.
func NewModelManager(build func() (*TrainedModel, error)) *ModelManager {
	return &ModelManager{build: build}
}

// Get returns the current model, building one first if none exists yet.
// A failed build leaves the manager untrained and is reported to the
// caller; ErrUntrainable in particular blocks recognition until the
// enrollment set changes and a later call succeeds.
func (m *ModelManager) Get() (*TrainedModel, error) {
	m.mu.RLock()
	model := m.model
	m.mu.RUnlock()
	if model != nil {
		return model, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.model != nil {
		return m.model, nil
	}

	model, err := m.build()
	if err != nil {
		return nil, fmt.Errorf("model build failed: %w", err)
	}
	m.model = model
	return model, nil
}

// Retrain builds a fresh model and swaps it in. On failure the previous
// model, if any, stays in place untouched.
func (m *ModelManager) Retrain() (*TrainedModel, error) {
	model, err := m.build()
	if err != nil {
		return nil, fmt.Errorf("retrain failed: %w", err)
	}

	m.mu.Lock()
	m.model = model
	m.mu.Unlock()

	log.Printf("recognition: model retrained (%d sample(s))", model.SampleCount())
	return model, nil
}

// Current returns the model without triggering a build.
func (m *ModelManager) Current() (*TrainedModel, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.model, m.model != nil
}
