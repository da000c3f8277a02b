package learner

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/katya-aviation/neurofcc/internal/neural"
)

// modelFile is the on-disk form of a saved behavior model. The weight layout
// follows the predictor snapshot; counters ride along so a restored session
// keeps its readiness state.
type modelFile struct {
	Samples    int             `json:"samples"`
	Trained    bool            `json:"trained"`
	Aggression float64         `json:"aggression"`
	Predictor  neural.Snapshot `json:"predictor"`
}

// SaveModel writes the learned predictor state to path.
func (l *Learner) SaveModel(path string) error {
	data, err := json.MarshalIndent(modelFile{
		Samples:    l.samples,
		Trained:    l.trained,
		Aggression: l.aggression,
		Predictor:  l.predictor.Snapshot(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("learner: encode model: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("learner: write model (%s): %w", path, err)
	}
	return nil
}

// LoadModel replaces the predictor weights and counters with a saved model.
// The recorded sample history is not persisted; only the learned state is.
func (l *Learner) LoadModel(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("learner: read model (%s): %w", path, err)
	}
	var mf modelFile
	if err := json.Unmarshal(data, &mf); err != nil {
		return fmt.Errorf("learner: decode model (%s): %w", path, err)
	}
	if err := l.predictor.Restore(mf.Predictor); err != nil {
		return fmt.Errorf("learner: restore predictor: %w", err)
	}
	l.samples = mf.Samples
	l.trained = mf.Trained
	l.SetAggression(mf.Aggression)
	return nil
}
