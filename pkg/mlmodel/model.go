package mlmodel

import (
	"github.com/dmitryikh/leaves"
)

type (
	// Model is a loaded gradient-boosting regressor able to score one row.
	Model interface {
		NumFeatures() int
		PredictSingle(fvals []float64) float64
	}

	leavesModel struct {
		ensemble *leaves.Ensemble
	}
)

func (m *leavesModel) NumFeatures() int {
	return m.ensemble.NFeatures()
}

func (m *leavesModel) PredictSingle(fvals []float64) float64 {
	return m.ensemble.PredictSingle(fvals, 0)
}

// loadBoosterFile reads the binary XGBoost export of the freshlens booster.
func loadBoosterFile(path string) (Model, error) {
	ensemble, err := leaves.XGEnsembleFromFile(path, false)
	if err != nil {
		return nil, err
	}
	return &leavesModel{ensemble: ensemble}, nil
}
