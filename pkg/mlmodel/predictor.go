package mlmodel

import (
	"fmt"
	"math"

	"freshlens-backend/domain"
)

// Shelf-life predictions outside this range are clamped; the booster can
// extrapolate into nonsense on unusual sensor values.
const (
	MinShelfLifeDays = 0
	MaxShelfLifeDays = 365
)

// PredictDays scores one feature vector and returns the predicted remaining
// shelf life as whole days in [MinShelfLifeDays, MaxShelfLifeDays].
func PredictDays(model Model, fvals []float64) (int, error) {
	if n := model.NumFeatures(); n != len(fvals) {
		return 0, fmt.Errorf("%w: model expects %d features, got %d", domain.ErrInferenceShape, n, len(fvals))
	}

	raw := model.PredictSingle(fvals)
	clamped := math.Min(math.Max(raw, MinShelfLifeDays), MaxShelfLifeDays)
	return int(math.Round(clamped)), nil
}
