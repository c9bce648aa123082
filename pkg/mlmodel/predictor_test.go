package mlmodel

import (
	"testing"

	"freshlens-backend/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubModel struct {
	nFeatures int
	out       float64
}

func (m *stubModel) NumFeatures() int                 { return m.nFeatures }
func (m *stubModel) PredictSingle(_ []float64) float64 { return m.out }

func TestPredictDays_RoundsToWholeDays(t *testing.T) {
	model := &stubModel{nFeatures: 3, out: 4.6}

	days, err := PredictDays(model, []float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 5, days)
}

func TestPredictDays_ClampsUpperBound(t *testing.T) {
	model := &stubModel{nFeatures: 2, out: 500}

	days, err := PredictDays(model, []float64{0, 0})
	require.NoError(t, err)
	assert.Equal(t, MaxShelfLifeDays, days)
}

func TestPredictDays_ClampsNegativeToZero(t *testing.T) {
	model := &stubModel{nFeatures: 2, out: -10}

	days, err := PredictDays(model, []float64{0, 0})
	require.NoError(t, err)
	assert.Equal(t, MinShelfLifeDays, days)
}

func TestPredictDays_RejectsShapeMismatch(t *testing.T) {
	model := &stubModel{nFeatures: 22, out: 1}

	_, err := PredictDays(model, []float64{1, 2, 3})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInferenceShape)
}
