package biomass

import (
	"math"
	"testing"

	"github.com/bluecarbon/mrv-dashboard/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreview(t *testing.T) {
	tests := []struct {
		name       string
		ndvi       float64
		area       float64
		wantFactor float64
		wantTons   uint64
	}{
		{"midrange", 0.5, 2.0, 5.0, 10},
		{"low ndvi clamps to minimum factor", 0.01, 100, 0.1, 10},
		{"full ndvi", 1.0, 1.0, 10.0, 10},
		{"zero ndvi", 0, 50, 0.1, 5},
		{"floors fractional tons", 0.33, 1.0, 3.3, 3},
		{"small area rounds down to zero", 0.5, 0.1, 5.0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est, err := Preview(tt.ndvi, tt.area)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantFactor, est.Factor, 1e-9)
			assert.Equal(t, tt.wantTons, est.Tons)
		})
	}
}

func TestPreviewValidation(t *testing.T) {
	tests := []struct {
		name string
		ndvi float64
		area float64
	}{
		{"ndvi above one", 1.5, 1.0},
		{"negative ndvi", -0.1, 1.0},
		{"nan ndvi", math.NaN(), 1.0},
		{"zero area", 0.5, 0},
		{"negative area", 0.5, -3},
		{"infinite area", 0.5, math.Inf(1)},
		{"estimate above int64", 1.0, 1e18},
		{"huge area", 1.0, 1e20},
		{"huge area low ndvi", 0, 1e300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Preview(tt.ndvi, tt.area)
			require.Error(t, err)
			assert.ErrorIs(t, err, interfaces.ErrValidation)
		})
	}
}

func TestPreviewLargeArea(t *testing.T) {
	est, err := Preview(1.0, 2e17)
	require.NoError(t, err)
	assert.Equal(t, uint64(2e18), est.Tons)

	_, err = PreviewSurvey(interfaces.Survey{AvgNDVI: 1, AreaHa: 1e20})
	assert.ErrorIs(t, err, interfaces.ErrValidation)
}

func TestFactorBounds(t *testing.T) {
	for ndvi := 0.0; ndvi <= 1.0; ndvi += 0.05 {
		f := Factor(ndvi)
		assert.GreaterOrEqual(t, f, MinFactor)
		assert.LessOrEqual(t, f, MaxFactor)
	}
}
