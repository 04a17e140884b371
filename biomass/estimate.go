// Package biomass computes the local, advisory biomass preview shown before a
// drone survey is submitted, and the metadata document the registry pins for
// it. The Registry Service computes the authoritative value.
package biomass

import (
	"fmt"
	"math"

	"github.com/bluecarbon/mrv-dashboard/interfaces"
)

const (
	MinFactor = 0.1
	MaxFactor = 10.0

	// ndviScale converts an average NDVI into tons per hectare before clamping.
	ndviScale = 10.0

	// maxTons bounds factor*area so the floored estimate fits an int64.
	maxTons = float64(math.MaxInt64)
)

// Estimate is a biomass preview.
type Estimate struct {
	Factor float64 `json:"factor"`
	Tons   uint64  `json:"biomass_tons"`
}

// Validate checks the survey domain: ndvi in [0,1], area > 0 and an
// estimate that fits in an int64.
func Validate(ndvi, areaHa float64) error {
	if math.IsNaN(ndvi) || ndvi < 0 || ndvi > 1 {
		return fmt.Errorf("%w: NDVI must be between 0 and 1", interfaces.ErrValidation)
	}
	if math.IsNaN(areaHa) || math.IsInf(areaHa, 0) || areaHa <= 0 {
		return fmt.Errorf("%w: Area must be greater than 0", interfaces.ErrValidation)
	}
	if Factor(ndvi)*areaHa >= maxTons {
		return fmt.Errorf("%w: Area is too large", interfaces.ErrValidation)
	}
	return nil
}

// Factor returns clamp(ndvi*10, 0.1, 10).
func Factor(ndvi float64) float64 {
	return math.Max(MinFactor, math.Min(MaxFactor, ndvi*ndviScale))
}

// Preview validates the inputs and computes floor(factor*area).
func Preview(ndvi, areaHa float64) (Estimate, error) {
	if err := Validate(ndvi, areaHa); err != nil {
		return Estimate{}, err
	}

	factor := Factor(ndvi)
	return Estimate{
		Factor: factor,
		Tons:   uint64(math.Floor(factor * areaHa)),
	}, nil
}
