package hos

import (
	"fmt"
	"math"
)

// degenerateTol is how much distance or time may exist on its own before a
// zero on the other axis stops making sense as a drivable route.
const degenerateTol = 1e-3

// Normalize validates the upstream route totals before synthesis.
// It rejects non-finite or negative numbers with ErrInvalidInput, and
// distance/time pairs where one side is zero while the other is not with
// ErrDegenerateRoute. Valid input passes through unchanged.
func Normalize(distanceMiles, drivingHours float64) (float64, float64, error) {
	for _, v := range []float64{distanceMiles, drivingHours} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, 0, fmt.Errorf("%w: distance=%v hours=%v", ErrInvalidInput, distanceMiles, drivingHours)
		}
	}
	if distanceMiles < 0 || drivingHours < 0 {
		return 0, 0, fmt.Errorf("%w: negative distance=%v hours=%v", ErrInvalidInput, distanceMiles, drivingHours)
	}

	if drivingHours <= degenerateTol && distanceMiles > degenerateTol {
		return 0, 0, fmt.Errorf("%w: %.2f miles with no driving time", ErrDegenerateRoute, distanceMiles)
	}
	if distanceMiles <= degenerateTol && drivingHours > degenerateTol {
		return 0, 0, fmt.Errorf("%w: %.2f driving hours with no distance", ErrDegenerateRoute, drivingHours)
	}

	return distanceMiles, drivingHours, nil
}
