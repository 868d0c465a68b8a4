package calculator

import "errors"

// CalculateVolumeRatio returns the ratio of the most recent volume to the simple
// moving average of volume over the given period (the current bar included).
// A ratio above 1 means the current bar trades above its recent average.
func CalculateVolumeRatio(volumes []float64, period int) (float64, error) {
	if len(volumes) == 0 {
		return 0, errors.New("no volume data")
	}
	avg, err := CalculateSMA(volumes, period)
	if err != nil {
		return 0, err
	}
	if avg == 0 {
		return 1, nil
	}
	return volumes[len(volumes)-1] / avg, nil
}
