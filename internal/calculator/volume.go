package calculator

// VolumeRatio divides each volume by its trailing window mean. Rows where the
// mean is zero or not yet defined read as 1.
func VolumeRatio(volume []float64, window int) []float64 {
	mean := RollingMean(volume, window)
	out := make([]float64, len(volume))
	for i := range volume {
		if !IsDefined(mean[i]) || mean[i] == 0 {
			out[i] = 1
			continue
		}
		out[i] = volume[i] / mean[i]
	}
	return out
}
