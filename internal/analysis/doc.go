// Package analysis extracts oscillation structure from recorded metric
// series.
//
//   - [FFT]: radix-2 discrete Fourier transform
//   - [PowerSpectrum]: magnitudes of the positive-frequency bins
//   - [DominantPeriod]: strongest oscillation period of a sampled series
//
// The intended use is post-run inspection of stored series, e.g. reading
// the swing period of a pendulum scene off its center-of-mass height:
//
//	period, ok := analysis.DominantPeriod(series["com_height"], dt)
//	if ok {
//	    fmt.Printf("period %.3fs\n", period)
//	}
package analysis
