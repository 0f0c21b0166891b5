package analysis

import (
	"math"
	"math/cmplx"
)

// FFT computes the discrete Fourier transform of data. The length must be
// a power of two; [DominantPeriod] handles truncation for callers.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n%2 != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)

	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}

	return result
}

// PowerSpectrum returns the magnitudes of the positive-frequency bins.
func PowerSpectrum(data []float64) []float64 {
	fft := FFT(data)
	ps := make([]float64, len(fft)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}

	return ps
}

// hann tapers the series ends so truncation does not smear the spectrum.
func hann(data []float64) []float64 {
	n := len(data)
	out := make([]float64, n)
	if n == 1 {
		out[0] = data[0]
		return out
	}
	for i, v := range data {
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		out[i] = v * w
	}
	return out
}

// DominantPeriod estimates the strongest oscillation period, in seconds,
// of a series sampled every dt. The series is mean-removed, Hann windowed,
// and truncated to the largest power-of-two length before the transform.
// ok is false when the series is too short or has no oscillatory content.
func DominantPeriod(series []float64, dt float64) (period float64, ok bool) {
	if dt <= 0 {
		return 0, false
	}

	n := 1
	for n*2 <= len(series) {
		n *= 2
	}
	if n < 8 {
		return 0, false
	}

	data := make([]float64, n)
	copy(data, series[:n])

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)
	for i := range data {
		data[i] -= mean
	}

	ps := PowerSpectrum(hann(data))

	peak := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[peak] {
			peak = k
		}
	}
	if ps[peak] <= 1e-9 {
		return 0, false
	}

	return float64(n) * dt / float64(peak), true
}
