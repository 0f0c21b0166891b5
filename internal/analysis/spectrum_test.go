package analysis

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestFFTImpulse(t *testing.T) {
	result := FFT([]float64{1, 0, 0, 0})

	if len(result) != 4 {
		t.Fatalf("expected 4 bins, got %d", len(result))
	}
	for k, v := range result {
		if cmplx.Abs(v-1) > 1e-12 {
			t.Errorf("bin %d: expected 1, got %v", k, v)
		}
	}
}

func TestPowerSpectrumSine(t *testing.T) {
	const n = 128
	const cycles = 8

	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * cycles * float64(i) / n)
	}

	ps := PowerSpectrum(data)

	peak := 0
	for k := range ps {
		if ps[k] > ps[peak] {
			peak = k
		}
	}
	if peak != cycles {
		t.Errorf("expected peak at bin %d, got %d", cycles, peak)
	}
}

func TestDominantPeriod(t *testing.T) {
	// 16 cycles over 512 samples at dt=0.01 puts the tone exactly on a
	// bin: period 0.32s.
	const n = 512
	const dt = 0.01

	series := make([]float64, 600)
	for i := range series {
		series[i] = 3 + math.Sin(2*math.Pi*16*float64(i)/n)
	}

	period, ok := DominantPeriod(series, dt)
	if !ok {
		t.Fatal("expected a dominant period")
	}
	if math.Abs(period-0.32) > 1e-9 {
		t.Errorf("expected period 0.32, got %f", period)
	}
}

func TestDominantPeriodFlat(t *testing.T) {
	series := make([]float64, 128)
	for i := range series {
		series[i] = 42.0
	}

	if _, ok := DominantPeriod(series, 0.01); ok {
		t.Error("expected no period for a flat series")
	}
}

func TestDominantPeriodShortSeries(t *testing.T) {
	if _, ok := DominantPeriod([]float64{1, 2, 3, 4}, 0.01); ok {
		t.Error("expected no period for a short series")
	}
	if _, ok := DominantPeriod(nil, 0.01); ok {
		t.Error("expected no period for nil series")
	}
}

func TestDominantPeriodInvalidDt(t *testing.T) {
	series := make([]float64, 128)
	if _, ok := DominantPeriod(series, 0); ok {
		t.Error("expected failure for zero dt")
	}
}
