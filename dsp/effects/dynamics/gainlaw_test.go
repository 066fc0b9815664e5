package dynamics

import (
	"math"
	"testing"
)

func TestGainLawsAmountZeroIsUnity(t *testing.T) {
	laws := map[string]GainLaw{
		"linear":  LinearGain,
		"clamped": ClampedGain,
		"decibel": DecibelGain(24),
	}

	for name, law := range laws {
		t.Run(name, func(t *testing.T) {
			for _, level := range []float64{0, 0.3, 1, 4} {
				if got := law(level, 0); got != 1 {
					t.Fatalf("law(%v, 0) = %v, want exactly 1", level, got)
				}
			}
		})
	}
}

func TestGainLawsNonIncreasing(t *testing.T) {
	laws := map[string]GainLaw{
		"linear":  LinearGain,
		"clamped": ClampedGain,
		"decibel": DecibelGain(-40),
	}

	for name, law := range laws {
		t.Run(name, func(t *testing.T) {
			for _, amount := range []float64{0.1, 0.5, 1} {
				prev := law(0, amount)
				for level := 0.01; level <= 2; level += 0.01 {
					g := law(level, amount)
					if g > prev {
						t.Fatalf("law(%v, %v) = %v rose above %v", level, amount, g, prev)
					}
					prev = g
				}
			}
		})
	}
}

func TestLinearGainFullScale(t *testing.T) {
	if got := LinearGain(1, 1); got != 0 {
		t.Fatalf("LinearGain(1, 1) = %v, want 0", got)
	}
	if got := LinearGain(0.5, 0.5); got != 0.75 {
		t.Fatalf("LinearGain(0.5, 0.5) = %v, want 0.75", got)
	}
	if got := LinearGain(2, 1); got != -1 {
		t.Fatalf("LinearGain(2, 1) = %v, want -1", got)
	}
}

func TestClampedGainFloor(t *testing.T) {
	if got := ClampedGain(2, 1); got != 0 {
		t.Fatalf("ClampedGain(2, 1) = %v, want 0", got)
	}
}

func TestDecibelGainRange(t *testing.T) {
	law := DecibelGain(20)
	if got := law(1, 1); math.Abs(got-0.1) > 1e-12 {
		t.Fatalf("DecibelGain(20)(1, 1) = %v, want 0.1", got)
	}
	if got := law(1, 0.5); math.Abs(got-math.Pow(10, -0.5)) > 1e-12 {
		t.Fatalf("DecibelGain(20)(1, 0.5) = %v, want -10 dB", got)
	}
}
