package dynamics

import "math"

// GainLaw maps a sidechain level (absolute sample value) and the amount
// control in [0, 1] to a raw gain. Implementations must be non-increasing
// in level and return exactly 1 when amount is 0.
type GainLaw func(level, amount float64) float64

// LinearGain returns 1 - level*amount.
//
// Sidechain peaks above 1.0 at full amount drive the gain below zero,
// which inverts the main signal. This is the default law.
func LinearGain(level, amount float64) float64 {
	return 1 - level*amount
}

// ClampedGain is LinearGain floored at zero.
func ClampedGain(level, amount float64) float64 {
	return max(0, 1-level*amount)
}

// DecibelGain returns a law that attenuates by up to rangeDB decibels for
// a full-scale sidechain at full amount, growing linearly in dB with the
// sidechain level. The gain never becomes negative.
func DecibelGain(rangeDB float64) GainLaw {
	rangeDB = math.Abs(rangeDB)
	k := -rangeDB / 20 * math.Ln10

	return func(level, amount float64) float64 {
		return math.Exp(k * level * amount)
	}
}
