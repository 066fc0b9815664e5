package dynamics

import "math"

// ln9 is the settling target of the time constant convention used here:
// after timeSeconds a step response has decayed to 1/9 of its height.
var ln9 = math.Log(9)

// OnePoleAlpha converts a time constant into the feedback coefficient of
// a one-pole smoother running at sampleRate:
//
//	alpha = exp(-ln(9) / (sampleRate * timeSeconds))
//
// A zero, negative or NaN time yields 0 (no smoothing). An infinite time
// yields 1 (the smoother holds its value). sampleRate must be positive;
// callers validate it once at prepare time.
func OnePoleAlpha(timeSeconds, sampleRate float64) float64 {
	if !(timeSeconds > 0) {
		return 0
	}

	return math.Exp(-ln9 / (sampleRate * timeSeconds))
}

// MillisecondsToSeconds converts a host time control to seconds.
func MillisecondsToSeconds(ms float64) float64 {
	return ms * 1e-3
}
