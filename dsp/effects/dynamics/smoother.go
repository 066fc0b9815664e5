package dynamics

import "github.com/cwbudde/algo-sidechain/dsp/core"

// neutralGain is the smoother state that leaves the main signal untouched.
const neutralGain = 1.0

// SmoothStep advances a one-pole smoother by one sample.
//
// attackAlpha is used when target < prev (the gain is falling, i.e. more
// ducking is demanded); releaseAlpha is used otherwise. The result equals
// (1-alpha)*target + alpha*prev and always lies within
// [min(target, prev), max(target, prev)].
//
// A step that would not be finite (NaN or infinite sidechain input)
// returns prev unchanged, so a finite state stays finite.
func SmoothStep(target, prev, attackAlpha, releaseAlpha float64) float64 {
	alpha := releaseAlpha
	if target < prev {
		alpha = attackAlpha
	}

	// Written around target so alpha == 0 and target == prev are exact.
	y := target + alpha*(prev-target)
	if !core.IsFinite(y) {
		return prev
	}

	// Rounding can push y one ulp past an endpoint.
	lo, hi := min(target, prev), max(target, prev)
	if y < lo {
		return lo
	}
	if y > hi {
		return hi
	}

	return y
}

// Smoother holds one smoothed gain per channel.
//
// Smoother is not safe for concurrent use. Resize must only be called
// from prepare-time code, never from the per-sample loop.
type Smoother struct {
	gains []float64
}

// NewSmoother returns a smoother with the given number of channels, all
// at unity gain. Negative counts are treated as zero.
func NewSmoother(channels int) *Smoother {
	s := &Smoother{}
	s.Resize(channels)
	return s
}

// Resize sets the channel count and resets every channel to unity.
func (s *Smoother) Resize(channels int) {
	if channels < 0 {
		channels = 0
	}

	if cap(s.gains) >= channels {
		s.gains = s.gains[:channels]
	} else {
		s.gains = make([]float64, channels)
	}

	s.Reset()
}

// Reset sets every channel back to unity gain.
func (s *Smoother) Reset() {
	for i := range s.gains {
		s.gains[i] = neutralGain
	}
}

// Channels returns the number of channels with persisted state.
func (s *Smoother) Channels() int {
	return len(s.gains)
}

// Gain returns the current smoothed gain of channel ch.
func (s *Smoother) Gain(ch int) float64 {
	return s.gains[ch]
}

// Step smooths target on channel ch, stores the result as the channel's
// new state and returns it.
func (s *Smoother) Step(ch int, target, attackAlpha, releaseAlpha float64) float64 {
	g := core.FlushDenormals(SmoothStep(target, s.gains[ch], attackAlpha, releaseAlpha))
	s.gains[ch] = g
	return g
}
