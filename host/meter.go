package host

import (
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-sidechain/dsp/core"
	"github.com/cwbudde/algo-sidechain/dsp/effects/dynamics"
)

// MeterStats holds the levels of the most recently processed block.
type MeterStats struct {
	Gain            float64 // Lowest smoothed gain in the block
	GainReductionDB float64 // Gain expressed as reduction in dB (>= 0)
	SidechainPeak   float64
	Blocks          uint64 // Blocks processed with gain applied
}

// Meter publishes engine metrics from the audio thread. Values are stored
// as atomic float64 bits so UI threads can read them without locking.
type Meter struct {
	gain   atomic.Uint64
	peak   atomic.Uint64
	blocks atomic.Uint64
}

func newMeter() *Meter {
	m := &Meter{}
	m.Reset()
	return m
}

// Reset clears the meter to unity gain and silence.
func (m *Meter) Reset() {
	m.gain.Store(math.Float64bits(1))
	m.peak.Store(0)
	m.blocks.Store(0)
}

// publish stores the metrics of one block. A block that applied no gain
// (disabled or without sidechain) carries the neutral values from
// ResetMetrics, so the meter falls back to unity gain and zero peak.
func (m *Meter) publish(metrics dynamics.Metrics) {
	m.gain.Store(math.Float64bits(metrics.MinGain))
	m.peak.Store(math.Float64bits(metrics.SidechainPeak))
	m.blocks.Add(metrics.Blocks)
}

// Read returns the latest published values.
func (m *Meter) Read() MeterStats {
	gain := math.Float64frombits(m.gain.Load())
	return MeterStats{
		Gain:            gain,
		GainReductionDB: gainReductionDB(gain),
		SidechainPeak:   math.Float64frombits(m.peak.Load()),
		Blocks:          m.blocks.Load(),
	}
}

// gainReductionDB reports attenuation as a positive dB figure. Negative
// gains (phase-inverted ducking) are measured by magnitude.
func gainReductionDB(gain float64) float64 {
	db := core.LinearToDB(math.Abs(gain))
	if math.IsInf(db, -1) {
		return math.Inf(1)
	}
	return max(0, -db)
}
