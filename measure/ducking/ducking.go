package ducking

import (
	"errors"
	"fmt"
	"math"
	"math/bits"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
	"github.com/maddyblue/go-dsp/window"

	"github.com/cwbudde/algo-sidechain/dsp/core"
	"github.com/cwbudde/algo-sidechain/dsp/effects/dynamics"
)

// ErrEmptySignal is returned when there is nothing to analyze.
var ErrEmptySignal = errors.New("ducking: empty sidechain signal")

const defaultBlockSize = 512

// Config holds analysis parameters.
type Config struct {
	SampleRate float64
	BlockSize  int // Host block size to simulate; 0 selects 512
	Params     dynamics.Params
	Law        dynamics.GainLaw // nil selects LinearGain
}

// DefaultConfig returns an analysis config with default controls.
func DefaultConfig(sampleRate float64) Config {
	return Config{
		SampleRate: sampleRate,
		BlockSize:  defaultBlockSize,
		Params:     dynamics.DefaultParams(),
	}
}

// Report summarizes a gain trace.
type Report struct {
	Samples        int
	SidechainPeak  float64
	MinGain        float64
	MeanGain       float64
	MaxReductionDB float64 // +Inf when the gain reaches zero
	ModulationHz   float64 // Dominant non-DC frequency of the gain; 0 if static
}

// GainTrace returns the per-sample gain the ducker applies for the given
// mono sidechain, processed in blocks of cfg.BlockSize.
func GainTrace(sidechain []float64, cfg Config) ([]float64, error) {
	if len(sidechain) == 0 {
		return nil, ErrEmptySignal
	}

	blockSize := cfg.BlockSize
	if blockSize <= 0 {
		blockSize = defaultBlockSize
	}

	d, err := dynamics.NewDucker(cfg.SampleRate,
		dynamics.WithMaxChannels(1),
		dynamics.WithMaxBlockSize(blockSize),
		dynamics.WithGainLaw(cfg.Law),
	)
	if err != nil {
		return nil, fmt.Errorf("ducking: %w", err)
	}

	trace := make([]float64, len(sidechain))
	for i := range trace {
		trace[i] = 1
	}

	main := make([][]float64, 1)
	sc := make([][]float64, 1)

	for start := 0; start < len(trace); start += blockSize {
		end := min(start+blockSize, len(trace))
		main[0] = trace[start:end]
		sc[0] = sidechain[start:end]
		d.ProcessBlock(main, sc, cfg.Params)
	}

	return trace, nil
}

// Analyze runs the ducker over sidechain and summarizes the gain trace.
func Analyze(sidechain []float64, cfg Config) (Report, error) {
	trace, err := GainTrace(sidechain, cfg)
	if err != nil {
		return Report{}, err
	}

	r := Report{
		Samples: len(trace),
		MinGain: math.Inf(1),
	}

	sum := 0.0
	for i, g := range trace {
		sum += g
		r.MinGain = min(r.MinGain, g)
		r.SidechainPeak = max(r.SidechainPeak, math.Abs(sidechain[i]))
	}

	r.MeanGain = sum / float64(len(trace))
	r.MaxReductionDB = reductionDB(r.MinGain)
	r.ModulationHz = dominantFrequency(trace, r.MeanGain, cfg.SampleRate)

	return r, nil
}

func reductionDB(gain float64) float64 {
	db := core.LinearToDB(math.Abs(gain))
	if math.IsInf(db, -1) {
		return math.Inf(1)
	}
	return max(0, -db)
}

// dominantFrequency returns the frequency of the strongest non-DC bin of
// the Hann-windowed, mean-removed trace.
func dominantFrequency(trace []float64, mean, sampleRate float64) float64 {
	n := len(trace)
	if n < 2 {
		return 0
	}

	fftSize := nextPowerOfTwo(n)
	coeffs := window.Hann(n)

	in := make([]complex128, fftSize)
	for i, g := range trace {
		in[i] = complex((g-mean)*coeffs[i], 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return 0
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return 0
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for k := range bins {
		re[k] = real(out[k])
		im[k] = imag(out[k])
	}

	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)

	peak, peakBin := 0.0, 0
	for k := 1; k < bins; k++ {
		if mag[k] > peak {
			peak, peakBin = mag[k], k
		}
	}

	// Numerically static trace.
	if peak <= 1e-9*float64(n) {
		return 0
	}

	return float64(peakBin) * sampleRate / float64(fftSize)
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
