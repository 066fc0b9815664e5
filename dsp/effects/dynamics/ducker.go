package dynamics

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-sidechain/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

const (
	// DefaultMaxChannels is the stereo channel budget used when
	// WithMaxChannels is not given.
	DefaultMaxChannels = 2
	// DefaultMaxBlockSize sizes the internal gain scratch buffer. Longer
	// blocks are processed in chunks of this size.
	DefaultMaxBlockSize = 512
)

// Metrics holds metering information accumulated since the last
// ResetMetrics.
type Metrics struct {
	MinGain       float64 // Lowest smoothed gain applied (1 = no ducking)
	SidechainPeak float64 // Highest absolute sidechain sample seen
	Blocks        uint64  // Blocks in which gain was applied
}

type duckerConfig struct {
	maxChannels  int
	maxBlockSize int
	law          GainLaw
}

// Option configures a Ducker at construction time.
type Option func(*duckerConfig)

// WithMaxChannels sets how many channels carry smoothing state.
func WithMaxChannels(n int) Option {
	return func(cfg *duckerConfig) {
		cfg.maxChannels = n
	}
}

// WithMaxBlockSize sets the initial maximum block size. Prepare replaces it.
func WithMaxBlockSize(n int) Option {
	return func(cfg *duckerConfig) {
		cfg.maxBlockSize = n
	}
}

// WithGainLaw selects the sidechain-to-gain mapping. A nil law keeps the
// default LinearGain.
func WithGainLaw(law GainLaw) Option {
	return func(cfg *duckerConfig) {
		if law != nil {
			cfg.law = law
		}
	}
}

// Ducker attenuates a main signal by the amplitude of a sidechain signal.
//
// For every sample the raw gain law(|sidechain|, amount) is smoothed per
// channel with the attack coefficient while the gain falls and the
// release coefficient while it rises, then multiplied into the main
// sample in place. The smoothing state carries over between blocks.
//
// ProcessBlock does not allocate, lock or return errors. All validation
// happens in NewDucker and Prepare. Ducker is not safe for concurrent use.
type Ducker struct {
	sampleRate   float64
	maxBlockSize int
	law          GainLaw

	smoother *Smoother
	gainBuf  []float64

	// Coefficient cache, keyed on the last seen time controls.
	coeffsValid  bool
	attackMs     float64
	releaseMs    float64
	attackAlpha  float64
	releaseAlpha float64

	metrics Metrics
}

// NewDucker creates a ducker for the given sample rate.
//
// Defaults: 2 channels, 512-sample blocks, LinearGain.
func NewDucker(sampleRate float64, opts ...Option) (*Ducker, error) {
	cfg := duckerConfig{
		maxChannels:  DefaultMaxChannels,
		maxBlockSize: DefaultMaxBlockSize,
		law:          LinearGain,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.maxChannels <= 0 {
		return nil, fmt.Errorf("ducker: %w: %d", ErrInvalidChannelCount, cfg.maxChannels)
	}

	d := &Ducker{
		law:      cfg.law,
		smoother: NewSmoother(cfg.maxChannels),
	}

	if err := d.Prepare(sampleRate, cfg.maxBlockSize); err != nil {
		return nil, err
	}

	d.ResetMetrics()

	return d, nil
}

// Prepare (re)configures the sample rate and maximum block size. It must
// be called from the processing thread or while processing is stopped.
// Cached coefficients are invalidated and the smoothing state is reset to
// unity. On error the ducker keeps its previous configuration.
func (d *Ducker) Prepare(sampleRate float64, maxBlockSize int) error {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return fmt.Errorf("ducker: %w", err)
	}
	if maxBlockSize <= 0 {
		return fmt.Errorf("ducker: %w: %d", ErrInvalidBlockSize, maxBlockSize)
	}

	d.sampleRate = sampleRate
	d.maxBlockSize = maxBlockSize
	if cap(d.gainBuf) >= maxBlockSize {
		d.gainBuf = d.gainBuf[:maxBlockSize]
	} else {
		d.gainBuf = make([]float64, maxBlockSize)
	}

	d.coeffsValid = false
	d.smoother.Reset()

	return nil
}

// SampleRate returns the current sample rate in Hz.
func (d *Ducker) SampleRate() float64 { return d.sampleRate }

// MaxBlockSize returns the chunk size used for gain application.
func (d *Ducker) MaxBlockSize() int { return d.maxBlockSize }

// MaxChannels returns how many channels are processed at most.
func (d *Ducker) MaxChannels() int { return d.smoother.Channels() }

// Gain returns the current smoothed gain of channel ch.
func (d *Ducker) Gain(ch int) float64 { return d.smoother.Gain(ch) }

// Reset returns every channel to unity gain without touching the
// configuration.
func (d *Ducker) Reset() {
	d.smoother.Reset()
}

// Metrics returns the metering values accumulated since ResetMetrics.
func (d *Ducker) Metrics() Metrics {
	return d.metrics
}

// ResetMetrics clears metering state.
func (d *Ducker) ResetMetrics() {
	d.metrics = Metrics{MinGain: neutralGain}
}

// ProcessBlock applies sidechain ducking to main in place.
//
// main and sidechain hold one slice per channel. Behaviour:
//   - p.Enabled == false: every main channel is silenced.
//   - no sidechain channels: main is left untouched.
//   - otherwise channels 0..min(len(main), len(sidechain), MaxChannels)-1
//     are processed; further main channels are left untouched. Within a
//     channel only the first min(len(main[ch]), len(sidechain[ch]))
//     samples are processed.
func (d *Ducker) ProcessBlock(main, sidechain [][]float64, p Params) {
	if !p.Enabled {
		for _, ch := range main {
			clear(ch)
		}
		return
	}

	if len(sidechain) == 0 {
		return
	}

	d.updateCoefficients(p.AttackMs, p.ReleaseMs)

	channels := min(len(main), len(sidechain), d.smoother.Channels())
	minGain := neutralGain
	peak := 0.0

	for ch := 0; ch < channels; ch++ {
		out := main[ch]
		sc := sidechain[ch]
		n := min(len(out), len(sc))

		for start := 0; start < n; start += d.maxBlockSize {
			end := min(start+d.maxBlockSize, n)
			gains := d.gainBuf[:end-start]

			for i := range gains {
				level := math.Abs(sc[start+i])
				if level > peak {
					peak = level
				}

				g := d.smoother.Step(ch, d.law(level, p.Amount), d.attackAlpha, d.releaseAlpha)
				gains[i] = g
				minGain = min(minGain, g)
			}

			vecmath.MulBlockInPlace(out[start:end], gains)
		}
	}

	if channels > 0 {
		d.metrics.Blocks++
		d.metrics.MinGain = min(d.metrics.MinGain, minGain)
		d.metrics.SidechainPeak = max(d.metrics.SidechainPeak, peak)
	}
}

// Coefficients returns the attack and release alphas for the given times
// at the current sample rate, refreshing the cache.
func (d *Ducker) Coefficients(attackMs, releaseMs float64) (attackAlpha, releaseAlpha float64) {
	d.updateCoefficients(attackMs, releaseMs)
	return d.attackAlpha, d.releaseAlpha
}

func (d *Ducker) updateCoefficients(attackMs, releaseMs float64) {
	if d.coeffsValid && attackMs == d.attackMs && releaseMs == d.releaseMs {
		return
	}

	d.attackMs = attackMs
	d.releaseMs = releaseMs
	d.attackAlpha = OnePoleAlpha(MillisecondsToSeconds(attackMs), d.sampleRate)
	d.releaseAlpha = OnePoleAlpha(MillisecondsToSeconds(releaseMs), d.sampleRate)
	d.coeffsValid = true
}
