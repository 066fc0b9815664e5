package host

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-sidechain/dsp/core"
	"github.com/cwbudde/algo-sidechain/dsp/effects/dynamics"
)

// Buses carries one block of host audio. Main is processed in place;
// Sidechain is read only. Each holds one slice per channel.
type Buses struct {
	Main      [][]float64
	Sidechain [][]float64
}

type processorOptions struct {
	logger logrus.FieldLogger
	core   []core.ProcessorOption
	law    dynamics.GainLaw
}

// Option configures a Processor.
type Option func(*processorOptions)

// WithLogger sets the logger used for lifecycle events. Nothing is logged
// from ProcessBlock.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *processorOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithProcessorOptions sets sample rate, block size and channel count.
func WithProcessorOptions(opts ...core.ProcessorOption) Option {
	return func(o *processorOptions) {
		o.core = append(o.core, opts...)
	}
}

// WithGainLaw selects the engine gain law.
func WithGainLaw(law dynamics.GainLaw) Option {
	return func(o *processorOptions) {
		o.law = law
	}
}

// Processor adapts the ducker to a host callback model: controls live in
// a ParamStore written from any thread, and each ProcessBlock call takes
// one snapshot of them.
type Processor struct {
	cfg    core.ProcessorConfig
	log    logrus.FieldLogger
	params *ParamStore
	meter  *Meter
	ducker *dynamics.Ducker
	active bool
}

// NewProcessor creates a processor with default controls.
func NewProcessor(opts ...Option) (*Processor, error) {
	o := processorOptions{logger: discardLogger()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	cfg := core.ApplyProcessorOptions(o.core...)

	d, err := dynamics.NewDucker(cfg.SampleRate,
		dynamics.WithMaxChannels(cfg.Channels),
		dynamics.WithMaxBlockSize(cfg.BlockSize),
		dynamics.WithGainLaw(o.law),
	)
	if err != nil {
		return nil, fmt.Errorf("host: %w", err)
	}

	return &Processor{
		cfg:    cfg,
		log:    o.logger,
		params: NewParamStore(),
		meter:  newMeter(),
		ducker: d,
		active: true,
	}, nil
}

// Prepare is called by the host before streaming starts or when the
// sample rate or maximum block size changes. Smoothing state is reset.
func (p *Processor) Prepare(sampleRate float64, maxBlockSize int) error {
	if err := p.ducker.Prepare(sampleRate, maxBlockSize); err != nil {
		p.log.WithError(err).WithFields(logrus.Fields{
			"sample_rate":    sampleRate,
			"max_block_size": maxBlockSize,
		}).Error("prepare failed")
		return fmt.Errorf("host: %w", err)
	}

	p.cfg.SampleRate = sampleRate
	p.cfg.BlockSize = maxBlockSize
	p.meter.Reset()

	p.log.WithFields(logrus.Fields{
		"sample_rate":    sampleRate,
		"max_block_size": maxBlockSize,
		"channels":       p.ducker.MaxChannels(),
	}).Info("processor prepared")

	return nil
}

// SetActive starts or stops processing. Deactivation resets the smoothing
// state so the next activation starts at unity gain.
func (p *Processor) SetActive(active bool) {
	if p.active == active {
		return
	}
	p.active = active
	if !active {
		p.ducker.Reset()
		p.meter.Reset()
	}
	p.log.WithField("active", active).Debug("processor state changed")
}

// Active reports whether ProcessBlock does any work.
func (p *Processor) Active() bool { return p.active }

// ProcessBlock runs one host block. It does not allocate or lock. While
// inactive the buses are left untouched.
func (p *Processor) ProcessBlock(b Buses) {
	if !p.active {
		return
	}

	p.ducker.ResetMetrics()
	p.ducker.ProcessBlock(b.Main, b.Sidechain, p.params.Snapshot())
	p.meter.publish(p.ducker.Metrics())
}

// Params returns the control store. It is safe to write from any thread.
func (p *Processor) Params() *ParamStore { return p.params }

// Meter returns the latest meter values.
func (p *Processor) Meter() MeterStats { return p.meter.Read() }

// Config returns the current processor configuration.
func (p *Processor) Config() core.ProcessorConfig { return p.cfg }

// Latency is always zero; the ducker has no lookahead.
func (p *Processor) Latency() int { return 0 }

// Gain returns the smoothed gain of channel ch.
func (p *Processor) Gain(ch int) float64 { return p.ducker.Gain(ch) }

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
