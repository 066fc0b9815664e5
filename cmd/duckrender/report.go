package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cwbudde/algo-sidechain/dsp/buffer"
	"github.com/cwbudde/algo-sidechain/host"
	"github.com/cwbudde/algo-sidechain/measure/ducking"
)

// reportConfig describes the processor that rendered the file: controls
// come from its parameter store, so they carry the same clamping.
func reportConfig(proc *host.Processor, p Preset) (ducking.Config, error) {
	law, err := p.GainLaw()
	if err != nil {
		return ducking.Config{}, err
	}

	cfg := proc.Config()
	return ducking.Config{
		SampleRate: cfg.SampleRate,
		BlockSize:  cfg.BlockSize,
		Params:     proc.Params().Snapshot(),
		Law:        law,
	}, nil
}

func printReport(w io.Writer, sidechain *buffer.Block, proc *host.Processor, p Preset) error {
	cfg, err := reportConfig(proc, p)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Channel\tPeak\tMin gain\tMean gain\tMax reduction (dB)\tModulation (Hz)")
	fmt.Fprintln(tw, "-------\t----\t--------\t---------\t------------------\t---------------")

	for c := 0; c < sidechain.NumChannels(); c++ {
		r, err := ducking.Analyze(sidechain.Channel(c), cfg)
		if err != nil {
			return fmt.Errorf("analyze channel %d: %w", c, err)
		}
		fmt.Fprintf(tw, "%d\t%.3f\t%.3f\t%.3f\t%.1f\t%.2f\n",
			c, r.SidechainPeak, r.MinGain, r.MeanGain, r.MaxReductionDB, r.ModulationHz)
	}

	return tw.Flush()
}
