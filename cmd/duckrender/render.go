package main

import (
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-sidechain/dsp/buffer"
	"github.com/cwbudde/algo-sidechain/dsp/core"
	"github.com/cwbudde/algo-sidechain/host"
)

func newProcessor(p Preset, sampleRate float64, channels int, log logrus.FieldLogger) (*host.Processor, error) {
	law, err := p.GainLaw()
	if err != nil {
		return nil, err
	}

	proc, err := host.NewProcessor(
		host.WithLogger(log),
		host.WithGainLaw(law),
		host.WithProcessorOptions(
			core.WithSampleRate(sampleRate),
			core.WithBlockSize(p.BlockSize),
			core.WithChannels(channels),
		),
	)
	if err != nil {
		return nil, err
	}

	if err := proc.Prepare(sampleRate, p.BlockSize); err != nil {
		return nil, err
	}
	if err := proc.Params().Apply(p.Params()); err != nil {
		return nil, err
	}

	return proc, nil
}

// render runs main through proc in blocks of blockSize, in place.
//
// A sidechain shorter than main is padded with silence. A mono sidechain
// keys every main channel.
func render(proc *host.Processor, main, sidechain *buffer.Block, blockSize int) {
	frames := main.Frames()
	key := buffer.New(sidechain.NumChannels(), frames)
	key.CopyFrom(sidechain.Channels())

	work := buffer.New(main.NumChannels(), blockSize)
	mainView := make([][]float64, main.NumChannels())
	keyView := make([][]float64, main.NumChannels())
	if key.NumChannels() == 0 {
		keyView = nil
	}

	for start := 0; start < frames; start += blockSize {
		end := min(start+blockSize, frames)

		for c := range mainView {
			mainView[c] = main.Channel(c)[start:end]
		}
		for c := range keyView {
			keyView[c] = key.Channel(min(c, key.NumChannels()-1))[start:end]
		}

		work.SetFrames(end - start)
		work.CopyFrom(mainView)

		proc.ProcessBlock(host.Buses{Main: work.Channels(), Sidechain: keyView})

		for c := range mainView {
			copy(mainView[c], work.Channel(c))
		}
	}
}
