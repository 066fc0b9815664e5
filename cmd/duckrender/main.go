// Command duckrender applies sidechain ducking to a WAV file offline.
//
// The main input is attenuated by the amplitude of the sidechain input
// block by block, exactly as a host would drive the processor.
//
// Usage:
//
//	duckrender -main in.wav -sidechain kick.wav -out out.wav [flags]
//
// Examples:
//
//	duckrender -main pad.wav -sidechain kick.wav -out ducked.wav
//	duckrender -main pad.wav -sidechain kick.wav -out ducked.wav -attack 2 -release 80
//	duckrender -main pad.wav -sidechain kick.wav -out ducked.wav -preset pump.yaml -amount 0.6
//	duckrender -main pad.wav -sidechain kick.wav -out ducked.wav -law db -range-db 18 -report
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	err := run(os.Args[1:], os.Stdout, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		die(err)
	}
}

func die(err error) {
	logrus.WithError(err).Error("duckrender failed")
	os.Exit(1)
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	log := newLogger(stderr, opts.verbose)

	preset, err := resolvePreset(opts)
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"amount":     preset.Amount,
		"attack_ms":  preset.AttackMs,
		"release_ms": preset.ReleaseMs,
		"enabled":    preset.Enabled,
		"law":        preset.Law,
		"block_size": preset.BlockSize,
	}).Debug("resolved settings")

	dry, format, err := readWAV(opts.mainPath)
	if err != nil {
		return fmt.Errorf("read main: %w", err)
	}
	sidechain, scFormat, err := readWAV(opts.sidechainPath)
	if err != nil {
		return fmt.Errorf("read sidechain: %w", err)
	}
	if format.SampleRate != scFormat.SampleRate {
		return fmt.Errorf("%w: main %d Hz, sidechain %d Hz", errSampleRateMismatch, format.SampleRate, scFormat.SampleRate)
	}

	log.WithFields(logrus.Fields{
		"sample_rate":        int(format.SampleRate),
		"main_channels":      dry.NumChannels(),
		"main_frames":        dry.Frames(),
		"sidechain_channels": sidechain.NumChannels(),
		"sidechain_frames":   sidechain.Frames(),
	}).Info("inputs loaded")

	proc, err := newProcessor(preset, float64(format.SampleRate), dry.NumChannels(), log)
	if err != nil {
		return err
	}

	render(proc, dry, sidechain, preset.BlockSize)

	if err := writeWAV(opts.outPath, dry, format); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	meter := proc.Meter()
	log.WithFields(logrus.Fields{
		"out":         opts.outPath,
		"blocks":      meter.Blocks,
		"last_gain":   meter.Gain,
		"last_red_db": meter.GainReductionDB,
	}).Info("render complete")

	if opts.report {
		return printReport(stdout, sidechain, proc, preset)
	}

	return nil
}

func newLogger(w io.Writer, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}
