package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
)

var (
	errMissingPath        = errors.New("missing required path")
	errSampleRateMismatch = errors.New("sample rates differ")
)

type cliOptions struct {
	mainPath      string
	sidechainPath string
	outPath       string
	presetPath    string
	report        bool
	verbose       bool

	// Values of explicitly set control flags; they override the preset.
	set    map[string]bool
	values Preset
}

func parseFlags(args []string, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions

	fs := flag.NewFlagSet("duckrender", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.mainPath, "main", "", "main input WAV (ducked)")
	fs.StringVar(&opts.sidechainPath, "sidechain", "", "sidechain input WAV (key)")
	fs.StringVar(&opts.outPath, "out", "", "output WAV")
	fs.StringVar(&opts.presetPath, "preset", "", "YAML preset; explicit flags override it")
	fs.BoolVar(&opts.report, "report", false, "print a ducking analysis of the sidechain")
	fs.BoolVar(&opts.verbose, "v", false, "verbose logging")

	def := DefaultPreset()
	fs.Float64Var(&opts.values.Amount, "amount", def.Amount, "ducking amount [0, 1]")
	fs.Float64Var(&opts.values.AttackMs, "attack", def.AttackMs, "attack time in ms [0, 100]")
	fs.Float64Var(&opts.values.ReleaseMs, "release", def.ReleaseMs, "release time in ms [0, 100]")
	disable := fs.Bool("disable", false, "disable processing (output is silent)")
	fs.StringVar(&opts.values.Law, "law", def.Law, "gain law: linear, clamped or db")
	fs.Float64Var(&opts.values.RangeDB, "range-db", def.RangeDB, "attenuation range for -law db")
	fs.IntVar(&opts.values.BlockSize, "block", def.BlockSize, "processing block size in samples")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: duckrender -main in.wav -sidechain key.wav -out out.wav [flags]\n\n")
		fmt.Fprintf(stderr, "Attenuates the main input by the amplitude of the sidechain input.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}

	opts.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		opts.set[f.Name] = true
	})
	opts.values.Enabled = !*disable

	switch {
	case opts.mainPath == "":
		return cliOptions{}, fmt.Errorf("%w: -main", errMissingPath)
	case opts.sidechainPath == "":
		return cliOptions{}, fmt.Errorf("%w: -sidechain", errMissingPath)
	case opts.outPath == "":
		return cliOptions{}, fmt.Errorf("%w: -out", errMissingPath)
	}

	return opts, nil
}

// resolvePreset layers defaults, the preset file and explicit flags.
func resolvePreset(opts cliOptions) (Preset, error) {
	p := DefaultPreset()
	if opts.presetPath != "" {
		var err error
		p, err = LoadPreset(opts.presetPath)
		if err != nil {
			return Preset{}, err
		}
	}

	v := opts.values
	for name := range opts.set {
		switch name {
		case "amount":
			p.Amount = v.Amount
		case "attack":
			p.AttackMs = v.AttackMs
		case "release":
			p.ReleaseMs = v.ReleaseMs
		case "disable":
			p.Enabled = v.Enabled
		case "law":
			p.Law = v.Law
		case "range-db":
			p.RangeDB = v.RangeDB
		case "block":
			p.BlockSize = v.BlockSize
		}
	}

	if err := p.Validate(); err != nil {
		return Preset{}, err
	}
	return p, nil
}
