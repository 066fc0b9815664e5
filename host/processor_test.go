package host

import (
	"errors"
	"math"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/cwbudde/algo-sidechain/dsp/core"
	"github.com/cwbudde/algo-sidechain/dsp/effects/dynamics"
	"github.com/cwbudde/algo-sidechain/internal/testutil"
)

func newTestProcessor(t *testing.T, opts ...Option) *Processor {
	t.Helper()
	p, err := NewProcessor(opts...)
	if err != nil {
		t.Fatalf("NewProcessor: %v", err)
	}
	return p
}

func TestNewProcessorDefaults(t *testing.T) {
	p := newTestProcessor(t)
	cfg := p.Config()
	if cfg != core.DefaultProcessorConfig() {
		t.Fatalf("config=%+v", cfg)
	}
	if !p.Active() {
		t.Fatal("new processor should be active")
	}
	if p.Latency() != 0 {
		t.Fatalf("latency=%d", p.Latency())
	}
}

func TestProcessorPrepare(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	p := newTestProcessor(t, WithLogger(logger))

	if err := p.Prepare(96000, 128); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if cfg := p.Config(); cfg.SampleRate != 96000 || cfg.BlockSize != 128 {
		t.Fatalf("config=%+v", cfg)
	}
	if e := hook.LastEntry(); e == nil || e.Level != logrus.InfoLevel {
		t.Fatalf("expected info entry, got %+v", e)
	}

	hook.Reset()
	err := p.Prepare(0, 128)
	if !errors.Is(err, core.ErrInvalidSampleRate) {
		t.Fatalf("err=%v, want ErrInvalidSampleRate", err)
	}
	if e := hook.LastEntry(); e == nil || e.Level != logrus.ErrorLevel {
		t.Fatalf("expected error entry, got %+v", e)
	}
	if cfg := p.Config(); cfg.SampleRate != 96000 {
		t.Fatalf("failed prepare changed config: %+v", cfg)
	}

	if err := p.Prepare(48000, 0); !errors.Is(err, dynamics.ErrInvalidBlockSize) {
		t.Fatalf("err=%v, want ErrInvalidBlockSize", err)
	}
}

func TestProcessorProcessBlock(t *testing.T) {
	p := newTestProcessor(t)
	main := [][]float64{testutil.Ones(64), testutil.Ones(64)}
	sc := [][]float64{testutil.DC(0.5, 64), testutil.DC(-0.5, 64)}

	p.ProcessBlock(Buses{Main: main, Sidechain: sc})

	for ch := range main {
		testutil.RequireSliceNearlyEqual(t, main[ch], testutil.DC(0.5, 64), 1e-15)
	}

	m := p.Meter()
	if m.Gain != 0.5 || m.SidechainPeak != 0.5 || m.Blocks != 1 {
		t.Fatalf("meter=%+v", m)
	}
	if math.Abs(m.GainReductionDB-6.0206) > 1e-3 {
		t.Fatalf("reduction=%g dB", m.GainReductionDB)
	}
}

func TestProcessorParamsTakeEffectNextBlock(t *testing.T) {
	p := newTestProcessor(t)
	if err := p.Params().SetAmount(0.5); err != nil {
		t.Fatal(err)
	}

	main := [][]float64{testutil.Ones(8)}
	sc := [][]float64{testutil.Ones(8)}
	p.ProcessBlock(Buses{Main: main, Sidechain: sc})
	testutil.RequireSliceNearlyEqual(t, main[0], testutil.DC(0.5, 8), 1e-15)

	p.Params().SetEnabled(false)
	main = [][]float64{testutil.Ones(8)}
	p.ProcessBlock(Buses{Main: main, Sidechain: sc})
	testutil.RequireBitIdentical(t, main[0], make([]float64, 8))
}

func TestProcessorInactiveLeavesBuses(t *testing.T) {
	p := newTestProcessor(t)
	p.SetActive(false)

	main := [][]float64{testutil.Ones(16)}
	p.ProcessBlock(Buses{Main: main, Sidechain: [][]float64{testutil.Ones(16)}})
	testutil.RequireBitIdentical(t, main[0], testutil.Ones(16))

	if m := p.Meter(); m.Blocks != 0 {
		t.Fatalf("inactive processor published meters: %+v", m)
	}
}

func TestProcessorDeactivateResetsState(t *testing.T) {
	p := newTestProcessor(t)
	if err := p.Params().SetReleaseMs(50); err != nil {
		t.Fatal(err)
	}

	main := [][]float64{testutil.Ones(32)}
	p.ProcessBlock(Buses{Main: main, Sidechain: [][]float64{testutil.Ones(32)}})
	if g := p.Gain(0); g != 0 {
		t.Fatalf("gain=%g, want 0", g)
	}

	p.SetActive(false)
	p.SetActive(true)
	if g := p.Gain(0); g != 1 {
		t.Fatalf("gain after reactivation=%g, want 1", g)
	}
}

func TestProcessorNoSidechainPassThrough(t *testing.T) {
	p := newTestProcessor(t)
	in := testutil.DeterministicNoise(7, 1, 64)
	main := [][]float64{append([]float64(nil), in...)}

	p.ProcessBlock(Buses{Main: main})
	testutil.RequireBitIdentical(t, main[0], in)
}

func TestProcessorWithGainLaw(t *testing.T) {
	p := newTestProcessor(t, WithGainLaw(dynamics.ClampedGain))
	if err := p.Params().Apply(dynamics.Params{Enabled: true, Amount: 1}); err != nil {
		t.Fatal(err)
	}

	main := [][]float64{testutil.Ones(4)}
	p.ProcessBlock(Buses{Main: main, Sidechain: [][]float64{testutil.DC(2, 4)}})
	testutil.RequireBitIdentical(t, main[0], make([]float64, 4))
}

func TestProcessorAllocationFree(t *testing.T) {
	p := newTestProcessor(t)
	main := [][]float64{testutil.Ones(256), testutil.Ones(256)}
	sc := [][]float64{testutil.DeterministicNoise(1, 1, 256), testutil.DeterministicNoise(2, 1, 256)}
	b := Buses{Main: main, Sidechain: sc}

	allocs := testing.AllocsPerRun(100, func() {
		p.ProcessBlock(b)
	})
	if allocs != 0 {
		t.Fatalf("allocs=%g, want 0", allocs)
	}
}

func TestProcessorMeterClearsWithoutDucking(t *testing.T) {
	p := newTestProcessor(t)
	duck := func() {
		p.ProcessBlock(Buses{
			Main:      [][]float64{testutil.Ones(16)},
			Sidechain: [][]float64{testutil.DC(0.75, 16)},
		})
		if m := p.Meter(); m.Gain != 0.25 {
			t.Fatalf("ducked meter=%+v", m)
		}
	}

	duck()
	p.Params().SetEnabled(false)
	p.ProcessBlock(Buses{Main: [][]float64{testutil.Ones(16)}, Sidechain: [][]float64{testutil.Ones(16)}})
	if m := p.Meter(); m.Gain != 1 || m.SidechainPeak != 0 {
		t.Fatalf("disabled block meter=%+v, want neutral", m)
	}

	p.Params().SetEnabled(true)
	duck()
	p.ProcessBlock(Buses{Main: [][]float64{testutil.Ones(16)}})
	if m := p.Meter(); m.Gain != 1 || m.SidechainPeak != 0 || m.Blocks != 2 {
		t.Fatalf("no-sidechain block meter=%+v, want neutral", m)
	}
}
