package host

import (
	"math"
	"sync"
	"testing"

	"github.com/cwbudde/algo-sidechain/dsp/effects/dynamics"
)

func TestDescriptors(t *testing.T) {
	ds := Descriptors()
	if len(ds) != 4 {
		t.Fatalf("len=%d, want 4", len(ds))
	}

	for i, d := range ds {
		if int(d.ID) != i {
			t.Fatalf("descriptor %d has id %d", i, d.ID)
		}
		if d.Name == "" {
			t.Fatalf("descriptor %d has no name", i)
		}
		if d.Default < d.Min || d.Default > d.Max {
			t.Fatalf("%s default %g outside [%g, %g]", d.Name, d.Default, d.Min, d.Max)
		}
	}

	ds[0].Name = "changed"
	if Descriptors()[0].Name == "changed" {
		t.Fatal("Descriptors must return a copy")
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, err := Lookup(paramCount); err == nil {
		t.Fatal("expected error for unknown id")
	}
}

func TestParamStoreDefaults(t *testing.T) {
	s := NewParamStore()
	if got, want := s.Snapshot(), dynamics.DefaultParams(); got != want {
		t.Fatalf("snapshot=%+v, want %+v", got, want)
	}
}

func TestParamStoreClamps(t *testing.T) {
	tests := []struct {
		name string
		id   ParamID
		in   float64
		want float64
	}{
		{"amount in range", ParamAmount, 0.25, 0.25},
		{"amount above", ParamAmount, 3, 1},
		{"amount below", ParamAmount, -1, 0},
		{"attack above", ParamAttack, 250, 100},
		{"release below", ParamRelease, -5, 0},
		{"release inf", ParamRelease, math.Inf(1), 100},
		{"enable rounds up", ParamEnable, 0.7, 1},
		{"enable rounds down", ParamEnable, 0.2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewParamStore()
			if err := s.Set(tt.id, tt.in); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if got := s.Get(tt.id); got != tt.want {
				t.Fatalf("got %g, want %g", got, tt.want)
			}
		})
	}
}

func TestParamStoreRejectsNaN(t *testing.T) {
	s := NewParamStore()
	if err := s.SetAmount(math.NaN()); err == nil {
		t.Fatal("expected error for NaN")
	}
	if got := s.Get(ParamAmount); got != dynamics.DefaultAmount {
		t.Fatalf("amount changed to %g", got)
	}
}

func TestParamStoreUnknownID(t *testing.T) {
	s := NewParamStore()
	if err := s.Set(ParamID(99), 1); err == nil {
		t.Fatal("expected error")
	}
	if got := s.Get(ParamID(99)); got != 0 {
		t.Fatalf("Get unknown=%g, want 0", got)
	}
}

func TestParamStoreNormalized(t *testing.T) {
	s := NewParamStore()
	if err := s.SetNormalized(ParamAttack, 0.25); err != nil {
		t.Fatal(err)
	}
	if got := s.Get(ParamAttack); got != 25 {
		t.Fatalf("attack=%g, want 25", got)
	}
	if got := s.Normalized(ParamAttack); got != 0.25 {
		t.Fatalf("normalized=%g, want 0.25", got)
	}
}

func TestParamStoreApplySnapshot(t *testing.T) {
	s := NewParamStore()
	in := dynamics.Params{Enabled: false, Amount: 0.5, AttackMs: 10, ReleaseMs: 80}
	if err := s.Apply(in); err != nil {
		t.Fatal(err)
	}
	if got := s.Snapshot(); got != in {
		t.Fatalf("snapshot=%+v, want %+v", got, in)
	}

	s.ResetDefaults()
	if got := s.Snapshot(); got != dynamics.DefaultParams() {
		t.Fatalf("after reset %+v", got)
	}
}

func TestParamStoreConcurrentAccess(t *testing.T) {
	s := NewParamStore()
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range 1000 {
			_ = s.SetAmount(float64(i%10) / 10)
			s.SetEnabled(i%2 == 0)
		}
	}()
	go func() {
		defer wg.Done()
		for range 1000 {
			p := s.Snapshot()
			if p.Amount < 0 || p.Amount > 1 {
				t.Errorf("amount out of range: %g", p.Amount)
				return
			}
		}
	}()
	wg.Wait()
}
