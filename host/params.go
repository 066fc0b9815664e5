package host

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-sidechain/dsp/core"
	"github.com/cwbudde/algo-sidechain/dsp/effects/dynamics"
)

// ParamID identifies one of the processor controls.
type ParamID uint32

// Parameter IDs
const (
	ParamAmount ParamID = iota
	ParamEnable
	ParamAttack
	ParamRelease

	paramCount
)

// Descriptor describes a control for host registration and UIs.
type Descriptor struct {
	ID      ParamID
	Name    string
	Unit    string
	Min     float64
	Max     float64
	Default float64
	Steps   int32 // 0 = continuous
}

var descriptors = [paramCount]Descriptor{
	ParamAmount:  {ID: ParamAmount, Name: "Amount", Min: dynamics.MinAmount, Max: dynamics.MaxAmount, Default: dynamics.DefaultAmount},
	ParamEnable:  {ID: ParamEnable, Name: "Enable", Min: 0, Max: 1, Default: 1, Steps: 1},
	ParamAttack:  {ID: ParamAttack, Name: "Attack", Unit: "ms", Min: dynamics.MinTimeMs, Max: dynamics.MaxTimeMs, Default: dynamics.DefaultAttackMs},
	ParamRelease: {ID: ParamRelease, Name: "Release", Unit: "ms", Min: dynamics.MinTimeMs, Max: dynamics.MaxTimeMs, Default: dynamics.DefaultReleaseMs},
}

// Descriptors returns the control descriptors in ID order.
func Descriptors() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors[:])
	return out
}

// Lookup returns the descriptor for id.
func Lookup(id ParamID) (Descriptor, error) {
	if id >= paramCount {
		return Descriptor{}, fmt.Errorf("host: unknown parameter id %d", id)
	}
	return descriptors[id], nil
}

// ParamStore holds the plain values of all controls. Every value is a
// float64 stored as bits in an atomic word, so a UI thread may write
// while the audio thread reads without locks. Writes are clamped to the
// descriptor range; the engine never sees an out-of-range control.
type ParamStore struct {
	values [paramCount]atomic.Uint64
}

// NewParamStore returns a store with every control at its default.
func NewParamStore() *ParamStore {
	s := &ParamStore{}
	s.ResetDefaults()
	return s
}

// ResetDefaults sets every control back to its default value.
func (s *ParamStore) ResetDefaults() {
	for i := range descriptors {
		s.values[i].Store(math.Float64bits(descriptors[i].Default))
	}
}

// Set stores a plain value for id, clamped to the control range.
// NaN is rejected.
func (s *ParamStore) Set(id ParamID, plain float64) error {
	d, err := Lookup(id)
	if err != nil {
		return err
	}
	if math.IsNaN(plain) {
		return fmt.Errorf("host: %s value must not be NaN", d.Name)
	}

	v := core.Clamp(plain, d.Min, d.Max)
	if d.Steps > 0 {
		v = quantize(v, d)
	}

	s.values[id].Store(math.Float64bits(v))
	return nil
}

// Get returns the plain value of id, or 0 for an unknown id.
func (s *ParamStore) Get(id ParamID) float64 {
	if id >= paramCount {
		return 0
	}
	return math.Float64frombits(s.values[id].Load())
}

// SetNormalized stores a value given in [0, 1].
func (s *ParamStore) SetNormalized(id ParamID, normalized float64) error {
	d, err := Lookup(id)
	if err != nil {
		return err
	}
	return s.Set(id, d.Min+core.Clamp(normalized, 0, 1)*(d.Max-d.Min))
}

// Normalized returns the value of id mapped to [0, 1].
func (s *ParamStore) Normalized(id ParamID) float64 {
	d, err := Lookup(id)
	if err != nil || d.Max <= d.Min {
		return 0
	}
	return (s.Get(id) - d.Min) / (d.Max - d.Min)
}

// SetEnabled switches processing on or off.
func (s *ParamStore) SetEnabled(on bool) {
	v := 0.0
	if on {
		v = 1
	}
	s.values[ParamEnable].Store(math.Float64bits(v))
}

// SetAmount sets the ducking amount in [0, 1].
func (s *ParamStore) SetAmount(amount float64) error { return s.Set(ParamAmount, amount) }

// SetAttackMs sets the attack time in milliseconds.
func (s *ParamStore) SetAttackMs(ms float64) error { return s.Set(ParamAttack, ms) }

// SetReleaseMs sets the release time in milliseconds.
func (s *ParamStore) SetReleaseMs(ms float64) error { return s.Set(ParamRelease, ms) }

// Snapshot reads every control once and returns them as engine params.
// Each scalar is read atomically; the snapshot is used for a whole block.
func (s *ParamStore) Snapshot() dynamics.Params {
	return dynamics.Params{
		Enabled:   s.Get(ParamEnable) >= 0.5,
		Amount:    s.Get(ParamAmount),
		AttackMs:  s.Get(ParamAttack),
		ReleaseMs: s.Get(ParamRelease),
	}
}

// Apply writes p into the store, clamping each value.
func (s *ParamStore) Apply(p dynamics.Params) error {
	s.SetEnabled(p.Enabled)
	if err := s.SetAmount(p.Amount); err != nil {
		return err
	}
	if err := s.SetAttackMs(p.AttackMs); err != nil {
		return err
	}
	return s.SetReleaseMs(p.ReleaseMs)
}

func quantize(v float64, d Descriptor) float64 {
	step := (d.Max - d.Min) / float64(d.Steps)
	return d.Min + math.Round((v-d.Min)/step)*step
}
