package dynamics

// Control ranges and defaults of the four host controls.
const (
	MinAmount = 0.0
	MaxAmount = 1.0

	MinTimeMs = 0.0
	MaxTimeMs = 100.0

	DefaultAmount    = 1.0
	DefaultAttackMs  = 0.0
	DefaultReleaseMs = 0.0
	DefaultEnabled   = true
)

// Params is an immutable snapshot of the host controls for one block.
// Hosts fill it once per block from their own parameter storage and pass
// it by value, so a concurrent control change only takes effect on the
// next block.
type Params struct {
	Enabled   bool
	Amount    float64 // [0, 1]
	AttackMs  float64 // >= 0
	ReleaseMs float64 // >= 0
}

// DefaultParams returns the controls in their default positions.
func DefaultParams() Params {
	return Params{
		Enabled:   DefaultEnabled,
		Amount:    DefaultAmount,
		AttackMs:  DefaultAttackMs,
		ReleaseMs: DefaultReleaseMs,
	}
}
