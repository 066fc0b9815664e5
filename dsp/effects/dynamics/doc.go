// Package dynamics provides a sidechain-driven gain processor (ducker).
//
// The processor is split into three parts:
//   - OnePoleAlpha: converts a time constant into a one-pole coefficient
//     using the ln(9) settling convention.
//   - Smoother: per-channel asymmetric one-pole smoothing of a gain value,
//     with separate attack (gain falling) and release (gain rising)
//     coefficients.
//   - Ducker: per-block orchestrator that derives a raw gain from the
//     sidechain amplitude, smooths it and applies it to the main signal in
//     place.
//
// Gains follow one convention throughout: a gain is the fraction of the
// main signal passed through, 1.0 is neutral and smaller values duck.
package dynamics
