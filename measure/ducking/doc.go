// Package ducking measures what the sidechain ducker does to a signal.
//
// Analyze drives the engine with a unity main signal so the output is the
// gain trace itself, then reports the depth of the ducking and the
// dominant rate at which the gain is modulated.
package ducking
