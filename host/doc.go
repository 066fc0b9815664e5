// Package host is the host-facing side of the sidechain ducker: a
// lock-free parameter store for the four controls, a processor adapter
// that snapshots those controls once per block and routes the main and
// sidechain buses into the engine, and meters readable from any thread.
//
// Audio (main plus sidechain) is the only traffic. MIDI is not accepted.
package host
