// Package buffer provides a planar multi-channel sample block for
// allocation-free block processing. Processors accept raw [][]float64
// channel slices; Block owns one backing array and hands out per-channel
// views so hosts can size everything once at prepare time.
package buffer
