package main

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	"github.com/cwbudde/algo-sidechain/dsp/buffer"
)

const streamChunk = 512

var errUnsupportedChannels = errors.New("unsupported channel count")

// pcmScale is the full-scale level of signed PCM at the given precision in
// bytes, the factor wav.Encode multiplies by. 8-bit PCM is unsigned and
// reports 0.
func pcmScale(precision int) float64 {
	if precision < 2 {
		return 0
	}
	return math.Exp2(float64(8*precision-1)) - 1
}

// decodeScale maps a sample from wav.Decode back onto the encoder's scale.
// The decoder divides signed PCM by 2^(8p)-1 rather than 2^(8p-1)-1, so
// decoded values are about half their level. Rounding recovers the PCM
// integer exactly.
func decodeScale(x float64, precision int) float64 {
	scale := pcmScale(precision)
	if scale == 0 {
		return x
	}
	pcm := math.Round(x * (math.Exp2(float64(8*precision)) - 1))
	return pcm / scale
}

// encodeLevel snaps x to the nearest PCM level and offsets it half a step
// away from zero, so the truncating encoder writes exactly that level.
func encodeLevel(x, scale float64) float64 {
	if scale == 0 {
		return x
	}
	q := math.Round(x * scale)
	if q == 0 {
		return 0
	}
	return (q + math.Copysign(0.5, q)) / scale
}

// readWAV decodes a mono or stereo WAV file into a planar block. Signed
// PCM decodes as level/(2^(bits-1)-1), the inverse of writeWAV.
func readWAV(path string) (*buffer.Block, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}

	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, beep.Format{}, err
	}
	defer streamer.Close()

	channels := format.NumChannels
	if channels < 1 || channels > 2 {
		return nil, beep.Format{}, fmt.Errorf("%w: %d", errUnsupportedChannels, channels)
	}

	planar := make([][]float64, channels)
	if n := streamer.Len(); n > 0 {
		for c := range planar {
			planar[c] = make([]float64, 0, n)
		}
	}

	chunk := make([][2]float64, streamChunk)
	for {
		n, ok := streamer.Stream(chunk)
		for _, frame := range chunk[:n] {
			for c := range planar {
				planar[c] = append(planar[c], decodeScale(frame[c], format.Precision))
			}
		}
		if !ok {
			break
		}
	}
	if err := streamer.Err(); err != nil {
		return nil, beep.Format{}, err
	}

	return buffer.FromChannels(planar), format, nil
}

// writeWAV encodes the block with the given format. Channels beyond
// format.NumChannels are dropped; a mono block written as stereo is
// duplicated. Samples are rounded to the nearest PCM level.
func writeWAV(path string, b *buffer.Block, format beep.Format) error {
	if b.NumChannels() == 0 {
		return fmt.Errorf("%w: 0", errUnsupportedChannels)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := wav.Encode(f, blockStreamer(b, pcmScale(format.Precision)), format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func blockStreamer(b *buffer.Block, scale float64) beep.Streamer {
	left := b.Channel(0)
	right := left
	if b.NumChannels() > 1 {
		right = b.Channel(1)
	}

	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= b.Frames() {
			return 0, false
		}
		n := min(len(samples), b.Frames()-pos)
		for i := range samples[:n] {
			samples[i] = [2]float64{
				encodeLevel(left[pos+i], scale),
				encodeLevel(right[pos+i], scale),
			}
		}
		pos += n
		return n, true
	})
}
