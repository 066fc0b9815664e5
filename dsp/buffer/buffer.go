package buffer

// Block is a planar multi-channel buffer. All channels share one backing
// slice; channel c occupies a fixed stride of capFrames samples, so
// changing the frame count within capacity never moves data or allocates.
type Block struct {
	data      []float64
	channels  [][]float64
	frames    int
	capFrames int
}

// New returns a zero-filled Block with the given channel and frame counts.
// Negative counts are treated as zero.
func New(channels, frames int) *Block {
	b := &Block{}
	b.Resize(channels, frames)
	return b
}

// FromChannels copies src into a new Block sized to the longest channel.
// Shorter channels are zero-padded.
func FromChannels(src [][]float64) *Block {
	frames := 0
	for _, ch := range src {
		frames = max(frames, len(ch))
	}

	b := New(len(src), frames)
	b.CopyFrom(src)
	return b
}

// Channels returns the per-channel views. The outer slice and the views
// stay valid until the next Resize that exceeds capacity.
func (b *Block) Channels() [][]float64 {
	return b.channels
}

// Channel returns the view of channel i.
func (b *Block) Channel(i int) []float64 {
	return b.channels[i]
}

// NumChannels returns the channel count.
func (b *Block) NumChannels() int {
	return len(b.channels)
}

// Frames returns the current number of samples per channel.
func (b *Block) Frames() int {
	return b.frames
}

// CapFrames returns the number of frames available without reallocation.
func (b *Block) CapFrames() int {
	return b.capFrames
}

// Resize sets the channel and frame counts. Existing capacity is reused
// when the channel count is unchanged and frames fit; otherwise the block
// is reallocated and zeroed. Newly exposed frames are zeroed either way.
func (b *Block) Resize(channels, frames int) {
	if channels < 0 {
		channels = 0
	}
	if frames < 0 {
		frames = 0
	}

	if channels == len(b.channels) && frames <= b.capFrames {
		b.SetFrames(frames)
		return
	}

	b.data = make([]float64, channels*frames)
	b.channels = make([][]float64, channels)
	b.capFrames = frames
	b.frames = frames
	b.reslice()
}

// SetFrames changes the frame count within capacity. Values above
// CapFrames are clamped. Newly exposed frames are zeroed.
func (b *Block) SetFrames(frames int) {
	if frames < 0 {
		frames = 0
	}
	if frames > b.capFrames {
		frames = b.capFrames
	}

	old := b.frames
	b.frames = frames
	b.reslice()

	if frames > old {
		for _, ch := range b.channels {
			for i := old; i < frames; i++ {
				ch[i] = 0
			}
		}
	}
}

// Zero sets every sample of every channel to 0.
func (b *Block) Zero() {
	for _, ch := range b.channels {
		for i := range ch {
			ch[i] = 0
		}
	}
}

// CopyFrom copies src channel-wise into the block and returns the number
// of frames copied per channel (the minimum of Frames and the source
// length). Channels beyond either count are not touched.
func (b *Block) CopyFrom(src [][]float64) int {
	n := b.frames
	count := min(len(src), len(b.channels))
	for c := 0; c < count; c++ {
		n = min(n, len(src[c]))
	}

	for c := 0; c < count; c++ {
		copy(b.channels[c][:n], src[c][:n])
	}

	return n
}

// Copy returns a deep copy of the block trimmed to its current frames.
func (b *Block) Copy() *Block {
	out := New(len(b.channels), b.frames)
	out.CopyFrom(b.channels)
	return out
}

func (b *Block) reslice() {
	for c := range b.channels {
		start := c * b.capFrames
		b.channels[c] = b.data[start : start+b.frames : start+b.capFrames]
	}
}
