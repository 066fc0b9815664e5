package dynamics

import "errors"

var (
	// ErrInvalidBlockSize is returned for a non-positive maximum block size.
	ErrInvalidBlockSize = errors.New("block size must be > 0")
	// ErrInvalidChannelCount is returned for a non-positive channel count.
	ErrInvalidChannelCount = errors.New("channel count must be > 0")
)
