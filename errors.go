package rasterload

import "errors"

// Codec identifies which family handled a request. Failure diagnostics
// route on it: a *DecodeError carries the codec that produced the failure
// alongside the codec's own error text.
type Codec uint8

const (
	// CodecQOI is the directly recognized QOI container.
	CodecQOI Codec = iota
	// CodecDelegate covers every registered non-QOI format.
	CodecDelegate
)

func (c Codec) String() string {
	if c == CodecQOI {
		return "qoi"
	}
	return "delegate"
}

var (
	// ErrChannels reports an Options.Channels value outside 0..4.
	ErrChannels = errors.New("rasterload: desired channels must be between 0 and 4")

	// ErrBufferSize reports a destination slice whose length does not match
	// width×height×effective channels in the into-buffer entry points.
	ErrBufferSize = errors.New("rasterload: destination buffer size mismatch")

	// ErrImageTooLarge reports dimensions whose pixel count exceeds the
	// decoder's sanity limit.
	ErrImageTooLarge = errors.New("rasterload: image too large")
)

// DecodeError wraps a codec failure with the identity of the family that
// produced it. It unwraps to the underlying codec error, so callers can
// match sentinels from internal/qoi or the image packages with errors.Is.
type DecodeError struct {
	Codec Codec
	Err   error
}

func (e *DecodeError) Error() string {
	return "rasterload: " + e.Codec.String() + " decode failed: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }
