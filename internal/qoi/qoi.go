// Package qoi decodes the QOI ("Quite OK Image") container: a 14-byte
// big-endian header followed by a byte-oriented chunk stream and a fixed
// 8-byte end-of-stream marker. See https://qoiformat.org/qoi-specification.pdf.
package qoi

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// Magic is the 4-byte signature at the start of every QOI stream.
	Magic = "qoif"

	// HeaderSize is the fixed header length in bytes.
	HeaderSize = 14

	// MaxPixels caps width×height, matching the reference decoder's
	// sanity limit of 400 million pixels.
	MaxPixels = 400_000_000

	paddingSize = 8
)

// Colorspace values carried in the header.
const (
	ColorspaceSRGB   = 0
	ColorspaceLinear = 1
)

// Chunk tags. The two-bit tags occupy the top bits of the first chunk byte;
// opRGB and opRGBA use the full byte.
const (
	opIndex = 0b0000_0000
	opDiff  = 0b0100_0000
	opLuma  = 0b1000_0000
	opRun   = 0b1100_0000
	opRGB   = 0b1111_1110
	opRGBA  = 0b1111_1111

	opMask2 = 0b1100_0000
)

// padding is the mandatory end-of-stream marker.
var padding = [paddingSize]byte{0, 0, 0, 0, 0, 0, 0, 1}

var (
	ErrTooShort      = errors.New("qoi: buffer shorter than header and end marker")
	ErrBadMagic      = errors.New("qoi: missing \"qoif\" magic")
	ErrBadDimensions = errors.New("qoi: width and height must be nonzero")
	ErrTooLarge      = fmt.Errorf("qoi: image exceeds %d pixels", MaxPixels)
	ErrBadChannels   = errors.New("qoi: channels must be 3 or 4")
	ErrBadColorspace = errors.New("qoi: colorspace must be 0 (sRGB) or 1 (linear)")
	ErrTruncated     = errors.New("qoi: chunk stream ends before the last pixel")
	ErrBadPadding    = errors.New("qoi: missing end-of-stream marker")
)

// Header is the decoded 14-byte QOI header.
type Header struct {
	Width      uint32
	Height     uint32
	Channels   uint8 // 3 or 4
	Colorspace uint8 // ColorspaceSRGB or ColorspaceLinear
}

// DecodeHeader validates and returns the header of a QOI stream. It is the
// single validation predicate used both for info-only queries and ahead of a
// full Decode, and rejects the stream before any pixel allocation happens.
func DecodeHeader(data []byte) (Header, error) {
	var h Header
	if len(data) < HeaderSize+paddingSize {
		return h, ErrTooShort
	}
	if string(data[:4]) != Magic {
		return h, ErrBadMagic
	}
	h.Width = binary.BigEndian.Uint32(data[4:8])
	h.Height = binary.BigEndian.Uint32(data[8:12])
	h.Channels = data[12]
	h.Colorspace = data[13]

	if h.Width == 0 || h.Height == 0 {
		return h, ErrBadDimensions
	}
	if h.Channels != 3 && h.Channels != 4 {
		return h, ErrBadChannels
	}
	if h.Colorspace != ColorspaceSRGB && h.Colorspace != ColorspaceLinear {
		return h, ErrBadColorspace
	}
	// Guards width*height against overflow: division instead of
	// multiplication, same trick as the reference decoder.
	if h.Height >= MaxPixels/h.Width {
		return h, ErrTooLarge
	}
	return h, nil
}

// Decode expands the full pixel stream. The returned buffer is row-major,
// channel-interleaved at the image's native channel count (3 or 4). Channel
// negotiation against a caller's desired count is the facade's job, not ours.
func Decode(data []byte) (Header, []byte, error) {
	h, err := DecodeHeader(data)
	if err != nil {
		return h, nil, err
	}

	end := len(data) - paddingSize
	if !bytes.Equal(data[end:], padding[:]) {
		return h, nil, ErrBadPadding
	}

	w, ht, ch := int(h.Width), int(h.Height), int(h.Channels)
	out := make([]byte, w*ht*ch)

	var index [64][4]byte
	px := [4]byte{0, 0, 0, 255}
	run := 0
	p := HeaderSize

	for o := 0; o < len(out); o += ch {
		switch {
		case run > 0:
			run--
		case p < end:
			b1 := data[p]
			p++
			switch {
			case b1 == opRGB:
				if p+3 > end {
					return h, nil, ErrTruncated
				}
				px[0], px[1], px[2] = data[p], data[p+1], data[p+2]
				p += 3
			case b1 == opRGBA:
				if p+4 > end {
					return h, nil, ErrTruncated
				}
				px[0], px[1], px[2], px[3] = data[p], data[p+1], data[p+2], data[p+3]
				p += 4
			case b1&opMask2 == opIndex:
				px = index[b1]
			case b1&opMask2 == opDiff:
				px[0] += b1>>4&0x03 - 2
				px[1] += b1>>2&0x03 - 2
				px[2] += b1&0x03 - 2
			case b1&opMask2 == opLuma:
				if p >= end {
					return h, nil, ErrTruncated
				}
				b2 := data[p]
				p++
				vg := b1&0x3f - 32
				px[0] += vg - 8 + b2>>4&0x0f
				px[1] += vg
				px[2] += vg - 8 + b2&0x0f
			default: // opRun
				// Stored value is run length minus one; this iteration
				// writes the first pixel of the run.
				run = int(b1 & 0x3f)
			}
			index[hash(px)] = px
		default:
			return h, nil, ErrTruncated
		}

		out[o] = px[0]
		out[o+1] = px[1]
		out[o+2] = px[2]
		if ch == 4 {
			out[o+3] = px[3]
		}
	}

	return h, out, nil
}

// hash is the QOI index position of a pixel. Byte arithmetic wraps mod 256,
// which is congruent mod 64 to the reference's integer arithmetic.
func hash(px [4]byte) byte {
	return (px[0]*3 + px[1]*5 + px[2]*7 + px[3]*11) % 64
}
