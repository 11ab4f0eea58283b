// Package rasterload is a unified raster-image decode facade. Given an
// in-memory byte buffer of unknown format it identifies the container,
// decodes pixel data into a caller-specified channel layout and element type
// (8-bit integer or 32-bit float), and applies colorspace-correct LDR→linear
// promotion and an optional vertical flip.
//
// Two codec families are recognized: the QOI container, decoded by
// internal/qoi, and everything else, delegated to the registered image
// codecs behind internal/raster (PNG, JPEG, GIF, BMP, TIFF, WebP and
// Radiance HDR). All configuration is per call via Options; the package
// holds no mutable state and is safe for concurrent use.
package rasterload

import (
	"fmt"

	"github.com/pspoerri/rasterload/internal/pixel"
	"github.com/pspoerri/rasterload/internal/qoi"
	"github.com/pspoerri/rasterload/internal/raster"
)

// maxPixels caps width×height for the delegate family, matching the QOI
// decoder's own guard. Checked before any pixel allocation.
const maxPixels = 400_000_000

// Colorspace tags whether stored integer samples are gamma-encoded.
type Colorspace uint8

const (
	// ColorspaceSRGB marks color channels as sRGB gamma-encoded.
	ColorspaceSRGB Colorspace = iota
	// ColorspaceLinear marks all channels as linear.
	ColorspaceLinear
)

func (c Colorspace) String() string {
	if c == ColorspaceLinear {
		return "linear"
	}
	return "sRGB"
}

// Descriptor describes a decoded or inspected image. Info reports the
// source's native channel count; the decode entry points report the
// effective (negotiated) count of the buffer they return.
type Descriptor struct {
	Width      int
	Height     int
	Channels   int // 1..4
	Colorspace Colorspace
	Codec      Codec
}

// Options configures a single decode call. The zero value decodes at the
// native channel count with no flip.
type Options struct {
	// Channels is the desired output channel count, 1..4. Zero keeps the
	// source's native count.
	Channels int

	// FlipVertically reverses row order, putting the bottom row first.
	FlipVertically bool
}

// Info inspects the image header without decoding pixels. The returned
// descriptor carries the native channel count; size a destination for
// DecodeInto as Width×Height×EffectiveChannels.
func Info(data []byte) (Descriptor, error) {
	if sniffQOI(data) {
		h, err := qoi.DecodeHeader(data)
		if err != nil {
			return Descriptor{}, &DecodeError{Codec: CodecQOI, Err: err}
		}
		return qoiDescriptor(h), nil
	}
	d, err := raster.Info(data)
	if err != nil {
		return Descriptor{}, &DecodeError{Codec: CodecDelegate, Err: err}
	}
	if err := checkSize(d.Width, d.Height); err != nil {
		return Descriptor{}, err
	}
	return Descriptor{
		Width:      d.Width,
		Height:     d.Height,
		Channels:   d.Channels,
		Colorspace: ColorspaceSRGB,
		Codec:      CodecDelegate,
	}, nil
}

// IsHDR reports whether the buffer holds natively floating-point pixel data.
// Always false for QOI, which has no native float representation.
func IsHDR(data []byte) bool {
	return !sniffQOI(data) && raster.IsHDR(data)
}

// Decode decodes into a new 8-bit buffer, row-major and channel-interleaved
// at the effective channel count. The buffer is drawn from an internal pool;
// hand it back with Release when done. Natively floating-point sources are
// clamped through their LDR rendering by the underlying codec.
func Decode(data []byte, opts Options) (Descriptor, []byte, error) {
	desc, buf, err := decodeBytes(data, opts.Channels)
	if err != nil {
		return Descriptor{}, nil, err
	}
	if opts.FlipVertically {
		flipped := getBytes(len(buf))
		pixel.Flip(flipped, buf, desc.Width, desc.Height, desc.Channels)
		putBytes(buf)
		buf = flipped
	}
	return desc, buf, nil
}

// DecodeInto decodes into a caller-provided buffer, which must hold exactly
// Width×Height×EffectiveChannels bytes. On any failure dst is left
// untouched.
func DecodeInto(dst []byte, data []byte, opts Options) (Descriptor, error) {
	desc, buf, err := decodeBytes(data, opts.Channels)
	if err != nil {
		return Descriptor{}, err
	}
	defer putBytes(buf)
	if len(dst) != len(buf) {
		return Descriptor{}, fmt.Errorf("%w: have %d bytes, need %d", ErrBufferSize, len(dst), len(buf))
	}
	if opts.FlipVertically {
		pixel.Flip(dst, buf, desc.Width, desc.Height, desc.Channels)
	} else {
		copy(dst, buf)
	}
	return desc, nil
}

// DecodeFloat decodes into a new float32 buffer of linear values. Natively
// floating-point sources pass through unmodified; integer sources are
// promoted through the piecewise sRGB transfer (or a plain 1/255 scale for
// linear-tagged sources) after channel negotiation. The buffer is pooled;
// hand it back with ReleaseFloat.
func DecodeFloat(data []byte, opts Options) (Descriptor, []float32, error) {
	desc, buf, err := decodeFloats(data, opts.Channels)
	if err != nil {
		return Descriptor{}, nil, err
	}
	if opts.FlipVertically {
		flipped := getFloats(len(buf))
		pixel.Flip(flipped, buf, desc.Width, desc.Height, desc.Channels)
		putFloats(buf)
		buf = flipped
	}
	return desc, buf, nil
}

// DecodeFloatInto is the into-buffer variant of DecodeFloat. dst must hold
// exactly Width×Height×EffectiveChannels elements and is untouched on
// failure.
func DecodeFloatInto(dst []float32, data []byte, opts Options) (Descriptor, error) {
	desc, buf, err := decodeFloats(data, opts.Channels)
	if err != nil {
		return Descriptor{}, err
	}
	defer putFloats(buf)
	if len(dst) != len(buf) {
		return Descriptor{}, fmt.Errorf("%w: have %d elements, need %d", ErrBufferSize, len(dst), len(buf))
	}
	if opts.FlipVertically {
		pixel.Flip(dst, buf, desc.Width, desc.Height, desc.Channels)
	} else {
		copy(dst, buf)
	}
	return desc, nil
}

// decodeBytes runs sniff → codec decode → channel negotiation and returns
// the effective-channel byte buffer.
func decodeBytes(data []byte, desired int) (Descriptor, []byte, error) {
	if desired < 0 || desired > 4 {
		return Descriptor{}, nil, ErrChannels
	}

	var (
		desc Descriptor
		buf  []byte
	)
	if sniffQOI(data) {
		h, pix, err := qoi.Decode(data)
		if err != nil {
			return Descriptor{}, nil, &DecodeError{Codec: CodecQOI, Err: err}
		}
		desc, buf = qoiDescriptor(h), pix
	} else {
		// Header first: the size guard must run before the codec commits
		// to a pixel allocation.
		hd, err := raster.Info(data)
		if err != nil {
			return Descriptor{}, nil, &DecodeError{Codec: CodecDelegate, Err: err}
		}
		if err := checkSize(hd.Width, hd.Height); err != nil {
			return Descriptor{}, nil, err
		}
		d, pix, err := raster.Decode(data)
		if err != nil {
			return Descriptor{}, nil, &DecodeError{Codec: CodecDelegate, Err: err}
		}
		desc = Descriptor{
			Width:      d.Width,
			Height:     d.Height,
			Channels:   d.Channels,
			Colorspace: ColorspaceSRGB,
			Codec:      CodecDelegate,
		}
		buf = pix
	}

	if eff := pixel.EffectiveChannels(desc.Channels, desired); eff != desc.Channels {
		converted := getBytes(desc.Width * desc.Height * eff)
		pixel.Convert(converted, buf, desc.Width, desc.Height, desc.Channels, eff)
		putBytes(buf)
		buf = converted
		desc.Channels = eff
	}
	return desc, buf, nil
}

// decodeFloats returns the effective-channel float buffer: the codec's own
// float output for natively-HDR sources, a promoted LDR decode otherwise.
func decodeFloats(data []byte, desired int) (Descriptor, []float32, error) {
	if desired < 0 || desired > 4 {
		return Descriptor{}, nil, ErrChannels
	}

	if IsHDR(data) {
		hd, err := raster.Info(data)
		if err != nil {
			return Descriptor{}, nil, &DecodeError{Codec: CodecDelegate, Err: err}
		}
		if err := checkSize(hd.Width, hd.Height); err != nil {
			return Descriptor{}, nil, err
		}
		d, native, err := raster.DecodeFloat(data)
		if err != nil {
			return Descriptor{}, nil, &DecodeError{Codec: CodecDelegate, Err: err}
		}
		desc := Descriptor{
			Width:      d.Width,
			Height:     d.Height,
			Channels:   d.Channels,
			Colorspace: ColorspaceLinear,
			Codec:      CodecDelegate,
		}
		buf := native
		if eff := pixel.EffectiveChannels(desc.Channels, desired); eff != desc.Channels {
			converted := getFloats(desc.Width * desc.Height * eff)
			pixel.ConvertFloat(converted, buf, desc.Width, desc.Height, desc.Channels, eff)
			putFloats(buf)
			buf = converted
			desc.Channels = eff
		}
		return desc, buf, nil
	}

	desc, ldr, err := decodeBytes(data, desired)
	if err != nil {
		return Descriptor{}, nil, err
	}
	out := getFloats(len(ldr))
	pixel.Promote(out, ldr, desc.Channels, desc.Colorspace == ColorspaceLinear)
	putBytes(ldr)
	return desc, out, nil
}

// qoiDescriptor normalizes a validated QOI header.
func qoiDescriptor(h qoi.Header) Descriptor {
	cs := ColorspaceSRGB
	if h.Colorspace == qoi.ColorspaceLinear {
		cs = ColorspaceLinear
	}
	return Descriptor{
		Width:      int(h.Width),
		Height:     int(h.Height),
		Channels:   int(h.Channels),
		Colorspace: cs,
		Codec:      CodecQOI,
	}
}

// checkSize guards pixel-count overflow for the delegate family. Exactly
// maxPixels is out of range, matching the QOI header validator's own check.
func checkSize(w, h int) error {
	if w <= 0 || h <= 0 || int64(w)*int64(h) >= maxPixels {
		return &DecodeError{
			Codec: CodecDelegate,
			Err:   fmt.Errorf("%w: %dx%d", ErrImageTooLarge, w, h),
		}
	}
	return nil
}
