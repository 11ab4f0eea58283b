// Package raster adapts the delegate codec family — every format other than
// QOI — behind Go's image registry. The registered decoders are PNG, JPEG
// and GIF from the standard library, BMP and TIFF from golang.org/x/image,
// WebP from the pure-Go gen2brain codec, and Radiance HDR from
// mdouchement/hdr, the one member of the family with a native float path.
package raster

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	_ "github.com/gen2brain/webp"

	"github.com/mdouchement/hdr"
	_ "github.com/mdouchement/hdr/codec/rgbe"
	"github.com/mdouchement/hdr/hdrcolor"

	"github.com/pspoerri/rasterload/internal/pixel"
)

// ErrNotHDR reports a float decode of a source with no native float
// representation. The caller promotes the integer decode instead of failing.
var ErrNotHDR = errors.New("raster: source has no native float representation")

// Desc is the normalized shape of a delegate decode: dimensions plus the
// native channel count. The family has no linear-tagged formats, so LDR
// sources are always sRGB; that tag lives in the facade, not here.
type Desc struct {
	Width    int
	Height   int
	Channels int
}

// Info inspects the header of a registered format without decoding pixels.
func Info(data []byte) (Desc, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Desc{}, err
	}
	return Desc{
		Width:    cfg.Width,
		Height:   cfg.Height,
		Channels: channelsForModel(cfg.ColorModel),
	}, nil
}

// IsHDR reports whether the buffer is a Radiance picture, the only family
// member carrying true floating-point radiance data. Both header magics
// seen in the wild are accepted.
func IsHDR(data []byte) bool {
	return bytes.HasPrefix(data, []byte("#?RADIANCE")) ||
		bytes.HasPrefix(data, []byte("#?RGBE"))
}

// Decode fully decodes an LDR image into a row-major, channel-interleaved,
// non-premultiplied byte buffer at the image's native channel count.
func Decode(data []byte) (Desc, []byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Desc{}, nil, err
	}
	b := img.Bounds()
	d := Desc{Width: b.Dx(), Height: b.Dy(), Channels: nativeChannels(img)}
	return d, interleave(img, d), nil
}

// DecodeFloat decodes a natively floating-point image into a 3-channel
// float32 buffer of linear radiance values, applied without any transfer
// function. Returns ErrNotHDR for LDR sources.
func DecodeFloat(data []byte) (Desc, []float32, error) {
	if !IsHDR(data) {
		return Desc{}, nil, ErrNotHDR
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Desc{}, nil, err
	}
	hdrImg, ok := img.(hdr.Image)
	if !ok {
		return Desc{}, nil, ErrNotHDR
	}

	b := hdrImg.Bounds()
	d := Desc{Width: b.Dx(), Height: b.Dy(), Channels: 3}
	out := make([]float32, d.Width*d.Height*3)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bb, _ := hdrImg.HDRAt(x, y).HDRRGBA()
			out[i] = float32(r)
			out[i+1] = float32(g)
			out[i+2] = float32(bb)
			i += 3
		}
	}
	return d, out, nil
}

// channelsForModel maps a header color model to the channel count the full
// decode will report for the same image.
func channelsForModel(m color.Model) int {
	switch m {
	case color.GrayModel, color.Gray16Model:
		return 1
	case color.YCbCrModel, color.CMYKModel, hdrcolor.RGBModel:
		return 3
	default:
		return 4
	}
}

// nativeChannels maps a decoded image to the channel count of its stored
// representation, mirroring channelsForModel for the concrete image types.
func nativeChannels(img image.Image) int {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return 1
	case *image.YCbCr, *image.CMYK:
		return 3
	default:
		if _, ok := img.(hdr.Image); ok {
			return 3
		}
		return 4
	}
}

// interleave extracts non-premultiplied samples at the native channel count.
// Gray images copy row by row; everything else goes through an NRGBA
// rendering and, when the native count is below 4, a lossless reduction
// (the luminance weights map a gray triple back to itself, and dropped
// alpha is the opaque fill).
func interleave(img image.Image, d Desc) []byte {
	if g, ok := img.(*image.Gray); ok {
		out := make([]byte, d.Width*d.Height)
		for y := 0; y < d.Height; y++ {
			copy(out[y*d.Width:(y+1)*d.Width], g.Pix[y*g.Stride:y*g.Stride+d.Width])
		}
		return out
	}

	nrgba, ok := img.(*image.NRGBA)
	if !ok {
		nrgba = image.NewNRGBA(image.Rect(0, 0, d.Width, d.Height))
		draw.Draw(nrgba, nrgba.Bounds(), img, img.Bounds().Min, draw.Src)
	}

	out := make([]byte, d.Width*d.Height*4)
	for y := 0; y < d.Height; y++ {
		copy(out[y*d.Width*4:(y+1)*d.Width*4], nrgba.Pix[y*nrgba.Stride:y*nrgba.Stride+d.Width*4])
	}
	if d.Channels == 4 {
		return out
	}

	reduced := make([]byte, d.Width*d.Height*d.Channels)
	pixel.Convert(reduced, out, d.Width, d.Height, 4, d.Channels)
	return reduced
}
