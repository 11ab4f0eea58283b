// Package pixel implements the element-level kernels shared by both codec
// families: channel-count conversion, LDR→linear-float promotion and
// vertical flipping. All kernels write into caller-supplied destinations so
// the facade controls buffer lifetime.
package pixel

import "math"

// Element constrains the two pixel element types the facade produces.
type Element interface {
	~uint8 | ~float32
}

// srgbLUT maps an 8-bit sRGB-encoded sample to its linear value via the
// piecewise sRGB transfer. Precomputed once; the promote loop is then a
// table lookup per sample.
var srgbLUT [256]float32

func init() {
	for i := range srgbLUT {
		s := float64(i) / 255
		if s <= 0.04045 {
			srgbLUT[i] = float32(s / 12.92)
		} else {
			srgbLUT[i] = float32(math.Pow((s+0.055)/1.055, 2.4))
		}
	}
}

// EffectiveChannels resolves a caller's desired channel count against the
// source's native count. Zero means "keep native". Every buffer sizing,
// promotion and flip call must use the effective count, never the native one.
func EffectiveChannels(native, desired int) int {
	if desired == 0 {
		return native
	}
	return desired
}

// SRGBToLinear returns the linear value of an 8-bit sRGB-encoded sample
// using the piecewise sRGB transfer: s/12.92 for s ≤ 0.04045, else
// ((s+0.055)/1.055)^2.4, with s = v/255.
func SRGBToLinear(v uint8) float32 {
	return srgbLUT[v]
}

// GammaDecode is the simpler power-law alternative to SRGBToLinear:
// (v/255)^gamma. With gamma 2.2 it approximates the sRGB curve but is not
// bit-compatible with it; the facade promotes through the piecewise
// transfer and keeps this only as a documented alternative.
func GammaDecode(v uint8, gamma float64) float32 {
	return float32(math.Pow(float64(v)/255, gamma))
}

// Promote converts 8-bit samples to linear float32 samples. Color channels
// are decoded through the piecewise sRGB transfer unless the source is
// linear-tagged, in which case they scale by 1/255. The last channel of 2-
// and 4-channel layouts is alpha and always scales by 1/255 — alpha is never
// gamma-encoded. dst and src must have equal length.
func Promote(dst []float32, src []byte, channels int, linear bool) {
	alpha := -1
	if channels == 2 || channels == 4 {
		alpha = channels - 1
	}
	for i, v := range src {
		if linear || i%channels == alpha {
			dst[i] = float32(v) / 255
		} else {
			dst[i] = srgbLUT[v]
		}
	}
}

// Flip copies src into dst with rows in reverse vertical order. The row
// stride is w×channels elements. One generic implementation serves both
// element types; dst and src must be distinct slices of equal length.
func Flip[T Element](dst, src []T, w, h, channels int) {
	stride := w * channels
	for y := 0; y < h; y++ {
		copy(dst[(h-1-y)*stride:(h-y)*stride], src[y*stride:(y+1)*stride])
	}
}

// Convert reinterleaves src from one channel count to another, with the
// same semantics as stb_image's format conversion: gray replicates on
// expansion, color reduces to gray by fixed-point luminance, and alpha is
// filled opaque on expansion and dropped on reduction. dst must hold
// w×h×to bytes; from and to must differ.
func Convert(dst, src []byte, w, h, from, to int) {
	n := w * h
	for i := 0; i < n; i++ {
		s := src[i*from : i*from+from]
		d := dst[i*to : i*to+to]
		var r, g, b, a byte
		switch from {
		case 1:
			r, g, b, a = s[0], s[0], s[0], 255
		case 2:
			r, g, b, a = s[0], s[0], s[0], s[1]
		case 3:
			r, g, b, a = s[0], s[1], s[2], 255
		default:
			r, g, b, a = s[0], s[1], s[2], s[3]
		}
		switch to {
		case 1:
			d[0] = luminance(r, g, b)
		case 2:
			d[0], d[1] = luminance(r, g, b), a
		case 3:
			d[0], d[1], d[2] = r, g, b
		default:
			d[0], d[1], d[2], d[3] = r, g, b, a
		}
	}
}

// ConvertFloat mirrors Convert for float32 buffers. Expansion fills alpha
// with 1.0; reduction to gray uses the same Rec. 601 style weights as the
// byte path.
func ConvertFloat(dst, src []float32, w, h, from, to int) {
	n := w * h
	for i := 0; i < n; i++ {
		s := src[i*from : i*from+from]
		d := dst[i*to : i*to+to]
		var r, g, b, a float32
		switch from {
		case 1:
			r, g, b, a = s[0], s[0], s[0], 1
		case 2:
			r, g, b, a = s[0], s[0], s[0], s[1]
		case 3:
			r, g, b, a = s[0], s[1], s[2], 1
		default:
			r, g, b, a = s[0], s[1], s[2], s[3]
		}
		switch to {
		case 1:
			d[0] = r*0.299 + g*0.587 + b*0.114
		case 2:
			d[0], d[1] = r*0.299+g*0.587+b*0.114, a
		case 3:
			d[0], d[1], d[2] = r, g, b
		default:
			d[0], d[1], d[2], d[3] = r, g, b, a
		}
	}
}

// luminance is stb_image's fixed-point gray reduction: (r·77+g·150+b·29)>>8.
// The weights sum to 256, so a gray triple maps back to itself exactly.
func luminance(r, g, b byte) byte {
	return byte((int(r)*77 + int(g)*150 + int(b)*29) >> 8)
}
