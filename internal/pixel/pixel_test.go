package pixel

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEffectiveChannels(t *testing.T) {
	tests := []struct {
		native, desired, want int
	}{
		{3, 0, 3},
		{4, 0, 4},
		{3, 3, 3},
		{4, 1, 1},
		{1, 4, 4},
		{3, 2, 2},
	}
	for _, tt := range tests {
		if got := EffectiveChannels(tt.native, tt.desired); got != tt.want {
			t.Errorf("EffectiveChannels(%d, %d) = %d, want %d", tt.native, tt.desired, got, tt.want)
		}
	}
}

func TestSRGBToLinearBranches(t *testing.T) {
	// Raw 10 normalizes to ~0.0392, below the 0.04045 threshold: linear
	// branch. Raw 11 normalizes to ~0.0431, above it: power-law branch.
	low := SRGBToLinear(10)
	wantLow := float32(10.0 / 255 / 12.92)
	if low != wantLow {
		t.Errorf("SRGBToLinear(10) = %g, want linear-branch value %g", low, wantLow)
	}

	high := SRGBToLinear(11)
	s := 11.0 / 255
	wantHigh := float32(math.Pow((s+0.055)/1.055, 2.4))
	if high != wantHigh {
		t.Errorf("SRGBToLinear(11) = %g, want power-branch value %g", high, wantHigh)
	}
	if linearAt11 := float32(s / 12.92); high == linearAt11 {
		t.Errorf("SRGBToLinear(11) took the linear branch (%g)", linearAt11)
	}

	for v := 0; v < 256; v++ {
		got := SRGBToLinear(uint8(v))
		if got < 0 || got > 1 {
			t.Fatalf("SRGBToLinear(%d) = %g, outside [0,1]", v, got)
		}
	}
	if SRGBToLinear(0) != 0 || SRGBToLinear(255) != 1 {
		t.Errorf("endpoints: SRGBToLinear(0)=%g, SRGBToLinear(255)=%g, want 0 and 1",
			SRGBToLinear(0), SRGBToLinear(255))
	}
}

func TestGammaDecode(t *testing.T) {
	if got, want := GammaDecode(128, 1.0), float32(128.0/255); got != want {
		t.Errorf("GammaDecode(128, 1.0) = %g, want %g", got, want)
	}
	if got, want := GammaDecode(128, 2.2), float32(math.Pow(128.0/255, 2.2)); got != want {
		t.Errorf("GammaDecode(128, 2.2) = %g, want %g", got, want)
	}
	// The power-law curve and the piecewise sRGB curve are deliberately
	// distinct transfer functions.
	if GammaDecode(11, 2.2) == SRGBToLinear(11) {
		t.Error("GammaDecode(11, 2.2) unexpectedly equals SRGBToLinear(11)")
	}
}

func TestPromoteLinearBypassesGamma(t *testing.T) {
	src := []byte{0, 1, 10, 11, 128, 254, 255}
	dst := make([]float32, len(src))
	Promote(dst, src, 1, true)
	for i, v := range src {
		if want := float32(v) / 255; dst[i] != want {
			t.Errorf("linear promote of %d = %g, want %g", v, dst[i], want)
		}
	}
}

func TestPromoteSRGBColorChannels(t *testing.T) {
	src := []byte{10, 11, 200}
	dst := make([]float32, len(src))
	Promote(dst, src, 3, false)
	for i, v := range src {
		if want := SRGBToLinear(v); dst[i] != want {
			t.Errorf("sRGB promote of %d = %g, want %g", v, dst[i], want)
		}
	}
}

func TestPromoteAlphaPassthrough(t *testing.T) {
	// Channel layouts with an even count > 1 treat the last channel as
	// alpha: scaled by 1/255 regardless of colorspace.
	src := []byte{200, 100, 50, 11, 30, 60, 90, 120}
	dst := make([]float32, len(src))
	Promote(dst, src, 4, false)

	for _, i := range []int{3, 7} {
		if want := float32(src[i]) / 255; dst[i] != want {
			t.Errorf("alpha sample %d promoted to %g, want %g", src[i], dst[i], want)
		}
	}
	for _, i := range []int{0, 1, 2, 4, 5, 6} {
		if want := SRGBToLinear(src[i]); dst[i] != want {
			t.Errorf("color sample %d promoted to %g, want %g", src[i], dst[i], want)
		}
	}

	// Two-channel layout: gray + alpha.
	src2 := []byte{11, 11}
	dst2 := make([]float32, 2)
	Promote(dst2, src2, 2, false)
	if dst2[0] != SRGBToLinear(11) {
		t.Errorf("gray channel = %g, want %g", dst2[0], SRGBToLinear(11))
	}
	if want := float32(11.0 / 255); dst2[1] != want {
		t.Errorf("alpha channel = %g, want %g", dst2[1], want)
	}
}

func TestFlipBytes(t *testing.T) {
	// 2x3, 2 channels: rows A, B, C flip to C, B, A.
	src := []byte{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
	}
	dst := make([]byte, len(src))
	Flip(dst, src, 2, 3, 2)
	want := []byte{
		9, 10, 11, 12,
		5, 6, 7, 8,
		1, 2, 3, 4,
	}
	if diff := cmp.Diff(want, dst); diff != "" {
		t.Errorf("flip mismatch (-want +got):\n%s", diff)
	}

	// Flipping twice restores the original.
	again := make([]byte, len(src))
	Flip(again, dst, 2, 3, 2)
	if diff := cmp.Diff(src, again); diff != "" {
		t.Errorf("double flip mismatch (-want +got):\n%s", diff)
	}
}

func TestFlipFloats(t *testing.T) {
	src := []float32{1, 2, 3, 4, 5, 6}
	dst := make([]float32, len(src))
	Flip(dst, src, 1, 3, 2)
	want := []float32{5, 6, 3, 4, 1, 2}
	if diff := cmp.Diff(want, dst); diff != "" {
		t.Errorf("flip mismatch (-want +got):\n%s", diff)
	}

	again := make([]float32, len(src))
	Flip(again, dst, 1, 3, 2)
	if diff := cmp.Diff(src, again); diff != "" {
		t.Errorf("double flip mismatch (-want +got):\n%s", diff)
	}
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		src      []byte
		want     []byte
	}{
		{"gray to gray+alpha", 1, 2, []byte{7}, []byte{7, 255}},
		{"gray to rgb", 1, 3, []byte{7}, []byte{7, 7, 7}},
		{"gray to rgba", 1, 4, []byte{7}, []byte{7, 7, 7, 255}},
		{"gray+alpha to gray", 2, 1, []byte{7, 9}, []byte{7}},
		{"gray+alpha to rgb", 2, 3, []byte{7, 9}, []byte{7, 7, 7}},
		{"gray+alpha to rgba", 2, 4, []byte{7, 9}, []byte{7, 7, 7, 9}},
		{"rgb to rgba adds opaque alpha", 3, 4, []byte{1, 2, 3}, []byte{1, 2, 3, 255}},
		{"rgba to rgb drops alpha", 4, 3, []byte{1, 2, 3, 99}, []byte{1, 2, 3}},
		{"rgba to gray+alpha", 4, 2, []byte{10, 20, 30, 99}, []byte{byte((10*77 + 20*150 + 30*29) >> 8), 99}},
		{"rgb to gray luminance", 3, 1, []byte{10, 20, 30}, []byte{byte((10*77 + 20*150 + 30*29) >> 8)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := make([]byte, len(tt.want))
			Convert(dst, tt.src, 1, 1, tt.from, tt.to)
			if diff := cmp.Diff(tt.want, dst); diff != "" {
				t.Errorf("convert mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConvertGrayRoundTrip(t *testing.T) {
	// The luminance weights sum to 256, so gray → RGBA → gray is lossless.
	src := []byte{0, 1, 7, 128, 254, 255}
	up := make([]byte, len(src)*4)
	Convert(up, src, len(src), 1, 1, 4)
	down := make([]byte, len(src))
	Convert(down, up, len(src), 1, 4, 1)
	if diff := cmp.Diff(src, down); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

// lumaF mirrors ConvertFloat's gray reduction, term for term, so expected
// values match bit for bit.
func lumaF(r, g, b float32) float32 {
	return r*0.299 + g*0.587 + b*0.114
}

func TestConvertFloat(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		src      []float32
		want     []float32
	}{
		{"rgb to rgba", 3, 4, []float32{0.5, 1.5, 2.5}, []float32{0.5, 1.5, 2.5, 1}},
		{"rgba to rgb", 4, 3, []float32{0.5, 1.5, 2.5, 0.25}, []float32{0.5, 1.5, 2.5}},
		{"gray to rgb", 1, 3, []float32{3.5}, []float32{3.5, 3.5, 3.5}},
		{"rgb to gray", 3, 1, []float32{1, 2, 3}, []float32{lumaF(1, 2, 3)}},
		{"rgba to gray+alpha", 4, 2, []float32{1, 2, 3, 0.5}, []float32{lumaF(1, 2, 3), 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := make([]float32, len(tt.want))
			ConvertFloat(dst, tt.src, 1, 1, tt.from, tt.to)
			if diff := cmp.Diff(tt.want, dst); diff != "" {
				t.Errorf("convert mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
