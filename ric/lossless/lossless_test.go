package lossless

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"github.com/cocosip/go-raster-codec/codec"
	"github.com/cocosip/go-raster-codec/ric/common"
)

func TestPredict(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c int
		want    int
	}{
		{"flat", 100, 100, 100, 100},
		{"horizontal edge", 50, 200, 200, 50},
		{"vertical edge", 200, 50, 200, 50},
		{"gradient", 110, 120, 115, 115},
		{"c above both", 10, 20, 30, 10},
		{"c below both", 30, 20, 10, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Predict(tt.a, tt.b, tt.c); got != tt.want {
				t.Errorf("Predict(%d, %d, %d) = %d, want %d", tt.a, tt.b, tt.c, got, tt.want)
			}
		})
	}
}

func TestResidualMapping(t *testing.T) {
	for e := -128; e <= 127; e++ {
		m := MapResidual(e)
		if m < 0 || m > 255 {
			t.Fatalf("MapResidual(%d) = %d, out of range", e, m)
		}
		if got := UnmapResidual(m); got != e {
			t.Fatalf("UnmapResidual(MapResidual(%d)) = %d", e, got)
		}
	}
}

func makeTestImage(width, height int, seed int64) []byte {
	rng := rand.New(rand.NewSource(seed))
	pixels := make([]byte, width*height*4)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			offset := (y*width + x) * 4
			// Smooth base with occasional noise, like a photograph
			pixels[offset] = byte(x*3 + rng.Intn(8))
			pixels[offset+1] = byte(y*3 + rng.Intn(8))
			pixels[offset+2] = byte(x + y + rng.Intn(4))
			pixels[offset+3] = 255
		}
	}
	return pixels
}

func TestRoundTripGolomb(t *testing.T) {
	width, height := 37, 23
	pixels := makeTestImage(width, height, 1)

	encoded, err := Encode(pixels, width, height, width*4, codec.MethodGolomb)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decoded, w, h, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if w != width || h != height {
		t.Fatalf("dimensions = %dx%d, want %dx%d", w, h, width, height)
	}
	if !bytes.Equal(pixels, decoded) {
		t.Fatal("round trip is not bit-exact")
	}
	t.Logf("golomb: %d -> %d bytes (%.1f%%)", len(pixels), len(encoded),
		float64(len(encoded))*100/float64(len(pixels)))
}

func TestRoundTripZstd(t *testing.T) {
	width, height := 64, 31
	pixels := makeTestImage(width, height, 2)

	encoded, err := Encode(pixels, width, height, width*4, codec.MethodZstd)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decoded, w, h, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if w != width || h != height {
		t.Fatalf("dimensions = %dx%d, want %dx%d", w, h, width, height)
	}
	if !bytes.Equal(pixels, decoded) {
		t.Fatal("round trip is not bit-exact")
	}
	t.Logf("zstd: %d -> %d bytes (%.1f%%)", len(pixels), len(encoded),
		float64(len(encoded))*100/float64(len(pixels)))
}

func TestRoundTripRandomNoise(t *testing.T) {
	// Worst case for prediction; still must be bit-exact
	rng := rand.New(rand.NewSource(3))
	width, height := 16, 16
	pixels := make([]byte, width*height*4)
	rng.Read(pixels)

	for _, method := range []int{codec.MethodGolomb, codec.MethodZstd} {
		encoded, err := Encode(pixels, width, height, width*4, method)
		if err != nil {
			t.Fatalf("Encode method=%d failed: %v", method, err)
		}
		decoded, _, _, err := Decode(encoded)
		if err != nil {
			t.Fatalf("Decode method=%d failed: %v", method, err)
		}
		if !bytes.Equal(pixels, decoded) {
			t.Fatalf("method=%d: round trip is not bit-exact", method)
		}
	}
}

func TestWhiteImage(t *testing.T) {
	// 2x2 opaque white, the smallest interesting flat image
	pixels := bytes.Repeat([]byte{255}, 2*2*4)

	encoded, err := Encode(pixels, 2, 2, 8, codec.MethodGolomb)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decoded, w, h, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if w != 2 || h != 2 {
		t.Fatalf("dimensions = %dx%d, want 2x2", w, h)
	}
	if !bytes.Equal(pixels, decoded) {
		t.Fatalf("decoded = %v, want all 255", decoded)
	}
}

func TestStridePadding(t *testing.T) {
	width, height := 5, 4
	stride := width*4 + 20
	pixels := make([]byte, stride*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			offset := y*stride + x*4
			pixels[offset] = byte(x * 50)
			pixels[offset+1] = byte(y * 60)
			pixels[offset+2] = byte(x * y)
			pixels[offset+3] = 200
		}
	}

	encoded, err := Encode(pixels, width, height, stride, codec.MethodGolomb)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	decoded, _, _, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	// Compare against the tightly packed equivalent
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			for ch := 0; ch < 4; ch++ {
				want := pixels[y*stride+x*4+ch]
				got := decoded[(y*width+x)*4+ch]
				if got != want {
					t.Fatalf("pixel (%d,%d) channel %d = %d, want %d", x, y, ch, got, want)
				}
			}
		}
	}
}

func TestEncodeInvalidArguments(t *testing.T) {
	pixels := make([]byte, 8*8*4)

	tests := []struct {
		name    string
		run     func() error
		wantErr error
	}{
		{"zero width", func() error {
			_, err := Encode(pixels, 0, 8, 32, codec.MethodGolomb)
			return err
		}, common.ErrInvalidDimensions},
		{"stride too small", func() error {
			_, err := Encode(pixels, 8, 8, 31, codec.MethodGolomb)
			return err
		}, common.ErrInvalidDimensions},
		{"buffer too short", func() error {
			_, err := Encode(pixels[:10], 8, 8, 32, codec.MethodGolomb)
			return err
		}, common.ErrBufferTooSmall},
		{"bad method", func() error {
			_, err := Encode(pixels, 8, 8, 32, 7)
			return err
		}, common.ErrInvalidData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecodeCorruptBody(t *testing.T) {
	pixels := makeTestImage(12, 12, 4)
	encoded, err := Encode(pixels, 12, 12, 48, codec.MethodZstd)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	encoded[len(encoded)-1] ^= 0x55
	if _, _, _, err := Decode(encoded); !errors.Is(err, codec.ErrCorruptStream) {
		t.Errorf("err = %v, want ErrCorruptStream", err)
	}
}

func TestDecodeEmpty(t *testing.T) {
	if _, _, _, err := Decode([]byte{}); !errors.Is(err, codec.ErrEmptyInput) {
		t.Errorf("err = %v, want ErrEmptyInput", err)
	}
}

func TestCodecInterface(t *testing.T) {
	c, err := codec.Get("ric-lossless")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	pixels := makeTestImage(20, 20, 5)
	for _, method := range []int{codec.MethodGolomb, codec.MethodZstd} {
		encoded, err := c.Encode(codec.EncodeParams{
			PixelData: pixels,
			Width:     20,
			Height:    20,
			Stride:    80,
			Options:   &codec.BaseOptions{Method: method},
		})
		if err != nil {
			t.Fatalf("Encode method=%d failed: %v", method, err)
		}

		result, err := c.Decode(encoded)
		if err != nil {
			t.Fatalf("Decode method=%d failed: %v", method, err)
		}
		if !bytes.Equal(result.PixelData, pixels) {
			t.Fatalf("method=%d: round trip is not bit-exact", method)
		}
	}
}
