package export

import (
	"bytes"
	"errors"
	"testing"

	"github.com/cocosip/go-raster-codec/codec"
)

func TestLosslessWhiteRoundTrip(t *testing.T) {
	// 2x2 opaque white must survive bit-exactly
	pixels := bytes.Repeat([]byte{255}, 2*2*4)

	encoded, err := EncodeLosslessRGBA(pixels, 2, 2, 8)
	if err != nil {
		t.Fatalf("EncodeLosslessRGBA failed: %v", err)
	}
	defer Free(encoded)

	decoded, w, h, err := DecodeRGBA(encoded.Bytes())
	if err != nil {
		t.Fatalf("DecodeRGBA failed: %v", err)
	}
	defer Free(decoded)

	if w != 2 || h != 2 {
		t.Fatalf("dimensions = %dx%d, want 2x2", w, h)
	}
	if !bytes.Equal(decoded.Bytes(), pixels) {
		t.Fatalf("decoded = %v, want all 255", decoded.Bytes())
	}
}

func TestLossy1x1(t *testing.T) {
	pixels := []byte{128, 128, 128, 255}

	encoded, err := EncodeRGBA(pixels, 1, 1, 4, 50)
	if err != nil {
		t.Fatalf("EncodeRGBA failed: %v", err)
	}
	defer Free(encoded)

	if encoded.Len() == 0 {
		t.Fatal("empty payload")
	}

	decoded, w, h, err := DecodeRGBA(encoded.Bytes())
	if err != nil {
		t.Fatalf("DecodeRGBA failed: %v", err)
	}
	defer Free(decoded)

	if w != 1 || h != 1 {
		t.Fatalf("dimensions = %dx%d, want 1x1", w, h)
	}
	if decoded.Len() != 4 {
		t.Fatalf("pixel buffer length = %d, want 4", decoded.Len())
	}
}

func TestLossyPreservesDimensions(t *testing.T) {
	width, height := 33, 17
	pixels := make([]byte, width*height*4)
	for i := range pixels {
		pixels[i] = byte(i * 7)
	}

	encoded, err := EncodeRGBA(pixels, width, height, width*4, 80)
	if err != nil {
		t.Fatalf("EncodeRGBA failed: %v", err)
	}
	defer Free(encoded)

	decoded, w, h, err := DecodeRGBA(encoded.Bytes())
	if err != nil {
		t.Fatalf("DecodeRGBA failed: %v", err)
	}
	defer Free(decoded)

	if w != width || h != height {
		t.Errorf("dimensions = %dx%d, want %dx%d", w, h, width, height)
	}
}

func TestQualityClamping(t *testing.T) {
	pixels := make([]byte, 8*8*4)

	// Out-of-range qualities are clamped, not rejected
	for _, q := range []float32{-10, 0, 0.4, 150} {
		buf, err := EncodeRGBA(pixels, 8, 8, 32, q)
		if err != nil {
			t.Errorf("quality %v: unexpected error %v", q, err)
			continue
		}
		Free(buf)
	}
}

func TestInvalidInput(t *testing.T) {
	pixels := make([]byte, 8*8*4)

	tests := []struct {
		name string
		run  func() error
	}{
		{"nil pixels lossy", func() error {
			_, err := EncodeRGBA(nil, 8, 8, 32, 75)
			return err
		}},
		{"nil pixels lossless", func() error {
			_, err := EncodeLosslessRGBA(nil, 8, 8, 32)
			return err
		}},
		{"zero width", func() error {
			_, err := EncodeRGBA(pixels, 0, 8, 32, 75)
			return err
		}},
		{"negative height", func() error {
			_, err := EncodeLosslessRGBA(pixels, 8, -1, 32)
			return err
		}},
		{"short buffer", func() error {
			_, err := EncodeRGBA(pixels[:16], 8, 8, 32, 75)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, codec.ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestDecodeEmpty(t *testing.T) {
	if _, _, _, err := DecodeRGBA(nil); !errors.Is(err, codec.ErrEmptyInput) {
		t.Errorf("nil: err = %v, want ErrEmptyInput", err)
	}
	if _, _, _, err := DecodeRGBA([]byte{}); !errors.Is(err, codec.ErrEmptyInput) {
		t.Errorf("empty: err = %v, want ErrEmptyInput", err)
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, _, _, err := DecodeRGBA([]byte("not a ric payload at all....")); !errors.Is(err, codec.ErrMalformedHeader) {
		t.Errorf("err = %v, want ErrMalformedHeader", err)
	}
}

func TestFreeIsIdempotent(t *testing.T) {
	pixels := make([]byte, 4*4*4)
	buf, err := EncodeLosslessRGBA(pixels, 4, 4, 16)
	if err != nil {
		t.Fatalf("EncodeLosslessRGBA failed: %v", err)
	}

	before := LiveCount()
	Free(buf)
	if LiveCount() != before-1 {
		t.Errorf("LiveCount after Free = %d, want %d", LiveCount(), before-1)
	}
	if buf.Bytes() != nil {
		t.Error("Bytes after Free should be nil")
	}

	// Releasing again must not panic or disturb other buffers
	Free(buf)
	Free(buf)
	if LiveCount() != before-1 {
		t.Errorf("LiveCount after double Free = %d, want %d", LiveCount(), before-1)
	}

	Free(nil)
}

func TestBufferLifetimeTracking(t *testing.T) {
	pixels := make([]byte, 4*4*4)
	start := LiveCount()

	var bufs []*Buffer
	for i := 0; i < 5; i++ {
		buf, err := EncodeLosslessRGBA(pixels, 4, 4, 16)
		if err != nil {
			t.Fatalf("encode %d failed: %v", i, err)
		}
		bufs = append(bufs, buf)
	}
	if LiveCount() != start+5 {
		t.Errorf("LiveCount = %d, want %d", LiveCount(), start+5)
	}

	for _, buf := range bufs {
		Free(buf)
	}
	if LiveCount() != start {
		t.Errorf("LiveCount after freeing all = %d, want %d", LiveCount(), start)
	}
}
