// Package export provides the flat boundary API mirrored by the wasm glue:
// encode and decode calls that return codec-owned buffers, and an idempotent
// Free. Callers that stay in Go can use the ric packages directly; this
// package exists for embedders that need explicit buffer lifetimes.
package export

import (
	"fmt"
	"sync"

	"github.com/cocosip/go-raster-codec/codec"
	"github.com/cocosip/go-raster-codec/ric"
	"github.com/cocosip/go-raster-codec/ric/lossless"
	"github.com/cocosip/go-raster-codec/ric/lossy"
)

// Buffer is a codec-owned allocation handed across the boundary. It stays
// valid until Free; releasing it twice is a no-op.
type Buffer struct {
	data []byte
}

// Bytes returns the buffer contents, or nil after Free
func (b *Buffer) Bytes() []byte {
	if b == nil {
		return nil
	}
	live.mu.RLock()
	defer live.mu.RUnlock()
	if _, ok := live.buffers[b]; !ok {
		return nil
	}
	return b.data
}

// Len returns the buffer length in bytes, or 0 after Free
func (b *Buffer) Len() int {
	return len(b.Bytes())
}

// live tracks every buffer handed out and not yet freed
var live = struct {
	mu      sync.RWMutex
	buffers map[*Buffer]struct{}
}{buffers: make(map[*Buffer]struct{})}

func track(data []byte) *Buffer {
	b := &Buffer{data: data}
	live.mu.Lock()
	live.buffers[b] = struct{}{}
	live.mu.Unlock()
	return b
}

// Free releases a buffer. Nil buffers and buffers already freed are
// ignored, so double release is harmless.
func Free(b *Buffer) {
	if b == nil {
		return
	}
	live.mu.Lock()
	if _, ok := live.buffers[b]; ok {
		delete(live.buffers, b)
		b.data = nil
	}
	live.mu.Unlock()
}

// LiveCount reports how many buffers are currently outstanding
func LiveCount() int {
	live.mu.RLock()
	defer live.mu.RUnlock()
	return len(live.buffers)
}

// clampQuality folds the boundary's float quality into the 1-100 range the
// pipeline accepts
func clampQuality(quality float32) int {
	q := int(quality)
	if q < 1 {
		q = 1
	}
	if q > 100 {
		q = 100
	}
	return q
}

// EncodeRGBA encodes RGBA pixel rows of the given stride with the lossy
// pipeline. quality is 0-100; values outside the range are clamped.
func EncodeRGBA(pixels []byte, width, height, stride int, quality float32) (*Buffer, error) {
	if pixels == nil || width <= 0 || height <= 0 || stride < width*4 {
		return nil, codec.ErrInvalidInput
	}
	if len(pixels) < stride*height {
		return nil, fmt.Errorf("%w: pixel buffer too short", codec.ErrInvalidInput)
	}

	data, err := lossy.Encode(pixels, width, height, stride, clampQuality(quality))
	if err != nil {
		return nil, err
	}
	return track(data), nil
}

// EncodeLosslessRGBA encodes RGBA pixel rows of the given stride with the
// lossless pipeline
func EncodeLosslessRGBA(pixels []byte, width, height, stride int) (*Buffer, error) {
	if pixels == nil || width <= 0 || height <= 0 || stride < width*4 {
		return nil, codec.ErrInvalidInput
	}
	if len(pixels) < stride*height {
		return nil, fmt.Errorf("%w: pixel buffer too short", codec.ErrInvalidInput)
	}

	data, err := lossless.Encode(pixels, width, height, stride, codec.MethodGolomb)
	if err != nil {
		return nil, err
	}
	return track(data), nil
}

// DecodeRGBA decodes any RIC payload to tightly packed RGBA
func DecodeRGBA(data []byte) (*Buffer, int, int, error) {
	if len(data) == 0 {
		return nil, 0, 0, codec.ErrEmptyInput
	}

	pixels, width, height, err := ric.Decode(data)
	if err != nil {
		return nil, 0, 0, err
	}
	return track(pixels), width, height, nil
}
