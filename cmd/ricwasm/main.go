//go:build wasip1

// Command ricwasm builds the RIC codec as a WebAssembly module. The exports
// mirror the classic C-style boundary: the host allocates input with
// ric_alloc, the module allocates results, and the host releases both with
// ric_free. All pointers are offsets into the module's linear memory.
//
// Build with:
//
//	GOOS=wasip1 GOARCH=wasm go build -buildmode=c-shared -o ric.wasm ./cmd/ricwasm
package main

import (
	"sync"
	"unsafe"

	"github.com/cocosip/go-raster-codec/export"
)

// allocations pins every buffer handed to the host so the garbage collector
// leaves it alone until ric_free. Freeing an unknown or already freed
// pointer is a no-op.
var allocations = struct {
	mu   sync.Mutex
	byID map[uint32][]byte
	bufs map[uint32]*export.Buffer
}{
	byID: make(map[uint32][]byte),
	bufs: make(map[uint32]*export.Buffer),
}

func basePtr(data []byte) uint32 {
	if len(data) == 0 {
		return 0
	}
	return uint32(uintptr(unsafe.Pointer(&data[0])))
}

func view(ptr, size uint32) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(uintptr(ptr))), size)
}

func putUint32(ptr uint32, v uint32) {
	*(*uint32)(unsafe.Pointer(uintptr(ptr))) = v
}

func putInt32(ptr uint32, v int32) {
	*(*int32)(unsafe.Pointer(uintptr(ptr))) = v
}

func pin(data []byte) uint32 {
	ptr := basePtr(data)
	if ptr == 0 {
		return 0
	}
	allocations.mu.Lock()
	allocations.byID[ptr] = data
	allocations.mu.Unlock()
	return ptr
}

func pinBuffer(buf *export.Buffer) uint32 {
	data := buf.Bytes()
	ptr := basePtr(data)
	if ptr == 0 {
		export.Free(buf)
		return 0
	}
	allocations.mu.Lock()
	allocations.byID[ptr] = data
	allocations.bufs[ptr] = buf
	allocations.mu.Unlock()
	return ptr
}

//go:wasmexport ric_alloc
func ricAlloc(size uint32) uint32 {
	if size == 0 {
		return 0
	}
	return pin(make([]byte, size))
}

//go:wasmexport ric_free
func ricFree(ptr uint32) {
	if ptr == 0 {
		return
	}
	allocations.mu.Lock()
	delete(allocations.byID, ptr)
	buf := allocations.bufs[ptr]
	delete(allocations.bufs, ptr)
	allocations.mu.Unlock()
	export.Free(buf)
}

//go:wasmexport ric_encode_rgba
func ricEncodeRGBA(rgba uint32, width, height, stride int32, quality float32, outBuf, outSize uint32) int32 {
	if rgba == 0 || width <= 0 || height <= 0 || stride <= 0 || outBuf == 0 || outSize == 0 {
		return 0
	}

	pixels := view(rgba, uint32(stride)*uint32(height))
	buf, err := export.EncodeRGBA(pixels, int(width), int(height), int(stride), quality)
	if err != nil {
		return 0
	}

	ptr := pinBuffer(buf)
	if ptr == 0 {
		return 0
	}
	putUint32(outBuf, ptr)
	putUint32(outSize, uint32(buf.Len()))
	return 1
}

//go:wasmexport ric_encode_lossless_rgba
func ricEncodeLosslessRGBA(rgba uint32, width, height, stride int32, outBuf, outSize uint32) int32 {
	if rgba == 0 || width <= 0 || height <= 0 || stride <= 0 || outBuf == 0 || outSize == 0 {
		return 0
	}

	pixels := view(rgba, uint32(stride)*uint32(height))
	buf, err := export.EncodeLosslessRGBA(pixels, int(width), int(height), int(stride))
	if err != nil {
		return 0
	}

	ptr := pinBuffer(buf)
	if ptr == 0 {
		return 0
	}
	putUint32(outBuf, ptr)
	putUint32(outSize, uint32(buf.Len()))
	return 1
}

//go:wasmexport ric_decode_rgba
func ricDecodeRGBA(data, dataSize, outRGBA, outWidth, outHeight uint32) int32 {
	if data == 0 || dataSize == 0 || outRGBA == 0 || outWidth == 0 || outHeight == 0 {
		return 0
	}

	buf, width, height, err := export.DecodeRGBA(view(data, dataSize))
	if err != nil {
		return 0
	}

	ptr := pinBuffer(buf)
	if ptr == 0 {
		return 0
	}
	putUint32(outRGBA, ptr)
	putInt32(outWidth, int32(width))
	putInt32(outHeight, int32(height))
	return 1
}

func main() {}
