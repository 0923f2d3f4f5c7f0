// Package wasmhost runs the ricwasm module under wazero and exposes its
// exports as plain Go calls. It exists for embedders that ship the codec as
// a wasm artifact and for conformance testing the boundary against the
// native implementation.
package wasmhost

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"
)

// ErrCallFailed is returned when a module export reports failure
var ErrCallFailed = errors.New("wasmhost: call failed")

// Host wraps one instantiated codec module. Calls are serialized; the
// module's linear memory is a single shared resource.
type Host struct {
	mu      sync.Mutex
	runtime wazero.Runtime
	module  api.Module
	logger  *zap.Logger

	alloc          api.Function
	free           api.Function
	encodeRGBA     api.Function
	encodeLossless api.Function
	decodeRGBA     api.Function
}

// Option configures a Host
type Option func(*Host)

// WithLogger sets the logger; the default is a no-op logger
func WithLogger(logger *zap.Logger) Option {
	return func(h *Host) {
		h.logger = logger
	}
}

// New compiles and instantiates a codec module from its wasm binary
func New(ctx context.Context, wasmBytes []byte, opts ...Option) (*Host, error) {
	h := &Host{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(h)
	}

	h.runtime = wazero.NewRuntime(ctx)
	wasi_snapshot_preview1.MustInstantiate(ctx, h.runtime)

	module, err := h.runtime.InstantiateWithConfig(ctx, wasmBytes,
		wazero.NewModuleConfig().
			WithName("ric").
			WithStartFunctions("_initialize"))
	if err != nil {
		_ = h.runtime.Close(ctx)
		return nil, fmt.Errorf("wasmhost: instantiate: %w", err)
	}
	h.module = module

	for name, fn := range map[string]*api.Function{
		"ric_alloc":                &h.alloc,
		"ric_free":                 &h.free,
		"ric_encode_rgba":          &h.encodeRGBA,
		"ric_encode_lossless_rgba": &h.encodeLossless,
		"ric_decode_rgba":          &h.decodeRGBA,
	} {
		*fn = module.ExportedFunction(name)
		if *fn == nil {
			_ = h.runtime.Close(ctx)
			return nil, fmt.Errorf("wasmhost: module does not export %s", name)
		}
	}

	h.logger.Debug("codec module instantiated",
		zap.Uint32("memory_pages", module.Memory().Size()/65536))
	return h, nil
}

// Close releases the module and runtime
func (h *Host) Close(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.runtime.Close(ctx)
}

// guestAlloc copies data into freshly allocated guest memory
func (h *Host) guestAlloc(ctx context.Context, size uint32) (uint32, error) {
	results, err := h.alloc.Call(ctx, uint64(size))
	if err != nil {
		return 0, fmt.Errorf("wasmhost: ric_alloc: %w", err)
	}
	ptr := uint32(results[0])
	if ptr == 0 {
		return 0, fmt.Errorf("%w: guest allocation of %d bytes", ErrCallFailed, size)
	}
	return ptr, nil
}

func (h *Host) guestWrite(ctx context.Context, data []byte) (uint32, error) {
	ptr, err := h.guestAlloc(ctx, uint32(len(data)))
	if err != nil {
		return 0, err
	}
	if !h.module.Memory().Write(ptr, data) {
		return 0, fmt.Errorf("%w: write outside guest memory", ErrCallFailed)
	}
	return ptr, nil
}

func (h *Host) guestFree(ctx context.Context, ptrs ...uint32) {
	for _, ptr := range ptrs {
		if ptr == 0 {
			continue
		}
		if _, err := h.free.Call(ctx, uint64(ptr)); err != nil {
			h.logger.Warn("ric_free failed", zap.Uint32("ptr", ptr), zap.Error(err))
		}
	}
}

func (h *Host) readUint32(ptr uint32) (uint32, error) {
	v, ok := h.module.Memory().ReadUint32Le(ptr)
	if !ok {
		return 0, fmt.Errorf("%w: read outside guest memory", ErrCallFailed)
	}
	return v, nil
}

// readResult copies an output buffer out of guest memory
func (h *Host) readResult(outBuf, outSize uint32) ([]byte, error) {
	ptr, err := h.readUint32(outBuf)
	if err != nil {
		return nil, err
	}
	size, err := h.readUint32(outSize)
	if err != nil {
		return nil, err
	}
	data, ok := h.module.Memory().Read(ptr, size)
	if !ok {
		return nil, fmt.Errorf("%w: result outside guest memory", ErrCallFailed)
	}
	out := make([]byte, size)
	copy(out, data)
	return out, nil
}

// EncodeRGBA encodes RGBA pixels through the module's lossy export
func (h *Host) EncodeRGBA(ctx context.Context, pixels []byte, width, height, stride int, quality float32) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	in, err := h.guestWrite(ctx, pixels)
	if err != nil {
		return nil, err
	}
	outBuf, err := h.guestAlloc(ctx, 8)
	if err != nil {
		h.guestFree(ctx, in)
		return nil, err
	}
	defer h.guestFree(ctx, in, outBuf)

	results, err := h.encodeRGBA.Call(ctx,
		uint64(in), uint64(uint32(width)), uint64(uint32(height)), uint64(uint32(stride)),
		uint64(api.EncodeF32(quality)), uint64(outBuf), uint64(outBuf+4))
	if err != nil {
		return nil, fmt.Errorf("wasmhost: ric_encode_rgba: %w", err)
	}
	if results[0] == 0 {
		return nil, fmt.Errorf("%w: ric_encode_rgba", ErrCallFailed)
	}

	data, err := h.readResult(outBuf, outBuf+4)
	if err != nil {
		return nil, err
	}
	resultPtr, _ := h.readUint32(outBuf)
	h.guestFree(ctx, resultPtr)

	h.logger.Debug("lossy encode",
		zap.Int("width", width), zap.Int("height", height),
		zap.Int("payload_bytes", len(data)))
	return data, nil
}

// EncodeLosslessRGBA encodes RGBA pixels through the module's lossless export
func (h *Host) EncodeLosslessRGBA(ctx context.Context, pixels []byte, width, height, stride int) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	in, err := h.guestWrite(ctx, pixels)
	if err != nil {
		return nil, err
	}
	outBuf, err := h.guestAlloc(ctx, 8)
	if err != nil {
		h.guestFree(ctx, in)
		return nil, err
	}
	defer h.guestFree(ctx, in, outBuf)

	results, err := h.encodeLossless.Call(ctx,
		uint64(in), uint64(uint32(width)), uint64(uint32(height)), uint64(uint32(stride)),
		uint64(outBuf), uint64(outBuf+4))
	if err != nil {
		return nil, fmt.Errorf("wasmhost: ric_encode_lossless_rgba: %w", err)
	}
	if results[0] == 0 {
		return nil, fmt.Errorf("%w: ric_encode_lossless_rgba", ErrCallFailed)
	}

	data, err := h.readResult(outBuf, outBuf+4)
	if err != nil {
		return nil, err
	}
	resultPtr, _ := h.readUint32(outBuf)
	h.guestFree(ctx, resultPtr)
	return data, nil
}

// DecodeRGBA decodes a payload through the module's decode export
func (h *Host) DecodeRGBA(ctx context.Context, payload []byte) ([]byte, int, int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	in, err := h.guestWrite(ctx, payload)
	if err != nil {
		return nil, 0, 0, err
	}
	// out pointer, width, height
	outBuf, err := h.guestAlloc(ctx, 12)
	if err != nil {
		h.guestFree(ctx, in)
		return nil, 0, 0, err
	}
	defer h.guestFree(ctx, in, outBuf)

	results, err := h.decodeRGBA.Call(ctx,
		uint64(in), uint64(uint32(len(payload))),
		uint64(outBuf), uint64(outBuf+4), uint64(outBuf+8))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("wasmhost: ric_decode_rgba: %w", err)
	}
	if results[0] == 0 {
		return nil, 0, 0, fmt.Errorf("%w: ric_decode_rgba", ErrCallFailed)
	}

	width, err := h.readUint32(outBuf + 4)
	if err != nil {
		return nil, 0, 0, err
	}
	height, err := h.readUint32(outBuf + 8)
	if err != nil {
		return nil, 0, 0, err
	}

	ptr, err := h.readUint32(outBuf)
	if err != nil {
		return nil, 0, 0, err
	}
	data, ok := h.module.Memory().Read(ptr, width*height*4)
	if !ok {
		return nil, 0, 0, fmt.Errorf("%w: pixels outside guest memory", ErrCallFailed)
	}
	pixels := make([]byte, len(data))
	copy(pixels, data)
	h.guestFree(ctx, ptr)

	return pixels, int(width), int(height), nil
}
