package lossless

import (
	"bytes"

	"github.com/klauspost/compress/zstd"

	"github.com/cocosip/go-raster-codec/codec"
	"github.com/cocosip/go-raster-codec/ric/common"
	"github.com/cocosip/go-raster-codec/ric/container"
)

const numChannels = 4

// Process-wide Zstandard coders. EncodeAll and DecodeAll are safe for
// concurrent use, so one instance each serves every call.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	zstdEncoder, _ = zstd.NewWriter(nil)
	zstdDecoder, _ = zstd.NewReader(nil)
}

// Encode encodes RGBA pixel data to a RIC lossless payload.
// method selects the residual entropy coder (codec.MethodGolomb or
// codec.MethodZstd); the decoded output is bit-exact.
func Encode(pixelData []byte, width, height, stride, method int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, common.ErrInvalidDimensions
	}
	if width > container.MaxDimension || height > container.MaxDimension {
		return nil, common.ErrInvalidDimensions
	}
	if stride < width*4 {
		return nil, common.ErrInvalidDimensions
	}
	if len(pixelData) < stride*height {
		return nil, common.ErrBufferTooSmall
	}
	if method != codec.MethodGolomb && method != codec.MethodZstd {
		return nil, common.ErrInvalidData
	}

	residuals := computeResiduals(pixelData, width, height, stride)

	var body []byte
	switch method {
	case codec.MethodGolomb:
		var buf bytes.Buffer
		if err := encodeGolomb(&buf, residuals, width, height); err != nil {
			return nil, err
		}
		body = buf.Bytes()
	case codec.MethodZstd:
		body = zstdEncoder.EncodeAll(flattenPlanes(residuals), nil)
	}

	header := &container.Header{
		Mode:   container.ModeLossless,
		Method: byte(method),
		Width:  uint32(width),
		Height: uint32(height),
	}
	return header.Marshal(body), nil
}

// computeResiduals produces per-channel planes of MED prediction residuals,
// each residual wrapped modulo 256
func computeResiduals(pixelData []byte, width, height, stride int) [numChannels][]byte {
	var residuals [numChannels][]byte
	for ch := 0; ch < numChannels; ch++ {
		residuals[ch] = make([]byte, width*height)
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			offset := y*stride + x*4
			for ch := 0; ch < numChannels; ch++ {
				v := int(pixelData[offset+ch])

				a, b, c := 0, 0, 0
				if x > 0 {
					a = int(pixelData[offset-4+ch])
				}
				if y > 0 {
					b = int(pixelData[offset-stride+ch])
					if x > 0 {
						c = int(pixelData[offset-stride-4+ch])
					}
				}

				e := wrapResidual(v - Predict(a, b, c))
				residuals[ch][y*width+x] = byte(e & 0xFF)
			}
		}
	}

	return residuals
}

// flattenPlanes concatenates the channel planes into a single buffer, which
// groups similar statistics together for the compressor
func flattenPlanes(residuals [numChannels][]byte) []byte {
	out := make([]byte, 0, len(residuals[0])*numChannels)
	for ch := 0; ch < numChannels; ch++ {
		out = append(out, residuals[ch]...)
	}
	return out
}

// encodeGolomb writes the residual planes with adaptive Golomb-Rice coding,
// one context per channel
func encodeGolomb(buf *bytes.Buffer, residuals [numChannels][]byte, width, height int) error {
	gw := common.NewGolombWriter(buf)

	for ch := 0; ch < numChannels; ch++ {
		ctx := newGolombContext()
		plane := residuals[ch]
		for i := 0; i < width*height; i++ {
			e := int(int8(plane[i]))
			mapped := MapResidual(e)
			if err := gw.WriteGolomb(mapped, ctx.k()); err != nil {
				return err
			}
			ctx.update(mapped)
		}
	}

	return gw.Flush()
}
