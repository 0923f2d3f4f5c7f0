package lossless

import (
	"bytes"
	"fmt"

	"github.com/cocosip/go-raster-codec/codec"
	"github.com/cocosip/go-raster-codec/ric/common"
	"github.com/cocosip/go-raster-codec/ric/container"
)

// Decode decodes a RIC lossless payload back to tightly packed RGBA
func Decode(data []byte) ([]byte, int, int, error) {
	header, body, err := container.Parse(data)
	if err != nil {
		return nil, 0, 0, err
	}
	if header.Mode != container.ModeLossless {
		return nil, 0, 0, fmt.Errorf("%w: payload is not lossless coded", codec.ErrMalformedHeader)
	}

	width := int(header.Width)
	height := int(header.Height)

	var residuals [numChannels][]byte
	switch int(header.Method) {
	case codec.MethodGolomb:
		residuals, err = decodeGolomb(body, width, height)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("%w: %v", codec.ErrCorruptStream, err)
		}
	case codec.MethodZstd:
		flat, err := zstdDecoder.DecodeAll(body, nil)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("%w: %v", codec.ErrCorruptStream, err)
		}
		if len(flat) != width*height*numChannels {
			return nil, 0, 0, fmt.Errorf("%w: residual size %d, want %d",
				codec.ErrCorruptStream, len(flat), width*height*numChannels)
		}
		for ch := 0; ch < numChannels; ch++ {
			residuals[ch] = flat[ch*width*height : (ch+1)*width*height]
		}
	default:
		return nil, 0, 0, fmt.Errorf("%w: unknown method %d", codec.ErrMalformedHeader, header.Method)
	}

	pixels := reconstruct(residuals, width, height)
	return pixels, width, height, nil
}

// decodeGolomb reads the residual planes with adaptive Golomb-Rice coding,
// mirroring the encoder's context schedule
func decodeGolomb(body []byte, width, height int) ([numChannels][]byte, error) {
	var residuals [numChannels][]byte
	gr := common.NewGolombReader(bytes.NewReader(body))

	for ch := 0; ch < numChannels; ch++ {
		residuals[ch] = make([]byte, width*height)
		ctx := newGolombContext()
		for i := 0; i < width*height; i++ {
			mapped, err := gr.ReadGolomb(ctx.k())
			if err != nil {
				return residuals, err
			}
			if mapped > 255 {
				return residuals, common.ErrInvalidData
			}
			residuals[ch][i] = byte(UnmapResidual(mapped) & 0xFF)
			ctx.update(mapped)
		}
	}

	return residuals, nil
}

// reconstruct runs the MED predictor forward, adding residuals modulo 256
func reconstruct(residuals [numChannels][]byte, width, height int) []byte {
	pixels := make([]byte, width*height*4)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			offset := (y*width + x) * 4
			for ch := 0; ch < numChannels; ch++ {
				a, b, c := 0, 0, 0
				if x > 0 {
					a = int(pixels[offset-4+ch])
				}
				if y > 0 {
					b = int(pixels[offset-width*4+ch])
					if x > 0 {
						c = int(pixels[offset-width*4-4+ch])
					}
				}

				e := int(int8(residuals[ch][y*width+x]))
				pixels[offset+ch] = byte((Predict(a, b, c) + e) & 0xFF)
			}
		}
	}

	return pixels
}
