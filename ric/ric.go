// Package ric ties the RIC pipelines together: encoding entry points for
// both modes and a decoder that dispatches on the container header.
package ric

import (
	"github.com/cocosip/go-raster-codec/ric/container"
	"github.com/cocosip/go-raster-codec/ric/lossless"
	"github.com/cocosip/go-raster-codec/ric/lossy"
)

// EncodeLossy encodes tightly packed RGBA with the lossy pipeline
func EncodeLossy(pixelData []byte, width, height, quality int) ([]byte, error) {
	return lossy.Encode(pixelData, width, height, width*4, quality)
}

// EncodeLossless encodes tightly packed RGBA with the lossless pipeline
func EncodeLossless(pixelData []byte, width, height, method int) ([]byte, error) {
	return lossless.Encode(pixelData, width, height, width*4, method)
}

// Decode decodes any RIC payload, dispatching on the mode recorded in the
// container header. The returned pixel data is tightly packed RGBA.
func Decode(data []byte) ([]byte, int, int, error) {
	header, _, err := container.Parse(data)
	if err != nil {
		return nil, 0, 0, err
	}

	switch header.Mode {
	case container.ModeLossless:
		return lossless.Decode(data)
	default:
		return lossy.Decode(data)
	}
}

// Mode reports whether a payload is lossless without decoding it
func Mode(data []byte) (byte, error) {
	header, _, err := container.Parse(data)
	if err != nil {
		return 0, err
	}
	return header.Mode, nil
}
