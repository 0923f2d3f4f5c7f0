package lossless

import (
	"fmt"

	"github.com/cocosip/go-raster-codec/codec"
)

// Codec implements the codec.Codec interface for RIC lossless
type Codec struct{}

// NewCodec creates a new RIC lossless codec
func NewCodec() *Codec {
	return &Codec{}
}

// ID returns the format identifier
func (c *Codec) ID() string {
	return "ric/lossless"
}

// Name returns the codec name
func (c *Codec) Name() string {
	return "ric-lossless"
}

// Encode encodes RGBA pixel data with the lossless pipeline
func (c *Codec) Encode(params codec.EncodeParams) ([]byte, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	method := codec.MethodGolomb
	if opts, ok := params.Options.(*codec.BaseOptions); ok && opts != nil {
		if err := opts.Validate(); err != nil {
			return nil, err
		}
		method = opts.Method
	}

	data, err := Encode(params.PixelData, params.Width, params.Height, params.Stride, method)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", codec.ErrInvalidInput, err)
	}
	return data, nil
}

// Decode decodes a RIC lossless payload
func (c *Codec) Decode(data []byte) (*codec.DecodeResult, error) {
	pixels, width, height, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return &codec.DecodeResult{
		PixelData: pixels,
		Width:     width,
		Height:    height,
	}, nil
}

func init() {
	codec.Register(NewCodec())
}
