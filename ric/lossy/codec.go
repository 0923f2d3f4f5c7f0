package lossy

import (
	"fmt"

	"github.com/cocosip/go-raster-codec/codec"
)

// DefaultQuality is used when the caller leaves Quality unset
const DefaultQuality = 75

// Codec implements the codec.Codec interface for RIC lossy
type Codec struct{}

// NewCodec creates a new RIC lossy codec
func NewCodec() *Codec {
	return &Codec{}
}

// ID returns the format identifier
func (c *Codec) ID() string {
	return "ric/lossy"
}

// Name returns the codec name
func (c *Codec) Name() string {
	return "ric-lossy"
}

// Encode encodes RGBA pixel data with the lossy pipeline
func (c *Codec) Encode(params codec.EncodeParams) ([]byte, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	quality := DefaultQuality
	if opts, ok := params.Options.(*codec.BaseOptions); ok && opts != nil {
		if err := opts.Validate(); err != nil {
			return nil, err
		}
		if opts.Quality != 0 {
			quality = opts.Quality
		}
	}

	data, err := Encode(params.PixelData, params.Width, params.Height, params.Stride, quality)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", codec.ErrInvalidInput, err)
	}
	return data, nil
}

// Decode decodes a RIC lossy payload
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
