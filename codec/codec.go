package codec

// Codec is the universal interface for all RIC codec variants
type Codec interface {
	// Encode encodes RGBA pixel data
	Encode(params EncodeParams) ([]byte, error)

	// Decode decodes compressed data
	Decode(data []byte) (*DecodeResult, error)

	// ID returns the unique format identifier (e.g. "ric/lossy")
	ID() string

	// Name returns a human-readable name
	Name() string
}

// EncodeParams contains parameters for encoding
type EncodeParams struct {
	PixelData []byte  // Raw RGBA pixel data, 8 bits per channel
	Width     int     // Image width in pixels
	Height    int     // Image height in pixels
	Stride    int     // Bytes per row, must be >= Width*4
	Options   Options // Codec-specific options
}

// Validate checks the pixel buffer invariants shared by all codecs
func (p *EncodeParams) Validate() error {
	if p.PixelData == nil {
		return ErrInvalidInput
	}
	if p.Width <= 0 || p.Height <= 0 {
		return ErrInvalidInput
	}
	if p.Stride < p.Width*4 {
		return ErrInvalidInput
	}
	if len(p.PixelData) < p.Stride*p.Height {
		return ErrInvalidInput
	}
	return nil
}

// Options is an interface for codec-specific encoding options
type Options interface {
	// Validate checks if the options are valid
	Validate() error
}

// DecodeResult contains the result of decoding
type DecodeResult struct {
	PixelData []byte // Decoded RGBA pixel data, tightly packed (stride == Width*4)
	Width     int    // Image width
	Height    int    // Image height
}

// Lossless entropy methods
const (
	// MethodGolomb codes MED residuals with adaptive Golomb-Rice
	MethodGolomb = 0
	// MethodZstd compresses planar MED residuals with Zstandard
	MethodZstd = 1
)

// BaseOptions provides common options for all codecs
type BaseOptions struct {
	// Quality factor for the lossy codec (1-100, higher is better)
	// Ignored by the lossless codec
	Quality int

	// Method selects the lossless entropy method (MethodGolomb or MethodZstd)
	// Ignored by the lossy codec
	Method int
}

// Validate validates base options
func (o *BaseOptions) Validate() error {
	if o.Quality < 0 || o.Quality > 100 {
		return ErrInvalidQuality
	}
	if o.Method != MethodGolomb && o.Method != MethodZstd {
		return ErrInvalidParameter
	}
	return nil
}
