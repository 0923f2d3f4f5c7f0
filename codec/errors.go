package codec

import "errors"

var (
	// ErrCodecNotFound is returned when a codec is not found in the registry
	ErrCodecNotFound = errors.New("codec not found")

	// ErrInvalidParameter is returned when encoding/decoding parameters are invalid
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidQuality is returned when the quality parameter is invalid
	ErrInvalidQuality = errors.New("invalid quality (must be 1-100)")

	// ErrInvalidInput is returned for malformed caller arguments: nil pixel
	// buffers, non-positive dimensions, or an inconsistent stride
	ErrInvalidInput = errors.New("invalid input")

	// ErrAllocationFailure is returned when the output buffer cannot be produced
	ErrAllocationFailure = errors.New("allocation failure")

	// ErrMalformedHeader is returned on decode when the container signature
	// or dimensions are invalid
	ErrMalformedHeader = errors.New("malformed header")

	// ErrCorruptStream is returned on decode when the entropy-coded body is
	// inconsistent, truncated, or fails the checksum
	ErrCorruptStream = errors.New("corrupt stream")

	// ErrEmptyInput is returned on decode of a zero-length payload
	ErrEmptyInput = errors.New("empty input")
)
