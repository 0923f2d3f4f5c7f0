package common

import "errors"

// Common errors shared by the RIC entropy and transform stages
var (
	ErrInvalidData       = errors.New("invalid RIC data")
	ErrInvalidDimensions = errors.New("invalid image dimensions")
	ErrInvalidQuality    = errors.New("invalid quality factor")
	ErrHuffmanDecode     = errors.New("Huffman decode error")
	ErrBufferTooSmall    = errors.New("buffer too small")
)
