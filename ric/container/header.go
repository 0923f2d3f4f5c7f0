// Package container implements the RIC framing: a fixed header carrying the
// image dimensions and mode flags, followed by the entropy-coded body and
// guarded by a CRC-32 of the body.
package container

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/cocosip/go-raster-codec/codec"
)

// Magic identifies a RIC payload
var Magic = [4]byte{'R', 'I', 'C', '1'}

// Version is the current container version
const Version = 1

// HeaderSize is the fixed size of the container header in bytes
const HeaderSize = 20

// MaxDimension bounds width and height; larger values are rejected as
// malformed before any pixel buffer is sized from them
const MaxDimension = 1 << 14

// Coding modes
const (
	ModeLossy    = 0
	ModeLossless = 1
)

// Header describes the framing metadata around a compressed body
type Header struct {
	Mode   byte   // ModeLossy or ModeLossless
	Method byte   // lossy: quality 1-100; lossless: entropy method
	Width  uint32 // image width, > 0
	Height uint32 // image height, > 0
	CRC    uint32 // IEEE CRC-32 of the body
}

// Layout (big-endian):
//   0  magic "RIC1"
//   4  version
//   5  mode
//   6  method
//   7  reserved (0)
//   8  width
//  12  height
//  16  crc32 of body

// Marshal appends the header for the given body to a fresh payload slice
func (h *Header) Marshal(body []byte) []byte {
	out := make([]byte, HeaderSize+len(body))
	copy(out[0:4], Magic[:])
	out[4] = Version
	out[5] = h.Mode
	out[6] = h.Method
	out[7] = 0
	binary.BigEndian.PutUint32(out[8:12], h.Width)
	binary.BigEndian.PutUint32(out[12:16], h.Height)
	binary.BigEndian.PutUint32(out[16:20], crc32.ChecksumIEEE(body))
	copy(out[HeaderSize:], body)
	return out
}

// Parse validates the framing of a payload and returns the header and body.
// The body slice aliases the input; callers must not mutate it.
func Parse(data []byte) (*Header, []byte, error) {
	if len(data) == 0 {
		return nil, nil, codec.ErrEmptyInput
	}
	if len(data) < HeaderSize {
		return nil, nil, fmt.Errorf("%w: payload shorter than header", codec.ErrMalformedHeader)
	}
	if data[0] != Magic[0] || data[1] != Magic[1] || data[2] != Magic[2] || data[3] != Magic[3] {
		return nil, nil, fmt.Errorf("%w: bad magic", codec.ErrMalformedHeader)
	}
	if data[4] != Version {
		return nil, nil, fmt.Errorf("%w: unsupported version %d", codec.ErrMalformedHeader, data[4])
	}

	h := &Header{
		Mode:   data[5],
		Method: data[6],
		Width:  binary.BigEndian.Uint32(data[8:12]),
		Height: binary.BigEndian.Uint32(data[12:16]),
		CRC:    binary.BigEndian.Uint32(data[16:20]),
	}

	if h.Mode != ModeLossy && h.Mode != ModeLossless {
		return nil, nil, fmt.Errorf("%w: unknown mode %d", codec.ErrMalformedHeader, h.Mode)
	}
	if h.Width == 0 || h.Height == 0 {
		return nil, nil, fmt.Errorf("%w: zero dimension", codec.ErrMalformedHeader)
	}
	if h.Width > MaxDimension || h.Height > MaxDimension {
		return nil, nil, fmt.Errorf("%w: dimension exceeds %d", codec.ErrMalformedHeader, MaxDimension)
	}

	body := data[HeaderSize:]
	if crc32.ChecksumIEEE(body) != h.CRC {
		return nil, nil, fmt.Errorf("%w: checksum mismatch", codec.ErrCorruptStream)
	}

	return h, body, nil
}
