package common

import "io"

// maxGolombQuotient bounds the unary part of a Golomb code. A well-formed
// stream never gets close; hitting it means the stream is corrupt.
const maxGolombQuotient = 1 << 15

// GolombWriter writes Golomb-Rice encoded data
type GolombWriter struct {
	w          io.Writer
	buffer     uint32 // bit buffer
	bufferSize int    // number of bits in buffer
}

// NewGolombWriter creates a new Golomb-Rice writer
func NewGolombWriter(w io.Writer) *GolombWriter {
	return &GolombWriter{w: w}
}

// WriteGolomb writes a non-negative value using Golomb-Rice coding with parameter k
func (gw *GolombWriter) WriteGolomb(value int, k int) error {
	// Split value into quotient and remainder
	quotient := value >> uint(k)
	remainder := value & ((1 << uint(k)) - 1)

	// Write quotient in unary (quotient zeros followed by a one)
	for i := 0; i < quotient; i++ {
		if err := gw.WriteBit(0); err != nil {
			return err
		}
	}
	if err := gw.WriteBit(1); err != nil {
		return err
	}

	// Write remainder in binary (k bits)
	if k > 0 {
		if err := gw.WriteBits(uint32(remainder), k); err != nil {
			return err
		}
	}

	return nil
}

// WriteBit writes a single bit
func (gw *GolombWriter) WriteBit(bit int) error {
	gw.buffer = (gw.buffer << 1) | uint32(bit&1)
	gw.bufferSize++

	if gw.bufferSize == 8 {
		return gw.flushByte()
	}
	return nil
}

// WriteBits writes n bits
func (gw *GolombWriter) WriteBits(bits uint32, n int) error {
	for n > 0 {
		// How many bits can we fit in the current byte
		space := 8 - gw.bufferSize
		if space > n {
			space = n
		}

		// Extract the top 'space' bits
		shift := uint(n - space)
		value := (bits >> shift) & ((1 << uint(space)) - 1)

		gw.buffer = (gw.buffer << uint(space)) | value
		gw.bufferSize += space
		n -= space

		if gw.bufferSize == 8 {
			if err := gw.flushByte(); err != nil {
				return err
			}
		}
	}
	return nil
}

// flushByte writes the buffered byte
func (gw *GolombWriter) flushByte() error {
	b := byte(gw.buffer)
	gw.buffer = 0
	gw.bufferSize = 0

	if _, err := gw.w.Write([]byte{b}); err != nil {
		return err
	}
	return nil
}

// Flush flushes remaining bits (pad with zeros)
func (gw *GolombWriter) Flush() error {
	if gw.bufferSize > 0 {
		gw.buffer <<= uint(8 - gw.bufferSize)
		return gw.flushByte()
	}
	return nil
}

// GolombReader reads Golomb-Rice encoded data
type GolombReader struct {
	r          io.Reader
	buffer     uint32 // bit buffer
	bufferSize int    // number of bits in buffer
}

// NewGolombReader creates a new Golomb-Rice reader
func NewGolombReader(r io.Reader) *GolombReader {
	return &GolombReader{r: r}
}

// ReadGolomb reads a value using Golomb-Rice coding with parameter k
func (gr *GolombReader) ReadGolomb(k int) (int, error) {
	// Read quotient (unary code)
	quotient := 0
	for {
		bit, err := gr.ReadBit()
		if err != nil {
			return 0, err
		}
		if bit == 1 {
			break
		}
		quotient++
		if quotient > maxGolombQuotient {
			return 0, ErrInvalidData
		}
	}

	// Read remainder (k bits)
	remainder := 0
	if k > 0 {
		val, err := gr.ReadBits(k)
		if err != nil {
			return 0, err
		}
		remainder = int(val)
	}

	return (quotient << uint(k)) | remainder, nil
}

// ReadBit reads a single bit
func (gr *GolombReader) ReadBit() (int, error) {
	if gr.bufferSize == 0 {
		if err := gr.fillBuffer(); err != nil {
			return 0, err
		}
	}

	gr.bufferSize--
	return int((gr.buffer >> uint(gr.bufferSize)) & 1), nil
}

// ReadBits reads n bits
func (gr *GolombReader) ReadBits(n int) (uint32, error) {
	result := uint32(0)
	for n > 0 {
		if gr.bufferSize == 0 {
			if err := gr.fillBuffer(); err != nil {
				return 0, err
			}
		}

		// Take as many bits as we can from the current buffer
		take := n
		if take > gr.bufferSize {
			take = gr.bufferSize
		}

		gr.bufferSize -= take
		bits := (gr.buffer >> uint(gr.bufferSize)) & ((1 << uint(take)) - 1)
		result = (result << uint(take)) | bits
		n -= take
	}
	return result, nil
}

// fillBuffer reads the next byte into the bit buffer
func (gr *GolombReader) fillBuffer() error {
	var buf [1]byte
	if _, err := io.ReadFull(gr.r, buf[:]); err != nil {
		return err
	}

	gr.buffer = uint32(buf[0])
	gr.bufferSize = 8
	return nil
}
