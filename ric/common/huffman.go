package common

import "io"

// HuffmanTable represents a Huffman coding table
type HuffmanTable struct {
	// Number of codes of each length (1-16 bits)
	Bits [16]int
	// Values for each code, in order of code length
	Values []byte
	// Lookup tables for fast decoding
	minCode [16]int32
	maxCode [16]int32
	valPtr  [16]int32
	// Lookup table for fast decoding of short codes
	lookupTable [256]int16 // value: (nbits << 8) | value, -1 if not found
}

// Build builds lookup tables for fast Huffman decoding
func (h *HuffmanTable) Build() error {
	// Build fast lookup table for codes up to 8 bits
	for i := range h.lookupTable {
		h.lookupTable[i] = -1
	}

	p := 0
	fastCode := 0
	for l := 0; l < 8; l++ {
		for i := 0; i < h.Bits[l]; i++ {
			// Extend the canonical code to 8 bits
			prefix := fastCode << uint(7-l)
			for j := 0; j < (1 << uint(7-l)); j++ {
				h.lookupTable[prefix+j] = int16((l+1)<<8 | int(h.Values[p]))
			}
			fastCode++
			p++
		}
		fastCode <<= 1
	}

	// Build min/max codes and value pointers for codes longer than 8 bits
	code := int32(0)
	p = 0
	for l := 0; l < 16; l++ {
		if h.Bits[l] == 0 {
			h.maxCode[l] = -1
		} else {
			h.valPtr[l] = int32(p)
			h.minCode[l] = code
			p += h.Bits[l]
			code += int32(h.Bits[l])
			h.maxCode[l] = code - 1
		}
		code <<= 1
	}

	return nil
}

// HuffmanDecoder decodes Huffman-encoded data
type HuffmanDecoder struct {
	r       io.Reader
	bits    uint32 // Bit buffer
	nBits   int    // Number of bits in buffer
	readErr error  // Read error, if any
}

// NewHuffmanDecoder creates a new Huffman decoder
func NewHuffmanDecoder(r io.Reader) *HuffmanDecoder {
	return &HuffmanDecoder{r: r}
}

// fillByte reads the next stream byte into the bit buffer, undoing the
// 0xFF 0x00 byte stuffing applied by the encoder
func (d *HuffmanDecoder) fillByte() error {
	var b [1]byte
	if _, err := io.ReadFull(d.r, b[:]); err != nil {
		d.readErr = err
		return err
	}

	if b[0] == 0xFF {
		var b2 [1]byte
		if _, err := io.ReadFull(d.r, b2[:]); err != nil {
			d.readErr = err
			return err
		}
		if b2[0] != 0x00 {
			// A bare 0xFF inside the scan is not valid
			d.readErr = ErrInvalidData
			return ErrInvalidData
		}
	}

	d.bits = (d.bits << 8) | uint32(b[0])
	d.nBits += 8
	return nil
}

// ReadBit reads a single bit
func (d *HuffmanDecoder) ReadBit() (int, error) {
	if d.readErr != nil {
		return 0, d.readErr
	}

	if d.nBits == 0 {
		if err := d.fillByte(); err != nil {
			return 0, err
		}
	}

	d.nBits--
	return int((d.bits >> uint(d.nBits)) & 1), nil
}

// ReadBits reads n bits as an unsigned integer
func (d *HuffmanDecoder) ReadBits(n int) (uint32, error) {
	if n == 0 {
		return 0, nil
	}

	for d.nBits < n {
		if d.readErr != nil {
			return 0, d.readErr
		}
		if err := d.fillByte(); err != nil {
			return 0, err
		}
	}

	d.nBits -= n
	return (d.bits >> uint(d.nBits)) & ((1 << uint(n)) - 1), nil
}

// Decode decodes the next Huffman symbol
func (d *HuffmanDecoder) Decode(table *HuffmanTable) (byte, error) {
	if d.readErr != nil {
		return 0, d.readErr
	}

	// Try fast lookup for codes up to 8 bits
	if d.nBits >= 8 {
		peek := (d.bits >> uint(d.nBits-8)) & 0xFF
		entry := table.lookupTable[peek]
		if entry >= 0 {
			nbits := int(entry >> 8)
			value := byte(entry & 0xFF)
			d.nBits -= nbits
			return value, nil
		}
	}

	// Slow path: decode bit by bit
	code := uint32(0)
	for l := 0; l < 16; l++ {
		bit, err := d.ReadBit()
		if err != nil {
			return 0, err
		}

		code = (code << 1) | uint32(bit)

		if table.maxCode[l] >= 0 && int32(code) >= table.minCode[l] && int32(code) <= table.maxCode[l] {
			idx := table.valPtr[l] + int32(code) - table.minCode[l]
			if idx >= 0 && int(idx) < len(table.Values) {
				return table.Values[idx], nil
			}
		}
	}

	return 0, ErrHuffmanDecode
}

// ReceiveExtend decodes a coefficient value of the given category.
// This combines the RECEIVE and EXTEND operations.
func (d *HuffmanDecoder) ReceiveExtend(ssss int) (int, error) {
	if ssss == 0 {
		return 0, nil
	}

	bits, err := d.ReadBits(ssss)
	if err != nil {
		return 0, err
	}

	// Extend: convert to signed value
	val := int(bits)
	if val < (1 << uint(ssss-1)) {
		val += (-1 << uint(ssss)) + 1
	}

	return val, nil
}
