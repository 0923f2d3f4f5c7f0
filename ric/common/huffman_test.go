package common

import (
	"bytes"
	"testing"
)

func TestHuffmanCategoryRoundTrip(t *testing.T) {
	table := BuildStandardHuffmanTable(StandardDCLuminanceBits, StandardDCLuminanceValues)
	codes := BuildHuffmanCodes(table)

	values := []int{0, 1, -1, 2, -2, 5, -5, 127, -127, 255, -255, 1023, -1023}

	var buf bytes.Buffer
	enc := NewHuffmanEncoder(&buf)

	for _, v := range values {
		cat, bits := enc.EncodeCategory(v)
		code := codes[cat]
		if code.Len == 0 {
			t.Fatalf("no code for category %d", cat)
		}
		if err := enc.WriteBits(uint32(code.Code), code.Len); err != nil {
			t.Fatalf("WriteBits: %v", err)
		}
		if cat > 0 {
			if err := enc.WriteBits(bits, cat); err != nil {
				t.Fatalf("WriteBits: %v", err)
			}
		}
	}
	if err := enc.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	dec := NewHuffmanDecoder(bytes.NewReader(buf.Bytes()))
	for _, want := range values {
		s, err := dec.Decode(table)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		got, err := dec.ReceiveExtend(int(s))
		if err != nil {
			t.Fatalf("ReceiveExtend: %v", err)
		}
		if got != want {
			t.Errorf("got %d, want %d", got, want)
		}
	}
}

func TestHuffmanByteStuffing(t *testing.T) {
	var buf bytes.Buffer
	enc := NewHuffmanEncoder(&buf)

	// Sixteen one-bits produce two 0xFF bytes, each must be stuffed
	if err := enc.WriteBits(0xFFFF, 16); err != nil {
		t.Fatalf("WriteBits: %v", err)
	}
	if err := enc.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	want := []byte{0xFF, 0x00, 0xFF, 0x00}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("stuffed stream = %x, want %x", buf.Bytes(), want)
	}

	dec := NewHuffmanDecoder(bytes.NewReader(buf.Bytes()))
	v, err := dec.ReadBits(16)
	if err != nil {
		t.Fatalf("ReadBits: %v", err)
	}
	if v != 0xFFFF {
		t.Fatalf("ReadBits = %x, want ffff", v)
	}
}

func TestHuffmanDecodeBareMarkerByte(t *testing.T) {
	// 0xFF not followed by 0x00 is invalid inside a scan
	dec := NewHuffmanDecoder(bytes.NewReader([]byte{0xFF, 0xD9}))
	if _, err := dec.ReadBits(8); err == nil {
		t.Fatal("expected error on bare 0xFF, got nil")
	}
}

func TestHuffmanTableBuild(t *testing.T) {
	table := BuildStandardHuffmanTable(StandardACLuminanceBits, StandardACLuminanceValues)
	codes := BuildHuffmanCodes(table)

	// Every symbol present in the table must have a code of length 1-16
	p := 0
	for l := 0; l < 16; l++ {
		for i := 0; i < table.Bits[l]; i++ {
			val := table.Values[p]
			if codes[val].Len != l+1 {
				t.Errorf("symbol %#x: code length %d, want %d", val, codes[val].Len, l+1)
			}
			p++
		}
	}
}
