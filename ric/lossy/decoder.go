package lossy

import (
	"bytes"
	"fmt"

	"github.com/cocosip/go-raster-codec/codec"
	"github.com/cocosip/go-raster-codec/ric/colorspace"
	"github.com/cocosip/go-raster-codec/ric/common"
	"github.com/cocosip/go-raster-codec/ric/container"
)

// Decoder holds per-call state for one lossy decode
type Decoder struct {
	width   int
	height  int
	quality int

	qtables [2][64]int32
}

// Decode decodes a RIC lossy payload back to tightly packed RGBA.
// The payload must carry ModeLossy framing; the quality used at encode time
// is recovered from the method byte.
func Decode(data []byte) ([]byte, int, int, error) {
	header, body, err := container.Parse(data)
	if err != nil {
		return nil, 0, 0, err
	}
	if header.Mode != container.ModeLossy {
		return nil, 0, 0, fmt.Errorf("%w: payload is not lossy coded", codec.ErrMalformedHeader)
	}
	quality := int(header.Method)
	if quality < 1 || quality > 100 {
		return nil, 0, 0, fmt.Errorf("%w: quality byte %d out of range", codec.ErrMalformedHeader, header.Method)
	}

	dec := &Decoder{
		width:   int(header.Width),
		height:  int(header.Height),
		quality: quality,
	}
	dec.qtables[0] = common.ScaleQuantTable(common.DefaultLuminanceQuantTable, quality)
	dec.qtables[1] = common.ScaleQuantTable(common.DefaultChrominanceQuantTable, quality)

	huffDec := common.NewHuffmanDecoder(bytes.NewReader(body))

	pw := common.DivCeil(dec.width, 8) * 8
	ph := common.DivCeil(dec.height, 8) * 8

	var planes [numPlanes][]byte
	for p := 0; p < numPlanes; p++ {
		planes[p] = make([]byte, pw*ph)
		if err := dec.decodePlane(huffDec, planes[p], pw, planeChroma[p]); err != nil {
			return nil, 0, 0, fmt.Errorf("%w: %v", codec.ErrCorruptStream, err)
		}
	}

	pixels := make([]byte, dec.width*dec.height*4)
	for y := 0; y < dec.height; y++ {
		for x := 0; x < dec.width; x++ {
			r, g, b := colorspace.YCbCrToRGB(planes[0][y*pw+x], planes[1][y*pw+x], planes[2][y*pw+x])
			offset := (y*dec.width + x) * 4
			pixels[offset] = r
			pixels[offset+1] = g
			pixels[offset+2] = b
			pixels[offset+3] = planes[3][y*pw+x]
		}
	}

	return pixels, dec.width, dec.height, nil
}

// decodePlane decodes one padded plane block by block with DC prediction
func (dec *Decoder) decodePlane(huffDec *common.HuffmanDecoder, plane []byte, pw, tableIdx int) error {
	blocksWide := pw / 8
	blocksHigh := common.DivCeil(dec.height, 8)

	dcPred := 0
	for by := 0; by < blocksHigh; by++ {
		for bx := 0; bx < blocksWide; bx++ {
			if err := dec.decodeBlock(huffDec, plane, bx, by, pw, &dcPred, tableIdx); err != nil {
				return err
			}
		}
	}
	return nil
}

// decodeBlock decodes a single 8x8 block into the plane
func (dec *Decoder) decodeBlock(huffDec *common.HuffmanDecoder, plane []byte, blockX, blockY, stride int, dcPred *int, tableIdx int) error {
	var coef [64]int32

	// DC coefficient
	cat, err := huffDec.Decode(dcTable)
	if err != nil {
		return err
	}
	diff, err := huffDec.ReceiveExtend(int(cat))
	if err != nil {
		return err
	}
	*dcPred += diff
	coef[0] = int32(*dcPred)

	// AC coefficients
	acTable := acTables[tableIdx]
	for k := 1; k < 64; {
		rs, err := huffDec.Decode(acTable)
		if err != nil {
			return err
		}

		run := int(rs >> 4)
		size := int(rs & 0x0F)

		if size == 0 {
			if run == 15 {
				// ZRL: sixteen zeros
				k += 16
				continue
			}
			// EOB: rest of the block is zero
			break
		}

		k += run
		if k >= 64 {
			return common.ErrInvalidData
		}

		val, err := huffDec.ReceiveExtend(size)
		if err != nil {
			return err
		}
		coef[common.ZigZag[k]] = int32(val)
		k++
	}

	// Dequantize
	qtable := &dec.qtables[tableIdx]
	for i := 0; i < 64; i++ {
		coef[i] *= qtable[i]
	}

	common.IDCT(coef[:], plane[blockY*8*stride+blockX*8:], stride)
	return nil
}
