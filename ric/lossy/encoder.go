// Package lossy implements the RIC lossy pipeline: YCbCr+A planes, 8x8 DCT,
// quality-scaled quantization, and JPEG-style run/size Huffman coding.
package lossy

import (
	"bytes"

	"github.com/cocosip/go-raster-codec/ric/colorspace"
	"github.com/cocosip/go-raster-codec/ric/common"
	"github.com/cocosip/go-raster-codec/ric/container"
)

// Plane order in the entropy stream. Y and A share the luminance tables,
// Cb and Cr share the chrominance tables.
const numPlanes = 4

var planeChroma = [numPlanes]int{0, 1, 1, 0}

// Encoder holds per-call state for one lossy encode
type Encoder struct {
	width   int
	height  int
	quality int

	qtables [2][64]int32
	dcCodes []common.HuffmanCode
	acCodes [2][]common.HuffmanCode
}

// Entropy tables, shared read-only by all encoders and decoders. DC uses the
// extended table for both plane classes so that large DC differences stay
// representable at high quality.
var (
	dcTable  = common.BuildStandardHuffmanTable(common.ExtendedDCBits, common.ExtendedDCValues)
	acTables = [2]*common.HuffmanTable{
		common.BuildStandardHuffmanTable(common.StandardACLuminanceBits, common.StandardACLuminanceValues),
		common.BuildStandardHuffmanTable(common.StandardACChrominanceBits, common.StandardACChrominanceValues),
	}
	dcCodes = common.BuildHuffmanCodes(dcTable)
	acCodes = [2][]common.HuffmanCode{
		common.BuildHuffmanCodes(acTables[0]),
		common.BuildHuffmanCodes(acTables[1]),
	}
)

// Encode encodes RGBA pixel data to a RIC lossy payload
// quality: 1-100, where 100 is best quality
func Encode(pixelData []byte, width, height, stride, quality int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, common.ErrInvalidDimensions
	}
	if width > container.MaxDimension || height > container.MaxDimension {
		return nil, common.ErrInvalidDimensions
	}
	if stride < width*4 {
		return nil, common.ErrInvalidDimensions
	}
	if quality < 1 || quality > 100 {
		return nil, common.ErrInvalidQuality
	}
	if len(pixelData) < stride*height {
		return nil, common.ErrBufferTooSmall
	}

	enc := &Encoder{
		width:   width,
		height:  height,
		quality: quality,
	}
	enc.qtables[0] = common.ScaleQuantTable(common.DefaultLuminanceQuantTable, quality)
	enc.qtables[1] = common.ScaleQuantTable(common.DefaultChrominanceQuantTable, quality)
	enc.dcCodes = dcCodes
	enc.acCodes = acCodes

	planes := extractPlanes(pixelData, width, height, stride)

	var scanBuf bytes.Buffer
	huffEnc := common.NewHuffmanEncoder(&scanBuf)

	for p := 0; p < numPlanes; p++ {
		if err := enc.encodePlane(huffEnc, planes[p], planeChroma[p]); err != nil {
			return nil, err
		}
	}
	if err := huffEnc.Flush(); err != nil {
		return nil, err
	}

	// The method byte carries the quality so the decoder can rebuild the
	// same quantization tables without embedding them in the payload.
	header := &container.Header{
		Mode:   container.ModeLossy,
		Method: byte(quality),
		Width:  uint32(width),
		Height: uint32(height),
	}
	return header.Marshal(scanBuf.Bytes()), nil
}

// extractPlanes splits interleaved RGBA into Y, Cb, Cr, A planes padded to
// 8x8 multiples by edge replication
func extractPlanes(pixelData []byte, width, height, stride int) [numPlanes][]byte {
	pw := common.DivCeil(width, 8) * 8
	ph := common.DivCeil(height, 8) * 8

	var planes [numPlanes][]byte
	for p := range planes {
		planes[p] = make([]byte, pw*ph)
	}

	for y := 0; y < ph; y++ {
		srcY := y
		if srcY >= height {
			srcY = height - 1
		}
		for x := 0; x < pw; x++ {
			srcX := x
			if srcX >= width {
				srcX = width - 1
			}
			offset := srcY*stride + srcX*4

			yy, cb, cr := colorspace.RGBToYCbCr(pixelData[offset], pixelData[offset+1], pixelData[offset+2])
			planes[0][y*pw+x] = yy
			planes[1][y*pw+x] = cb
			planes[2][y*pw+x] = cr
			planes[3][y*pw+x] = pixelData[offset+3]
		}
	}

	return planes
}

// encodePlane encodes one padded plane block by block with DC prediction
func (enc *Encoder) encodePlane(huffEnc *common.HuffmanEncoder, plane []byte, tableIdx int) error {
	pw := common.DivCeil(enc.width, 8) * 8
	blocksWide := pw / 8
	blocksHigh := common.DivCeil(enc.height, 8)

	dcPred := 0
	for by := 0; by < blocksHigh; by++ {
		for bx := 0; bx < blocksWide; bx++ {
			if err := enc.encodeBlock(huffEnc, plane, bx, by, pw, &dcPred, tableIdx); err != nil {
				return err
			}
		}
	}
	return nil
}

// encodeBlock encodes a single 8x8 block
func (enc *Encoder) encodeBlock(huffEnc *common.HuffmanEncoder, plane []byte, blockX, blockY, stride int, dcPred *int, tableIdx int) error {
	// DCT directly over the padded plane
	var coef [64]int32
	common.DCT(plane[blockY*8*stride+blockX*8:], stride, coef[:])

	// Quantize with symmetric rounding
	qtable := &enc.qtables[tableIdx]
	for i := 0; i < 64; i++ {
		q := qtable[i]
		if coef[i] >= 0 {
			coef[i] = (coef[i] + q/2) / q
		} else {
			coef[i] = (coef[i] - q/2) / q
		}
		// Keep AC categories within the baseline tables (<= 10)
		if coef[i] > 1023 {
			coef[i] = 1023
		} else if coef[i] < -1023 {
			coef[i] = -1023
		}
	}

	// Encode DC coefficient as a difference from the previous block
	dcDiff := int(coef[0]) - *dcPred
	*dcPred = int(coef[0])

	cat, bits := huffEnc.EncodeCategory(dcDiff)
	dcCode := enc.dcCodes[cat]
	if err := huffEnc.WriteBits(uint32(dcCode.Code), dcCode.Len); err != nil {
		return err
	}
	if cat > 0 {
		if err := huffEnc.WriteBits(bits, cat); err != nil {
			return err
		}
	}

	// Encode AC coefficients in zigzag order
	acCode := enc.acCodes[tableIdx]
	zeroRun := 0

	for k := 1; k < 64; k++ {
		val := int(coef[common.ZigZag[k]])

		if val == 0 {
			zeroRun++
			continue
		}

		// Emit any pending runs of 16 zeros
		for zeroRun >= 16 {
			code := acCode[0xF0]
			if err := huffEnc.WriteBits(uint32(code.Code), code.Len); err != nil {
				return err
			}
			zeroRun -= 16
		}

		cat, bits := huffEnc.EncodeCategory(val)
		rs := byte((zeroRun << 4) | cat)
		code := acCode[rs]
		if err := huffEnc.WriteBits(uint32(code.Code), code.Len); err != nil {
			return err
		}
		if err := huffEnc.WriteBits(bits, cat); err != nil {
			return err
		}

		zeroRun = 0
	}

	// EOB if there are trailing zeros
	if zeroRun > 0 {
		code := acCode[0x00]
		if err := huffEnc.WriteBits(uint32(code.Code), code.Len); err != nil {
			return err
		}
	}

	return nil
}
