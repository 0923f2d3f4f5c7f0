// Package colorspace provides the RGB <-> YCbCr conversion used by the lossy
// pipeline. Alpha is carried as its own plane and never converted.
package colorspace

// RGBToYCbCr converts a single RGB pixel to YCbCr (full range, BT.601)
func RGBToYCbCr(r, g, b byte) (byte, byte, byte) {
	ri, gi, bi := int(r), int(g), int(b)

	y := (19595*ri + 38470*gi + 7471*bi + 32768) >> 16
	cb := (-11056*ri - 21712*gi + 32768*bi + 8421376) >> 16
	cr := (32768*ri - 27440*gi - 5328*bi + 8421376) >> 16

	return byte(clamp(y)), byte(clamp(cb)), byte(clamp(cr))
}

// YCbCrToRGB converts a single YCbCr pixel back to RGB
func YCbCrToRGB(y, cb, cr byte) (byte, byte, byte) {
	yi := int(y)
	cbVal := int(cb) - 128
	crVal := int(cr) - 128

	r := yi + (91881*crVal)>>16
	g := yi - ((22554*cbVal + 46802*crVal) >> 16)
	b := yi + (116130*cbVal)>>16

	return byte(clamp(r)), byte(clamp(g)), byte(clamp(b))
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
