package common

import "math"

// IDCT performs an Inverse Discrete Cosine Transform on an 8x8 block.
// Input: 64 DCT coefficients in natural order.
// Output: 64 spatial domain values written with the given stride, level
// shifted back to 0-255 and clamped.
func IDCT(coef []int32, out []byte, stride int) {
	// Column pass
	var tmp [8][8]float64
	for u := 0; u < 8; u++ {
		for x := 0; x < 8; x++ {
			sum := 0.0
			for v := 0; v < 8; v++ {
				sum += dctNorm[v] * float64(coef[u*8+v]) * cosBasis[v][x]
			}
			tmp[u][x] = sum / 2
		}
	}

	// Row pass with level shift and range limiting
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			sum := 0.0
			for u := 0; u < 8; u++ {
				sum += dctNorm[u] * tmp[u][x] * cosBasis[u][y]
			}
			v := int(math.Round(sum/2)) + 128
			out[y*stride+x] = byte(Clamp(v, 0, 255))
		}
	}
}
