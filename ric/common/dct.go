package common

import "math"

// Cosine basis and normalization tables for the 8x8 DCT. Built once at
// startup and never mutated, so concurrent encode/decode calls can share
// them without locking.
var (
	cosBasis [8][8]float64 // cosBasis[u][x] = cos((2x+1)*u*pi/16)
	dctNorm  [8]float64    // 1/sqrt(2) for u=0, 1 otherwise
)

func init() {
	for u := 0; u < 8; u++ {
		for x := 0; x < 8; x++ {
			cosBasis[u][x] = math.Cos(float64(2*x+1) * float64(u) * math.Pi / 16)
		}
	}
	dctNorm[0] = 1 / math.Sqrt2
	for u := 1; u < 8; u++ {
		dctNorm[u] = 1
	}
}

// DCT performs a Discrete Cosine Transform on an 8x8 block.
// Input: 64 spatial domain values (range 0-255), read with the given stride.
// Output: 64 DCT coefficients in natural order, scaled so that the DC
// coefficient equals 8x the mean of the level-shifted block.
func DCT(input []byte, stride int, coef []int32) {
	// Row pass with level shift
	var tmp [8][8]float64
	for y := 0; y < 8; y++ {
		for u := 0; u < 8; u++ {
			sum := 0.0
			for x := 0; x < 8; x++ {
				sum += (float64(input[y*stride+x]) - 128) * cosBasis[u][x]
			}
			tmp[y][u] = sum * dctNorm[u] / 2
		}
	}

	// Column pass
	for u := 0; u < 8; u++ {
		for v := 0; v < 8; v++ {
			sum := 0.0
			for y := 0; y < 8; y++ {
				sum += tmp[y][v] * cosBasis[u][y]
			}
			coef[u*8+v] = int32(math.Round(sum * dctNorm[u] / 2))
		}
	}
}
