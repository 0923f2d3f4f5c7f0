package colorspace

import "testing"

func TestPrimaries(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b byte
		wantY   int // approximate luma
	}{
		{"black", 0, 0, 0, 0},
		{"white", 255, 255, 255, 255},
		{"red", 255, 0, 0, 76},
		{"green", 0, 255, 0, 150},
		{"blue", 0, 0, 255, 29},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			y, _, _ := RGBToYCbCr(tt.r, tt.g, tt.b)
			if abs(int(y)-tt.wantY) > 1 {
				t.Errorf("Y = %d, want ~%d", y, tt.wantY)
			}
		})
	}
}

func TestRoundTripError(t *testing.T) {
	// Full round-trip through fixed-point YCbCr loses at most a couple of
	// code values per channel
	worst := 0
	for r := 0; r < 256; r += 15 {
		for g := 0; g < 256; g += 15 {
			for b := 0; b < 256; b += 15 {
				y, cb, cr := RGBToYCbCr(byte(r), byte(g), byte(b))
				r2, g2, b2 := YCbCrToRGB(y, cb, cr)

				for _, d := range []int{abs(r - int(r2)), abs(g - int(g2)), abs(b - int(b2))} {
					if d > worst {
						worst = d
					}
				}
			}
		}
	}
	t.Logf("worst channel error: %d", worst)
	if worst > 3 {
		t.Errorf("worst channel error = %d, want <= 3", worst)
	}
}

func TestGrayIsNeutral(t *testing.T) {
	for v := 0; v < 256; v += 51 {
		_, cb, cr := RGBToYCbCr(byte(v), byte(v), byte(v))
		if abs(int(cb)-128) > 1 || abs(int(cr)-128) > 1 {
			t.Errorf("gray %d: cb=%d cr=%d, want ~128", v, cb, cr)
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
