package common

import "testing"

func roundTripBlock(t *testing.T, block []byte, maxErr int) {
	t.Helper()

	var coef [64]int32
	DCT(block, 8, coef[:])

	out := make([]byte, 64)
	IDCT(coef[:], out, 8)

	worst := 0
	for i := 0; i < 64; i++ {
		diff := Abs(int(block[i]) - int(out[i]))
		if diff > worst {
			worst = diff
		}
	}
	t.Logf("max reconstruction error: %d", worst)
	if worst > maxErr {
		t.Errorf("max error %d exceeds %d", worst, maxErr)
	}
}

func TestDCTFlatBlock(t *testing.T) {
	block := make([]byte, 64)
	for i := range block {
		block[i] = 200
	}
	roundTripBlock(t, block, 1)
}

func TestDCTGradientBlock(t *testing.T) {
	block := make([]byte, 64)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			block[y*8+x] = byte(Clamp(16*(x+y), 0, 255))
		}
	}
	roundTripBlock(t, block, 2)
}

func TestDCTDCScaling(t *testing.T) {
	block := make([]byte, 64)
	for i := range block {
		block[i] = 200
	}

	var coef [64]int32
	DCT(block, 8, coef[:])

	// DC is 8x the level-shifted mean
	if coef[0] != 8*(200-128) {
		t.Errorf("DC = %d, want %d", coef[0], 8*(200-128))
	}
}

func TestDCTFlatBlockDCOnly(t *testing.T) {
	block := make([]byte, 64)
	for i := range block {
		block[i] = 128
	}

	var coef [64]int32
	DCT(block, 8, coef[:])

	for i := 1; i < 64; i++ {
		if Abs(int(coef[i])) > 1 {
			t.Errorf("AC coefficient %d = %d for flat block, want ~0", i, coef[i])
		}
	}
}
