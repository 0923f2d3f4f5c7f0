package lossless

// golombContext tracks per-channel residual statistics and derives the
// Golomb-Rice parameter k from them, in the manner of JPEG-LS run mode
type golombContext struct {
	a int // accumulated mapped residual magnitude
	n int // sample count
}

// resetInterval bounds the statistics so the context adapts to local
// behavior instead of the whole image
const resetInterval = 64

func newGolombContext() *golombContext {
	// Start with a mild bias toward small k
	return &golombContext{a: 4, n: 1}
}

// k returns the current Golomb-Rice parameter
func (c *golombContext) k() int {
	k := 0
	for (c.n << uint(k)) < c.a {
		k++
	}
	if k > 15 {
		k = 15
	}
	return k
}

// update folds one mapped residual into the statistics
func (c *golombContext) update(mapped int) {
	c.a += mapped
	c.n++
	if c.n >= resetInterval {
		c.a = (c.a + 1) >> 1
		c.n >>= 1
	}
}
