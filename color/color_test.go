package color

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCMYKConversionScenario(t *testing.T) {
	c := CMYK(0.1, 0.2, 0.4, 0.6)
	assert.Equal(t, "#4c3300", c.String())
}

func TestCMYKIdentity(t *testing.T) {
	for _, cmyk := range [][4]float64{{0, 0, 0, 0}, {0.3, 0.1, 0.9, 0.2}, {1, 1, 1, 1}} {
		c, m, y, k := cmyk[0], cmyk[1], cmyk[2], cmyk[3]
		r, g, b := 1-min1(c+k), 1-min1(m+k), 1-min1(y+k)
		assert.InDelta(t, 1.0, r+min1(c+k), 1e-9)
		assert.InDelta(t, 1.0, g+min1(m+k), 1e-9)
		assert.InDelta(t, 1.0, b+min1(y+k), 1e-9)
	}
}

func min1(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}

func TestHexColorScenario(t *testing.T) {
	c, ok := Named("#89A")
	require.True(t, ok)
	assert.Equal(t, "#00089a", c.String())
}

func TestHexColorSixDigit(t *testing.T) {
	c, ok := Named("#4c3300")
	require.True(t, ok)
	assert.Equal(t, Color(0x4c3300), c)
}

func TestNamedColorCaseSensitiveAndFallback(t *testing.T) {
	c, ok := Named("Red")
	require.True(t, ok)
	assert.Equal(t, Color(0xFF0000), c)

	c2, ok := Named("red")
	require.True(t, ok)
	assert.Equal(t, Color(0xFF0000), c2)

	_, ok = Named("NotAColor")
	assert.False(t, ok)
}

func TestColorStackScenario(t *testing.T) {
	var s Stack
	red, _ := Named("Red")
	blue, _ := Named("Blue")
	s.Push(red)
	s.Push(RGB(0, 1, 0))
	s.Pop()
	s.Set(blue)
	s.Pop()
	assert.Equal(t, Black, s.Top())
}

func TestHSBRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		r0 := uint8(rnd.Intn(256))
		g0 := uint8(rnd.Intn(256))
		b0 := uint8(rnd.Intn(256))
		orig := RGB(float64(r0)/255, float64(g0)/255, float64(b0)/255)
		h, s, v := rgbToHSB(orig)
		back := HSB(h, s, v)
		r, g, b := back.RGBFloats()
		or, og, ob := orig.RGBFloats()
		assert.InDelta(t, or, r, 1.0/255+1e-9)
		assert.InDelta(t, og, g, 1.0/255+1e-9)
		assert.InDelta(t, ob, b, 1.0/255+1e-9)
	}
}

// rgbToHSB is the inverse used only to build round-trip test fixtures.
func rgbToHSB(c Color) (h, s, v float64) {
	r, g, b := c.RGBFloats()
	maxc := max3(r, g, b)
	minc := min3(r, g, b)
	v = maxc
	if maxc == 0 {
		return 0, 0, 0
	}
	delta := maxc - minc
	s = delta / maxc
	if delta == 0 {
		return 0, s, v
	}
	switch maxc {
	case r:
		h = (g - b) / delta
	case g:
		h = 2 + (b-r)/delta
	default:
		h = 4 + (r-g)/delta
	}
	h /= 6
	if h < 0 {
		h++
	}
	return h, s, v
}

func max3(a, b, c float64) float64 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

func min3(a, b, c float64) float64 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
