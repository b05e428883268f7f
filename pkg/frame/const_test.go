package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitsPerPixel(t *testing.T) {
	cases := map[ColorCoding]uint{
		ColorCodingMono8:   8,
		ColorCodingYUV411:  12,
		ColorCodingYUV422:  16,
		ColorCodingYUV444:  24,
		ColorCodingRGB8:    24,
		ColorCodingMono16:  16,
		ColorCodingRGB16:   48,
		ColorCodingMono16S: 16,
		ColorCodingRGB16S:  48,
		ColorCodingRaw8:    8,
		ColorCodingRaw16:   16,
	}

	require.Len(t, ColorCodings(), len(cases))
	for c, bpp := range cases {
		assert.Equal(t, bpp, c.BitsPerPixel(), c.String())
	}
}

func TestDepth(t *testing.T) {
	assert.Equal(t, uint(8), ColorCodingYUV411.Depth())
	assert.Equal(t, uint(8), ColorCodingRGB8.Depth())
	assert.Equal(t, uint(16), ColorCodingRGB16S.Depth())
	assert.Equal(t, uint(0), ColorCoding("XYZ").Depth())
}

func TestSize(t *testing.T) {
	cases := []struct {
		coding        ColorCoding
		width, height int
		expected      int
	}{
		{ColorCodingMono8, 640, 480, 307200},
		{ColorCodingYUV411, 640, 480, 460800},
		{ColorCodingYUV422, 320, 240, 153600},
		{ColorCodingRGB8, 800, 600, 1440000},
		{ColorCodingRGB16, 1600, 1200, 11520000},
		{ColorCodingYUV411, 3, 1, 5},
		{ColorCodingMono8, 0, 480, 0},
		{ColorCoding("XYZ"), 640, 480, 0},
	}

	for _, c := range cases {
		if got := Size(c.coding, c.width, c.height); got != c.expected {
			t.Errorf("Size(%s, %d, %d): expected %d, got %d", c.coding, c.width, c.height, c.expected, got)
		}
	}
}

func TestParseColorCoding(t *testing.T) {
	for _, c := range ColorCodings() {
		parsed, err := ParseColorCoding(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}

	_, err := ParseColorCoding("mono8")
	assert.Error(t, err)
}
