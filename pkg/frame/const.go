package frame

import "fmt"

// ColorCoding is the pixel layout a camera transmits.
type ColorCoding string

const (
	// Monochrome codings

	// ColorCodingMono8 is 8 bit grayscale
	ColorCodingMono8 ColorCoding = "MONO8"
	// ColorCodingMono16 is 16 bit unsigned grayscale
	ColorCodingMono16 ColorCoding = "MONO16"
	// ColorCodingMono16S is 16 bit signed grayscale
	ColorCodingMono16S ColorCoding = "MONO16S"

	// YUV codings, packed as defined by the IIDC specification

	// ColorCodingYUV411 packs 4 pixels into UYYVYY, 12 bits per pixel
	ColorCodingYUV411 ColorCoding = "YUV411"
	// ColorCodingYUV422 packs 2 pixels into UYVY, 16 bits per pixel
	ColorCodingYUV422 ColorCoding = "YUV422"
	// ColorCodingYUV444 is UYV without sub-sampling
	ColorCodingYUV444 ColorCoding = "YUV444"

	// RGB codings

	ColorCodingRGB8   ColorCoding = "RGB8"
	ColorCodingRGB16  ColorCoding = "RGB16"
	ColorCodingRGB16S ColorCoding = "RGB16S"

	// Raw sensor data, usually a Bayer mosaic

	ColorCodingRaw8  ColorCoding = "RAW8"
	ColorCodingRaw16 ColorCoding = "RAW16"
)

type codingInfo struct {
	// depth is the number of bits of a single colour sample
	depth uint
	// bitsPerPixel is the effective storage per pixel after packing
	bitsPerPixel uint
}

var colorCodings = []ColorCoding{
	ColorCodingMono8,
	ColorCodingYUV411,
	ColorCodingYUV422,
	ColorCodingYUV444,
	ColorCodingRGB8,
	ColorCodingMono16,
	ColorCodingRGB16,
	ColorCodingMono16S,
	ColorCodingRGB16S,
	ColorCodingRaw8,
	ColorCodingRaw16,
}

var codingTable = map[ColorCoding]codingInfo{
	ColorCodingMono8:   {depth: 8, bitsPerPixel: 8},
	ColorCodingYUV411:  {depth: 8, bitsPerPixel: 12},
	ColorCodingYUV422:  {depth: 8, bitsPerPixel: 16},
	ColorCodingYUV444:  {depth: 8, bitsPerPixel: 24},
	ColorCodingRGB8:    {depth: 8, bitsPerPixel: 24},
	ColorCodingMono16:  {depth: 16, bitsPerPixel: 16},
	ColorCodingRGB16:   {depth: 16, bitsPerPixel: 48},
	ColorCodingMono16S: {depth: 16, bitsPerPixel: 16},
	ColorCodingRGB16S:  {depth: 16, bitsPerPixel: 48},
	ColorCodingRaw8:    {depth: 8, bitsPerPixel: 8},
	ColorCodingRaw16:   {depth: 16, bitsPerPixel: 16},
}

// ColorCodings returns every known coding in IIDC register order.
func ColorCodings() []ColorCoding {
	out := make([]ColorCoding, len(colorCodings))
	copy(out, colorCodings)
	return out
}

// ParseColorCoding accepts the names used by the constants, case sensitive.
func ParseColorCoding(s string) (ColorCoding, error) {
	c := ColorCoding(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown color coding %q", s)
	}
	return c, nil
}

// Valid reports whether c is a known coding.
func (c ColorCoding) Valid() bool {
	_, ok := codingTable[c]
	return ok
}

// Depth returns the bits of one colour sample, 0 for unknown codings.
func (c ColorCoding) Depth() uint {
	return codingTable[c].depth
}

// BitsPerPixel returns the packed storage per pixel, 0 for unknown codings.
func (c ColorCoding) BitsPerPixel() uint {
	return codingTable[c].bitsPerPixel
}

func (c ColorCoding) String() string {
	return string(c)
}
