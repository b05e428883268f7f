package frame

// Size returns the number of bytes a width x height frame occupies in the
// given coding. Unknown codings and non-positive dimensions yield 0.
func Size(c ColorCoding, width, height int) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	bits := uint64(width) * uint64(height) * uint64(c.BitsPerPixel())
	// Packed codings like YUV411 round up to the next whole byte
	return int((bits + 7) / 8)
}
