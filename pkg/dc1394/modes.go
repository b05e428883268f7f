package dc1394

import (
	"github.com/rlhal/firewire/pkg/frame"
)

// VideoMode is either a fixed resolution and coding, EXIF, or one of the
// eight Format7 modes whose region of interest is negotiated separately.
type VideoMode int

const (
	VideoMode160x120YUV444 VideoMode = iota
	VideoMode320x240YUV422
	VideoMode640x480YUV411
	VideoMode640x480YUV422
	VideoMode640x480RGB8
	VideoMode640x480Mono8
	VideoMode640x480Mono16
	VideoMode800x600YUV422
	VideoMode800x600RGB8
	VideoMode800x600Mono8
	VideoMode1024x768YUV422
	VideoMode1024x768RGB8
	VideoMode1024x768Mono8
	VideoMode800x600Mono16
	VideoMode1024x768Mono16
	VideoMode1280x960YUV422
	VideoMode1280x960RGB8
	VideoMode1280x960Mono8
	VideoMode1600x1200YUV422
	VideoMode1600x1200RGB8
	VideoMode1600x1200Mono8
	VideoMode1280x960Mono16
	VideoMode1600x1200Mono16
	VideoModeEXIF
	VideoModeFormat7_0
	VideoModeFormat7_1
	VideoModeFormat7_2
	VideoModeFormat7_3
	VideoModeFormat7_4
	VideoModeFormat7_5
	VideoModeFormat7_6
	VideoModeFormat7_7
)

type geometry struct {
	width, height int
	coding        frame.ColorCoding
}

// Fixed modes, indexed by VideoMode.
var fixedModes = []geometry{
	{160, 120, frame.ColorCodingYUV444},
	{320, 240, frame.ColorCodingYUV422},
	{640, 480, frame.ColorCodingYUV411},
	{640, 480, frame.ColorCodingYUV422},
	{640, 480, frame.ColorCodingRGB8},
	{640, 480, frame.ColorCodingMono8},
	{640, 480, frame.ColorCodingMono16},
	{800, 600, frame.ColorCodingYUV422},
	{800, 600, frame.ColorCodingRGB8},
	{800, 600, frame.ColorCodingMono8},
	{1024, 768, frame.ColorCodingYUV422},
	{1024, 768, frame.ColorCodingRGB8},
	{1024, 768, frame.ColorCodingMono8},
	{800, 600, frame.ColorCodingMono16},
	{1024, 768, frame.ColorCodingMono16},
	{1280, 960, frame.ColorCodingYUV422},
	{1280, 960, frame.ColorCodingRGB8},
	{1280, 960, frame.ColorCodingMono8},
	{1600, 1200, frame.ColorCodingYUV422},
	{1600, 1200, frame.ColorCodingRGB8},
	{1600, 1200, frame.ColorCodingMono8},
	{1280, 960, frame.ColorCodingMono16},
	{1600, 1200, frame.ColorCodingMono16},
}

var videoModeNames = []string{
	"160x120_yuv444",
	"320x240_yuv422",
	"640x480_yuv411",
	"640x480_yuv422",
	"640x480_rgb8",
	"640x480_mono8",
	"640x480_mono16",
	"800x600_yuv422",
	"800x600_rgb8",
	"800x600_mono8",
	"1024x768_yuv422",
	"1024x768_rgb8",
	"1024x768_mono8",
	"800x600_mono16",
	"1024x768_mono16",
	"1280x960_yuv422",
	"1280x960_rgb8",
	"1280x960_mono8",
	"1600x1200_yuv422",
	"1600x1200_rgb8",
	"1600x1200_mono8",
	"1280x960_mono16",
	"1600x1200_mono16",
	"exif",
	"format7_0",
	"format7_1",
	"format7_2",
	"format7_3",
	"format7_4",
	"format7_5",
	"format7_6",
	"format7_7",
}

func (m VideoMode) String() string { return enumName(videoModeNames, int(m)) }
func (m VideoMode) Valid() bool    { return m >= 0 && int(m) < len(videoModeNames) }
func (m VideoMode) Native() uint32 { return nativeVideoModeMin + uint32(m) }

// IsFormat7 reports whether the region of interest of m is negotiable.
func (m VideoMode) IsFormat7() bool {
	return m >= VideoModeFormat7_0 && m <= VideoModeFormat7_7
}

// IsFixed reports whether m implies a fixed geometry.
func (m VideoMode) IsFixed() bool {
	return m >= 0 && int(m) < len(fixedModes)
}

// Geometry returns the width, height and coding implied by a fixed mode.
// ok is false for EXIF, Format7 and invalid modes.
func (m VideoMode) Geometry() (width, height int, coding frame.ColorCoding, ok bool) {
	if !m.IsFixed() {
		return 0, 0, "", false
	}
	g := fixedModes[m]
	return g.width, g.height, g.coding, true
}

// VideoModes returns every mode in register order.
func VideoModes() []VideoMode {
	out := make([]VideoMode, len(videoModeNames))
	for i := range out {
		out[i] = VideoMode(i)
	}
	return out
}

func ParseVideoMode(s string) (VideoMode, error) {
	return parseEnum[VideoMode]("video mode", videoModeNames, s)
}

var nativeColorCodings = func() map[frame.ColorCoding]uint32 {
	m := make(map[frame.ColorCoding]uint32)
	for i, c := range frame.ColorCodings() {
		m[c] = nativeColorCodingMin + uint32(i)
	}
	return m
}()

// NativeColorCoding returns the libdc1394 value of c.
func NativeColorCoding(c frame.ColorCoding) (uint32, bool) {
	v, ok := nativeColorCodings[c]
	return v, ok
}
