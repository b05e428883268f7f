package dc1394

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlhal/firewire/pkg/frame"
)

func TestParseRoundTrip(t *testing.T) {
	for _, f := range Features() {
		got, err := ParseFeature(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	for _, m := range VideoModes() {
		got, err := ParseVideoMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
}

func TestParse(t *testing.T) {
	f, err := ParseFeature(" White_Balance ")
	require.NoError(t, err)
	assert.Equal(t, FeatureWhiteBalance, f)

	r, err := ParseFramerate("7.5")
	require.NoError(t, err)
	assert.Equal(t, Framerate7_5, r)
	assert.Equal(t, 7.5, r.FPS())

	s, err := ParseIsoSpeed("800")
	require.NoError(t, err)
	assert.True(t, s.Requires1394B())

	m, err := ParseFeatureMode("one_push_auto")
	require.NoError(t, err)
	assert.Equal(t, FeatureModeOnePushAuto, m)

	o, err := ParseOperationMode("1394b")
	require.NoError(t, err)
	assert.Equal(t, OperationMode1394B, o)

	_, err = ParseVideoMode("640x480_mono12")
	assert.EqualError(t, err, `unknown video mode "640x480_mono12"`)
}

func TestEnumBounds(t *testing.T) {
	assert.Len(t, Features(), 22)
	assert.False(t, Feature(22).Valid())
	assert.Equal(t, "unknown(22)", Feature(22).String())
	assert.Zero(t, Framerate(-1).FPS())
}

func TestVideoModeClasses(t *testing.T) {
	fixed, format7 := 0, 0
	for _, m := range VideoModes() {
		switch {
		case m.IsFixed():
			fixed++
			_, _, _, ok := m.Geometry()
			assert.True(t, ok, m.String())
		case m.IsFormat7():
			format7++
		default:
			assert.Equal(t, VideoModeEXIF, m)
		}
	}
	assert.Equal(t, 23, fixed)
	assert.Equal(t, 8, format7)

	_, _, _, ok := VideoModeFormat7_0.Geometry()
	assert.False(t, ok)
}

func TestNative(t *testing.T) {
	assert.Equal(t, uint32(416), FeatureBrightness.Native())
	assert.Equal(t, uint32(437), FeatureCaptureQuality.Native())
	assert.Equal(t, uint32(64), VideoMode160x120YUV444.Native())
	assert.Equal(t, uint32(88), VideoModeFormat7_0.Native())
	assert.Equal(t, uint32(36), Framerate30.Native())
	assert.Equal(t, uint32(481), OperationMode1394B.Native())

	v, ok := NativeColorCoding(frame.ColorCodingMono8)
	require.True(t, ok)
	assert.Equal(t, uint32(352), v)
	v, ok = NativeColorCoding(frame.ColorCodingRaw16)
	require.True(t, ok)
	assert.Equal(t, uint32(362), v)
}
