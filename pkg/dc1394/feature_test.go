package dc1394_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlhal/firewire/pkg/dc1394"
)

func TestAbsentFeature(t *testing.T) {
	cam, bus := openCamera(t)

	var absent []dc1394.Feature
	for _, f := range dc1394.Features() {
		present, err := cam.IsFeaturePresent(f)
		require.NoError(t, err)
		if !present {
			absent = append(absent, f)
		}
	}
	require.NotEmpty(t, absent)

	ops := map[string]func(f dc1394.Feature) error{
		"IsFeatureEnabled": func(f dc1394.Feature) error {
			_, err := cam.IsFeatureEnabled(f)
			return err
		},
		"SetFeatureEnabled": func(f dc1394.Feature) error {
			return cam.SetFeatureEnabled(f, true)
		},
		"FeatureModes": func(f dc1394.Feature) error {
			_, err := cam.FeatureModes(f)
			return err
		},
		"FeatureMode": func(f dc1394.Feature) error {
			_, err := cam.FeatureMode(f)
			return err
		},
		"SetFeatureMode": func(f dc1394.Feature) error {
			return cam.SetFeatureMode(f, dc1394.FeatureModeManual)
		},
		"FeatureBoundaries": func(f dc1394.Feature) error {
			_, _, err := cam.FeatureBoundaries(f)
			return err
		},
		"FeatureBoundariesAbsolute": func(f dc1394.Feature) error {
			_, _, err := cam.FeatureBoundariesAbsolute(f)
			return err
		},
		"FeatureValue": func(f dc1394.Feature) error {
			_, err := cam.FeatureValue(f)
			return err
		},
		"SetFeatureValue": func(f dc1394.Feature) error {
			return cam.SetFeatureValue(f, 1)
		},
		"FeatureValueAbsolute": func(f dc1394.Feature) error {
			_, err := cam.FeatureValueAbsolute(f)
			return err
		},
		"SetFeatureValueAbsolute": func(f dc1394.Feature) error {
			return cam.SetFeatureValueAbsolute(f, 1)
		},
		"FeatureAbsoluteControl": func(f dc1394.Feature) error {
			_, err := cam.FeatureAbsoluteControl(f)
			return err
		},
		"SetFeatureAbsoluteControl": func(f dc1394.Feature) error {
			return cam.SetFeatureAbsoluteControl(f, true)
		},
	}

	before := bus.TotalCalls()
	for name, op := range ops {
		for _, f := range absent {
			err := op(f)
			assertKind(t, dc1394.KindFeatureNotPresent, err)
			assert.ErrorIs(t, err, dc1394.ErrFeatureNotPresent, "%s(%s)", name, f)
		}
	}
	assert.Equal(t, before, bus.TotalCalls(), "absent features must not reach the driver")
}

func TestFeatureCapabilities(t *testing.T) {
	cam, _ := openCamera(t)

	testCases := []struct {
		f                                       dc1394.Feature
		present, readable, switchable, absolute bool
	}{
		{dc1394.FeatureBrightness, true, true, false, false},
		{dc1394.FeatureExposure, true, true, true, false},
		{dc1394.FeatureShutter, true, true, false, true},
		{dc1394.FeatureTrigger, true, false, true, false},
		{dc1394.FeatureZoom, false, false, false, false},
	}
	for _, tc := range testCases {
		present, err := cam.IsFeaturePresent(tc.f)
		require.NoError(t, err)
		readable, err := cam.IsFeatureReadable(tc.f)
		require.NoError(t, err)
		switchable, err := cam.IsFeatureSwitchable(tc.f)
		require.NoError(t, err)
		absolute, err := cam.HasFeatureAbsoluteControl(tc.f)
		require.NoError(t, err)

		assert.Equal(t, tc.present, present, "%s present", tc.f)
		assert.Equal(t, tc.readable, readable, "%s readable", tc.f)
		assert.Equal(t, tc.switchable, switchable, "%s switchable", tc.f)
		assert.Equal(t, tc.absolute, absolute, "%s absolute", tc.f)
	}
}

func TestFeatureClosed(t *testing.T) {
	cam, _ := newCamera(t)

	_, err := cam.IsFeaturePresent(dc1394.FeatureBrightness)
	assertKind(t, dc1394.KindState, err)
	_, err = cam.FeatureValue(dc1394.FeatureBrightness)
	assertKind(t, dc1394.KindState, err)
	assertKind(t, dc1394.KindState, cam.SetFeatureValue(dc1394.FeatureBrightness, 1))
}

func TestFeatureValueRange(t *testing.T) {
	cam, bus := openCamera(t)

	min, max, err := cam.FeatureBoundaries(dc1394.FeatureExposure)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), min)
	assert.Equal(t, uint32(1023), max)

	for _, v := range []uint32{0, 1024, math.MaxUint32} {
		err := cam.SetFeatureValue(dc1394.FeatureExposure, v)
		assertKind(t, dc1394.KindOutOfRange, err)
	}
	assert.Equal(t, 0, bus.Calls("SetFeatureValue"))

	for _, v := range []uint32{min, max, 700} {
		require.NoError(t, cam.SetFeatureValue(dc1394.FeatureExposure, v))
		got, err := cam.FeatureValue(dc1394.FeatureExposure)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestFeatureNotReadable(t *testing.T) {
	cam, _ := openCamera(t)

	_, err := cam.FeatureValue(dc1394.FeatureTrigger)
	assertKind(t, dc1394.KindUnsupportedOperation, err)
	require.NoError(t, cam.SetFeatureValue(dc1394.FeatureTrigger, 2))
}

func TestFeatureMode(t *testing.T) {
	cam, bus := openCamera(t)

	modes, err := cam.FeatureModes(dc1394.FeatureExposure)
	require.NoError(t, err)
	assert.True(t, modes.Manual)
	assert.False(t, modes.Auto)

	err = cam.SetFeatureMode(dc1394.FeatureExposure, dc1394.FeatureModeAuto)
	assertKind(t, dc1394.KindUnsupportedFeatureMode, err)
	assert.ErrorIs(t, err, dc1394.ErrUnsupportedFeatureMode)
	assert.Equal(t, 0, bus.Calls("SetFeatureMode"))

	require.NoError(t, cam.SetFeatureMode(dc1394.FeatureExposure, dc1394.FeatureModeOnePushAuto))
	m, err := cam.FeatureMode(dc1394.FeatureExposure)
	require.NoError(t, err)
	assert.Equal(t, dc1394.FeatureModeOnePushAuto, m)

	m, err = cam.FeatureMode(dc1394.FeatureWhiteBalance)
	require.NoError(t, err)
	assert.Equal(t, dc1394.FeatureModeAuto, m)
}

func TestFeatureEnabled(t *testing.T) {
	cam, _ := openCamera(t)

	on, err := cam.IsFeatureEnabled(dc1394.FeatureGamma)
	require.NoError(t, err)
	assert.False(t, on)

	require.NoError(t, cam.SetFeatureEnabled(dc1394.FeatureGamma, true))
	on, err = cam.IsFeatureEnabled(dc1394.FeatureGamma)
	require.NoError(t, err)
	assert.True(t, on)

	assertKind(t, dc1394.KindUnsupportedOperation, cam.SetFeatureEnabled(dc1394.FeatureBrightness, false))
}

func TestFeatureAbsolute(t *testing.T) {
	cam, _ := openCamera(t)
	f := dc1394.FeatureShutter

	on, err := cam.FeatureAbsoluteControl(f)
	require.NoError(t, err)
	assert.False(t, on)

	// Absolute control is off.
	_, err = cam.FeatureValueAbsolute(f)
	assertKind(t, dc1394.KindUnsupportedOperation, err)
	assertKind(t, dc1394.KindUnsupportedOperation, cam.SetFeatureValueAbsolute(f, 0.02))

	require.NoError(t, cam.SetFeatureAbsoluteControl(f, true))
	min, max, err := cam.FeatureBoundariesAbsolute(f)
	require.NoError(t, err)
	assert.Equal(t, float32(0.00001), min)
	assert.Equal(t, float32(0.5), max)

	for _, v := range []float32{0, 0.6, float32(math.NaN()), float32(math.Inf(1))} {
		assertKind(t, dc1394.KindOutOfRange, cam.SetFeatureValueAbsolute(f, v))
	}

	require.NoError(t, cam.SetFeatureValueAbsolute(f, 0.02))
	v, err := cam.FeatureValueAbsolute(f)
	require.NoError(t, err)
	assert.Equal(t, float32(0.02), v)
}

func TestFeatureNoAbsolute(t *testing.T) {
	cam, _ := openCamera(t)
	f := dc1394.FeatureBrightness

	on, err := cam.FeatureAbsoluteControl(f)
	require.NoError(t, err)
	assert.False(t, on)

	assertKind(t, dc1394.KindUnsupportedOperation, cam.SetFeatureAbsoluteControl(f, true))
	_, _, err = cam.FeatureBoundariesAbsolute(f)
	assertKind(t, dc1394.KindUnsupportedOperation, err)
}

func TestFeatureSettersWhileStreaming(t *testing.T) {
	cam, _ := openCamera(t)
	require.NoError(t, cam.SetVideoMode(dc1394.VideoMode640x480Mono8))
	require.NoError(t, cam.Start())

	assertKind(t, dc1394.KindState, cam.SetFeatureValue(dc1394.FeatureBrightness, 1))
	assertKind(t, dc1394.KindState, cam.SetFeatureMode(dc1394.FeatureExposure, dc1394.FeatureModeManual))

	// Reading is fine.
	_, err := cam.FeatureValue(dc1394.FeatureBrightness)
	require.NoError(t, err)
}

func TestFeatureDriverFailure(t *testing.T) {
	cam, bus := openCamera(t)
	bus.Fail("FeatureBoundaries", dc1394.CodeIOCTLFailure)

	err := cam.SetFeatureValue(dc1394.FeatureBrightness, 3)
	assertKind(t, dc1394.KindDriver, err)
	assert.ErrorIs(t, err, dc1394.CodeIOCTLFailure)
	assert.Equal(t, 0, bus.Calls("SetFeatureValue"))
}
