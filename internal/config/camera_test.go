package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlhal/firewire/pkg/dc1394"
	"github.com/rlhal/firewire/pkg/dc1394/dc1394test"
	"github.com/rlhal/firewire/pkg/driver"
	"github.com/rlhal/firewire/pkg/frame"
)

func TestOpenCamera(t *testing.T) {
	id := dc1394.Identity{Port: 1, Node: 2}
	bus := dc1394test.New(dc1394test.NewCamera(id))

	cfg, err := Load(writeFile(t, sample))
	require.NoError(t, err)
	cam, err := cfg.OpenCamera(bus)
	require.NoError(t, err)
	defer cam.Close()

	assert.Equal(t, driver.StateConfigured, cam.Status())
	assert.Equal(t, id, cam.Identity())

	m, coding, left, top, width, height, ok := cam.Format7()
	require.True(t, ok)
	assert.Equal(t, dc1394.VideoModeFormat7_0, m)
	assert.Equal(t, frame.ColorCodingMono16, coding)
	assert.Equal(t, []int{8, 4, 320, 240}, []int{left, top, width, height})

	st, _ := bus.State(id)
	assert.Equal(t, dc1394.IsoSpeed800, st.Speed)
	assert.Equal(t, dc1394.OperationMode1394B, st.OperationMode)
	assert.Equal(t, uint32(200), st.Features[dc1394.FeatureBrightness].Value)
	assert.True(t, st.Features[dc1394.FeatureShutter].AbsoluteControl)
	assert.Equal(t, float32(0.02), st.Features[dc1394.FeatureShutter].AbsoluteValue)

	// Capture settings took effect.
	require.NoError(t, cam.Start())
	st, _ = bus.State(id)
	assert.Equal(t, 8, st.Buffers)
}

func TestOpenCameraFixedMode(t *testing.T) {
	bus := dc1394test.New(dc1394test.NewCamera(dc1394.Identity{}))
	cfg := Default()
	cfg.Video.Mode = "640x480_mono8"
	cfg.Video.Framerate = "7.5"

	cam, err := cfg.OpenCamera(bus)
	require.NoError(t, err)
	defer cam.Close()

	assert.Equal(t, 307200, cam.Size())
	assert.Equal(t, dc1394.Framerate7_5, cam.Framerate())
}

func TestOpenCameraFailureCloses(t *testing.T) {
	bus := dc1394test.New(dc1394test.NewCamera(dc1394.Identity{}))
	value := uint32(5000)
	cfg := Default()
	cfg.Video.Mode = "640x480_mono8"
	cfg.Features = map[string]Feature{"brightness": {Value: &value}}

	_, err := cfg.OpenCamera(bus)
	assert.ErrorIs(t, err, dc1394.ErrOutOfRange)
	assert.ErrorContains(t, err, "feature brightness")
	assert.Equal(t, 0, bus.OpenHandles())

	// The framerate is validated against the mode.
	cfg.Features = nil
	cfg.Video.Framerate = "240"
	_, err = cfg.OpenCamera(bus)
	assert.ErrorIs(t, err, dc1394.ErrUnsupportedMode)
	assert.Equal(t, 0, bus.OpenHandles())
}

func TestOpenCameraUnavailable(t *testing.T) {
	bus := dc1394test.New()
	_, err := Default().OpenCamera(bus)
	assert.ErrorIs(t, err, dc1394.ErrDeviceUnavailable)
}
