package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
[bus]
port = 1
node = 2
speed = "800"
operation_mode = "1394b"

[video]
framerate = "15"

[video.format7]
mode = "format7_0"
color_coding = "MONO16"
left = 8
top = 4
width = 320
height = 240

[capture]
buffers = 8
timeout = "250ms"

[features.brightness]
value = 200

[features.shutter]
mode = "manual"
absolute = true
absolute_value = 0.02

[logging]
level = "debug"

[logging.scopes]
"firewire/config" = "warn"
`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "firewire.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func noEnv(string) (string, bool) { return "", false }

func TestLoad(t *testing.T) {
	cfg, err := Load(writeFile(t, sample))
	require.NoError(t, err)

	assert.Equal(t, Bus{Port: 1, Node: 2, Speed: "800", OperationMode: "1394b"}, cfg.Bus)
	assert.Equal(t, "15", cfg.Video.Framerate)
	require.NotNil(t, cfg.Video.Format7)
	assert.Equal(t, Format7{Mode: "format7_0", ColorCoding: "MONO16", Left: 8, Top: 4, Width: 320, Height: 240}, *cfg.Video.Format7)
	assert.Equal(t, 8, cfg.Capture.Buffers)
	assert.Equal(t, Duration(250*time.Millisecond), cfg.Capture.Timeout)

	require.Contains(t, cfg.Features, "brightness")
	require.NotNil(t, cfg.Features["brightness"].Value)
	assert.Equal(t, uint32(200), *cfg.Features["brightness"].Value)
	assert.Nil(t, cfg.Features["brightness"].Mode)

	shutter := cfg.Features["shutter"]
	require.NotNil(t, shutter.AbsoluteValue)
	assert.Equal(t, float32(0.02), *shutter.AbsoluteValue)
	assert.True(t, *shutter.Absolute)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, map[string]string{"firewire/config": "warn"}, cfg.Logging.Scopes)
	assert.NoError(t, cfg.Validate())
}

func TestLoadKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeFile(t, "[bus]\nnode = 1\n"))
	require.NoError(t, err)

	want := Default()
	want.Bus.Node = 1
	assert.Equal(t, want, cfg)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "[bus]\nbogus = 1\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "[bus\n"))
	assert.ErrorContains(t, err, "firewire.toml:")
}

func TestPrecedence(t *testing.T) {
	path := writeFile(t, sample)
	env := map[string]string{
		"FIREWIRE_NODE":    "5",
		"FIREWIRE_BUFFERS": "3",
		"FIREWIRE_SPEED":   "400",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--node", "7", "--timeout", "2s"}))

	cfg, err := resolve(fs, path, lookup)
	require.NoError(t, err)

	assert.Equal(t, uint(1), cfg.Bus.Port, "file")
	assert.Equal(t, uint(7), cfg.Bus.Node, "flag over env")
	assert.Equal(t, 3, cfg.Capture.Buffers, "env over file")
	assert.Equal(t, "400", cfg.Bus.Speed, "env over file")
	assert.Equal(t, Duration(2*time.Second), cfg.Capture.Timeout, "flag over file")
	assert.Equal(t, "15", cfg.Video.Framerate, "unset flag keeps file value")
}

func TestResolveDefaults(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(nil))

	cfg, err := resolve(fs, "", noEnv)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestResolveErrors(t *testing.T) {
	bad := func(k string) (string, bool) {
		if k == "FIREWIRE_PORT" {
			return "minus one", true
		}
		return "", false
	}
	_, err := resolve(nil, "", bad)
	assert.ErrorContains(t, err, "FIREWIRE_PORT")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--video-mode", "640x480_mono12"}))
	_, err = resolve(fs, "", noEnv)
	assert.ErrorContains(t, err, "640x480_mono12")
}

func TestValidate(t *testing.T) {
	mode := "sometimes"
	cfg := Default()
	cfg.Bus.Speed = "300"
	cfg.Video.Format7 = &Format7{Mode: "640x480_mono8", ColorCoding: "MONO8"}
	cfg.Capture.Buffers = 0
	cfg.Features = map[string]Feature{
		"focus": {Mode: &mode},
		"flux":  {},
	}
	cfg.Logging.Scopes = map[string]string{"firewire/dc1394": "chatty"}

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"300", "not a format7 mode", "capture.buffers", "sometimes", "flux", "chatty"} {
		assert.ErrorContains(t, err, want)
	}
}

func TestApplyLogging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "warn"
	cfg.Logging.Scopes = map[string]string{"firewire/dc1394": "debug"}
	require.NoError(t, cfg.ApplyLogging())

	cfg.Logging.Level = "shout"
	assert.Error(t, cfg.ApplyLogging())
}
