// Package config loads camera settings with the precedence
// flags > FIREWIRE_* environment variables > TOML file > defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"

	"github.com/rlhal/firewire/internal/logging"
	"github.com/rlhal/firewire/pkg/dc1394"
	"github.com/rlhal/firewire/pkg/frame"
)

// EnvPrefix prefixes every environment variable read by Resolve.
const EnvPrefix = "FIREWIRE_"

var logger = logging.NewLogger("firewire/config")

type Config struct {
	Bus      Bus                `toml:"bus"`
	Video    Video              `toml:"video"`
	Capture  Capture            `toml:"capture"`
	Features map[string]Feature `toml:"features"`
	Logging  Logging            `toml:"logging"`
}

type Bus struct {
	Port          uint   `toml:"port"`
	Node          uint   `toml:"node"`
	Speed         string `toml:"speed"`
	OperationMode string `toml:"operation_mode"`
}

// Video selects the format negotiated after Open. Format7 wins over Mode.
type Video struct {
	Mode      string   `toml:"mode"`
	Framerate string   `toml:"framerate"`
	Format7   *Format7 `toml:"format7"`
}

type Format7 struct {
	Mode        string `toml:"mode"`
	ColorCoding string `toml:"color_coding"`
	Left        int    `toml:"left"`
	Top         int    `toml:"top"`
	Width       int    `toml:"width"`
	Height      int    `toml:"height"`
}

type Capture struct {
	Buffers int      `toml:"buffers"`
	Timeout Duration `toml:"timeout"`
}

// Feature holds the settings of one feature. Unset fields are left alone.
type Feature struct {
	Mode          *string  `toml:"mode"`
	Enabled       *bool    `toml:"enabled"`
	Absolute      *bool    `toml:"absolute"`
	Value         *uint32  `toml:"value"`
	AbsoluteValue *float32 `toml:"absolute_value"`
}

type Logging struct {
	Level string `toml:"level"`
	// Scopes overrides the level per logger scope.
	Scopes map[string]string `toml:"scopes"`
}

// Duration reads "250ms" style strings from TOML.
type Duration time.Duration

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Default returns the settings used when nothing else is configured.
func Default() Config {
	return Config{
		Bus: Bus{
			Speed:         dc1394.IsoSpeed400.String(),
			OperationMode: dc1394.OperationModeLegacy.String(),
		},
		Video: Video{
			Framerate: dc1394.Framerate30.String(),
		},
		Capture: Capture{
			Buffers: dc1394.DefaultBuffers,
			Timeout: Duration(dc1394.DefaultDequeueTimeout),
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// Load reads a TOML file over the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if err := cfg.load(path); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	d := toml.NewDecoder(f)
	d.DisallowUnknownFields()
	if err := d.Decode(c); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return fmt.Errorf("%s:%d:%d: %w", path, row, col, err)
		}
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// binding ties a flag and an environment variable to a setting.
type binding struct {
	flag string
	env  string
	set  func(c *Config, s string) error
}

var bindings = []binding{
	{"port", "PORT", func(c *Config, s string) error { return parseUint(s, &c.Bus.Port) }},
	{"node", "NODE", func(c *Config, s string) error { return parseUint(s, &c.Bus.Node) }},
	{"speed", "SPEED", func(c *Config, s string) error { c.Bus.Speed = s; return nil }},
	{"operation-mode", "OPERATION_MODE", func(c *Config, s string) error { c.Bus.OperationMode = s; return nil }},
	{"video-mode", "VIDEO_MODE", func(c *Config, s string) error { c.Video.Mode = s; return nil }},
	{"framerate", "FRAMERATE", func(c *Config, s string) error { c.Video.Framerate = s; return nil }},
	{"buffers", "BUFFERS", func(c *Config, s string) error {
		n, err := strconv.Atoi(s)
		c.Capture.Buffers = n
		return err
	}},
	{"timeout", "TIMEOUT", func(c *Config, s string) error { return c.Capture.Timeout.UnmarshalText([]byte(s)) }},
	{"log-level", "LOG_LEVEL", func(c *Config, s string) error { c.Logging.Level = s; return nil }},
}

func parseUint(s string, dst *uint) error {
	v, err := strconv.ParseUint(s, 10, 0)
	if err != nil {
		return err
	}
	*dst = uint(v)
	return nil
}

// RegisterFlags adds a flag for every setting that can be overridden from
// the command line.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.Uint("port", d.Bus.Port, "IEEE-1394 port of the camera")
	fs.Uint("node", d.Bus.Node, "node of the camera on the port")
	fs.String("speed", d.Bus.Speed, "ISO speed (100, 200, 400, 800, 1600, 3200)")
	fs.String("operation-mode", d.Bus.OperationMode, "bus operation mode (legacy, 1394b)")
	fs.String("video-mode", d.Video.Mode, "video mode, e.g. 640x480_mono8")
	fs.String("framerate", d.Video.Framerate, "framerate of fixed video modes")
	fs.Int("buffers", d.Capture.Buffers, "frames in the DMA ring")
	fs.Duration("timeout", time.Duration(d.Capture.Timeout), "how long to wait for a frame")
	fs.String("log-level", d.Logging.Level, "log level (disabled, error, warn, info, debug, trace)")
}

// Resolve builds the configuration from the defaults, the TOML file at
// path if not empty, the environment and the flags of fs that were set.
func Resolve(fs *pflag.FlagSet, path string) (Config, error) {
	return resolve(fs, path, os.LookupEnv)
}

func resolve(fs *pflag.FlagSet, path string, lookupEnv func(string) (string, bool)) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.load(path); err != nil {
			return Config{}, err
		}
	}

	for _, b := range bindings {
		s, ok := lookupEnv(EnvPrefix + b.env)
		if !ok || s == "" {
			continue
		}
		if err := b.set(&cfg, s); err != nil {
			return Config{}, fmt.Errorf("%s%s: %w", EnvPrefix, b.env, err)
		}
	}

	if fs != nil {
		for _, b := range bindings {
			f := fs.Lookup(b.flag)
			if f == nil || !f.Changed {
				continue
			}
			if err := b.set(&cfg, f.Value.String()); err != nil {
				return Config{}, fmt.Errorf("--%s: %w", b.flag, err)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every name in the configuration is known.
func (c Config) Validate() error {
	var errs []error
	check := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	_, err := dc1394.ParseIsoSpeed(c.Bus.Speed)
	check(err)
	_, err = dc1394.ParseOperationMode(c.Bus.OperationMode)
	check(err)
	_, err = dc1394.ParseFramerate(c.Video.Framerate)
	check(err)
	if c.Video.Mode != "" {
		_, err = dc1394.ParseVideoMode(c.Video.Mode)
		check(err)
	}
	if f7 := c.Video.Format7; f7 != nil {
		m, err := dc1394.ParseVideoMode(f7.Mode)
		check(err)
		if err == nil && !m.IsFormat7() {
			check(fmt.Errorf("video.format7.mode: %s is not a format7 mode", m))
		}
		_, err = frame.ParseColorCoding(f7.ColorCoding)
		check(err)
	}
	if c.Capture.Buffers <= 0 {
		check(fmt.Errorf("capture.buffers must be positive, got %d", c.Capture.Buffers))
	}
	if c.Capture.Timeout <= 0 {
		check(fmt.Errorf("capture.timeout must be positive, got %s", time.Duration(c.Capture.Timeout)))
	}
	for name, f := range c.Features {
		_, err := dc1394.ParseFeature(name)
		check(err)
		if f.Mode != nil {
			_, err := dc1394.ParseFeatureMode(*f.Mode)
			check(err)
		}
	}
	_, err = logging.ParseLevel(c.Logging.Level)
	check(err)
	for scope, level := range c.Logging.Scopes {
		if _, err := logging.ParseLevel(level); err != nil {
			check(fmt.Errorf("logging.scopes.%s: %w", scope, err))
		}
	}
	return errors.Join(errs...)
}

// ApplyLogging sets the global and per scope log levels.
func (c Config) ApplyLogging() error {
	level, err := logging.ParseLevel(c.Logging.Level)
	if err != nil {
		return err
	}
	logging.SetLevel(level)

	scopes := make([]string, 0, len(c.Logging.Scopes))
	for scope := range c.Logging.Scopes {
		scopes = append(scopes, scope)
	}
	sort.Strings(scopes)
	for _, scope := range scopes {
		level, err := logging.ParseLevel(c.Logging.Scopes[scope])
		if err != nil {
			return fmt.Errorf("logging.scopes.%s: %w", scope, err)
		}
		logging.SetScopeLevel(scope, level)
	}
	return nil
}

// Options returns the camera options for the configured identity and
// capture settings.
func (c Config) Options() []dc1394.Option {
	return []dc1394.Option{
		dc1394.WithPort(c.Bus.Port),
		dc1394.WithNode(c.Bus.Node),
		dc1394.WithBuffers(c.Capture.Buffers),
		dc1394.WithDequeueTimeout(time.Duration(c.Capture.Timeout)),
	}
}
