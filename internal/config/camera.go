package config

import (
	"fmt"
	"sort"

	"github.com/rlhal/firewire/pkg/dc1394"
	"github.com/rlhal/firewire/pkg/frame"
)

// OpenCamera creates a camera on bus, opens it and applies the video format
// and feature settings. The camera is closed again if any step fails.
// opts are applied after the configured ones.
func (c Config) OpenCamera(bus dc1394.Bus, opts ...dc1394.Option) (*dc1394.Camera, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	cam := dc1394.New(bus, append(c.Options(), opts...)...)

	// Parse errors are ruled out by Validate.
	opMode, _ := dc1394.ParseOperationMode(c.Bus.OperationMode)
	speed, _ := dc1394.ParseIsoSpeed(c.Bus.Speed)
	if err := cam.SetOperationMode(opMode); err != nil {
		return nil, err
	}
	if err := cam.SetSpeed(speed); err != nil {
		return nil, err
	}

	if err := cam.Open(); err != nil {
		return nil, err
	}
	if err := c.configure(cam); err != nil {
		if closeErr := cam.Close(); closeErr != nil {
			logger.Warnf("failed to close %s: %v", cam.Identity(), closeErr)
		}
		return nil, err
	}
	return cam, nil
}

func (c Config) configure(cam *dc1394.Camera) error {
	if err := c.Video.apply(cam); err != nil {
		return err
	}

	names := make([]string, 0, len(c.Features))
	for name := range c.Features {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		f, _ := dc1394.ParseFeature(name)
		if err := c.Features[name].apply(cam, f); err != nil {
			return fmt.Errorf("feature %s: %w", name, err)
		}
	}
	return nil
}

func (v Video) apply(cam *dc1394.Camera) error {
	switch {
	case v.Format7 != nil:
		m, _ := dc1394.ParseVideoMode(v.Format7.Mode)
		coding, _ := frame.ParseColorCoding(v.Format7.ColorCoding)
		f := v.Format7
		if err := cam.SetFormat7(m, coding, f.Left, f.Top, f.Width, f.Height); err != nil {
			return err
		}
	case v.Mode != "":
		m, _ := dc1394.ParseVideoMode(v.Mode)
		if err := cam.SetVideoMode(m); err != nil {
			return err
		}
	}

	// Checked against the mode, if a fixed one was selected.
	rate, _ := dc1394.ParseFramerate(v.Framerate)
	return cam.SetFramerate(rate)
}

// apply writes the mode first and the values last.
func (f Feature) apply(cam *dc1394.Camera, feature dc1394.Feature) error {
	if f.Mode != nil {
		m, _ := dc1394.ParseFeatureMode(*f.Mode)
		if err := cam.SetFeatureMode(feature, m); err != nil {
			return err
		}
	}
	if f.Enabled != nil {
		if err := cam.SetFeatureEnabled(feature, *f.Enabled); err != nil {
			return err
		}
	}
	if f.Absolute != nil {
		if err := cam.SetFeatureAbsoluteControl(feature, *f.Absolute); err != nil {
			return err
		}
	}
	if f.Value != nil {
		if err := cam.SetFeatureValue(feature, *f.Value); err != nil {
			return err
		}
	}
	if f.AbsoluteValue != nil {
		if err := cam.SetFeatureValueAbsolute(feature, *f.AbsoluteValue); err != nil {
			return err
		}
	}
	return nil
}
